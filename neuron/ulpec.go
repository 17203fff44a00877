package neuron

import (
	"github.com/SynapticNetworks/hummus/event"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// ULPEC hardware-programming waveform offsets (spec.md §4.3), fixed by the
// hardware the model reproduces rather than being tunable per neuron.
const (
	ulpecTriggerDownOffset     = 12e-6
	ulpecTriggerDownToUpOffset = 14e-6
)

// updateULPECInput implements the ULPEC-Input state machine: an incoming
// spike schedules a TriggerUp at now and an EndOfIntegration at
// now+TauDownEvent on the synapse it arrived on (marking the pulse window),
// and fires, so the downstream ULPEC-LIF layer receives Generated events
// along this neuron's axons (spec.md §3).
func (n *Neuron) updateULPECInput(now float64, via snntypes.SynapseID, net Network, kind event.Kind) {
	switch kind {
	case event.KindInitial, event.KindGenerated:
		net.NotifyIncomingSpike(now, via, n.ID)
		net.Schedule(event.Event{Timestamp: now, SynapseID: uint32(via), Kind: event.KindTriggerUp})
		net.Schedule(event.Event{Timestamp: now + n.ULPEC.TauDownEvent, SynapseID: uint32(via), Kind: event.KindEndOfIntegration})
		n.fire(now, via, net)
	case event.KindTriggerUp, event.KindEndOfIntegration:
		// Bookkeeping only; the waveform itself is carried by the
		// generated events fire() already emitted.
	}
}

// updateULPECLIF implements the ULPEC-LIF state machine: integrates the
// voltage waveform from a Memristor-kernel dendrite, fires on threshold
// crossing, and on firing schedules the hardware programming waveform
// (TriggerDown -> TriggerDownToUp -> EndTriggerUp/EndTriggerDown) back onto
// every dendritic synapse to implement the on-chip STDP window
// (spec.md §4.3).
func (n *Neuron) updateULPECLIF(now float64, via snntypes.SynapseID, net Network, kind event.Kind) {
	n.checkRefractoryElapsed(now)

	switch kind {
	case event.KindInitial, event.KindGenerated:
		net.NotifyIncomingSpike(now, via, n.ID)
		n.decayMembrane(now)
		syn := net.Synapse(via)
		if syn == nil {
			return
		}
		if n.ULPEC.SkipAfterPost && n.ULPEC.waveformDue {
			return // fast-forward past this presentation; a waveform is already in flight.
		}
		contribution := syn.ReceiveSpike(now, net.RNG())
		n.Potential += contribution / n.Capacitance
		n.PrevInputTime = now
		if !n.Refractory && n.Potential >= n.Threshold {
			n.fireULPEC(now, via, net)
		}

	case event.KindTriggerDown, event.KindTriggerDownToUp, event.KindEndTriggerUp:
		// Programming stages in flight; nothing to integrate.

	case event.KindEndTriggerDown:
		n.ULPEC.waveformDue = false
	}
}

// fireULPEC runs the common firing sequence and then schedules the
// hardware programming waveform on every dendritic synapse.
func (n *Neuron) fireULPEC(now float64, via snntypes.SynapseID, net Network) {
	n.fire(now, via, net)
	n.ULPEC.waveformDue = true
	for _, dID := range n.Dendrites {
		net.Schedule(event.Event{Timestamp: now + ulpecTriggerDownOffset, SynapseID: uint32(dID), Kind: event.KindTriggerDown})
		net.Schedule(event.Event{Timestamp: now + ulpecTriggerDownToUpOffset, SynapseID: uint32(dID), Kind: event.KindTriggerDownToUp})
		net.Schedule(event.Event{Timestamp: now + n.ULPEC.TauUp, SynapseID: uint32(dID), Kind: event.KindEndTriggerUp})
		net.Schedule(event.Event{Timestamp: now + n.ULPEC.TauDownSpike, SynapseID: uint32(dID), Kind: event.KindEndTriggerDown})
	}
}
