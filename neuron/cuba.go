package neuron

import (
	"math"

	"github.com/SynapticNetworks/hummus/event"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// updateCUBA implements the CUBA-LIF state machine's event-driven path
// (spec.md §4.3's canonical table).
func (n *Neuron) updateCUBA(now float64, via snntypes.SynapseID, net Network, kind event.Kind) {
	n.checkRefractoryElapsed(now)

	switch kind {
	case event.KindInitial, event.KindGenerated:
		net.NotifyIncomingSpike(now, via, n.ID)
		n.decayMembrane(now)

		syn := net.Synapse(via)
		if syn == nil {
			return
		}
		contribution := syn.ReceiveSpike(now, net.RNG())
		n.Current += contribution
		n.Potential += contribution / n.Capacitance
		n.PrevInputTime = now
		n.applyHomeostasisBump()

		net.Schedule(event.Event{
			Timestamp: now + syn.TimeConstant,
			SynapseID: uint32(via),
			Kind:      event.KindEndOfIntegration,
		})

		if net.EventDriven() && n.Current > 0 {
			tau := n.membraneTau()
			if t, ok := predictedCrossing(tau, n.Potential, n.RestingPotential, n.Threshold, n.Current, now); ok && t <= now+syn.TimeConstant {
				net.Schedule(event.Event{Timestamp: t, SynapseID: uint32(via), Kind: event.KindPrediction})
			}
		}

		n.maybeFire(now, via, net)

	case event.KindPrediction, event.KindEndOfIntegration:
		// Recompute potential at the scheduled time (spec.md §4.3): the
		// current's instantaneous contribution was already folded in when
		// it arrived, so this only advances membrane decay and lets the
		// kernel's own bookkeeping (Square's pulse reset, Exponential's
		// decay register) catch up to now — it must not re-inject current
		// into the potential a second time.
		n.decayMembrane(now)
		if syn := net.Synapse(via); syn != nil {
			syn.Update(now)
			n.PrevInputTime = now
		}
		n.maybeFire(now, via, net)

	default:
		// None and any other kind reaching a CUBA-LIF neuron are no-ops.
	}
}

// updateSyncCUBA implements the clock-driven path: advance decay laws
// every tick, and fold in whatever event (if any) landed exactly on this
// tick.
func (n *Neuron) updateSyncCUBA(now float64, via snntypes.SynapseID, net Network, dt float64, kind event.Kind) {
	n.checkRefractoryElapsed(now)
	n.decayMembrane(now)
	n.decayHomeostasis(dt)

	if kind != event.KindNone {
		n.updateCUBA(now, via, net, kind)
		return
	}
	n.maybeFire(now, via, net)
}

// decayMembrane advances potential and trace by exp(-Δt/τ) since the last
// time this neuron's state was touched.
func (n *Neuron) decayMembrane(now float64) {
	dt := now - n.PrevInputTime
	if dt <= 0 {
		return
	}
	tau := n.membraneTau()
	n.Potential = n.RestingPotential + (n.Potential-n.RestingPotential)*math.Exp(-dt/tau)
	if n.TraceTimeConstant > 0 {
		n.Trace *= math.Exp(-dt / n.TraceTimeConstant)
	}
}

// maybeFire fires the neuron if its potential has reached threshold and it
// is not refractory.
func (n *Neuron) maybeFire(now float64, via snntypes.SynapseID, net Network) {
	if n.Refractory {
		return
	}
	if n.Potential >= n.Threshold {
		n.Trace = 1
		n.fire(now, via, net)
	}
}

// applyHomeostasisBump bumps the threshold by β/τ_h on every accepted
// input, per spec.md §4.3.
func (n *Neuron) applyHomeostasisBump() {
	if !n.CUBA.Homeostasis || n.CUBA.HomeostasisTau <= 0 {
		return
	}
	n.Threshold += n.CUBA.HomeostasisBeta / n.CUBA.HomeostasisTau
}

// decayHomeostasis relaxes the threshold toward RestingThreshold at rate
// 1/τ_h, evaluated once per clock tick. Only meaningful in clock-driven
// mode (spec.md §9); Initialise rejects Homeostasis+event-driven.
func (n *Neuron) decayHomeostasis(dt float64) {
	if !n.CUBA.Homeostasis || n.CUBA.HomeostasisTau <= 0 {
		return
	}
	n.Threshold += (n.RestingThreshold - n.Threshold) * (dt / n.CUBA.HomeostasisTau)
}
