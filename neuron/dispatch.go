package neuron

import (
	"math"

	"github.com/SynapticNetworks/hummus/event"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// membraneTau is the RC time constant derived from capacitance and leak
// conductance, the usual relation for a current-based LIF membrane.
func (n *Neuron) membraneTau() float64 {
	if n.LeakConductance == 0 {
		return n.TraceTimeConstant // degenerate guard; avoids division by zero
	}
	return n.Capacitance / n.LeakConductance
}

// MembraneTau exposes the RC time constant to packages outside neuron
// (the myelin-plasticity delay rule needs it to reject τ_MP == τ_m).
func (n *Neuron) MembraneTau() float64 {
	return n.membraneTau()
}

// Update drives the event-driven path (spec.md §4.3): now is the event's
// timestamp, via is the synapse the event arrived on, and kind is the
// dispatched event's Kind.
func (n *Neuron) Update(now float64, via snntypes.SynapseID, net Network, kind event.Kind) {
	switch n.Kind {
	case KindParrot:
		n.updateParrot(now, via, net, kind)
	case KindCUBALIF:
		n.updateCUBA(now, via, net, kind)
	case KindULPECInput:
		n.updateULPECInput(now, via, net, kind)
	case KindULPECLIF:
		n.updateULPECLIF(now, via, net, kind)
	case KindDecision:
		n.updateDecision(now, net, kind)
	case KindRegression:
		n.updateRegression(now, via, net, kind)
	}
}

// UpdateSync drives the clock-driven path, called once per tick on every
// neuron in every active layer (spec.md §4.6). kind is normally
// event.KindNone; it lets the same entry point also replay a real event
// that arrived exactly at this tick.
func (n *Neuron) UpdateSync(now float64, via snntypes.SynapseID, net Network, dt float64, kind event.Kind) {
	switch n.Kind {
	case KindCUBALIF:
		n.updateSyncCUBA(now, via, net, dt, kind)
	default:
		// Parrot, ULPEC, Decision and Regression neurons have no
		// independent decay law to advance between events; ticks without
		// a concrete event are no-ops for them.
		if kind != event.KindNone {
			n.Update(now, via, net, kind)
		}
	}
}

// checkRefractoryElapsed clears the time-based refractory flag once the
// refractory period has elapsed. Peer-gated refractory (CUBA.RefractoryByPeers)
// is cleared separately in fireInLayer.
func (n *Neuron) checkRefractoryElapsed(now float64) {
	if n.Refractory && !n.CUBA.RefractoryByPeers && now-n.PrevSpikeTime >= n.RefractoryPeriod {
		n.Refractory = false
	}
}

// fire executes the common firing sequence shared by every variant
// (spec.md §4.3 "Active, >= threshold" row): emit generated spikes, invoke
// learning rules, run winner-takes-all, record the decision label, reset
// current (unless bursting) and enter refractory.
func (n *Neuron) fire(now float64, via snntypes.SynapseID, net Network) {
	n.PrevSpikeTime = now

	for _, axID := range n.Axons {
		ax := net.Synapse(axID)
		if ax == nil {
			continue
		}
		target := net.NeuronPtr(ax.Post)
		if target != nil && !net.LayerActive(target.LayerID) {
			continue // generated spikes targeting an inactive layer are dropped (spec.md §4.6)
		}
		net.Schedule(event.Event{Timestamp: now + ax.Delay, SynapseID: uint32(axID), Kind: event.KindGenerated})
	}

	for _, dID := range n.Dendrites {
		net.NotifyLearn(now, dID, n.ID)
	}

	if n.Kind == KindCUBALIF && n.CUBA.WinnerTakesAll {
		n.fireInLayer(net)
	}

	label := net.CurrentLabel()
	if label != "" {
		n.DecisionQueue = append(n.DecisionQueue, label)
	}

	if !(n.Kind == KindCUBALIF && n.CUBA.Bursting) {
		n.Current = 0
	}

	n.Refractory = true
	n.RefractoryCounter = 0

	net.NotifyFired(now, via, n.ID)
}

// fireInLayer resets the potential of every other active neuron in this
// neuron's layer (winner-takes-all lateral inhibition, spec.md §4.3), and
// advances the peer-gated refractory counter of any peer whose refractory
// window is counted by peer firings rather than elapsed time.
func (n *Neuron) fireInLayer(net Network) {
	for _, peerID := range net.NeuronsInLayer(n.LayerID) {
		if peerID == n.ID {
			continue
		}
		peer := net.NeuronPtr(peerID)
		if peer == nil {
			continue
		}
		if peer.Refractory && peer.CUBA.RefractoryByPeers {
			peer.RefractoryCounter++
			if float64(peer.RefractoryCounter) >= peer.RefractoryPeriod {
				peer.Refractory = false
			}
			continue
		}
		peer.Potential = peer.RestingPotential
	}
}

// predictedCrossing solves algebraically for the time the membrane would
// cross threshold under pure exponential relaxation with a constant input
// current I, per spec.md §4.6. ok is false when no upward crossing is
// predictable (non-positive current, a non-positive numerator or
// denominator, or a ratio inside the log that is not greater than 1).
func predictedCrossing(tau, v, vRest, vTh, i, now float64) (t float64, ok bool) {
	if i <= 0 {
		return 0, false
	}
	num := i + vRest - v
	den := i + vRest - vTh
	if num <= 0 || den <= 0 || num <= den {
		return 0, false
	}
	return tau*math.Log(num/den) + now, true
}
