package neuron

import (
	"github.com/SynapticNetworks/hummus/event"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// updateParrot implements the Parrot state machine: pass input-spike
// events through unchanged to the axon terminals (spec.md §3).
func (n *Neuron) updateParrot(now float64, via snntypes.SynapseID, net Network, kind event.Kind) {
	if kind != event.KindInitial && kind != event.KindGenerated {
		return
	}
	net.NotifyIncomingSpike(now, via, n.ID)
	if syn := net.Synapse(via); syn != nil {
		syn.ReceiveSpike(now, net.RNG())
	}
	n.fire(now, via, net)
}
