package addon

import (
	"github.com/SynapticNetworks/hummus/snntypes"
)

// ULPECSTDPConfig holds the memristor-programming plasticity parameters
// (spec.md §4.4).
type ULPECSTDPConfig struct {
	GMin, GMax       float64
	APot, ADep       float64
	ThresPot, ThresDep float64
}

// ULPECSTDP implements the ULPEC memristor-programming learning rule: on
// post-fire, every dendritic synapse is potentiated or depressed depending
// on whether the presynaptic neuron's last-injected voltage crossed one of
// two thresholds. It opts out of auto-inclusion since it must be bound to
// a specific post-synaptic layer by the topology builder.
type ULPECSTDP struct {
	BaseAddon
	cfg ULPECSTDPConfig
}

// NewULPECSTDP builds the rule bound to the given neuron mask.
func NewULPECSTDP(mask *Mask, cfg ULPECSTDPConfig) *ULPECSTDP {
	if mask == nil {
		mask = NewMask()
	}
	mask.DoNotAutoInclude = true
	return &ULPECSTDP{BaseAddon: NewBaseAddon(mask), cfg: cfg}
}

func (r *ULPECSTDP) Learn(t float64, synID snntypes.SynapseID, post snntypes.NeuronID, net Network) {
	if !r.Mask().Watches(post) {
		return
	}
	syn := net.Synapse(synID)
	if syn == nil {
		return
	}
	pre := net.NeuronPtr(syn.Pre)
	if pre == nil {
		return
	}

	v := pre.Potential
	w := syn.Weight

	switch {
	case v < r.cfg.ThresPot:
		w += r.cfg.APot * (r.cfg.GMax - w)
	case v > r.cfg.ThresDep:
		w -= r.cfg.ADep * (w - r.cfg.GMin)
	default:
		return
	}

	if w < r.cfg.GMin {
		w = r.cfg.GMin
	}
	if w > r.cfg.GMax {
		w = r.cfg.GMax
	}
	syn.SetWeight(w)
}
