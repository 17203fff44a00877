package addon

import (
	"math"

	"github.com/SynapticNetworks/hummus/snntypes"
)

// ClassicalSTDPConfig holds the double-exponential STDP kernel parameters
// (spec.md §4.4, §8 invariant 4).
type ClassicalSTDPConfig struct {
	APot, ADep   float64
	TauPot, TauDep float64
	GMin, GMax   float64
}

// ClassicalSTDP implements the textbook spike-timing-dependent weight rule:
// a causal pairing (post fires after pre) potentiates along an exponential
// decaying in Δt = t_post − t_pre, an anti-causal pairing depresses along
// the mirrored exponential in pre's favor.
type ClassicalSTDP struct {
	BaseAddon
	cfg ClassicalSTDPConfig
}

// NewClassicalSTDP builds the rule bound to the given neuron mask.
func NewClassicalSTDP(mask *Mask, cfg ClassicalSTDPConfig) *ClassicalSTDP {
	if mask == nil {
		mask = NewMask()
	}
	mask.DoNotAutoInclude = true
	return &ClassicalSTDP{BaseAddon: NewBaseAddon(mask), cfg: cfg}
}

func (r *ClassicalSTDP) Learn(t float64, synID snntypes.SynapseID, post snntypes.NeuronID, net Network) {
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

	deltaT := t - pre.PrevSpikeTime

	var dw float64
	if deltaT >= 0 {
		dw = r.cfg.APot * math.Exp(-deltaT/r.cfg.TauPot)
	} else {
		dw = -r.cfg.ADep * math.Exp(deltaT/r.cfg.TauDep)
	}

	w := syn.Weight + dw
	if w < r.cfg.GMin {
		w = r.cfg.GMin
	}
	if w > r.cfg.GMax {
		w = r.cfg.GMax
	}
	syn.SetWeight(w)
}
