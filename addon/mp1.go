package addon

import (
	"math"

	"github.com/SynapticNetworks/hummus/snntypes"
)

// MP1Config holds the myelin-plasticity v1 delay-learning parameter: the
// plasticity time constant τ_MP (spec.md §4.4).
type MP1Config struct {
	TauMP float64
}

// MP1 implements myelin plasticity v1: delay learning driven by the
// presynaptic trace. A synapse's delay only shifts while its presynaptic
// neuron's trace is still positive, and the trace is cleared afterward so
// each presynaptic spike contributes at most one delay update.
type MP1 struct {
	BaseAddon
	cfg MP1Config
}

// NewMP1 builds the rule bound to the given neuron mask.
func NewMP1(mask *Mask, cfg MP1Config) *MP1 {
	if mask == nil {
		mask = NewMask()
	}
	mask.DoNotAutoInclude = true
	return &MP1{BaseAddon: NewBaseAddon(mask), cfg: cfg}
}

func (r *MP1) Learn(t float64, synID snntypes.SynapseID, post snntypes.NeuronID, net Network) {
	if !r.Mask().Watches(post) {
		return
	}
	syn := net.Synapse(synID)
	if syn == nil {
		return
	}
	pre := net.NeuronPtr(syn.Pre)
	if pre == nil || pre.Trace <= 0 {
		return
	}

	tauM := pre.MembraneTau()
	if r.cfg.TauMP == tauM {
		return // rejected at learn-time: τ_MP == τ_m makes the driving term singular (spec.md §4.3).
	}

	delta := t - pre.PrevSpikeTime
	i := syn.SynapticCurrent
	shift := (i / (r.cfg.TauMP - tauM)) * (math.Exp(-delta/r.cfg.TauMP) - math.Exp(-delta/tauM))

	syn.IncrementDelay(shift)
	pre.Trace = 0
}
