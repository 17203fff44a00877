package addon

import (
	"math/rand"
	"testing"

	"github.com/SynapticNetworks/hummus/neuron"
	"github.com/SynapticNetworks/hummus/snntypes"
	"github.com/SynapticNetworks/hummus/synapse"
	"github.com/stretchr/testify/require"
)

// fakeNetwork is a minimal addon.Network double: just enough id-indexed
// lookups for a learning rule to find its pre/post neuron and synapse.
type fakeNetwork struct {
	now      float64
	rng      *rand.Rand
	synapses map[snntypes.SynapseID]*synapse.Synapse
	neurons  map[snntypes.NeuronID]*neuron.Neuron
	label    string
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{
		rng:      rand.New(rand.NewSource(1)),
		synapses: make(map[snntypes.SynapseID]*synapse.Synapse),
		neurons:  make(map[snntypes.NeuronID]*neuron.Neuron),
	}
}

func (f *fakeNetwork) Now() float64                               { return f.now }
func (f *fakeNetwork) RNG() *rand.Rand                             { return f.rng }
func (f *fakeNetwork) CurrentLabel() string                        { return f.label }
func (f *fakeNetwork) Synapse(id snntypes.SynapseID) *synapse.Synapse { return f.synapses[id] }
func (f *fakeNetwork) NeuronPtr(id snntypes.NeuronID) *neuron.Neuron  { return f.neurons[id] }

func TestULPECSTDPPotentiatesBelowThreshold(t *testing.T) {
	net := newFakeNetwork()
	pre := neuron.New(0, neuron.KindULPECInput, 0)
	pre.Potential = -1.5 // below thres_pot
	net.neurons[0] = pre

	syn, err := synapse.New(0, 0, 1, synapse.Config{Kernel: synapse.KernelMemristor, Weight: 0, TimeConstant: 1})
	require.NoError(t, err)
	net.synapses[0] = syn

	cfg := ULPECSTDPConfig{GMin: 0, GMax: 1e-6, APot: 0.1, ADep: 0.1, ThresPot: -1.2, ThresDep: 1.2}
	rule := NewULPECSTDP(NewMask(1), cfg)

	rule.Learn(0, 0, 1, net)

	require.InDelta(t, cfg.GMin+cfg.APot*(cfg.GMax-cfg.GMin), syn.Weight, 1e-15)
	require.GreaterOrEqual(t, syn.Weight, cfg.GMin)
	require.LessOrEqual(t, syn.Weight, cfg.GMax)
}

func TestULPECSTDPDepressesAboveThreshold(t *testing.T) {
	net := newFakeNetwork()
	pre := neuron.New(0, neuron.KindULPECInput, 0)
	pre.Potential = 2.0 // above thres_dep
	net.neurons[0] = pre

	syn, err := synapse.New(0, 0, 1, synapse.Config{Kernel: synapse.KernelMemristor, Weight: 1e-6, TimeConstant: 1})
	require.NoError(t, err)
	net.synapses[0] = syn

	cfg := ULPECSTDPConfig{GMin: 0, GMax: 1e-6, APot: 0.1, ADep: 0.3, ThresPot: -1.2, ThresDep: 1.2}
	rule := NewULPECSTDP(NewMask(1), cfg)

	rule.Learn(0, 0, 1, net)

	require.InDelta(t, cfg.GMax-cfg.ADep*(cfg.GMax-cfg.GMin), syn.Weight, 1e-15)
}

func TestULPECSTDPClampsToBounds(t *testing.T) {
	net := newFakeNetwork()
	pre := neuron.New(0, neuron.KindULPECInput, 0)
	pre.Potential = -5 // far below thres_pot
	net.neurons[0] = pre

	syn, err := synapse.New(0, 0, 1, synapse.Config{Kernel: synapse.KernelMemristor, Weight: 9e-7, TimeConstant: 1})
	require.NoError(t, err)
	net.synapses[0] = syn

	// APot > 1 makes the unclamped update overshoot GMax; Learn must clamp it back.
	cfg := ULPECSTDPConfig{GMin: 0, GMax: 1e-6, APot: 5, ADep: 0.1, ThresPot: -1.2, ThresDep: 1.2}
	rule := NewULPECSTDP(NewMask(1), cfg)

	rule.Learn(0, 0, 1, net)

	require.Equal(t, cfg.GMax, syn.Weight)
}

func TestClassicalSTDPSignFollowsDeltaT(t *testing.T) {
	net := newFakeNetwork()
	pre := neuron.New(0, neuron.KindCUBALIF, 0)
	pre.PrevSpikeTime = 10
	net.neurons[0] = pre

	syn, err := synapse.New(0, 0, 1, synapse.Config{Kernel: synapse.KernelDirac, Weight: 0.5})
	require.NoError(t, err)
	net.synapses[0] = syn

	cfg := ClassicalSTDPConfig{APot: 0.1, ADep: 0.1, TauPot: 20, TauDep: 20, GMin: 0, GMax: 1}
	rule := NewClassicalSTDP(NewMask(1), cfg)

	// Causal: post fires after pre (t=12 > pre_spike=10) -> potentiation.
	rule.Learn(12, 0, 1, net)
	require.Greater(t, syn.Weight, 0.5)

	syn.SetWeight(0.5)
	pre.PrevSpikeTime = 12
	// Anti-causal: post fires before pre (t=10 < pre_spike=12) -> depression.
	rule.Learn(10, 0, 1, net)
	require.Less(t, syn.Weight, 0.5)
}

func TestMP1RejectsEqualTauAtLearnTime(t *testing.T) {
	net := newFakeNetwork()
	pre := neuron.New(0, neuron.KindCUBALIF, 0)
	pre.Capacitance = 20
	pre.LeakConductance = 1 // membrane tau == 20
	pre.Trace = 1
	pre.PrevSpikeTime = 0
	net.neurons[0] = pre

	syn, err := synapse.New(0, 0, 1, synapse.Config{Kernel: synapse.KernelDirac, Weight: 1, Delay: 5})
	require.NoError(t, err)
	syn.SynapticCurrent = 2
	net.synapses[0] = syn

	rule := NewMP1(NewMask(1), MP1Config{TauMP: 20}) // equals pre's membrane tau
	before := syn.Delay

	rule.Learn(1, 0, 1, net)

	require.Equal(t, before, syn.Delay)
	require.Equal(t, 1.0, pre.Trace) // untouched: the rule bailed out before clearing it.
}

func TestMP1ShiftsDelayWhenTauDiffers(t *testing.T) {
	net := newFakeNetwork()
	pre := neuron.New(0, neuron.KindCUBALIF, 0)
	pre.Capacitance = 20
	pre.LeakConductance = 1 // membrane tau == 20
	pre.Trace = 1
	pre.PrevSpikeTime = 0
	net.neurons[0] = pre

	syn, err := synapse.New(0, 0, 1, synapse.Config{Kernel: synapse.KernelDirac, Weight: 1, Delay: 5})
	require.NoError(t, err)
	syn.SynapticCurrent = 2
	net.synapses[0] = syn

	rule := NewMP1(NewMask(1), MP1Config{TauMP: 40})
	rule.Learn(1, 0, 1, net)

	require.NotEqual(t, 5.0, syn.Delay)
	require.Equal(t, 0.0, pre.Trace)
}

func TestMaskWatchesEmptyMeansAll(t *testing.T) {
	var m *Mask
	require.True(t, m.Watches(123)) // nil mask watches everything

	empty := NewMask()
	require.True(t, empty.Watches(1))
	require.True(t, empty.Watches(99))

	optedOut := NewMask()
	optedOut.DoNotAutoInclude = true
	require.False(t, optedOut.Watches(1))

	scoped := NewMask(5, 6)
	require.True(t, scoped.Watches(5))
	require.False(t, scoped.Watches(7))
}
