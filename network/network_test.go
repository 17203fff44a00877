package network

import (
	"testing"

	"github.com/SynapticNetworks/hummus/addon"
	"github.com/SynapticNetworks/hummus/event"
	"github.com/SynapticNetworks/hummus/neuron"
	"github.com/SynapticNetworks/hummus/snntypes"
	"github.com/SynapticNetworks/hummus/synapse"
	"github.com/SynapticNetworks/hummus/topology"
	"github.com/stretchr/testify/require"
)

// spikeRecorder is a tiny addon that records every (timestamp, neuron)
// pair a NeuronFired hook reports, in call order, for assertions about
// dispatch ordering and firing counts.
type spikeRecorder struct {
	addon.BaseAddon
	fires []fireRecord
}

type fireRecord struct {
	t    float64
	post snntypes.NeuronID
}

func newSpikeRecorder() *spikeRecorder {
	return &spikeRecorder{BaseAddon: addon.NewBaseAddon(nil)}
}

func (s *spikeRecorder) NeuronFired(t float64, syn snntypes.SynapseID, post snntypes.NeuronID, net addon.Network) {
	s.fires = append(s.fires, fireRecord{t: t, post: post})
}

// setLIFParams configures a CUBA-LIF neuron with the common resting/
// threshold values the scenario tests below build on.
func setLIFParams(n *neuron.Neuron, capacitance, leak, threshold, refractory float64) {
	n.RestingPotential = -70
	n.Potential = -70
	n.Threshold = threshold
	n.Capacitance = capacitance
	n.LeakConductance = leak
	n.RefractoryPeriod = refractory
}

// driveSynapse builds a synapse whose only purpose is an injection handle
// targeting post: its presynaptic side is an isolated placeholder neuron
// with no outgoing synapses of its own, so driving post through it can
// never create a feedback loop back through the placeholder.
func driveSynapse(net *Network, layer snntypes.LayerID, post snntypes.NeuronID) snntypes.SynapseID {
	placeholder := net.NewNeuron(neuron.KindParrot, layer)
	id, err := net.NewSynapse(placeholder.ID, post, synapse.Config{Kernel: synapse.KernelDirac})
	if err != nil {
		panic(err)
	}
	return id
}

// TestParrotPassThroughCrossesThreshold exercises the Parrot -> CUBA-LIF
// pass-through path (spec.md §8 scenario S1): an external spike drives the
// Parrot neuron, which relays it (delayed and weighted by a Dirac synapse)
// to a CUBA-LIF neuron whose potential then crosses threshold and it fires
// exactly once, at the delayed arrival time.
func TestParrotPassThroughCrossesThreshold(t *testing.T) {
	net := New(true, 1)
	rec := newSpikeRecorder()
	net.RegisterAddon(rec)

	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	hidden := topology.MakeLayer(net, 1, neuron.KindCUBALIF)
	setLIFParams(net.NeuronPtr(hidden.Neurons[0]), 1, 1, -50, 0.05)

	_, err := net.NewSynapse(input.Neurons[0], hidden.Neurons[0], synapse.Config{
		Weight: 30, Delay: 5, Kernel: synapse.KernelDirac,
	})
	require.NoError(t, err)
	driveSyn := driveSynapse(net, input.ID, input.Neurons[0])
	require.NoError(t, net.Initialise())

	net.InjectSpike(10, driveSyn)
	net.Run(50, 0)

	require.Len(t, rec.fires, 2)
	require.Equal(t, input.Neurons[0], rec.fires[0].post)
	require.InDelta(t, 10, rec.fires[0].t, 1e-9)
	require.Equal(t, hidden.Neurons[0], rec.fires[1].post)
	require.InDelta(t, 15, rec.fires[1].t, 1e-9)
}

// TestFIFOTieBreakAtEqualTimestamp exercises invariant 1 and the
// zero-delay boundary case together (spec.md §8 scenario S2): two
// zero-delay synapses feeding the same moment are dispatched in the order
// their spikes were injected, not reordered by id or any other key.
func TestFIFOTieBreakAtEqualTimestamp(t *testing.T) {
	net := New(true, 1)
	rec := newSpikeRecorder()
	net.RegisterAddon(rec)

	// input supplies presynaptic identities only; leaves are the neurons
	// that actually fire, and carry no outgoing synapses of their own so
	// firing them produces no further events.
	input := topology.MakeLayer(net, 2, neuron.KindParrot)
	leaves := topology.MakeLayer(net, 2, neuron.KindParrot)

	synB, err := net.NewSynapse(input.Neurons[1], leaves.Neurons[1], synapse.Config{Kernel: synapse.KernelDirac})
	require.NoError(t, err)
	synA, err := net.NewSynapse(input.Neurons[0], leaves.Neurons[0], synapse.Config{Kernel: synapse.KernelDirac})
	require.NoError(t, err)
	require.NoError(t, net.Initialise())

	// Inject B's spike first, then A's, both at the same timestamp: FIFO
	// order is insertion order, independent of synapse/neuron id.
	net.InjectSpike(0, synB)
	net.InjectSpike(0, synA)
	net.Run(1, 0)

	require.Len(t, rec.fires, 2)
	require.Equal(t, leaves.Neurons[1], rec.fires[0].post)
	require.Equal(t, leaves.Neurons[0], rec.fires[1].post)
}

// TestRefractoryZeroAllowsConsecutiveFiring is a boundary case (spec.md
// §8 "Boundaries"): a refractory period of zero must never block a second
// threshold crossing, however soon after the first.
func TestRefractoryZeroAllowsConsecutiveFiring(t *testing.T) {
	net := New(true, 1)
	rec := newSpikeRecorder()
	net.RegisterAddon(rec)

	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	hidden := topology.MakeLayer(net, 1, neuron.KindCUBALIF)
	setLIFParams(net.NeuronPtr(hidden.Neurons[0]), 1, 1, -50, 0)

	synID, err := net.NewSynapse(input.Neurons[0], hidden.Neurons[0], synapse.Config{
		Weight: 30, Kernel: synapse.KernelDirac,
	})
	require.NoError(t, err)
	require.NoError(t, net.Initialise())

	net.InjectSpike(0, synID)
	net.InjectSpike(0.001, synID)
	net.Run(1, 0)

	// A zero refractory period must never withhold the second spike train's
	// firing; exactly how many bookkeeping re-checks also cross threshold
	// in between is not pinned down here, only that firing is never stuck.
	require.GreaterOrEqual(t, len(rec.fires), 2)
	require.GreaterOrEqual(t, rec.fires[len(rec.fires)-1].t, 0.001)
}

// TestEmptyAxonListProducesNoEvents is a boundary case (spec.md §8
// "Boundaries"): a neuron with no outgoing synapses fires without
// scheduling any downstream event and without panicking.
func TestEmptyAxonListProducesNoEvents(t *testing.T) {
	net := New(true, 1)
	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	require.NoError(t, net.Initialise())

	// No synapse at all: InjectSpike needs a synapse id to route through,
	// so we exercise the no-axon path directly via a synapse into a fresh
	// neuron that itself has no axons.
	lonely := net.NewNeuron(neuron.KindParrot, input.ID)
	synID, err := net.NewSynapse(input.Neurons[0], lonely.ID, synapse.Config{Kernel: synapse.KernelDirac})
	require.NoError(t, err)

	net.InjectSpike(0, synID)
	require.NotPanics(t, func() { net.Run(1, 0) })
	require.Equal(t, 0, net.queue.Len())
}

// TestResetNetworkRestoresDefaults exercises invariant 3 (spec.md §8):
// after activity, reset_network() restores resting potential, a zeroed
// trace and current, and an empty event queue.
func TestResetNetworkRestoresDefaults(t *testing.T) {
	net := New(true, 1)
	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	hidden := topology.MakeLayer(net, 1, neuron.KindCUBALIF)
	hiddenN := net.NeuronPtr(hidden.Neurons[0])
	setLIFParams(hiddenN, 1, 1, -50, 0.05)

	synID, err := net.NewSynapse(input.Neurons[0], hidden.Neurons[0], synapse.Config{Weight: 5, Kernel: synapse.KernelDirac})
	require.NoError(t, err)
	require.NoError(t, net.Initialise())

	net.InjectSpike(0, synID)
	net.InjectSpike(5, synID)
	net.Run(20, 0)
	require.NotEqual(t, hiddenN.RestingPotential, hiddenN.Potential)

	net.ResetNetwork()

	require.Equal(t, hiddenN.RestingPotential, hiddenN.Potential)
	require.Equal(t, 0.0, hiddenN.Trace)
	require.Equal(t, 0.0, hiddenN.Current)
	require.Equal(t, 0, net.queue.Len())
}

// TestWinnerTakesAllInhibitsPeers exercises scenario S5 (spec.md §8): of
// two competing CUBA-LIF neurons with winner-takes-all enabled, the one
// driven by the stronger synapse fires and resets its peer's potential
// back to rest before the peer can cross threshold on its own.
func TestWinnerTakesAllInhibitsPeers(t *testing.T) {
	net := New(true, 1)
	rec := newSpikeRecorder()
	net.RegisterAddon(rec)

	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	hidden := topology.MakeLayer(net, 2, neuron.KindCUBALIF)
	strong, weak := net.NeuronPtr(hidden.Neurons[0]), net.NeuronPtr(hidden.Neurons[1])
	for _, n := range []*neuron.Neuron{strong, weak} {
		setLIFParams(n, 1, 1, -50, 0.05)
		n.CUBA.WinnerTakesAll = true
	}

	strongSyn, err := net.NewSynapse(input.Neurons[0], strong.ID, synapse.Config{Weight: 30, Kernel: synapse.KernelDirac})
	require.NoError(t, err)
	weakSyn, err := net.NewSynapse(input.Neurons[0], weak.ID, synapse.Config{Weight: 10, Kernel: synapse.KernelDirac})
	require.NoError(t, err)
	require.NoError(t, net.Initialise())

	// Drive weak first so its potential rises (but stays sub-threshold),
	// then drive strong, which crosses threshold and must reset weak's
	// now-elevated potential back to rest via lateral inhibition.
	net.InjectSpike(0, weakSyn)
	net.InjectSpike(0, strongSyn)
	net.Run(5, 0)

	require.Len(t, rec.fires, 1)
	require.Equal(t, strong.ID, rec.fires[0].post)
	require.Equal(t, weak.RestingPotential, weak.Potential)
}

// TestLayerDeactivationDropsGeneratedSpikes exercises scenario S6
// (spec.md §8): generated spikes targeting a deactivated layer are
// dropped, and reactivating the layer lets subsequent spikes through
// again.
func TestLayerDeactivationDropsGeneratedSpikes(t *testing.T) {
	net := New(true, 1)
	rec := newSpikeRecorder()
	net.RegisterAddon(rec)

	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	classifier := topology.MakeLayer(net, 1, neuron.KindParrot)

	_, err := net.NewSynapse(input.Neurons[0], classifier.Neurons[0], synapse.Config{Kernel: synapse.KernelDirac})
	require.NoError(t, err)
	driveSyn := driveSynapse(net, input.ID, input.Neurons[0])
	require.NoError(t, net.Initialise())

	net.DeactivateLayer(classifier.ID)
	net.InjectSpike(0, driveSyn)
	net.Run(1, 0)
	require.Len(t, rec.fires, 1) // only the input (Parrot) neuron fired
	require.Equal(t, input.Neurons[0], rec.fires[0].post)

	net.ActivateLayer(classifier.ID)
	net.InjectSpike(0, driveSyn)
	net.Run(2, 0)
	require.Len(t, rec.fires, 3) // input fires again, and this time so does the classifier
	require.Equal(t, classifier.Neurons[0], rec.fires[2].post)
}

// TestDecisionMajorityVoteFiresMatchingLabel exercises the Decision
// neuron's vote-and-fire path (spec.md §4.3): a presynaptic neuron that
// fired while a label was current contributes that label to the decision
// vote, and the decision neuron fires when its own class_label wins the
// majority.
func TestDecisionMajorityVoteFiresMatchingLabel(t *testing.T) {
	net := New(true, 1)
	rec := newSpikeRecorder()
	net.RegisterAddon(rec)

	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	decision := topology.MakeDecision(net, []string{"cat"})

	_, err := net.NewSynapse(input.Neurons[0], decision.Neurons[0], synapse.Config{Kernel: synapse.KernelDirac})
	require.NoError(t, err)
	driveSyn := driveSynapse(net, input.ID, input.Neurons[0])
	require.NoError(t, net.Initialise())

	net.SetCurrentLabel("cat")
	net.InjectSpike(0, driveSyn)
	net.Run(0.5, 0)

	net.PushEvent(event.Event{Timestamp: net.Now(), SynapseID: uint32(decision.ID), Kind: event.KindDecision})
	net.Run(1, 0)

	require.Equal(t, decision.Neurons[0], rec.fires[len(rec.fires)-1].post)
}

// decisionFailedCounter counts DecisionFailed notifications, for asserting
// that a multi-class decision layer reports failure at most once per
// dispatch even though several non-winning candidates share the dispatch.
type decisionFailedCounter struct {
	addon.BaseAddon
	count int
}

func (c *decisionFailedCounter) DecisionFailed(t float64, net addon.Network) { c.count++ }

// TestDecisionMultiClassFansOutWithoutSpuriousFailures exercises a decision
// layer with more than one class label (spec.md §4.4): only the neuron whose
// class_label matches the layer-wide vote winner fires, and
// decision_failed is reported zero times — not once per non-winning
// candidate — because the whole pattern did find a winner.
func TestDecisionMultiClassFansOutWithoutSpuriousFailures(t *testing.T) {
	net := New(true, 1)
	rec := newSpikeRecorder()
	net.RegisterAddon(rec)
	failed := &decisionFailedCounter{}
	net.RegisterAddon(failed)

	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	decision := topology.MakeDecision(net, []string{"cat", "dog", "bird"})

	for _, post := range decision.Neurons {
		_, err := net.NewSynapse(input.Neurons[0], post, synapse.Config{Kernel: synapse.KernelDirac})
		require.NoError(t, err)
	}
	driveSyn := driveSynapse(net, input.ID, input.Neurons[0])
	require.NoError(t, net.Initialise())

	net.SetCurrentLabel("cat")
	net.InjectSpike(0, driveSyn)
	net.Run(0.5, 0)

	net.PushEvent(event.Event{Timestamp: net.Now(), SynapseID: uint32(decision.ID), Kind: event.KindDecision})
	net.Run(1, 0)

	require.Equal(t, 0, failed.count)
	var decisionFires []snntypes.NeuronID
	for _, f := range rec.fires {
		for _, id := range decision.Neurons {
			if f.post == id {
				decisionFires = append(decisionFires, f.post)
			}
		}
	}
	require.Equal(t, []snntypes.NeuronID{decision.Neurons[0]}, decisionFires) // only "cat" fires
}

// TestDecisionMultiClassReportsFailureOnlyOnceWhenNoWinner exercises the
// other half of spec.md §4.4: when the layer's winning label matches none
// of the candidates' class_labels, decision_failed fires exactly once for
// the whole dispatch, not once per candidate that failed to match.
func TestDecisionMultiClassReportsFailureOnlyOnceWhenNoWinner(t *testing.T) {
	net := New(true, 1)
	rec := newSpikeRecorder()
	net.RegisterAddon(rec)
	failed := &decisionFailedCounter{}
	net.RegisterAddon(failed)

	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	decision := topology.MakeDecision(net, []string{"cat", "dog", "bird"})

	for _, post := range decision.Neurons {
		_, err := net.NewSynapse(input.Neurons[0], post, synapse.Config{Kernel: synapse.KernelDirac})
		require.NoError(t, err)
	}
	driveSyn := driveSynapse(net, input.ID, input.Neurons[0])
	require.NoError(t, net.Initialise())

	net.SetCurrentLabel("fish") // no candidate in the layer carries this label
	net.InjectSpike(0, driveSyn)
	net.Run(0.5, 0)

	net.PushEvent(event.Event{Timestamp: net.Now(), SynapseID: uint32(decision.ID), Kind: event.KindDecision})
	net.Run(1, 0)

	require.Equal(t, 1, failed.count)
	for _, f := range rec.fires {
		for _, id := range decision.Neurons {
			require.NotEqual(t, id, f.post) // no candidate fired
		}
	}
}

// buildIsolatedLIF wires a single Parrot -> CUBA-LIF pair with a Dirac
// synapse strong enough to cross threshold on its own, so the fire is an
// immediate, unambiguous threshold crossing rather than one that depends on
// the continuous-current predictive-crossing machinery. The refractory
// period outlasts the whole run so the clock-driven loop's per-tick
// no-event sweep (which re-checks maybeFire every tick, not just on real
// events) can never produce a second, spurious fire out of membrane decay
// alone.
func buildIsolatedLIF(net *Network) (hiddenID snntypes.NeuronID, driveSyn snntypes.SynapseID) {
	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	hidden := topology.MakeLayer(net, 1, neuron.KindCUBALIF)
	setLIFParams(net.NeuronPtr(hidden.Neurons[0]), 1, 1, -50, 10)

	_, err := net.NewSynapse(input.Neurons[0], hidden.Neurons[0], synapse.Config{
		Weight: 30, Kernel: synapse.KernelDirac,
	})
	if err != nil {
		panic(err)
	}
	syn := driveSynapse(net, input.ID, input.Neurons[0])
	return hidden.Neurons[0], syn
}

// TestEventDrivenAndClockDrivenAgreeOnFireTimestamps exercises invariant 5
// (spec.md §8): for a fixed input spike train into an isolated CUBA-LIF
// neuron, the set of genuine fire events (excluding the predictive/
// end-of-integration bookkeeping events that never reach NeuronFired) is
// identical between the event-driven and clock-driven run loops. The input
// spike crosses threshold outright on arrival, so neither mode's result
// depends on decay timing — only on whether the two loops dispatch the
// same real-timestamp event to the same neuron, which invariant 5 requires
// regardless of dt.
func TestEventDrivenAndClockDrivenAgreeOnFireTimestamps(t *testing.T) {
	evNet := New(true, 1)
	evRec := newSpikeRecorder()
	evNet.RegisterAddon(evRec)
	evHidden, evDrive := buildIsolatedLIF(evNet)
	require.NoError(t, evNet.Initialise())
	evNet.InjectSpike(1, evDrive)
	evNet.Run(5, 0)

	ckNet := New(false, 1)
	ckRec := newSpikeRecorder()
	ckNet.RegisterAddon(ckRec)
	ckHidden, ckDrive := buildIsolatedLIF(ckNet)
	require.NoError(t, ckNet.Initialise())
	ckNet.InjectSpike(1, ckDrive)
	ckNet.Run(5, 0.01)

	var evFires, ckFires []float64
	for _, f := range evRec.fires {
		if f.post == evHidden {
			evFires = append(evFires, f.t)
		}
	}
	for _, f := range ckRec.fires {
		if f.post == ckHidden {
			ckFires = append(ckFires, f.t)
		}
	}

	require.Len(t, evFires, 1)
	require.Len(t, ckFires, 1)
	require.InDelta(t, evFires[0], ckFires[0], 1e-9)
}

// TestULPECSTDPPotentiatesThroughFullNetwork exercises scenario S3
// (spec.md §8): an ULPEC-Input drives an ULPEC-LIF through a Memristor
// synapse; once the LIF fires, the registered ULPECSTDP rule potentiates
// the dendrite because the input's last potential sat below thres_pot.
func TestULPECSTDPPotentiatesThroughFullNetwork(t *testing.T) {
	net := New(true, 1)

	input := topology.MakeLayer(net, 1, neuron.KindULPECInput)
	hidden := topology.MakeLayer(net, 1, neuron.KindULPECLIF)
	lif := net.NeuronPtr(hidden.Neurons[0])
	lif.Capacitance = 1
	lif.Threshold = 1e-7

	cfg := addon.ULPECSTDPConfig{GMin: 0, GMax: 1e-6, APot: 0.1, ADep: 0.05, ThresPot: -1.2, ThresDep: 1.2}
	rule := addon.NewULPECSTDP(addon.NewMask(hidden.Neurons[0]), cfg)
	net.RegisterAddon(rule)

	synID, err := net.NewSynapse(input.Neurons[0], hidden.Neurons[0], synapse.Config{
		Kernel: synapse.KernelMemristor, Weight: cfg.GMin, ExternalCurrent: 1e-6, TimeConstant: 1,
	})
	require.NoError(t, err)
	driveSyn := driveSynapse(net, input.ID, input.Neurons[0])
	require.NoError(t, net.Initialise())

	// Simulate the input's last-driven voltage sitting below thres_pot, the
	// condition the rule reads at learn time.
	net.NeuronPtr(input.Neurons[0]).Potential = -2

	net.InjectSpike(0, driveSyn)
	net.Run(1, 0)

	require.InDelta(t, cfg.GMin+cfg.APot*(cfg.GMax-cfg.GMin), net.Synapse(synID).Weight, 1e-15)
}

// thresholdTrace is an addon.Addon that samples a single neuron's Threshold
// once per clock tick, for assertions about homeostasis's convergence
// trajectory (spec.md §8 scenario S4).
type thresholdTrace struct {
	addon.BaseAddon
	target snntypes.NeuronID
	vals   []float64
}

func (tr *thresholdTrace) Timestep(t float64, post snntypes.NeuronID, net addon.Network) {
	tr.vals = append(tr.vals, net.NeuronPtr(tr.target).Threshold)
}

// TestHomeostasisThresholdConvergesMonotonically exercises scenario S4
// (spec.md §8): a clock-driven CUBA-LIF with homeostasis enabled, driven by
// a constant-rate, sub-threshold-contribution input (so the neuron itself
// never fires and only the homeostasis bump/decay pair moves Threshold),
// settles toward a fixed point without overshooting: every per-tick
// increment is non-negative and no larger than the previous one, the two
// properties a contracting affine recurrence toward a fixed point
// guarantees regardless of the exact multiplicities of decay/bump calls a
// given tick happens to fold in.
func TestHomeostasisThresholdConvergesMonotonically(t *testing.T) {
	net := New(false, 1)

	input := topology.MakeLayer(net, 1, neuron.KindParrot)
	hidden := topology.MakeLayer(net, 1, neuron.KindCUBALIF)
	lif := net.NeuronPtr(hidden.Neurons[0])
	lif.RestingPotential = -70
	lif.Potential = -70
	lif.Capacitance = 1
	lif.LeakConductance = 1
	lif.Threshold = -50
	lif.RestingThreshold = -55
	lif.CUBA.Homeostasis = true
	lif.CUBA.HomeostasisBeta = 2
	lif.CUBA.HomeostasisTau = 1

	// Weight zero means every accepted input bumps Threshold without ever
	// moving Potential, so the neuron can never fire and no refractory/WTA
	// interaction can perturb the trace.
	_, err := net.NewSynapse(input.Neurons[0], hidden.Neurons[0], synapse.Config{Kernel: synapse.KernelDirac, Weight: 0})
	require.NoError(t, err)
	driveSyn := driveSynapse(net, input.ID, input.Neurons[0])
	require.NoError(t, net.Initialise())

	trace := &thresholdTrace{target: hidden.Neurons[0]}
	net.RegisterAddon(trace)

	const dt = 0.1
	var events []event.Event
	for k := 0; k <= 10; k++ {
		events = append(events, event.Event{Timestamp: float64(k) * dt, SynapseID: uint32(driveSyn), Kind: event.KindInitial})
	}
	net.InjectBulk(events)
	net.Run(1.0, dt)

	require.GreaterOrEqual(t, len(trace.vals), 3)
	for i := 1; i < len(trace.vals); i++ {
		require.GreaterOrEqual(t, trace.vals[i], trace.vals[i-1]-1e-9) // monotonically non-decreasing
	}
	for i := 2; i < len(trace.vals); i++ {
		prevStep := trace.vals[i-1] - trace.vals[i-2]
		step := trace.vals[i] - trace.vals[i-1]
		require.LessOrEqual(t, step, prevStep+1e-9) // successive increments shrink
	}
	require.Greater(t, trace.vals[len(trace.vals)-1], lif.RestingThreshold) // net upward pressure from the bump
}
