/*
Package neuron implements the polymorphic vertex state machine of the
simulation (spec.md C3): the dendritic tree of incoming synapses, the axon
terminal list of outgoing ones, and the per-kind Update/UpdateSync
transitions the scheduler drives.

Grounded on the donor project's neuron/neuron.go, dendrite.go, axon.go and
firing.go — the dendritic/axon-terminal list split and the doc-comment
register (a short design overview up top, terser comments on individual
fields) are kept; the goroutine/channel runtime underneath them is not,
since spec.md §5 mandates a single-threaded cooperative core.
*/
package neuron

import (
	"math/rand"

	"github.com/SynapticNetworks/hummus/event"
	"github.com/SynapticNetworks/hummus/regressionmodel"
	"github.com/SynapticNetworks/hummus/snntypes"
	"github.com/SynapticNetworks/hummus/synapse"
)

// Network is the explicit handle every neuron hook receives instead of
// reaching for ambient global state (spec.md §9, "Global-looking Network
// context -> explicit handle passed to every hook"). network.Network
// implements this interface structurally; neuron never imports that
// package, which keeps the dependency graph one-directional.
type Network interface {
	Now() float64
	EventDriven() bool
	Synapse(id snntypes.SynapseID) *synapse.Synapse
	Schedule(e event.Event)
	LayerActive(layer snntypes.LayerID) bool
	NeuronsInLayer(layer snntypes.LayerID) []snntypes.NeuronID
	NeuronPtr(id snntypes.NeuronID) *Neuron
	RNG() *rand.Rand
	CurrentLabel() string

	NotifyIncomingSpike(t float64, syn snntypes.SynapseID, post snntypes.NeuronID)
	NotifyFired(t float64, syn snntypes.SynapseID, post snntypes.NeuronID)
	NotifyLearn(t float64, syn snntypes.SynapseID, post snntypes.NeuronID)
	NotifyDecisionFailed(t float64)
}

// CUBAParams holds the LIF-specific dynamical parameters, populated only
// for KindCUBALIF neurons.
type CUBAParams struct {
	Bursting            bool
	Homeostasis         bool
	HomeostasisBeta     float64 // threshold bump per accepted input, scaled by 1/τ_h
	HomeostasisTau       float64 // τ_h
	WinnerTakesAll      bool
	RefractoryByPeers   bool // refractory counter is gated by peer firings rather than elapsed time
}

// ULPECParams holds the hardware-model timing parameters, populated for
// KindULPECInput and KindULPECLIF neurons.
type ULPECParams struct {
	TauDownEvent  float64 // EndOfIntegration delay after the input pulse
	TauUp         float64
	TauDownSpike  float64
	SkipAfterPost bool
	testingMode   bool // forces RefractoryPeriod to zero, per spec.md §4.3
	waveformDue   bool // a programming waveform is already scheduled
}

// DecisionParams is populated for KindDecision neurons.
type DecisionParams struct {
	ClassLabel        string
	HistogramWindow   int // how many recent decision_queue entries feed the vote
}

// RegressionParams is populated for KindRegression neurons.
type RegressionParams struct {
	Model    regressionmodel.Model
	Features []float64
}

// Neuron is the common vertex state shared by every variant (spec.md §3).
type Neuron struct {
	ID               snntypes.NeuronID
	Kind             Kind
	LayerID          snntypes.LayerID
	SublayerID       int
	ReceptiveFieldID int
	Position         snntypes.Point

	RefractoryPeriod  float64
	Capacitance       float64
	LeakConductance   float64
	TraceTimeConstant float64
	Threshold         float64
	RestingThreshold  float64
	RestingPotential  float64
	ClassLabel        string

	// Runtime state.
	Potential         float64
	Trace             float64
	Current           float64
	PrevSpikeTime     float64
	PrevInputTime     float64
	Refractory        bool
	Dendrites         []snntypes.SynapseID
	Axons             []snntypes.SynapseID
	RefractoryCounter int
	DecisionQueue     []string

	CUBA       CUBAParams
	ULPEC      ULPECParams
	Decision   DecisionParams
	Regression RegressionParams
}

// New constructs a neuron of the given kind with common fields populated.
// Variant-specific parameter structs are zero-valued; callers set the
// relevant one (n.CUBA, n.ULPEC, n.Decision, n.Regression) before the
// neuron is wired into a Network.
func New(id snntypes.NeuronID, kind Kind, layer snntypes.LayerID) *Neuron {
	return &Neuron{
		ID:               id,
		Kind:             kind,
		LayerID:          layer,
		RestingPotential: 0,
		Potential:        0,
	}
}

// AttachDendrite records an incoming synapse id on this neuron's dendritic
// tree (spec.md §3, "dendritic list (incoming synapse ids)").
func (n *Neuron) AttachDendrite(id snntypes.SynapseID) {
	n.Dendrites = append(n.Dendrites, id)
}

// AttachAxon records an outgoing synapse id on this neuron's axon terminal
// list.
func (n *Neuron) AttachAxon(id snntypes.SynapseID) {
	n.Axons = append(n.Axons, id)
}

// Initialise validates the neuron against the network's mode and variant
// invariants (spec.md §4.3 "Failure modes"), to be called once per neuron
// after topology construction and before the first Run.
func (n *Neuron) Initialise(net Network) error {
	if n.Kind == KindULPECLIF && n.ULPEC.testingMode {
		n.RefractoryPeriod = 0
	}
	if !net.EventDriven() {
		return nil
	}
	if n.Kind == KindCUBALIF && n.CUBA.Homeostasis {
		return snntypes.NewConfigError("neuron", "homeostasis is only valid in clock-driven mode")
	}
	for _, sid := range n.Dendrites {
		s := net.Synapse(sid)
		if s != nil && !s.Kernel.EventDriven() {
			return snntypes.NewConfigError("neuron", "exponential-kernel synapse on neuron in event-driven network")
		}
	}
	return nil
}

// SetTestingMode forces the ULPEC-LIF refractory period to zero, per
// spec.md §4.3 ("During testing the refractory period is forced to zero").
func (n *Neuron) SetTestingMode(on bool) {
	n.ULPEC.testingMode = on
	if on {
		n.RefractoryPeriod = 0
	}
}

// Reset restores runtime state to its construction-time defaults, invoked
// by Network.ResetNetwork (spec.md §5, "reset_network() clears... potentials,
// synaptic currents, traces, and decision_queues").
func (n *Neuron) Reset() {
	n.Potential = n.RestingPotential
	n.Trace = 0
	n.Current = 0
	n.PrevSpikeTime = 0
	n.PrevInputTime = 0
	n.Refractory = false
	n.RefractoryCounter = 0
	n.DecisionQueue = nil
	n.ULPEC.waveformDue = false
	n.Regression.Features = nil
	if n.Kind == KindCUBALIF && n.CUBA.Homeostasis {
		n.Threshold = n.RestingThreshold
	}
}

