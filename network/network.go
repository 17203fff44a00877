/*
Package network implements the Network facade (spec.md C7): the process-
wide container that owns every neuron and synapse arena, the addon list,
the RNG, the event queue and the clock, and exposes the construction and
run API everything else in this module is wired through.

Grounded on the donor project's extracellular/matrix.go ("ExtracellularMatrix"):
the single owning container with id-indexed arenas and a registry of
attached observers is kept; the 3D spatial-diffusion chemistry signaling
that file layered on top is not, since spec.md's Network has no chemical
diffusion model — only event routing and addon hooks.
*/
package network

import (
	"fmt"
	"math/rand"

	"github.com/SynapticNetworks/hummus/addon"
	"github.com/SynapticNetworks/hummus/dataset"
	"github.com/SynapticNetworks/hummus/event"
	"github.com/SynapticNetworks/hummus/neuron"
	"github.com/SynapticNetworks/hummus/persist"
	"github.com/SynapticNetworks/hummus/scheduler"
	"github.com/SynapticNetworks/hummus/snntypes"
	"github.com/SynapticNetworks/hummus/synapse"
)

// layerState tracks a layer's activation flag and membership alongside
// whatever grid shape its topology generator recorded.
type layerState struct {
	id        snntypes.LayerID
	active    bool
	neuronIDs []snntypes.NeuronID
	width, height, depth int
}

// Network is the facade: it owns every neuron and synapse by value-arena
// id, the addon list, the RNG and the event queue (spec.md §4.7).
type Network struct {
	neurons  []*neuron.Neuron
	synapses []*synapse.Synapse
	layers   []*layerState
	addons   []addon.Addon

	rng   *rand.Rand
	queue *event.Queue
	now   float64

	eventDriven bool

	currentLabel      string
	presentationCount int
	classes           map[string]int

	learningOff     bool
	learningOffTime float64
	verbosity       int
}

// New builds an empty Network. eventDriven selects which run loop Run
// uses by default; seed controls the single RNG every stochastic part of
// the core draws from (spec.md §5, "RNG is owned by Network").
func New(eventDriven bool, seed int64) *Network {
	return &Network{
		queue:       event.NewQueue(),
		rng:         rand.New(rand.NewSource(seed)),
		eventDriven: eventDriven,
		classes:     make(map[string]int),
	}
}

// ---- topology.Builder ----

func (n *Network) NewLayer() snntypes.LayerID {
	id := snntypes.LayerID(len(n.layers))
	n.layers = append(n.layers, &layerState{id: id, active: true})
	return id
}

func (n *Network) NewNeuron(kind neuron.Kind, layer snntypes.LayerID) *neuron.Neuron {
	id := snntypes.NeuronID(len(n.neurons))
	nrn := neuron.New(id, kind, layer)
	n.neurons = append(n.neurons, nrn)
	if int(layer) < len(n.layers) {
		n.layers[layer].neuronIDs = append(n.layers[layer].neuronIDs, id)
	}
	return nrn
}

func (n *Network) NewSynapse(pre, post snntypes.NeuronID, cfg synapse.Config) (snntypes.SynapseID, error) {
	id := snntypes.SynapseID(len(n.synapses))
	s, err := synapse.New(id, pre, post, cfg)
	if err != nil {
		return 0, err
	}
	n.synapses = append(n.synapses, s)
	if int(pre) < len(n.neurons) {
		n.neurons[pre].AttachAxon(id)
	}
	if int(post) < len(n.neurons) {
		n.neurons[post].AttachDendrite(id)
	}
	return id, nil
}

func (n *Network) RegisterAddon(a addon.Addon) {
	n.addons = append(n.addons, a)
}

func (n *Network) SetLayerShape(id snntypes.LayerID, width, height, depth int) {
	if int(id) < len(n.layers) {
		n.layers[id].width, n.layers[id].height, n.layers[id].depth = width, height, depth
	}
}

// ---- neuron.Network / addon.Network / scheduler.Core ----

func (n *Network) Now() float64        { return n.now }
func (n *Network) EventDriven() bool   { return n.eventDriven }
func (n *Network) RNG() *rand.Rand     { return n.rng }
func (n *Network) CurrentLabel() string { return n.currentLabel }

func (n *Network) Synapse(id snntypes.SynapseID) *synapse.Synapse {
	if int(id) < 0 || int(id) >= len(n.synapses) {
		return nil
	}
	return n.synapses[id]
}

func (n *Network) NeuronPtr(id snntypes.NeuronID) *neuron.Neuron {
	if int(id) < 0 || int(id) >= len(n.neurons) {
		return nil
	}
	return n.neurons[id]
}

func (n *Network) LayerActive(layer snntypes.LayerID) bool {
	if int(layer) < 0 || int(layer) >= len(n.layers) {
		return false
	}
	return n.layers[layer].active
}

func (n *Network) NeuronsInLayer(layer snntypes.LayerID) []snntypes.NeuronID {
	if int(layer) < 0 || int(layer) >= len(n.layers) {
		return nil
	}
	return n.layers[layer].neuronIDs
}

func (n *Network) Schedule(e event.Event) { n.queue.Push(n.now, e) }

func (n *Network) PopEvent() (event.Event, bool) { return n.queue.Pop() }
func (n *Network) PushEvent(e event.Event)        { n.queue.Push(n.now, e) }
func (n *Network) SetNow(t float64)               { n.now = t }

func (n *Network) ActiveLayerIDs() []snntypes.LayerID {
	var ids []snntypes.LayerID
	for _, l := range n.layers {
		if l.active {
			ids = append(ids, l.id)
		}
	}
	return ids
}

func (n *Network) Addons() []addon.Addon { return n.addons }

func (n *Network) SetCurrentLabel(label string) { n.currentLabel = label }
func (n *Network) IncrementPresentation()        { n.presentationCount++ }

// NotifyIncomingSpike fires every watching addon's IncomingSpike hook
// before the neuron updates its potential (spec.md §4.4).
func (n *Network) NotifyIncomingSpike(t float64, syn snntypes.SynapseID, post snntypes.NeuronID) {
	for _, a := range n.addons {
		if a.Mask().Watches(post) {
			a.IncomingSpike(t, syn, post, n)
		}
	}
}

// NotifyFired fires every watching addon's NeuronFired hook after
// threshold crossing (spec.md §4.4).
func (n *Network) NotifyFired(t float64, syn snntypes.SynapseID, post snntypes.NeuronID) {
	for _, a := range n.addons {
		if a.Mask().Watches(post) {
			a.NeuronFired(t, syn, post, n)
		}
	}
}

// NotifyLearn fires every watching addon's Learn hook once per dendrite
// after a neuron fires (spec.md §4.3, "invokes LearningRules... on active
// dendrites").
func (n *Network) NotifyLearn(t float64, syn snntypes.SynapseID, post snntypes.NeuronID) {
	if n.learningOff {
		return
	}
	for _, a := range n.addons {
		if a.Mask().Watches(post) {
			a.Learn(t, syn, post, n)
		}
	}
}

// NotifyDecisionFailed fires every addon's DecisionFailed hook when a
// pattern ends with no winning decision neuron (spec.md §4.4, §7).
func (n *Network) NotifyDecisionFailed(t float64) {
	for _, a := range n.addons {
		a.DecisionFailed(t, n)
	}
}

// ---- public facade API (spec.md §4.7) ----

// Initialise validates every neuron against the network's mode, to be
// called once topology construction is finished and before the first Run.
func (n *Network) Initialise() error {
	for _, a := range n.addons {
		a.OnStart(n)
	}
	for _, nrn := range n.neurons {
		if err := nrn.Initialise(n); err != nil {
			return fmt.Errorf("network: initialise neuron %d: %w", nrn.ID, err)
		}
	}
	return nil
}

// InjectSpike enqueues a single Initial event on the given synapse at
// timestamp t (spec.md §4.7, "input injection (single spike...)").
func (n *Network) InjectSpike(t float64, syn snntypes.SynapseID) {
	n.queue.Push(n.now, event.Event{Timestamp: t, SynapseID: uint32(syn), Kind: event.KindInitial})
}

// InjectBulk enqueues every event in es (spec.md §4.7, "...or bulk").
func (n *Network) InjectBulk(es []event.Event) {
	for _, e := range es {
		n.queue.Push(n.now, e)
	}
}

// Run drives the event-driven loop if dt is zero, the clock-driven loop
// otherwise (spec.md §4.7, "run(t_max, dt?)").
func (n *Network) Run(tMax, dt float64) {
	for _, a := range n.addons {
		a.OnPredict(n)
	}
	if dt <= 0 {
		scheduler.RunEventDriven(n, tMax)
	} else {
		scheduler.RunClockDriven(n, tMax, dt)
	}
	for _, a := range n.addons {
		a.OnCompleted(n)
	}
}

// RunData feeds one dataset.Pattern at a time, inserting a pattern
// boundary (and an optional Decision event to decisionLayer) between
// presentations (spec.md §4.6, "Pattern boundaries").
func (n *Network) RunData(src dataset.Source, dt float64, decisionLayer snntypes.LayerID, injectDecision bool) {
	for _, a := range n.addons {
		a.OnPredict(n)
	}
	for {
		pattern, ok := src.Next()
		if !ok {
			break
		}
		n.SetCurrentLabel(pattern.Label)
		n.InjectBulk(pattern.Events)

		if dt <= 0 {
			scheduler.RunEventDriven(n, n.maxTimestamp(pattern.Events))
		} else {
			scheduler.RunClockDriven(n, n.maxTimestamp(pattern.Events), dt)
		}

		scheduler.PatternBoundary(n, decisionLayer, injectDecision)
	}
	for k, v := range src.Classes() {
		n.classes[k] = v
	}
	for _, a := range n.addons {
		a.OnCompleted(n)
	}
}

// RunESDatabase trains then tests against the given train/test database
// collaborator (spec.md §4.7, "run_es_database(train_files, test_files,
// …)"). Both phases use the same RunData pipeline; the caller
// distinguishes train from test by which Source it supplies.
func (n *Network) RunESDatabase(db dataset.ESDatabase, dt float64, decisionLayer snntypes.LayerID) error {
	train, err := db.Train()
	if err != nil {
		return fmt.Errorf("network: run_es_database train: %w", err)
	}
	n.RunData(train, dt, decisionLayer, true)

	test, err := db.Test()
	if err != nil {
		return fmt.Errorf("network: run_es_database test: %w", err)
	}
	n.RunData(test, dt, decisionLayer, true)
	return nil
}

func (n *Network) maxTimestamp(es []event.Event) float64 {
	max := n.now
	for _, e := range es {
		if e.Timestamp > max {
			max = e.Timestamp
		}
	}
	return max
}

// ResetNetwork clears the queue, timestamps, potentials, synaptic
// currents, traces and decision_queues (spec.md §5).
func (n *Network) ResetNetwork() {
	n.queue.Clear()
	n.now = 0
	for _, nrn := range n.neurons {
		nrn.Reset()
	}
	for _, s := range n.synapses {
		s.Reset()
	}
}

// TurnOffLearning disables every Learn hook from timestamp t onward
// (spec.md §4.7, "turn_off_learning(t)"). The simulator is single-threaded
// so "from t onward" means "starting now"; t is recorded and reported by
// LearningOffTime, and is not passed to any addon.
func (n *Network) TurnOffLearning(t float64) {
	n.learningOff = true
	n.learningOffTime = t
}

// LearningOffTime reports the timestamp TurnOffLearning was called with.
func (n *Network) LearningOffTime() float64 { return n.learningOffTime }

// ActivateLayer / DeactivateLayer flip a layer's active flag; generated
// spikes targeting an inactive layer are dropped at emit time
// (spec.md §4.6, "Layer activation").
func (n *Network) ActivateLayer(id snntypes.LayerID) {
	if int(id) < len(n.layers) {
		n.layers[id].active = true
	}
}

func (n *Network) DeactivateLayer(id snntypes.LayerID) {
	if int(id) < len(n.layers) {
		n.layers[id].active = false
	}
}

// Verbosity sets the facade's logging verbosity level (spec.md §4.7,
// "verbosity(k)"); the level is read back through VerbosityLevel, and no
// addon in this module consults it.
func (n *Network) Verbosity(k int) { n.verbosity = k }

// VerbosityLevel reports the current verbosity level.
func (n *Network) VerbosityLevel() int { return n.verbosity }

// Save writes the network's neurons, synapses and layers to path as the
// saved-network JSON document (spec.md §6).
func (n *Network) Save(path string) error {
	return persist.Save(path, n.snapshot())
}

func (n *Network) snapshot() persist.Snapshot {
	s := persist.Snapshot{Classes: n.classes}
	for _, nrn := range n.neurons {
		dendrites := make([]uint32, len(nrn.Dendrites))
		for i, d := range nrn.Dendrites {
			dendrites[i] = uint32(d)
		}
		axons := make([]uint32, len(nrn.Axons))
		for i, a := range nrn.Axons {
			axons[i] = uint32(a)
		}
		s.Neurons = append(s.Neurons, persist.NeuronSnapshot{
			ID:                uint32(nrn.ID),
			Type:              int(nrn.Kind),
			LayerID:           uint32(nrn.LayerID),
			SublayerID:        nrn.SublayerID,
			ReceptiveFieldID:  nrn.ReceptiveFieldID,
			X:                 nrn.Position.X,
			Y:                 nrn.Position.Y,
			Depth:             nrn.Position.Depth,
			RefractoryPeriod:  nrn.RefractoryPeriod,
			Capacitance:       nrn.Capacitance,
			LeakConductance:   nrn.LeakConductance,
			Threshold:         nrn.Threshold,
			RestingThreshold:  nrn.RestingThreshold,
			RestingPotential:  nrn.RestingPotential,
			ClassLabel:        nrn.ClassLabel,
			DendriticSynapses: dendrites,
			AxonalSynapses:    axons,
		})
	}
	for _, syn := range n.synapses {
		s.Synapses = append(s.Synapses, persist.SynapseSnapshot{
			ID:              uint32(syn.ID),
			Pre:             uint32(syn.Pre),
			Post:            uint32(syn.Post),
			Weight:          syn.Weight,
			Delay:           syn.Delay,
			JSONID:          int(syn.Kernel),
			TimeConstant:    syn.TimeConstant,
			ExternalCurrent: syn.ExternalCurrent,
			NoiseSigma:      syn.NoiseSigma,
		})
	}
	for _, l := range n.layers {
		s.Layers = append(s.Layers, persist.LayerSnapshot{
			ID:     uint32(l.id),
			Active: l.active,
			Width:  l.width,
			Height: l.height,
			Depth:  l.depth,
		})
	}
	return s
}
