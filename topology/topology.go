/*
Package topology implements the generator functions that assemble layers
of neurons and wire synapses between them (spec.md C5). Generators never
own storage themselves — they call back into a Builder (implemented by the
network package's facade) that allocates ids and owns the arenas, keeping
topology construction decoupled from the concrete Network type the way
spec.md §9 asks every package boundary in this core to be.

Grounded on the donor project's registry.go and astrocyte_network.go for
the generator/builder split (a construction-time helper that talks to an
owning registry by id, never by holding neuron pointers itself).
*/
package topology

import (
	"math"

	"github.com/SynapticNetworks/hummus/addon"
	"github.com/SynapticNetworks/hummus/neuron"
	"github.com/SynapticNetworks/hummus/regressionmodel"
	"github.com/SynapticNetworks/hummus/snntypes"
	"github.com/SynapticNetworks/hummus/synapse"
)

// Builder is the subset of the Network facade topology generators need:
// allocate layers, neurons and synapses, and register addons against the
// neurons just created. network.Network implements this structurally.
type Builder interface {
	NewLayer() snntypes.LayerID
	NewNeuron(kind neuron.Kind, layer snntypes.LayerID) *neuron.Neuron
	NewSynapse(pre, post snntypes.NeuronID, cfg synapse.Config) (snntypes.SynapseID, error)
	RegisterAddon(a addon.Addon)
	SetLayerShape(id snntypes.LayerID, width, height, depth int)
}

// Layer is the handle every generator returns: the layer id plus the
// neuron ids and grid positions it populated, for connection generators
// and further topology calls to build on.
type Layer struct {
	ID        snntypes.LayerID
	Neurons   []snntypes.NeuronID
	Positions map[snntypes.NeuronID]snntypes.Point
	Width, Height, Depth int
}

// MakeLayer builds n neurons of the given kind in one sublayer
// (spec.md §4.5, "make_layer(n, addons, …)").
func MakeLayer(b Builder, n int, kind neuron.Kind, addons ...addon.Addon) *Layer {
	layerID := b.NewLayer()
	l := &Layer{ID: layerID, Positions: make(map[snntypes.NeuronID]snntypes.Point)}
	for i := 0; i < n; i++ {
		nrn := b.NewNeuron(kind, layerID)
		l.Neurons = append(l.Neurons, nrn.ID)
		l.Positions[nrn.ID] = snntypes.Point{X: i}
	}
	for _, a := range addons {
		b.RegisterAddon(a)
	}
	return l
}

// MakeGrid builds depth sublayers of W×H neurons with (x,y) coordinates
// (spec.md §4.5, "make_grid(W, H, depth, addons, …)").
func MakeGrid(b Builder, width, height, depth int, kind neuron.Kind, addons ...addon.Addon) *Layer {
	layerID := b.NewLayer()
	l := &Layer{ID: layerID, Width: width, Height: height, Depth: depth, Positions: make(map[snntypes.NeuronID]snntypes.Point)}
	b.SetLayerShape(layerID, width, height, depth)
	for d := 0; d < depth; d++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				nrn := b.NewNeuron(kind, layerID)
				nrn.Position = snntypes.Point{X: x, Y: y, Depth: d}
				nrn.SublayerID = d
				l.Neurons = append(l.Neurons, nrn.ID)
				l.Positions[nrn.ID] = nrn.Position
			}
		}
	}
	for _, a := range addons {
		b.RegisterAddon(a)
	}
	return l
}

// MakeCircle builds n neurons positioned evenly around a circle of the
// given radius, a layout specialized constructor used by topographic
// lateral-inhibition layers (spec.md §4.5, "make_circle").
func MakeCircle(b Builder, n int, radius float64, kind neuron.Kind, addons ...addon.Addon) *Layer {
	layerID := b.NewLayer()
	l := &Layer{ID: layerID, Positions: make(map[snntypes.NeuronID]snntypes.Point)}
	for i := 0; i < n; i++ {
		nrn := b.NewNeuron(kind, layerID)
		angle := 2 * math.Pi * float64(i) / float64(n)
		x := int(radius * math.Cos(angle))
		y := int(radius * math.Sin(angle))
		nrn.Position = snntypes.Point{X: x, Y: y}
		l.Neurons = append(l.Neurons, nrn.ID)
		l.Positions[nrn.ID] = nrn.Position
	}
	for _, a := range addons {
		b.RegisterAddon(a)
	}
	return l
}

// MakeDecision builds a decision layer: one KindDecision neuron per class
// label (spec.md §4.5, "make_decision").
func MakeDecision(b Builder, classLabels []string, addons ...addon.Addon) *Layer {
	layerID := b.NewLayer()
	l := &Layer{ID: layerID, Positions: make(map[snntypes.NeuronID]snntypes.Point)}
	for i, label := range classLabels {
		nrn := b.NewNeuron(neuron.KindDecision, layerID)
		nrn.Decision.ClassLabel = label
		nrn.Position = snntypes.Point{X: i}
		l.Neurons = append(l.Neurons, nrn.ID)
		l.Positions[nrn.ID] = nrn.Position
	}
	for _, a := range addons {
		b.RegisterAddon(a)
	}
	return l
}

// MakeLogisticRegression builds a single KindRegression neuron delegating
// to the given model (spec.md §4.5, "make_logistic_regression").
func MakeLogisticRegression(b Builder, model regressionmodel.Model, addons ...addon.Addon) *Layer {
	layerID := b.NewLayer()
	nrn := b.NewNeuron(neuron.KindRegression, layerID)
	nrn.Regression.Model = model
	l := &Layer{ID: layerID, Neurons: []snntypes.NeuronID{nrn.ID}, Positions: map[snntypes.NeuronID]snntypes.Point{nrn.ID: {}}}
	for _, a := range addons {
		b.RegisterAddon(a)
	}
	return l
}
