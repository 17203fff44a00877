package topology

import (
	"github.com/SynapticNetworks/hummus/addon"
	"github.com/SynapticNetworks/hummus/neuron"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// ReceptiveField describes one post-neuron's patch of the presynaptic
// grid: the rectangle of (x,y) presynaptic positions it may connect from.
type ReceptiveField struct {
	MinX, MinY, MaxX, MaxY int
}

// Contains reports whether a presynaptic position falls in this field.
func (r ReceptiveField) Contains(p snntypes.Point) bool {
	return p.X >= r.MinX && p.X < r.MaxX && p.Y >= r.MinY && p.Y < r.MaxY
}

// MakeSubGrid partitions pre into kernel×kernel receptive fields using a
// kernel/stride sweep, without allocating any new neurons
// (spec.md §4.5, "make_sub_grid(pre_layer, sublayers, kernel, stride, …)").
// The returned Layer is pre itself; the returned map, keyed by pre neuron
// id, records the field each neuron falls in (the last window when windows
// overlap). ReceptiveFieldID on the neurons is not changed.
func MakeSubGrid(b Builder, pre *Layer, kernel, stride int) (*Layer, map[snntypes.NeuronID]ReceptiveField) {
	fields := make(map[snntypes.NeuronID]ReceptiveField)
	fieldIdx := 0
	for y := 0; y+kernel <= pre.Height; y += stride {
		for x := 0; x+kernel <= pre.Width; x += stride {
			field := ReceptiveField{MinX: x, MinY: y, MaxX: x + kernel, MaxY: y + kernel}
			for _, id := range pre.Neurons {
				pos := pre.Positions[id]
				if field.Contains(pos) {
					fields[id] = field
				}
			}
			fieldIdx++
		}
	}
	return pre, fields
}

// MakeConvolutionalGrid builds one output neuron per kernel/stride window
// of pre and records its receptive field, generalizing MakeSubGrid into a
// genuine downstream layer (spec.md §4.5,
// "make_convolutional_grid(pre_layer, sublayers, kernel, stride, …)").
func MakeConvolutionalGrid(b Builder, pre *Layer, sublayers, kernel, stride int, kind neuron.Kind, addons ...addon.Addon) (*Layer, map[snntypes.NeuronID]ReceptiveField) {
	layerID := b.NewLayer()
	out := &Layer{ID: layerID, Positions: make(map[snntypes.NeuronID]snntypes.Point)}
	fields := make(map[snntypes.NeuronID]ReceptiveField)

	outW := 0
	outH := 0
	if pre.Width >= kernel {
		outW = (pre.Width-kernel)/stride + 1
	}
	if pre.Height >= kernel {
		outH = (pre.Height-kernel)/stride + 1
	}
	out.Width, out.Height, out.Depth = outW, outH, sublayers
	b.SetLayerShape(layerID, outW, outH, sublayers)

	rfIdx := 0
	for d := 0; d < sublayers; d++ {
		rfIdx = 0
		for oy := 0; oy < outH; oy++ {
			for ox := 0; ox < outW; ox++ {
				nrn := b.NewNeuron(kind, layerID)
				nrn.Position = snntypes.Point{X: ox, Y: oy, Depth: d}
				nrn.SublayerID = d
				nrn.ReceptiveFieldID = rfIdx
				out.Neurons = append(out.Neurons, nrn.ID)
				out.Positions[nrn.ID] = nrn.Position
				fields[nrn.ID] = ReceptiveField{
					MinX: ox * stride, MinY: oy * stride,
					MaxX: ox*stride + kernel, MaxY: oy*stride + kernel,
				}
				rfIdx++
			}
		}
	}
	for _, a := range addons {
		b.RegisterAddon(a)
	}
	return out, fields
}
