package addon

import (
	"io"

	"github.com/SynapticNetworks/hummus/binlog"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// WeightMapSnapshotter writes a weight-map log snapshot every N pattern
// boundaries for each tracked neuron's dendritic weights (spec.md §6,
// "weight-map snapshotter (triggered every N pattern boundaries)").
type WeightMapSnapshotter struct {
	BaseAddon
	w         io.Writer
	every     int
	seen      int
	neuronIDs []snntypes.NeuronID
}

// NewWeightMapSnapshotter tracks the given neurons, snapshotting every
// `every` pattern boundaries.
func NewWeightMapSnapshotter(w io.Writer, every int, neuronIDs []snntypes.NeuronID) *WeightMapSnapshotter {
	if every < 1 {
		every = 1
	}
	return &WeightMapSnapshotter{
		BaseAddon: NewBaseAddon(NewMask(neuronIDs...)),
		w:         w,
		every:     every,
		neuronIDs: neuronIDs,
	}
}

func (s *WeightMapSnapshotter) OnPatternEnd(net Network) {
	s.seen++
	if s.seen%s.every != 0 || s.w == nil {
		return
	}
	for _, id := range s.neuronIDs {
		n := net.NeuronPtr(id)
		if n == nil {
			continue
		}
		weights := make([]float64, 0, len(n.Dendrites))
		for _, sid := range n.Dendrites {
			if syn := net.Synapse(sid); syn != nil {
				weights = append(weights, syn.Weight)
			}
		}
		_ = binlog.WriteWeightMapSnapshot(s.w, binlog.WeightMapSnapshot{
			NeuronID: uint16(id),
			Weights:  weights,
		})
	}
}
