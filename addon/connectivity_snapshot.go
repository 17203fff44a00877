package addon

import (
	"encoding/json"
	"io"

	"github.com/SynapticNetworks/hummus/snntypes"
)

// ConnectivityEdge is one synapse in a connectivity snapshot's normalized
// shape: a flat list of (pre, post, weight) triples.
type ConnectivityEdge struct {
	Pre    snntypes.NeuronID `json:"pre"`
	Post   snntypes.NeuronID `json:"post"`
	Weight float64           `json:"weight"`
}

// ConnectivitySnapshot writes the current weight matrix on completion. The
// donor corpus's two export shapes for this kind of snapshot are both
// supported: the normalized flat-edge-list shape (default, a simpler
// consumer contract) and the legacy nested shape (LegacyShape): a map from
// each post neuron id to its row of pre neuron id -> weight, kept for
// consumers already parsing that format.
type ConnectivitySnapshot struct {
	BaseAddon
	w           io.Writer
	neuronIDs   []snntypes.NeuronID
	LegacyShape bool
}

// NewConnectivitySnapshot tracks the dendrites of the given neurons.
func NewConnectivitySnapshot(w io.Writer, neuronIDs []snntypes.NeuronID, legacyShape bool) *ConnectivitySnapshot {
	return &ConnectivitySnapshot{
		BaseAddon:   NewBaseAddon(NewMask(neuronIDs...)),
		w:           w,
		neuronIDs:   neuronIDs,
		LegacyShape: legacyShape,
	}
}

func (c *ConnectivitySnapshot) OnCompleted(net Network) {
	if c.w == nil {
		return
	}
	var edges []ConnectivityEdge
	for _, id := range c.neuronIDs {
		n := net.NeuronPtr(id)
		if n == nil {
			continue
		}
		for _, sid := range n.Dendrites {
			syn := net.Synapse(sid)
			if syn == nil {
				continue
			}
			edges = append(edges, ConnectivityEdge{Pre: syn.Pre, Post: syn.Post, Weight: syn.Weight})
		}
	}

	if !c.LegacyShape {
		_ = json.NewEncoder(c.w).Encode(edges)
		return
	}

	legacy := make(map[snntypes.NeuronID]map[snntypes.NeuronID]float64, len(c.neuronIDs))
	for _, e := range edges {
		row, ok := legacy[e.Post]
		if !ok {
			row = make(map[snntypes.NeuronID]float64)
			legacy[e.Post] = row
		}
		row[e.Pre] = e.Weight
	}
	_ = json.NewEncoder(c.w).Encode(legacy)
}
