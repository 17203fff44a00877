/*
Package persist implements the Network facade's save/load round trip
(spec.md §6, "Saved network"). It works against a plain Snapshot value
rather than the live Network type, so the network package can build one
from its arenas without this package importing it back. Field names and
the numeric `type`/`json_id` discriminants follow spec.md §6 exactly:
neuron records carry `type` as the neuron.Kind enum id (0-5) plus nested
`dendritic_synapses`/`axonal_synapses`, and synapse records carry `json_id`
as the synapse.KernelKind enum id (0-3).
*/
package persist

import (
	"encoding/json"
	"io"
	"os"
)

// NeuronSnapshot mirrors the persisted fields of one neuron.
type NeuronSnapshot struct {
	ID                uint32             `json:"id"`
	Type              int                `json:"type"` // neuron.Kind enum id, 0-5
	LayerID           uint32             `json:"layer_id"`
	SublayerID        int                `json:"sublayer_id"`
	ReceptiveFieldID  int                `json:"receptive_field_id"`
	X                 int                `json:"x"`
	Y                 int                `json:"y"`
	Depth             int                `json:"depth"`
	RefractoryPeriod  float64            `json:"refractory_period"`
	Capacitance       float64            `json:"capacitance"`
	LeakConductance   float64            `json:"leak_conductance"`
	Threshold         float64            `json:"threshold"`
	RestingThreshold  float64            `json:"resting_threshold"`
	RestingPotential  float64            `json:"resting_potential"`
	ClassLabel        string             `json:"class_label,omitempty"`
	DendriticSynapses []uint32           `json:"dendritic_synapses"`
	AxonalSynapses    []uint32           `json:"axonal_synapses"`
	Extra             map[string]float64 `json:"extra,omitempty"`
}

// SynapseSnapshot mirrors the persisted fields of one synapse.
type SynapseSnapshot struct {
	ID              uint32  `json:"id"`
	Pre             uint32  `json:"pre"`
	Post            uint32  `json:"post"`
	Weight          float64 `json:"weight"`
	Delay           float64 `json:"delay"`
	JSONID          int     `json:"json_id"` // synapse.KernelKind enum id, 0-3
	TimeConstant    float64 `json:"time_constant"`
	ExternalCurrent float64 `json:"external_current"`
	NoiseSigma      float64 `json:"noise_sigma"`
}

// LayerSnapshot mirrors the persisted fields of one layer.
type LayerSnapshot struct {
	ID     uint32   `json:"id"`
	Active bool     `json:"active"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Depth  int      `json:"depth"`
}

// Snapshot is the full saved-network document.
type Snapshot struct {
	Neurons  []NeuronSnapshot  `json:"neurons"`
	Synapses []SynapseSnapshot `json:"synapses"`
	Layers   []LayerSnapshot   `json:"layers"`
	Classes  map[string]int    `json:"classes,omitempty"`
}

// Save writes s as indented JSON to path.
func Save(path string, s Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Encode(f, s)
}

// Encode writes s as indented JSON to w.
func Encode(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Load reads a Snapshot back from path.
func Load(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a Snapshot from r.
func Decode(r io.Reader) (Snapshot, error) {
	var s Snapshot
	err := json.NewDecoder(r).Decode(&s)
	return s, err
}
