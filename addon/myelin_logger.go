package addon

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/SynapticNetworks/hummus/binlog"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// MyelinPlasticityLogger writes, on every Learn hook for a watched neuron, a
// length-prefixed record of the synapse's delay at that moment to the
// myelin-plasticity log (spec.md §6), whether or not the delay changed. Its
// payload is t, synapse id, delay — 20 bytes.
type MyelinPlasticityLogger struct {
	BaseAddon
	w io.Writer
}

// NewMyelinPlasticityLogger wraps an open log file.
func NewMyelinPlasticityLogger(mask *Mask, w io.Writer) *MyelinPlasticityLogger {
	return &MyelinPlasticityLogger{BaseAddon: NewBaseAddon(mask), w: w}
}

func (m *MyelinPlasticityLogger) Learn(t float64, synID snntypes.SynapseID, post snntypes.NeuronID, net Network) {
	if !m.Mask().Watches(post) || m.w == nil {
		return
	}
	syn := net.Synapse(synID)
	if syn == nil {
		return
	}
	payload := make([]byte, 20)
	binary.LittleEndian.PutUint64(payload[0:8], math.Float64bits(t))
	binary.LittleEndian.PutUint32(payload[8:12], uint32(synID))
	binary.LittleEndian.PutUint64(payload[12:20], math.Float64bits(syn.Delay))
	_ = binlog.WriteMyelinRecord(m.w, payload)
}
