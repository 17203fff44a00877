package addon

import (
	"github.com/SynapticNetworks/hummus/binlog"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// SpikeLogger records every fired spike to a binary spike log
// (spec.md §6). The log header is the learning-off time passed to
// binlog.NewSpikeWriter when w was opened. The LearningOffTime field is not
// read by the logger, and Network.TurnOffLearning does not update it.
type SpikeLogger struct {
	BaseAddon
	w               *binlog.SpikeWriter
	LearningOffTime float64
}

// NewSpikeLogger wraps an already-opened spike log writer.
func NewSpikeLogger(mask *Mask, w *binlog.SpikeWriter) *SpikeLogger {
	return &SpikeLogger{BaseAddon: NewBaseAddon(mask), w: w}
}

func (s *SpikeLogger) NeuronFired(t float64, syn snntypes.SynapseID, post snntypes.NeuronID, net Network) {
	if !s.Mask().Watches(post) {
		return
	}
	n := net.NeuronPtr(post)
	if n == nil || s.w == nil {
		return
	}
	var delay, weight float64
	if sp := net.Synapse(syn); sp != nil {
		delay, weight = sp.Delay, sp.Weight
	}
	_ = s.w.Write(binlog.SpikeRecord{
		Timestamp: t,
		Delay:     delay,
		Weight:    weight,
		Voltage:   n.Potential,
		NeuronID:  uint16(n.ID),
		Layer:     int8(n.LayerID),
		RF:        int8(n.ReceptiveFieldID),
		X:         int8(n.Position.X),
		Y:         int8(n.Position.Y),
	})
}
