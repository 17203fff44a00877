/*
Package binlog implements the fixed-width and length-prefixed binary log
formats addons can emit alongside the network's JSON save file (spec.md
§6, "Binary logs"). Every record is little-endian, matching the donor
project's persistence layer convention of writing machine-native,
self-describing binary records rather than leaning on encoding/gob.
*/
package binlog

import (
	"encoding/binary"
	"io"
)

// SpikeRecord is one 19-byte entry in a spike log.
type SpikeRecord struct {
	Timestamp float64
	Delay     float64 // stored scaled ×100 as int16
	Weight    float64 // stored scaled ×100 as int8
	Voltage   float64 // stored scaled ×100 as int16
	NeuronID  uint16
	Layer     int8
	RF        int8
	X, Y      int8
}

// SpikeWriter writes the 8-byte learning_off_time header once, then a
// 19-byte record per call to Write.
type SpikeWriter struct {
	w io.Writer
}

// NewSpikeWriter writes the header and returns a writer ready for records.
func NewSpikeWriter(w io.Writer, learningOffTime float64) (*SpikeWriter, error) {
	var hdr [8]byte
	binary.LittleEndian.PutUint64(hdr[:], uint64FromFloat(learningOffTime))
	if _, err := w.Write(hdr[:]); err != nil {
		return nil, err
	}
	return &SpikeWriter{w: w}, nil
}

// Write appends one 19-byte spike record.
func (sw *SpikeWriter) Write(r SpikeRecord) error {
	var buf [19]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64FromFloat(r.Timestamp))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(int16(r.Delay*100)))
	buf[10] = byte(int8(r.Weight * 100))
	binary.LittleEndian.PutUint16(buf[11:13], uint16(int16(r.Voltage*100)))
	binary.LittleEndian.PutUint16(buf[13:15], r.NeuronID)
	buf[15] = byte(r.Layer)
	buf[16] = byte(r.RF)
	buf[17] = byte(r.X)
	buf[18] = byte(r.Y)
	_, err := sw.w.Write(buf[:])
	return err
}

// ReadSpikeLog reads the header and every subsequent 19-byte record.
func ReadSpikeLog(r io.Reader) (learningOffTime float64, records []SpikeRecord, err error) {
	var hdr [8]byte
	if _, err = io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}
	learningOffTime = floatFromUint64(binary.LittleEndian.Uint64(hdr[:]))

	for {
		var buf [19]byte
		if _, err = io.ReadFull(r, buf[:]); err != nil {
			if err == io.EOF {
				err = nil
			}
			return learningOffTime, records, err
		}
		records = append(records, SpikeRecord{
			Timestamp: floatFromUint64(binary.LittleEndian.Uint64(buf[0:8])),
			Delay:     float64(int16(binary.LittleEndian.Uint16(buf[8:10]))) / 100,
			Weight:    float64(int8(buf[10])) / 100,
			Voltage:   float64(int16(binary.LittleEndian.Uint16(buf[11:13]))) / 100,
			NeuronID:  binary.LittleEndian.Uint16(buf[13:15]),
			Layer:     int8(buf[15]),
			RF:        int8(buf[16]),
			X:         int8(buf[17]),
			Y:         int8(buf[18]),
		})
	}
}

// MyelinRecord is one variable-length, length-prefixed myelin-plasticity
// log entry: the raw payload is opaque to this package (the addon decides
// its own inner layout); only the framing is standardized.
type MyelinRecord struct {
	Payload []byte
}

// WriteMyelinRecord writes a uint32 length prefix followed by the payload.
func WriteMyelinRecord(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadMyelinRecords reads every length-prefixed record until EOF.
func ReadMyelinRecords(r io.Reader) ([]MyelinRecord, error) {
	var records []MyelinRecord
	for {
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			if err == io.EOF {
				return records, nil
			}
			return records, err
		}
		n := binary.LittleEndian.Uint32(lenBuf[:])
		payload := make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			return records, err
		}
		records = append(records, MyelinRecord{Payload: payload})
	}
}

// WeightMapSnapshot is one tracked neuron's weight vector at a snapshot
// boundary.
type WeightMapSnapshot struct {
	NeuronID uint16
	Weights  []float64
}

// WriteWeightMapSnapshot writes the i16 byte-size, i16 neuron_id, then the
// weight vector, per spec.md §6.
func WriteWeightMapSnapshot(w io.Writer, s WeightMapSnapshot) error {
	byteSize := 2 + 8*len(s.Weights)
	var hdr [4]byte
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(byteSize))
	binary.LittleEndian.PutUint16(hdr[2:4], s.NeuronID)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	buf := make([]byte, 8*len(s.Weights))
	for i, wgt := range s.Weights {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], uint64FromFloat(wgt))
	}
	_, err := w.Write(buf)
	return err
}

// ReadWeightMapSnapshots reads every snapshot record until EOF.
func ReadWeightMapSnapshots(r io.Reader) ([]WeightMapSnapshot, error) {
	var out []WeightMapSnapshot
	for {
		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
		byteSize := binary.LittleEndian.Uint16(hdr[0:2])
		neuronID := binary.LittleEndian.Uint16(hdr[2:4])
		weightBytes := int(byteSize) - 2
		buf := make([]byte, weightBytes)
		if _, err := io.ReadFull(r, buf); err != nil {
			return out, err
		}
		weights := make([]float64, weightBytes/8)
		for i := range weights {
			weights[i] = floatFromUint64(binary.LittleEndian.Uint64(buf[i*8 : i*8+8]))
		}
		out = append(out, WeightMapSnapshot{NeuronID: neuronID, Weights: weights})
	}
}
