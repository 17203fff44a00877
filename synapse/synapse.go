/*
Package synapse implements the polymorphic edge state of the simulation
(spec.md C2): weight, delay, kernel, and the integrate/receive/reset
contract every neuron drives its dendritic tree through.

Grounded on the donor project's synapse/synapse.go ("EnhancedSynapse"):
this keeps that file's composition-over-inheritance shape (a single
concrete struct whose behavior branches on a small closed set of kernels)
and its package-level sentinel-error style, but drops the callback-to-matrix
indirection and the mutex — the simulation core is single-threaded
(spec.md §5), so a synapse is only ever touched from the one goroutine
running the scheduler.
*/
package synapse

import (
	"errors"
	"math"
	"math/rand"

	"github.com/SynapticNetworks/hummus/snntypes"
)

// Pre-defined errors for synapse construction failures.
var (
	ErrNegativeDelay      = errors.New("synapse: delay must be >= 0")
	ErrZeroTimeConstant   = errors.New("synapse: time constant must be > 0 for this kernel")
	ErrExponentialInEvent = errors.New("synapse: exponential kernel is not valid in an event-driven network")
)

// Synapse is a single weighted, delayed connection between two neurons.
type Synapse struct {
	ID   snntypes.SynapseID
	Pre  snntypes.NeuronID
	Post snntypes.NeuronID

	Weight          float64
	Delay           float64
	Kernel          KernelKind
	TimeConstant    float64
	ExternalCurrent float64
	NoiseSigma      float64

	// SynapticCurrent is the kernel's running output; PreviousInputTime is
	// the timestamp of the last time the synapse was touched (by either
	// Update or ReceiveSpike). It only ever moves forward (spec.md
	// invariant 2).
	SynapticCurrent   float64
	PreviousInputTime float64

	pulseActive bool    // Square kernel: whether we're within the held window.
	pulseStart  float64 // Square kernel: when the held pulse began.
}

// Config carries the construction-time parameters for a Synapse. Negative
// delays and a zero time constant on a decaying kernel are rejected here,
// fail-fast, per spec.md §7.
type Config struct {
	Weight          float64
	Delay           float64
	Kernel          KernelKind
	TimeConstant    float64
	ExternalCurrent float64
	NoiseSigma      float64
}

// New validates cfg and builds a Synapse between pre and post with the
// given id. The zero value of TimeConstant is valid for Dirac (which
// ignores it) but invalid for Square/Exponential/Memristor.
func New(id snntypes.SynapseID, pre, post snntypes.NeuronID, cfg Config) (*Synapse, error) {
	if cfg.Delay < 0 {
		return nil, ErrNegativeDelay
	}
	if cfg.Kernel != KernelDirac && cfg.TimeConstant <= 0 {
		return nil, ErrZeroTimeConstant
	}
	return &Synapse{
		ID:                id,
		Pre:               pre,
		Post:              post,
		Weight:            cfg.Weight,
		Delay:             cfg.Delay,
		Kernel:            cfg.Kernel,
		TimeConstant:      cfg.TimeConstant,
		ExternalCurrent:   cfg.ExternalCurrent,
		NoiseSigma:        cfg.NoiseSigma,
		PreviousInputTime: 0,
	}, nil
}

// Update advances the kernel's internal current to now and returns the
// resulting post-synaptic current contribution (spec.md §4.2).
func (s *Synapse) Update(now float64) float64 {
	dt := now - s.PreviousInputTime
	if dt < 0 {
		dt = 0
	}
	switch s.Kernel {
	case KernelDirac:
		// No decay law: the current stands until ReceiveSpike or Reset
		// changes it.
	case KernelSquare:
		if s.pulseActive && now-s.pulseStart >= s.TimeConstant {
			s.SynapticCurrent = 0
			s.pulseActive = false
		}
	case KernelExponential:
		if dt > 0 {
			s.SynapticCurrent *= math.Exp(-dt / s.TimeConstant)
		}
	case KernelMemristor:
		// Conductance-like: reading consumes the accumulated state.
		out := s.SynapticCurrent
		s.SynapticCurrent = 0
		if now > s.PreviousInputTime {
			s.PreviousInputTime = now
		}
		return out
	}
	if now > s.PreviousInputTime {
		s.PreviousInputTime = now
	}
	return s.SynapticCurrent
}

// ReceiveSpike applies the additive contribution of an arriving spike:
// weight + external_current + N(0, noise_sigma^2), for current-based
// kernels, or the same magnitude injected as a voltage step on the
// memristor kernel (spec.md §4.2). rng may be nil if NoiseSigma is zero.
func (s *Synapse) ReceiveSpike(now float64, rng *rand.Rand) float64 {
	noise := 0.0
	if s.NoiseSigma > 0 && rng != nil {
		noise = rng.NormFloat64() * s.NoiseSigma
	}
	contribution := s.Weight + s.ExternalCurrent + noise
	s.SynapticCurrent += contribution
	if s.Kernel == KernelSquare {
		s.pulseActive = true
		s.pulseStart = now
	}
	if now > s.PreviousInputTime {
		s.PreviousInputTime = now
	}
	return contribution
}

// Reset clears the running synaptic current, leaving weight/delay/kernel
// untouched.
func (s *Synapse) Reset() {
	s.SynapticCurrent = 0
	s.pulseActive = false
}

// SetWeight is a plasticity write operation.
func (s *Synapse) SetWeight(w float64) { s.Weight = w }

// IncrementDelay is a plasticity write operation (myelin-plasticity rules);
// the result is clamped at zero since delays are never negative.
func (s *Synapse) IncrementDelay(delta float64) {
	s.Delay += delta
	if s.Delay < 0 {
		s.Delay = 0
	}
}
