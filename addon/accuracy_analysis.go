package addon

import (
	"github.com/SynapticNetworks/hummus/neuron"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// AccuracyAnalysis tallies classification accuracy across pattern
// presentations: a correct decision is a NeuronFired on the decision layer
// whose neuron class label matches the label active when the pattern was
// presented; a decision_failed counts as a miss (spec.md §4.4).
type AccuracyAnalysis struct {
	BaseAddon
	expected func() string // returns the label of the pattern just presented

	Correct int
	Total   int
}

// NewAccuracyAnalysis binds the rule to the decision layer's neuron mask.
// expected reports the ground-truth label for whichever pattern is active;
// the caller supplies it (for example the facade's CurrentLabel method).
func NewAccuracyAnalysis(mask *Mask, expected func() string) *AccuracyAnalysis {
	return &AccuracyAnalysis{BaseAddon: NewBaseAddon(mask), expected: expected}
}

func (a *AccuracyAnalysis) NeuronFired(t float64, syn snntypes.SynapseID, post snntypes.NeuronID, net Network) {
	if !a.Mask().Watches(post) {
		return
	}
	n := net.NeuronPtr(post)
	if n == nil || a.expected == nil {
		return
	}
	a.Total++
	label := n.ClassLabel
	if n.Kind == neuron.KindDecision {
		label = n.Decision.ClassLabel
	}
	if label == a.expected() {
		a.Correct++
	}
}

func (a *AccuracyAnalysis) DecisionFailed(t float64, net Network) {
	a.Total++
}

// Accuracy returns the running fraction correct, 0 when no decisions have
// been tallied yet.
func (a *AccuracyAnalysis) Accuracy() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Correct) / float64(a.Total)
}
