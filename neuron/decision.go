package neuron

import (
	"github.com/SynapticNetworks/hummus/event"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// TallyDecisionVotes reads (without clearing) this neuron's presynaptic
// decision_queue entries into votes, skipping any presynaptic neuron
// already present in seen. A decision layer fans one event out to every
// class's neuron (spec.md §4.4), and they all share the same presynaptic
// population, so seen lets the caller tally that population exactly once
// across the whole layer instead of once per candidate.
func (n *Neuron) TallyDecisionVotes(net Network, votes map[string]int, seen map[*Neuron]bool) {
	for _, sid := range n.Dendrites {
		syn := net.Synapse(sid)
		if syn == nil {
			continue
		}
		pre := net.NeuronPtr(syn.Pre)
		if pre == nil || seen[pre] {
			continue
		}
		seen[pre] = true
		window := pre.DecisionQueue
		if n.Decision.HistogramWindow > 0 && len(window) > n.Decision.HistogramWindow {
			window = window[len(window)-n.Decision.HistogramWindow:]
		}
		for _, label := range window {
			votes[label]++
		}
	}
}

// FireOnDecisionWinner fires this neuron if winner (the layer-wide winner
// already resolved by the caller) matches its own class_label, and reports
// whether it fired (spec.md §4.3, §4.4).
func (n *Neuron) FireOnDecisionWinner(now float64, net Network, winner string) bool {
	if winner != "" && winner == n.Decision.ClassLabel {
		n.fire(now, snntypes.NoSynapse, net)
		return true
	}
	return false
}

// updateDecision implements a standalone Decision neuron: on a Decision
// event it tallies its own presynaptic population, fires if the winning
// label matches its own class_label, and otherwise reports a decision
// failure (spec.md §4.3). The scheduler does not use this path: it hands
// every Decision event to scheduler.dispatchDecision, whatever the number of
// candidate neurons, which resolves one layer-wide winner and clears the
// shared presynaptic queues exactly once per dispatch cycle rather than per
// candidate.
func (n *Neuron) updateDecision(now float64, net Network, kind event.Kind) {
	if kind != event.KindDecision {
		return
	}

	votes := make(map[string]int)
	seen := make(map[*Neuron]bool)
	n.TallyDecisionVotes(net, votes, seen)

	winner, count := "", 0
	for label, v := range votes {
		if v > count {
			winner, count = label, v
		}
	}

	fired := n.FireOnDecisionWinner(now, net, winner)

	for pre := range seen {
		pre.DecisionQueue = nil
	}

	if !fired {
		net.NotifyDecisionFailed(now)
	}
}

// updateRegression implements the Regression neuron: ordinary spike events
// accumulate a feature vector, and a Decision event delegates the class
// call to the attached regression model (spec.md §4.3).
func (n *Neuron) updateRegression(now float64, via snntypes.SynapseID, net Network, kind event.Kind) {
	switch kind {
	case event.KindInitial, event.KindGenerated:
		net.NotifyIncomingSpike(now, via, n.ID)
		syn := net.Synapse(via)
		if syn == nil {
			return
		}
		contribution := syn.ReceiveSpike(now, net.RNG())
		n.Regression.Features = append(n.Regression.Features, contribution)

	case event.KindDecision:
		if n.Regression.Model == nil {
			return
		}
		label, err := n.Regression.Model.Predict(n.Regression.Features)
		n.Regression.Features = nil
		if err != nil {
			net.NotifyDecisionFailed(now)
			return
		}
		n.ClassLabel = label
		n.fire(now, via, net)
	}
}
