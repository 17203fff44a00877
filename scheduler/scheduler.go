/*
Package scheduler implements the two run loops the Network facade exposes
(spec.md C6): the event-driven loop that drains a priority queue of
timestamped events, and the clock-driven loop that advances a fixed dt and
lets decay laws integrate every tick. Both loops are single-threaded and
cooperative (spec.md §5) — there is exactly one goroutine walking the
queue or the clock, ever.

Grounded on the donor project's network_autoregen.go style of a small
driving loop over an injected collaborator interface; the
select{}-on-channels event loop that file used is replaced with a plain
heap pop, since spec.md's core has no concurrency to select over.
*/
package scheduler

import (
	"github.com/SynapticNetworks/hummus/addon"
	"github.com/SynapticNetworks/hummus/event"
	"github.com/SynapticNetworks/hummus/neuron"
	"github.com/SynapticNetworks/hummus/snntypes"
)

// Core is everything a run loop needs from the Network facade: the
// neuron.Network surface every neuron hook expects, plus queue control,
// layer activation and addon/pattern-boundary bookkeeping. network.Network
// implements this structurally.
type Core interface {
	neuron.Network

	PopEvent() (event.Event, bool)
	PushEvent(e event.Event)
	SetNow(t float64)

	ActiveLayerIDs() []snntypes.LayerID
	Addons() []addon.Addon

	SetCurrentLabel(label string)
	IncrementPresentation()
}

// neuronForSynapse resolves the postsynaptic neuron an event's synapse id
// targets, or nil if the event carries no synapse.
func neuronForSynapse(c Core, synID uint32) *neuron.Neuron {
	if synID == uint32(snntypes.NoSynapse) {
		return nil
	}
	syn := c.Synapse(snntypes.SynapseID(synID))
	if syn == nil {
		return nil
	}
	return c.NeuronPtr(syn.Post)
}

// RunEventDriven pops events until the queue drains or now exceeds tMax
// (spec.md §4.6).
func RunEventDriven(c Core, tMax float64) {
	for {
		ev, ok := c.PopEvent()
		if !ok {
			return
		}
		if ev.Timestamp > tMax {
			c.PushEvent(ev) // put it back; the caller may resume with a later tMax
			return
		}
		c.SetNow(ev.Timestamp)

		switch ev.Kind {
		case event.KindDecision:
			dispatchDecision(c, ev)
			continue
		}

		n := neuronForSynapse(c, ev.SynapseID)
		if n == nil {
			continue
		}
		n.Update(ev.Timestamp, snntypes.SynapseID(ev.SynapseID), c, ev.Kind)
	}
}

// RunClockDriven advances now by dt until tMax, draining due events into
// their neurons and then ticking every neuron in every active layer with
// the synthetic None kind (spec.md §4.6).
func RunClockDriven(c Core, tMax, dt float64) {
	start := c.Now()
	for k := 0; start+float64(k)*dt <= tMax; k++ {
		// Tick k sits at start + k*dt exactly; summing dt tick by tick would
		// drift below event timestamps computed the same way.
		now := start + float64(k)*dt
		c.SetNow(now)

		for {
			ev, ok := c.PopEvent()
			if !ok {
				break
			}
			if ev.Timestamp > now {
				c.PushEvent(ev)
				break
			}
			if ev.Kind == event.KindDecision {
				dispatchDecision(c, ev)
				continue
			}
			n := neuronForSynapse(c, ev.SynapseID)
			if n != nil {
				n.UpdateSync(ev.Timestamp, snntypes.SynapseID(ev.SynapseID), c, dt, ev.Kind)
			}
		}

		for _, layerID := range c.ActiveLayerIDs() {
			for _, id := range c.NeuronsInLayer(layerID) {
				n := c.NeuronPtr(id)
				if n == nil {
					continue
				}
				n.UpdateSync(now, snntypes.NoSynapse, c, dt, event.KindNone)
			}
		}

		for _, a := range c.Addons() {
			a.Timestep(now, snntypes.NoNeuron, c)
		}
	}
}

// dispatchDecision drives the decision layer the event targets; ev.SynapseID
// is repurposed as the decision layer's LayerID so a single event can fan
// out to every neuron in that layer. The layer's candidate (KindDecision)
// neurons share one presynaptic population, so their votes are tallied
// once into a single layer-wide winner and their shared decision_queue
// entries are cleared once, rather than each candidate tallying and
// clearing independently — otherwise the first candidate processed would
// steal and zero every other candidate's tally (spec.md §4.4:
// decision_failed means the whole pattern found no winner, not that one
// non-winning candidate lost the vote). Non-candidate neurons in the layer
// (e.g. a Regression neuron) still dispatch through their own Update.
func dispatchDecision(c Core, ev event.Event) {
	layer := snntypes.LayerID(ev.SynapseID)
	ids := c.NeuronsInLayer(layer)
	if len(ids) == 0 {
		c.NotifyDecisionFailed(ev.Timestamp)
		return
	}

	var candidates []*neuron.Neuron
	votes := make(map[string]int)
	seen := make(map[*neuron.Neuron]bool)

	for _, id := range ids {
		n := c.NeuronPtr(id)
		if n == nil {
			continue
		}
		if n.Kind != neuron.KindDecision {
			n.Update(ev.Timestamp, snntypes.NoSynapse, c, event.KindDecision)
			continue
		}
		candidates = append(candidates, n)
		n.TallyDecisionVotes(c, votes, seen)
	}
	if len(candidates) == 0 {
		return
	}

	winner, count := "", 0
	for label, v := range votes {
		if v > count {
			winner, count = label, v
		}
	}

	fired := false
	for _, n := range candidates {
		if n.FireOnDecisionWinner(ev.Timestamp, c, winner) {
			fired = true
		}
	}
	if !fired {
		c.NotifyDecisionFailed(ev.Timestamp)
	}

	for pre := range seen {
		pre.DecisionQueue = nil
	}
}

// PatternBoundary inserts the None sentinel, calls on_pattern_end on every
// addon, optionally injects a Decision event to the decision layer, and
// advances the presentation counter (spec.md §4.6, "Pattern boundaries").
func PatternBoundary(c Core, decisionLayer snntypes.LayerID, injectDecision bool) {
	c.PushEvent(event.Event{Timestamp: c.Now(), Kind: event.KindNone})
	for _, a := range c.Addons() {
		a.OnPatternEnd(c)
	}
	if injectDecision {
		c.PushEvent(event.Event{Timestamp: c.Now(), SynapseID: uint32(decisionLayer), Kind: event.KindDecision})
	}
	c.IncrementPresentation()
}
