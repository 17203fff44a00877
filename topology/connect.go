package topology

import (
	"math/rand"

	"github.com/SynapticNetworks/hummus/distribution"
	"github.com/SynapticNetworks/hummus/snntypes"
	"github.com/SynapticNetworks/hummus/synapse"
)

// WeightDelay describes how a connection generator samples a synapse's
// weight and delay at construction (spec.md §4.5, "Weight/delay
// distributions are sampled at construction").
type WeightDelay struct {
	WeightKind   distribution.Kind
	WeightParams distribution.Params
	DelayKind    distribution.Kind
	DelayParams  distribution.Params
	Kernel       synapse.KernelKind
	TimeConstant float64
}

func (wd WeightDelay) sample(rng *rand.Rand) synapse.Config {
	return synapse.Config{
		Weight:       distribution.Sample(wd.WeightKind, wd.WeightParams, rng),
		Delay:        distribution.Sample(wd.DelayKind, wd.DelayParams, rng),
		Kernel:       wd.Kernel,
		TimeConstant: wd.TimeConstant,
	}
}

// AllToAll connects every pre neuron to every post neuron independently
// with the given probability (spec.md §4.5, "all_to_all(pre, post,
// probability, dist, …)").
func AllToAll(b Builder, pre, post *Layer, probability float64, wd WeightDelay, rng *rand.Rand) ([]snntypes.SynapseID, error) {
	var ids []snntypes.SynapseID
	for _, preID := range pre.Neurons {
		for _, postID := range post.Neurons {
			if rng.Float64() >= probability {
				continue
			}
			id, err := b.NewSynapse(preID, postID, wd.sample(rng))
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// OneToOne connects pre[i] to post[i] for every i, requiring equal length
// layers (spec.md §4.5, "one_to_one(pre, post, dist, …)").
func OneToOne(b Builder, pre, post *Layer, wd WeightDelay, rng *rand.Rand) ([]snntypes.SynapseID, error) {
	if len(pre.Neurons) != len(post.Neurons) {
		return nil, snntypes.NewConfigError("topology", "one_to_one requires equal-length layers")
	}
	var ids []snntypes.SynapseID
	for i := range pre.Neurons {
		id, err := b.NewSynapse(pre.Neurons[i], post.Neurons[i], wd.sample(rng))
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Convolution connects a presynaptic neuron to a post neuron only when the
// presynaptic neuron's grid position falls inside the post neuron's
// receptive field, each such pair independently gated by probability
// (spec.md §4.5, "convolution(pre, post, probability, dist, …)").
func Convolution(b Builder, pre, post *Layer, fields map[snntypes.NeuronID]ReceptiveField, probability float64, wd WeightDelay, rng *rand.Rand) ([]snntypes.SynapseID, error) {
	var ids []snntypes.SynapseID
	for _, postID := range post.Neurons {
		field, ok := fields[postID]
		if !ok {
			continue
		}
		for _, preID := range pre.Neurons {
			if !field.Contains(pre.Positions[preID]) {
				continue
			}
			if rng.Float64() >= probability {
				continue
			}
			id, err := b.NewSynapse(preID, postID, wd.sample(rng))
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Pooling connects exactly one presynaptic neuron per post neuron's
// receptive field (the first one found within it, by construction order)
// (spec.md §4.5, "pooling(pre, post, probability, dist, …) — one synapse
// per pooling window").
func Pooling(b Builder, pre, post *Layer, fields map[snntypes.NeuronID]ReceptiveField, wd WeightDelay, rng *rand.Rand) ([]snntypes.SynapseID, error) {
	var ids []snntypes.SynapseID
	for _, postID := range post.Neurons {
		field, ok := fields[postID]
		if !ok {
			continue
		}
		for _, preID := range pre.Neurons {
			if !field.Contains(pre.Positions[preID]) {
				continue
			}
			id, err := b.NewSynapse(preID, postID, wd.sample(rng))
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
			break
		}
	}
	return ids, nil
}

// RandomToAll draws fan_in random presynaptic partners (without
// replacement) for every post neuron (spec.md §4.5, "random_to_all(pre,
// post, fan_in, dist)").
func RandomToAll(b Builder, pre, post *Layer, fanIn int, wd WeightDelay, rng *rand.Rand) ([]snntypes.SynapseID, error) {
	var ids []snntypes.SynapseID
	n := len(pre.Neurons)
	if fanIn > n {
		fanIn = n
	}
	for _, postID := range post.Neurons {
		perm := rng.Perm(n)
		for i := 0; i < fanIn; i++ {
			preID := pre.Neurons[perm[i]]
			id, err := b.NewSynapse(preID, postID, wd.sample(rng))
			if err != nil {
				return ids, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
