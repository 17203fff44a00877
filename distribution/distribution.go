/*
Package distribution samples synaptic weights and delays from the
parameterized distributions the topology builder's connection generators
offer (spec.md §4.5). Normal, Uniform and LogNormal are thin wrappers
around gonum's stat/distuv; distuv has no Cauchy distribution, so it is
implemented here directly via inverse-CDF sampling, the standard technique
gonum itself uses internally for the distributions it does provide.
*/
package distribution

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Kind selects which distribution Sample draws from.
type Kind int

const (
	KindNormal Kind = iota
	KindUniform
	KindLogNormal
	KindCauchy
)

// Params holds the parameters for whichever Kind is in use: (Mean, Sigma)
// for Normal/LogNormal, (Min, Max) for Uniform, (Location, Scale) for
// Cauchy.
type Params struct {
	A, B float64
}

// Sample draws one value from the given distribution using rng as the
// source, so callers control reproducibility the same way the rest of the
// simulator's RNG usage does (spec.md §5, "RNG is owned by Network").
func Sample(kind Kind, p Params, rng *rand.Rand) float64 {
	switch kind {
	case KindNormal:
		d := distuv.Normal{Mu: p.A, Sigma: p.B, Src: rng}
		return d.Rand()
	case KindUniform:
		d := distuv.Uniform{Min: p.A, Max: p.B, Src: rng}
		return d.Rand()
	case KindLogNormal:
		d := distuv.LogNormal{Mu: p.A, Sigma: p.B, Src: rng}
		return d.Rand()
	case KindCauchy:
		return cauchyRand(p.A, p.B, rng)
	default:
		return 0
	}
}

// cauchyRand draws from a Cauchy(location, scale) distribution via its
// inverse CDF: F^-1(u) = location + scale*tan(π*(u-0.5)).
func cauchyRand(location, scale float64, rng *rand.Rand) float64 {
	u := rng.Float64()
	return location + scale*math.Tan(math.Pi*(u-0.5))
}
