package pss

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/manifold"
)

// MutationKind enumerates the mutation operators the creator can sample.
type MutationKind int

const (
	MutationNew MutationKind = iota
	MutationReplace
	MutationModify
	MutationAdd
	MutationRemove // disabled by default; see Params.MutationDistribution
)

// Params configures the PSS creator.
type Params struct {
	Manifolds                []manifold.Manifold
	IntraCrossProb           float64
	MutationDistribution     map[MutationKind]float64
	MaxMutationIters         int
	MaxCrossoverIters        int
	MaxSetSize               int
	AngleEps                 float64
	MinParallelPlaneDistance float64
}

// DefaultMutationDistribution weighs NEW/REPLACE/MODIFY/ADD equally and
// leaves REMOVE at zero, matching the spec's "disabled in the current
// design" note for that mutation kind.
func DefaultMutationDistribution() map[MutationKind]float64 {
	return map[MutationKind]float64{
		MutationNew:     0.25,
		MutationReplace: 0.25,
		MutationModify:  0.25,
		MutationAdd:     0.25,
		MutationRemove:  0,
	}
}

// Creator implements evo.Creator[Set].
type Creator struct {
	Params Params
}

func (c Creator) planes() []manifold.Manifold    { return byKind(c.Params.Manifolds, manifold.KindPlane) }
func (c Creator) cylinders() []manifold.Manifold { return byKind(c.Params.Manifolds, manifold.KindCylinder) }
func (c Creator) spheres() []manifold.Manifold   { return byKind(c.Params.Manifolds, manifold.KindSphere) }

func byKind(ms []manifold.Manifold, k manifold.Kind) []manifold.Manifold {
	var out []manifold.Manifold
	for _, m := range ms {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

// Create samples a set size uniformly in [1, MaxSetSize] and fills it with
// CreatePrimitive, discarding failed attempts.
func (c Creator) Create(rng *rand.Rand) Set {
	size := 1
	if c.Params.MaxSetSize > 1 {
		size = rng.IntN(c.Params.MaxSetSize) + 1
	}
	var set Set
	attempts := 0
	for len(set) < size && attempts < size*8+8 {
		attempts++
		if p, ok := c.CreatePrimitive(rng); ok {
			set = append(set, p)
		}
	}
	return set
}

// CreatePrimitive builds one random primitive from the available
// manifolds, per the box/cylinder/sphere construction rules, and assigns
// cutout with probability 0.5.
func (c Creator) CreatePrimitive(rng *rand.Rand) (manifold.Primitive, bool) {
	var kinds []manifold.Kind
	if len(c.planes()) >= 6 {
		kinds = append(kinds, manifold.KindPlane)
	}
	if len(c.cylinders()) > 0 {
		kinds = append(kinds, manifold.KindCylinder)
	}
	if len(c.spheres()) > 0 {
		kinds = append(kinds, manifold.KindSphere)
	}
	if len(kinds) == 0 {
		return manifold.None, false
	}
	kind := kinds[rng.IntN(len(kinds))]

	var p manifold.Primitive
	var ok bool
	switch kind {
	case manifold.KindPlane:
		p, ok = c.createBox(rng)
	case manifold.KindCylinder:
		p, ok = c.createCylinder(rng)
	case manifold.KindSphere:
		ms := c.spheres()
		p, ok = manifold.CreateSphere(ms[rng.IntN(len(ms))])
	}
	if !ok {
		return manifold.None, false
	}
	return p.WithCutout(rng.Float64() < 0.5), true
}

func (c Creator) createBox(rng *rand.Rand) (manifold.Primitive, bool) {
	planes := c.planes()
	if len(planes) < 6 {
		return manifold.None, false
	}
	used := make(map[int]bool)

	i0 := rng.IntN(len(planes))
	used[i0] = true
	i1, ok := c.findParallel(planes, planes[i0], used, rng)
	if !ok {
		return manifold.None, false
	}
	used[i1] = true

	i2, ok := c.findPerpendicular(planes, []manifold.Manifold{planes[i0], planes[i1]}, used, rng)
	if !ok {
		return manifold.None, false
	}
	used[i2] = true
	i3, ok := c.findParallel(planes, planes[i2], used, rng)
	if !ok {
		return manifold.None, false
	}
	used[i3] = true

	i4, ok := c.findPerpendicular(planes, []manifold.Manifold{planes[i0], planes[i1], planes[i2], planes[i3]}, used, rng)
	if !ok {
		return manifold.None, false
	}
	used[i4] = true
	i5, ok := c.findParallel(planes, planes[i4], used, rng)
	if !ok {
		return manifold.None, false
	}

	var six [6]manifold.Manifold
	six[0], six[1] = planes[i0], planes[i1]
	six[2], six[3] = planes[i2], planes[i3]
	six[4], six[5] = planes[i4], planes[i5]
	return manifold.CreateBox(six, c.Params.AngleEps, c.Params.MinParallelPlaneDistance)
}

func (c Creator) findParallel(planes []manifold.Manifold, ref manifold.Manifold, used map[int]bool, rng *rand.Rand) (int, bool) {
	var candidates []int
	for i, m := range planes {
		if used[i] {
			continue
		}
		cos := math.Abs(r3.Dot(ref.N, m.N))
		if cos < math.Cos(c.Params.AngleEps) {
			continue
		}
		if math.Abs(r3.Dot(ref.N, r3.Sub(ref.P, m.P))) < c.Params.MinParallelPlaneDistance {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.IntN(len(candidates))], true
}

func (c Creator) findPerpendicular(planes []manifold.Manifold, chosen []manifold.Manifold, used map[int]bool, rng *rand.Rand) (int, bool) {
	var candidates []int
	for i, m := range planes {
		if used[i] {
			continue
		}
		ok := true
		for _, ch := range chosen {
			cos := math.Abs(r3.Dot(ch.N, m.N))
			if cos > math.Sin(c.Params.AngleEps) { // should be ~perpendicular, cos~0
				ok = false
				break
			}
		}
		if ok {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[rng.IntN(len(candidates))], true
}

func (c Creator) createCylinder(rng *rand.Rand) (manifold.Primitive, bool) {
	cyls := c.cylinders()
	if len(cyls) == 0 {
		return manifold.None, false
	}
	cyl := cyls[rng.IntN(len(cyls))]

	planes := c.planes()
	var candidates []manifold.Manifold
	for _, pl := range planes {
		if math.Abs(r3.Dot(pl.N, cyl.N)) >= math.Cos(c.Params.AngleEps) {
			candidates = append(candidates, pl)
		}
	}

	numCaps := rng.IntN(3) // 0, 1 or 2
	if numCaps > len(candidates) {
		numCaps = len(candidates)
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	caps := candidates[:numCaps]

	return manifold.CreateCylinder(cyl, caps, c.Params.AngleEps)
}

// Mutate samples a mutation kind from the configured distribution and
// applies it between 1 and MaxMutationIters times.
func (c Creator) Mutate(set Set, rng *rand.Rand) Set {
	iters := 1
	if c.Params.MaxMutationIters > 1 {
		iters = rng.IntN(c.Params.MaxMutationIters) + 1
	}
	for i := 0; i < iters; i++ {
		set = c.mutateOnce(set, rng)
	}
	return set
}

func (c Creator) mutateOnce(set Set, rng *rand.Rand) Set {
	kind := sampleMutation(c.Params.MutationDistribution, rng)
	switch kind {
	case MutationNew:
		return c.Create(rng)
	case MutationReplace:
		if len(set) == 0 {
			return set
		}
		if p, ok := c.CreatePrimitive(rng); ok {
			out := set.Clone()
			out[rng.IntN(len(out))] = p
			return out
		}
		return set
	case MutationModify:
		return c.modifyOne(set, rng)
	case MutationAdd:
		if p, ok := c.CreatePrimitive(rng); ok {
			return append(set.Clone(), p)
		}
		return set
	case MutationRemove:
		if len(set) <= 1 {
			return set
		}
		out := set.Clone()
		i := rng.IntN(len(out))
		return append(out[:i], out[i+1:]...)
	default:
		return set
	}
}

func (c Creator) modifyOne(set Set, rng *rand.Rand) Set {
	if len(set) == 0 {
		return set
	}
	i := rng.IntN(len(set))
	p := set[i]

	switch p.Kind {
	case manifold.KindBox:
		planes := c.planes()
		if len(planes) < 2 {
			return set
		}
		pair := rng.IntN(3)
		a := p.MS[2*pair]
		newPartner, ok := c.findParallelFromList(planes, a, rng)
		if !ok {
			return set
		}
		ms := append([]manifold.Manifold{}, p.MS...)
		ms[2*pair+1] = newPartner
		var six [6]manifold.Manifold
		copy(six[:], ms)
		np, ok := manifold.CreateBox(six, c.Params.AngleEps, c.Params.MinParallelPlaneDistance)
		if !ok {
			return set
		}
		out := set.Clone()
		out[i] = np.WithCutout(p.Cutout)
		return out

	case manifold.KindCylinderPrim:
		np, ok := c.createCylinder(rng)
		if !ok {
			return set
		}
		out := set.Clone()
		out[i] = np.WithCutout(p.Cutout)
		return out

	default: // Sphere: no-op
		return set
	}
}

func (c Creator) findParallelFromList(planes []manifold.Manifold, ref manifold.Manifold, rng *rand.Rand) (manifold.Manifold, bool) {
	var candidates []manifold.Manifold
	for _, m := range planes {
		cos := math.Abs(r3.Dot(ref.N, m.N))
		if cos < math.Cos(c.Params.AngleEps) {
			continue
		}
		if math.Abs(r3.Dot(ref.N, r3.Sub(ref.P, m.P))) < c.Params.MinParallelPlaneDistance {
			continue
		}
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return manifold.Manifold{}, false
	}
	return candidates[rng.IntN(len(candidates))], true
}

func sampleMutation(dist map[MutationKind]float64, rng *rand.Rand) MutationKind {
	if len(dist) == 0 {
		return MutationNew
	}
	var total float64
	for _, w := range dist {
		total += w
	}
	if total <= 0 {
		return MutationNew
	}
	r := rng.Float64() * total
	var acc float64
	kinds := []MutationKind{MutationNew, MutationReplace, MutationModify, MutationAdd, MutationRemove}
	for _, k := range kinds {
		acc += dist[k]
		if r <= acc {
			return k
		}
	}
	return MutationNew
}

// Crossover performs a range-swap crossover, applied symmetrically: a's
// tail from i is replaced by b's tail from j, and b's tail from j is
// replaced by a's tail from i, producing both children. Intra-primitive
// crossover is reserved for future use and currently has no effect.
func (c Creator) Crossover(a, b Set, rng *rand.Rand) (Set, Set) {
	if rng.Float64() < c.Params.IntraCrossProb {
		return a.Clone(), b.Clone() // intra-primitive crossover reserved, no effect yet
	}
	if len(a) == 0 || len(b) == 0 {
		return a.Clone(), b.Clone()
	}
	i := rng.IntN(len(a))
	j := rng.IntN(len(b))

	childA := rangeSwap(a, i, b[j:])
	childB := rangeSwap(b, j, a[i:])
	return childA, childB
}

// rangeSwap returns base[:at] with tail spliced in starting at at,
// extending or truncating base as needed to fit.
func rangeSwap(base Set, at int, tail Set) Set {
	out := base.Clone()
	if at+len(tail) > len(out) {
		out = append(out[:at], make(Set, len(tail))...)
	} else {
		out = out[:at+len(tail)]
	}
	copy(out[at:], tail)
	return out
}
