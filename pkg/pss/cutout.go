package pss

import "github.com/chazu/csgevo/pkg/manifold"

// TuneStaticCutouts re-evaluates each static primitive with cutout forced
// to false and to true, keeping whichever orientation yields the higher
// rank against the given (already-optimised) foreground set. Run once
// after the GA loop completes.
func TuneStaticCutouts(rk *Ranker, foreground Set, static []manifold.Primitive) []manifold.Primitive {
	tuned := make([]manifold.Primitive, len(static))
	for i, p := range static {
		off := p.WithCutout(false)
		on := p.WithCutout(true)

		rankWith := func(candidate manifold.Primitive) float64 {
			others := make([]manifold.Primitive, 0, len(static))
			for j, s := range static {
				if j == i {
					continue
				}
				others = append(others, s)
			}
			saved := rk.Params.StaticPrimitives
			rk.Params.StaticPrimitives = append([]manifold.Primitive{candidate}, others...)
			score := rk.Rank(foreground)
			rk.Params.StaticPrimitives = saved
			return score
		}

		if rankWith(on) > rankWith(off) {
			tuned[i] = on
		} else {
			tuned[i] = off
		}
	}
	return tuned
}
