package sdfkernel

import "gonum.org/v1/gonum/spatial/r3"

// Union implements sd_union(a,b) = min(a,b).
type Union struct{ A, B ImplicitFn }

func (u Union) SignedDistance(p r3.Vec) float64 {
	return minf(u.A.SignedDistance(p), u.B.SignedDistance(p))
}

func (u Union) SignedDistanceAndGradient(p r3.Vec) (float64, r3.Vec) {
	da, ga := u.A.SignedDistanceAndGradient(p)
	db, gb := u.B.SignedDistanceAndGradient(p)
	if da <= db {
		return da, ga
	}
	return db, gb
}

func (u Union) AABB() (min, max r3.Vec) {
	aMin, aMax := u.A.AABB()
	bMin, bMax := u.B.AABB()
	return r3.Vec{X: minf(aMin.X, bMin.X), Y: minf(aMin.Y, bMin.Y), Z: minf(aMin.Z, bMin.Z)},
		r3.Vec{X: maxf(aMax.X, bMax.X), Y: maxf(aMax.Y, bMax.Y), Z: maxf(aMax.Z, bMax.Z)}
}

// Intersection implements sd_intersection(a,b) = max(a,b).
type Intersection struct{ A, B ImplicitFn }

func (x Intersection) SignedDistance(p r3.Vec) float64 {
	return maxf(x.A.SignedDistance(p), x.B.SignedDistance(p))
}

func (x Intersection) SignedDistanceAndGradient(p r3.Vec) (float64, r3.Vec) {
	da, ga := x.A.SignedDistanceAndGradient(p)
	db, gb := x.B.SignedDistanceAndGradient(p)
	if da >= db {
		return da, ga
	}
	return db, gb
}

func (x Intersection) AABB() (min, max r3.Vec) {
	aMin, aMax := x.A.AABB()
	bMin, bMax := x.B.AABB()
	return r3.Vec{X: maxf(aMin.X, bMin.X), Y: maxf(aMin.Y, bMin.Y), Z: maxf(aMin.Z, bMin.Z)},
		r3.Vec{X: minf(aMax.X, bMax.X), Y: minf(aMax.Y, bMax.Y), Z: minf(aMax.Z, bMax.Z)}
}

// Difference implements sd_difference(a,b) = max(a, -b).
type Difference struct{ A, B ImplicitFn }

func (d Difference) SignedDistance(p r3.Vec) float64 {
	return maxf(d.A.SignedDistance(p), -d.B.SignedDistance(p))
}

func (d Difference) SignedDistanceAndGradient(p r3.Vec) (float64, r3.Vec) {
	da, ga := d.A.SignedDistanceAndGradient(p)
	db, gb := d.B.SignedDistanceAndGradient(p)
	negDb := -db
	if da >= negDb {
		return da, ga
	}
	return negDb, r3.Scale(-1, gb)
}

func (d Difference) AABB() (min, max r3.Vec) {
	return d.A.AABB()
}

// Complement implements sd_complement(a) = -a.
type Complement struct{ A ImplicitFn }

func (c Complement) SignedDistance(p r3.Vec) float64 {
	return -c.A.SignedDistance(p)
}

func (c Complement) SignedDistanceAndGradient(p r3.Vec) (float64, r3.Vec) {
	d, g := c.A.SignedDistanceAndGradient(p)
	return -d, r3.Scale(-1, g)
}

func (c Complement) AABB() (min, max r3.Vec) {
	return c.A.AABB()
}
