package manifold

import (
	"github.com/google/uuid"

	"github.com/chazu/csgevo/pkg/sdfkernel"
)

// PrimitiveID uniquely identifies a primitive instance. Unlike the
// teacher's content-addressed NodeID, primitives are randomly generated
// by the search, so identity is assigned rather than derived.
type PrimitiveID string

// NewPrimitiveID generates a fresh random primitive identifier.
func NewPrimitiveID() PrimitiveID {
	return PrimitiveID(uuid.NewString())
}

// PrimitiveKind distinguishes the three assembled volumetric bodies, plus
// the None sentinel used when construction fails.
type PrimitiveKind int

const (
	KindNone PrimitiveKind = iota
	KindBox
	KindCylinderPrim
	KindSpherePrim
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindCylinderPrim:
		return "cylinder"
	case KindSpherePrim:
		return "sphere"
	default:
		return "none"
	}
}

// Primitive is an assembled volumetric body: an implicit function backed
// by the manifolds it was built from, plus whether it acts as a cutout
// (subtracted) rather than additive member of the evolving union.
type Primitive struct {
	ID        PrimitiveID
	Kind      PrimitiveKind
	Implicit  sdfkernel.ImplicitFn
	MS        []Manifold
	Cutout    bool
}

// None is the sentinel "construction failed" primitive. Callers check
// p.Kind == KindNone (or p.Valid()) and retry/drop, per the
// DegeneratePrimitive error kind; the search never aborts on it.
var None = Primitive{Kind: KindNone}

// Valid reports whether p is a successfully constructed primitive.
func (p Primitive) Valid() bool {
	return p.Kind != KindNone && p.Implicit != nil
}

// WithCutout returns a copy of p with Cutout set, since primitives are
// immutable once constructed.
func (p Primitive) WithCutout(cutout bool) Primitive {
	cp := p
	cp.Cutout = cutout
	return cp
}
