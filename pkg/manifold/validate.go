package manifold

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/sdfkernel"
)

// ValidationSeverity indicates whether a validation finding blocks
// acceptance of a primitive or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks acceptance
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding against a
// primitive under construction.
type ValidationError struct {
	PrimitiveID PrimitiveID
	Message     string
	Severity    ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.PrimitiveID == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] primitive %s: %s", e.Severity, e.PrimitiveID, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	PrimitiveID PrimitiveID
	Message     string
}

// ValidationResult bundles errors (blocking) and warnings (advisory) from
// all validation tiers run against a primitive.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// Valid reports whether the result contains no blocking errors.
func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Validate runs the well-formedness checks appropriate to p.Kind and
// returns the combined result. Geometry-consistency checks (area/geo
// score) live in the ranker, not here — this is structural-only, mirroring
// the tiering the design-graph validator uses.
func Validate(p Primitive, angleEps, minParallelDist float64) ValidationResult {
	switch p.Kind {
	case KindBox:
		return validateBox(p, angleEps, minParallelDist)
	case KindCylinderPrim:
		return validateCylinder(p, angleEps)
	case KindSpherePrim:
		return validateSphere(p)
	default:
		return ValidationResult{Errors: []ValidationError{{
			PrimitiveID: p.ID,
			Message:     "primitive has no recognised kind",
			Severity:    SeverityError,
		}}}
	}
}

// validateBox checks the three-parallel-pairs, mutual-perpendicularity and
// inward/outward orientation invariants a constructed box must satisfy.
func validateBox(p Primitive, angleEps, minParallelDist float64) ValidationResult {
	var res ValidationResult

	if len(p.MS) != 6 {
		res.Errors = append(res.Errors, ValidationError{
			PrimitiveID: p.ID,
			Message:     fmt.Sprintf("box has %d supporting planes, want 6", len(p.MS)),
			Severity:    SeverityError,
		})
		return res
	}

	var axes []r3.Vec
	for pair := 0; pair < 3; pair++ {
		a, b := p.MS[2*pair], p.MS[2*pair+1]
		if a.Kind != KindPlane || b.Kind != KindPlane {
			res.Errors = append(res.Errors, ValidationError{
				PrimitiveID: p.ID,
				Message:     fmt.Sprintf("pair %d is not a plane pair", pair),
				Severity:    SeverityError,
			})
			continue
		}
		cos := math.Abs(r3.Dot(a.N, b.N))
		if cos < math.Cos(angleEps) {
			res.Errors = append(res.Errors, ValidationError{
				PrimitiveID: p.ID,
				Message:     fmt.Sprintf("pair %d planes are not parallel (cos=%.4f)", pair, cos),
				Severity:    SeverityError,
			})
		}
		dist := math.Abs(r3.Dot(a.N, r3.Sub(a.P, b.P)))
		if dist < minParallelDist {
			res.Warnings = append(res.Warnings, ValidationWarning{
				PrimitiveID: p.ID,
				Message:     fmt.Sprintf("pair %d planes are only %.6g apart", pair, dist),
			})
		}
		if r3.Dot(a.N, r3.Sub(b.P, a.P)) > 0 {
			res.Warnings = append(res.Warnings, ValidationWarning{
				PrimitiveID: p.ID,
				Message:     fmt.Sprintf("pair %d normal orientation looks inward rather than outward", pair),
			})
		}
		axes = append(axes, a.N)
	}

	for i := 0; i < len(axes); i++ {
		for j := i + 1; j < len(axes); j++ {
			cos := math.Abs(r3.Dot(axes[i], axes[j]))
			if cos > math.Sin(angleEps) {
				res.Errors = append(res.Errors, ValidationError{
					PrimitiveID: p.ID,
					Message:     fmt.Sprintf("pair axes %d and %d are not perpendicular (cos=%.4f)", i, j, cos),
					Severity:    SeverityError,
				})
			}
		}
	}

	return res
}

// validateCylinder checks that a cylinder primitive has a positive radius
// and height, and that any explicit cap planes are perpendicular to the axis.
func validateCylinder(p Primitive, angleEps float64) ValidationResult {
	var res ValidationResult

	if len(p.MS) == 0 || p.MS[0].Kind != KindCylinder {
		res.Errors = append(res.Errors, ValidationError{
			PrimitiveID: p.ID,
			Message:     "cylinder primitive is missing its cylindrical manifold",
			Severity:    SeverityError,
		})
		return res
	}

	axis := p.MS[0].N
	if p.MS[0].Radius() <= 0 {
		res.Errors = append(res.Errors, ValidationError{
			PrimitiveID: p.ID,
			Message:     "cylinder radius must be positive",
			Severity:    SeverityError,
		})
	}
	if c, ok := p.Implicit.(*sdfkernel.CylinderCapped); ok && c.Height() <= 0 {
		res.Errors = append(res.Errors, ValidationError{
			PrimitiveID: p.ID,
			Message:     "cylinder height must be positive",
			Severity:    SeverityError,
		})
	}

	for i := 1; i < len(p.MS); i++ {
		cap := p.MS[i]
		if cap.Kind != KindPlane {
			res.Warnings = append(res.Warnings, ValidationWarning{
				PrimitiveID: p.ID,
				Message:     fmt.Sprintf("supporting manifold %d is not a cap plane", i),
			})
			continue
		}
		cos := math.Abs(r3.Dot(cap.N, axis))
		if cos < math.Cos(angleEps) {
			res.Errors = append(res.Errors, ValidationError{
				PrimitiveID: p.ID,
				Message:     fmt.Sprintf("cap %d is not perpendicular to the cylinder axis (cos=%.4f)", i, cos),
				Severity:    SeverityError,
			})
		}
	}

	if len(p.MS) > 3 {
		res.Warnings = append(res.Warnings, ValidationWarning{
			PrimitiveID: p.ID,
			Message:     fmt.Sprintf("cylinder carries %d supporting manifolds, more than the 1 axis + 2 caps expected", len(p.MS)),
		})
	}

	return res
}

// validateSphere checks that a sphere primitive has a positive radius.
func validateSphere(p Primitive) ValidationResult {
	var res ValidationResult
	if len(p.MS) == 0 || p.MS[0].Kind != KindSphere {
		res.Errors = append(res.Errors, ValidationError{
			PrimitiveID: p.ID,
			Message:     "sphere primitive is missing its spherical manifold",
			Severity:    SeverityError,
		})
		return res
	}
	if p.MS[0].Radius() <= 0 {
		res.Errors = append(res.Errors, ValidationError{
			PrimitiveID: p.ID,
			Message:     "sphere radius must be positive",
			Severity:    SeverityError,
		})
	}
	return res
}

// IsEmptyFn reports whether p's implicit function is the empty sentinel,
// i.e. construction silently degenerated rather than failing outright.
func IsEmptyFn(p Primitive) bool {
	return p.Implicit == nil || sdfkernel.IsEmpty(p.Implicit)
}
