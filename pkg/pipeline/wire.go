package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/manifold"
	"github.com/chazu/csgevo/pkg/sdfkernel"
)

// WirePlane is one half-space in a box's serialized plane list.
type WirePlane struct {
	P [3]float64 `json:"p"`
	N [3]float64 `json:"n"`
}

// WireGeometry is a primitive descriptor as carried by a Geometry node's
// "params" field: a 4x4 row-major transform plus the kind-specific
// dimensions.
type WireGeometry struct {
	Kind      string       `json:"kind"`
	Transform [16]float64  `json:"transform"`
	R         *float64     `json:"r,omitempty"`
	H         *float64     `json:"h,omitempty"`
	Planes    []WirePlane  `json:"planes,omitempty"`
}

// WireNode is a CSG tree node as read from or written to the input/output
// JSON schema.
type WireNode struct {
	Op     string        `json:"op"`
	Name   string        `json:"name"`
	Childs []WireNode    `json:"childs,omitempty"`
	Params *WireGeometry `json:"params,omitempty"`
}

// IdentityTransform is the row-major identity, used when a primitive's
// geometry is already expressed in world space (boxes, whose plane list
// is always absolute).
var IdentityTransform = [16]float64{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// DecodeTree parses r into a RawNode tree, building a manifold.Primitive
// for each Geometry leaf. It returns InputInvalid-flavoured errors (see
// pkg/pipeline/errors.go) on any malformed node.
func DecodeTree(r io.Reader) (*csgtree.RawNode, error) {
	var w WireNode
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputInvalid, err)
	}
	return decodeNode(w)
}

func decodeNode(w WireNode) (*csgtree.RawNode, error) {
	switch w.Op {
	case "Geometry":
		if w.Params == nil {
			return nil, fmt.Errorf("%w: geometry node %q has no params", ErrInputInvalid, w.Name)
		}
		prim, err := buildPrimitive(*w.Params)
		if err != nil {
			return nil, fmt.Errorf("%w: geometry node %q: %v", ErrInputInvalid, w.Name, err)
		}
		return &csgtree.RawNode{Op: csgtree.OpGeometry, Primitive: prim}, nil
	case "Union":
		return decodeChildren(w, csgtree.OpUnion)
	case "Intersection":
		return decodeChildren(w, csgtree.OpIntersection)
	case "Difference":
		return decodeChildren(w, csgtree.OpDifference)
	case "Complement":
		return decodeChildren(w, csgtree.OpComplement)
	default:
		return nil, fmt.Errorf("%w: unknown op %q", ErrInputInvalid, w.Op)
	}
}

func decodeChildren(w WireNode, op csgtree.Op) (*csgtree.RawNode, error) {
	children := make([]*csgtree.RawNode, len(w.Childs))
	for i, c := range w.Childs {
		child, err := decodeNode(c)
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return &csgtree.RawNode{Op: op, Children: children}, nil
}

func buildPrimitive(g WireGeometry) (manifold.Primitive, error) {
	switch g.Kind {
	case "sphere":
		centre, _ := decomposeTransform(g.Transform)
		if g.R == nil {
			return manifold.None, fmt.Errorf("sphere missing r")
		}
		p, ok := manifold.CreateSphere(manifold.Sphere(centre, *g.R, nil))
		if !ok {
			return manifold.None, fmt.Errorf("degenerate sphere")
		}
		return p, nil

	case "cylinder":
		centre, axes := decomposeTransform(g.Transform)
		if g.R == nil || g.H == nil {
			return manifold.None, fmt.Errorf("cylinder missing r or h")
		}
		axis := axes[2]
		impl, ok := sdfkernel.NewCylinderCapped(centre, axis, *g.R, *g.H)
		if !ok {
			return manifold.None, fmt.Errorf("degenerate cylinder")
		}
		cyl := manifold.Cylinder(centre, axis, *g.R, nil)
		return manifold.Primitive{
			ID:       manifold.NewPrimitiveID(),
			Kind:     manifold.KindCylinderPrim,
			Implicit: impl,
			MS:       []manifold.Manifold{cyl},
		}, nil

	case "box":
		if len(g.Planes) != 6 {
			return manifold.None, fmt.Errorf("box needs exactly 6 planes, got %d", len(g.Planes))
		}
		faces := make([]sdfkernel.HalfSpace, 6)
		ms := make([]manifold.Manifold, 6)
		for i, pl := range g.Planes {
			p := r3.Vec{X: pl.P[0], Y: pl.P[1], Z: pl.P[2]}
			n := r3.Vec{X: pl.N[0], Y: pl.N[1], Z: pl.N[2]}
			faces[i] = sdfkernel.HalfSpace{P: p, N: n}
			ms[i] = manifold.Plane(p, n, nil)
		}
		impl, ok := sdfkernel.NewPolytope(faces)
		if !ok || sdfkernel.IsEmpty(impl) {
			return manifold.None, fmt.Errorf("degenerate or infeasible box")
		}
		return manifold.Primitive{
			ID:       manifold.NewPrimitiveID(),
			Kind:     manifold.KindBox,
			Implicit: impl,
			MS:       ms,
		}, nil

	default:
		return manifold.None, fmt.Errorf("unknown primitive kind %q", g.Kind)
	}
}

// decomposeTransform extracts the translation and the three rotation-axis
// columns from a row-major 4x4 affine transform.
func decomposeTransform(t [16]float64) (translate r3.Vec, axes [3]r3.Vec) {
	m := mat.NewDense(4, 4, t[:])
	translate = r3.Vec{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}
	for col := 0; col < 3; col++ {
		axes[col] = r3.Vec{X: m.At(0, col), Y: m.At(1, col), Z: m.At(2, col)}
	}
	return translate, axes
}

// EncodeTree renders n into the output JSON schema and writes it to w.
func EncodeTree(w io.Writer, n *csgtree.Node) error {
	wn := encodeNode(n)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wn)
}

func encodeNode(n *csgtree.Node) WireNode {
	if n == nil {
		return WireNode{Op: "Noop"}
	}
	switch n.Op {
	case csgtree.OpGeometry:
		return WireNode{Op: "Geometry", Params: encodeGeometry(n.Primitive)}
	case csgtree.OpUnion:
		return WireNode{Op: "Union", Childs: []WireNode{encodeNode(n.Left), encodeNode(n.Right)}}
	case csgtree.OpIntersection:
		return WireNode{Op: "Intersection", Childs: []WireNode{encodeNode(n.Left), encodeNode(n.Right)}}
	case csgtree.OpDifference:
		return WireNode{Op: "Difference", Childs: []WireNode{encodeNode(n.Left), encodeNode(n.Right)}}
	case csgtree.OpComplement:
		return WireNode{Op: "Complement", Childs: []WireNode{encodeNode(n.Left)}}
	default: // OpNoop: pass through, preserving Left's encoding
		return encodeNode(n.Left)
	}
}

func encodeGeometry(p manifold.Primitive) *WireGeometry {
	switch p.Kind {
	case manifold.KindSpherePrim:
		m := p.MS[0]
		t := IdentityTransform
		t[3], t[7], t[11] = m.P.X, m.P.Y, m.P.Z
		r := m.Radius()
		return &WireGeometry{Kind: "sphere", Transform: t, R: &r}

	case manifold.KindCylinderPrim:
		m := p.MS[0]
		centre, axis, h := m.P, m.N, 0.0
		if c, ok := p.Implicit.(*sdfkernel.CylinderCapped); ok {
			centre, axis, h = c.Point(), c.Axis(), c.Height()
		}
		t := translationAndAxisTransform(centre, axis)
		r := m.Radius()
		return &WireGeometry{Kind: "cylinder", Transform: t, R: &r, H: &h}

	case manifold.KindBox:
		planes := make([]WirePlane, len(p.MS))
		for i, m := range p.MS {
			planes[i] = WirePlane{P: [3]float64{m.P.X, m.P.Y, m.P.Z}, N: [3]float64{m.N.X, m.N.Y, m.N.Z}}
		}
		return &WireGeometry{Kind: "box", Transform: IdentityTransform, Planes: planes}

	default:
		return &WireGeometry{Kind: "none", Transform: IdentityTransform}
	}
}

func translationAndAxisTransform(centre, axis r3.Vec) [16]float64 {
	u, v := sdfkernel.OrthonormalBasis(axis)
	t := [16]float64{
		u.X, v.X, axis.X, centre.X,
		u.Y, v.Y, axis.Y, centre.Y,
		u.Z, v.Z, axis.Z, centre.Z,
		0, 0, 0, 1,
	}
	return t
}
