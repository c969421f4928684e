package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/csgevo/pkg/csgtree"
	"github.com/chazu/csgevo/pkg/manifold"
	"github.com/chazu/csgevo/pkg/pointcloud"
)

func sphereForTest(t *testing.T) manifold.Primitive {
	t.Helper()
	p, ok := manifold.CreateSphere(manifold.Sphere(r3.Vec{}, 1, nil))
	if !ok {
		t.Fatal("CreateSphere failed")
	}
	return p
}

const twoSpheresJSON = `{
  "op": "Union",
  "name": "root",
  "childs": [
    {"op": "Geometry", "name": "a", "params": {"kind": "sphere", "transform": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1], "r": 1}},
    {"op": "Geometry", "name": "b", "params": {"kind": "sphere", "transform": [1,0,0,1.5, 0,1,0,0, 0,0,1,0, 0,0,0,1], "r": 1}},
    {"op": "Geometry", "name": "a", "params": {"kind": "sphere", "transform": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1], "r": 1}}
  ]
}`

func TestDecodeTreeBuildsExpectedShape(t *testing.T) {
	raw, err := DecodeTree(strings.NewReader(twoSpheresJSON))
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if raw.Op != csgtree.OpUnion {
		t.Errorf("Op = %v, want union", raw.Op)
	}
	if len(raw.Children) != 3 {
		t.Errorf("len(Children) = %d, want 3 (dedup happens before decode, not inside it)", len(raw.Children))
	}
}

func TestDedupPrimitivesByNameDropsRepeatedName(t *testing.T) {
	raw, err := DecodeTree(strings.NewReader(twoSpheresJSON))
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	tree, err := csgtree.Binarize(raw)
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	if got := len(tree.Geometries()); got != 3 {
		t.Fatalf("undeduplicated tree has %d geometries, want 3", got)
	}

	result, err := Run(DefaultConfig(), strings.NewReader(twoSpheresJSON), pointcloud.New([][6]float64{{1, 0, 0, 1, 0, 0}}))
	if err != nil && !errors.Is(err, ErrResultIsNoop) {
		t.Fatalf("Run: %v", err)
	}
	if result.Tree != nil {
		if got := len(primitivesOf(result.Tree)); got > 2 {
			t.Errorf("deduplicated+optimised tree has %d primitives, want <= 2", got)
		}
	}
}

func TestEncodeDecodeRoundTripsSphere(t *testing.T) {
	raw, err := DecodeTree(strings.NewReader(`{"op":"Geometry","name":"s","params":{"kind":"sphere","transform":[1,0,0,2, 0,1,0,3, 0,0,1,4, 0,0,0,1],"r":5}}`))
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	tree, err := csgtree.Binarize(raw)
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeTree(&buf, tree); err != nil {
		t.Fatalf("EncodeTree: %v", err)
	}

	raw2, err := DecodeTree(&buf)
	if err != nil {
		t.Fatalf("DecodeTree (round trip): %v", err)
	}
	tree2, err := csgtree.Binarize(raw2)
	if err != nil {
		t.Fatalf("Binarize (round trip): %v", err)
	}

	if csgtree.SerializeString(tree) != csgtree.SerializeString(tree2) {
		t.Errorf("round-tripped tree serializes differently:\n%s\nvs\n%s", csgtree.SerializeString(tree), csgtree.SerializeString(tree2))
	}
}

func TestResolveOptimizerRejectsUnknownName(t *testing.T) {
	_, err := ResolveOptimizer("Sampling.SetCover", GAConfig{}, nil)
	if !errors.Is(err, ErrOptimizerUnknown) {
		t.Errorf("err = %v, want ErrOptimizerUnknown", err)
	}
}

func TestRemoveRedundanciesCollapsesIdenticalUnion(t *testing.T) {
	leaf := csgtree.Geometry(sphereForTest(t))
	dup := csgtree.Union(leaf.Clone(), leaf.Clone())

	simplified := RemoveRedundancies(dup)
	if simplified.Op != csgtree.OpGeometry {
		t.Errorf("Op = %v, want the union of two identical leaves to collapse to a single leaf", simplified.Op)
	}
}

const cubeManifoldsJSON = `{
  "manifolds": [
    {"kind": "plane", "p": [0,0,0], "n": [-1,0,0]},
    {"kind": "plane", "p": [1,0,0], "n": [1,0,0]},
    {"kind": "plane", "p": [0,0,0], "n": [0,-1,0]},
    {"kind": "plane", "p": [0,1,0], "n": [0,1,0]},
    {"kind": "plane", "p": [0,0,0], "n": [0,0,-1]},
    {"kind": "plane", "p": [0,0,1], "n": [0,0,1]}
  ],
  "points": [[0.5, 0.5, 0, 0, 0, -1], [0.5, 0.5, 1, 0, 0, 1]]
}`

func TestDecodeManifoldSetBuildsSixPlanesAndPoints(t *testing.T) {
	ms, pc, err := DecodeManifoldSet(strings.NewReader(cubeManifoldsJSON))
	if err != nil {
		t.Fatalf("DecodeManifoldSet: %v", err)
	}
	if len(ms) != 6 {
		t.Fatalf("len(manifolds) = %d, want 6", len(ms))
	}
	for _, m := range ms {
		if m.Kind != manifold.KindPlane {
			t.Errorf("manifold kind = %v, want plane", m.Kind)
		}
	}
	if pc.Len() != 2 {
		t.Errorf("pc.Len() = %d, want 2", pc.Len())
	}
}

func TestRunFromManifoldsReachesPSS(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GA.PopulationSize = 8
	cfg.GA.MaxIterations = 3
	cfg.PSS.MaxSetSize = 1

	result, err := RunFromManifolds(cfg, strings.NewReader(cubeManifoldsJSON))
	if err != nil && !errors.Is(err, ErrResultIsNoop) {
		t.Fatalf("RunFromManifolds: %v", err)
	}

	var sawPSSStage bool
	for _, s := range result.Stages {
		if s == "pss" {
			sawPSSStage = true
		}
	}
	if !sawPSSStage {
		t.Errorf("Stages = %v, want a \"pss\" stage", result.Stages)
	}
}

func TestWriteDOTProducesValidDigraph(t *testing.T) {
	leaf := csgtree.Geometry(sphereForTest(t))
	tree := csgtree.Union(leaf, leaf.Clone())

	var buf bytes.Buffer
	if err := WriteDOT(&buf, tree); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "digraph csg {") || !strings.Contains(out, "->") {
		t.Errorf("WriteDOT output doesn't look like a digraph:\n%s", out)
	}
}
