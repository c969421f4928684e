// Command csgevo runs the CSG reconstruction pipeline: it reads a
// Pipeline/GA/PSS configuration file and either the pre-built CSG tree
// or the manifold-set-and-point-cloud input it names, runs PSS first in
// the latter case, then the configured optimiser, and writes the
// resulting tree, a DOT dump, a statistics file and a timings file.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/csgevo/pkg/pipeline"
	"github.com/chazu/csgevo/pkg/pointcloud"
)

func main() {
	configPath := flag.String("config", "", "path to the Pipeline/GA .ini configuration file")
	outDir := flag.String("out", ".", "directory to write the output tree, DOT dump and statistics into")
	flag.Parse()

	if *configPath == "" {
		log.Fatal("csgevo: -config is required")
	}

	cfg, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("csgevo: loading config: %v", err)
	}

	var result pipeline.Result
	var base string

	switch {
	case cfg.Pipeline.Manifolds != "":
		manifoldsFile, err := os.Open(cfg.Pipeline.Manifolds)
		if err != nil {
			log.Fatalf("csgevo: opening manifolds: %v", err)
		}
		defer manifoldsFile.Close()

		result, err = pipeline.RunFromManifolds(cfg, manifoldsFile)
		if err != nil {
			log.Fatalf("csgevo: %v", err)
		}
		base = strings.TrimSuffix(filepath.Base(cfg.Pipeline.Manifolds), filepath.Ext(cfg.Pipeline.Manifolds))

	case cfg.Pipeline.Tree != "":
		treeFile, err := os.Open(cfg.Pipeline.Tree)
		if err != nil {
			log.Fatalf("csgevo: opening tree: %v", err)
		}
		defer treeFile.Close()

		result, err = pipeline.Run(cfg, treeFile, pointcloud.Empty())
		if err != nil {
			log.Fatalf("csgevo: %v", err)
		}
		base = strings.TrimSuffix(filepath.Base(cfg.Pipeline.Tree), filepath.Ext(cfg.Pipeline.Tree))

	default:
		log.Fatal("csgevo: config's [Pipeline] section must set Tree or Manifolds")
	}

	if err := writeOutputs(*outDir, base, result); err != nil {
		log.Fatalf("csgevo: writing outputs: %v", err)
	}

	if cfg.Pipeline.SaveMeshes && result.Tree != nil {
		cells := int(cfg.Pipeline.SamplingGridSize * 1000)
		if _, err := pipeline.SaveMeshes(result.Tree, *outDir, base, cells); err != nil {
			log.Fatalf("csgevo: saving meshes: %v", err)
		}
	}

	log.Printf("csgevo: wrote %s.out.json, %s.dot, %s.stats.csv, %s.timings.csv", base, base, base, base)
	os.Exit(0)
}

func writeOutputs(dir, base string, result pipeline.Result) error {
	outPath := filepath.Join(dir, base+".out.json")
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := pipeline.EncodeTree(out, result.Tree); err != nil {
		return err
	}

	dotPath := filepath.Join(dir, base+".dot")
	dot, err := os.Create(dotPath)
	if err != nil {
		return err
	}
	defer dot.Close()
	if err := pipeline.WriteDOT(dot, result.Tree); err != nil {
		return err
	}

	statsPath := filepath.Join(dir, base+".stats.csv")
	stats, err := os.Create(statsPath)
	if err != nil {
		return err
	}
	defer stats.Close()
	for _, c := range result.Cliques {
		if err := pipeline.WriteStatistics(stats, c.Stats, c.Tree); err != nil {
			return err
		}
	}

	timingsPath := filepath.Join(dir, base+".timings.csv")
	timings, err := os.Create(timingsPath)
	if err != nil {
		return err
	}
	defer timings.Close()
	if err := pipeline.WriteTimings(timings, result.Stages, result.Durations); err != nil {
		return err
	}

	return nil
}
