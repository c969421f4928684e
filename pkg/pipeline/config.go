package pipeline

import (
	"github.com/go-ini/ini"
)

// PipelineConfig is the [Pipeline] section. Exactly one of Tree (a
// pre-built CSG tree) or Manifolds (a fitted manifold set + point cloud,
// routed through PSS first) must be set.
type PipelineConfig struct {
	Optimizer                        string  `ini:"Optimizer"`
	Tree                             string  `ini:"Tree"`
	Manifolds                        string  `ini:"Manifolds"`
	Seed                             uint64  `ini:"Seed"`
	SamplingGridSize                 float64 `ini:"SamplingGridSize"`
	SaveMeshes                       bool    `ini:"SaveMeshes"`
	UseDecomposition                 bool    `ini:"UseDecomposition"`
	UseRedundancyRemoval              bool    `ini:"UseRedundancyRemoval"`
	UseCITPointsForDecomposition      bool    `ini:"UseCITPointsForDecomposition"`
	UseCITPointsForRedundancyRemoval  bool    `ini:"UseCITPointsForRedundancyRemoval"`
}

// PSSConfig is the [PSS] section, consumed only along the
// Pipeline.Manifolds control-flow branch (PSS never runs when the input
// is already a pre-built tree).
type PSSConfig struct {
	MaxSetSize               int     `ini:"MaxSetSize"`
	AngleEps                 float64 `ini:"AngleEps"`
	MinParallelPlaneDistance float64 `ini:"MinParallelPlaneDistance"`
	IntraCrossProb           float64 `ini:"IntraCrossProb"`
	MaxMutationIters         int     `ini:"MaxMutationIters"`
	MaxCrossoverIters        int     `ini:"MaxCrossoverIters"`
	DistanceEps              float64 `ini:"DistanceEps"`
	AreaWeight               float64 `ini:"AreaWeight"`
	GeoWeight                float64 `ini:"GeoWeight"`
	SizeWeight               float64 `ini:"SizeWeight"`
}

// RankerConfig is the [GA] section's Ranker.* keys.
type RankerConfig struct {
	GeoScoreStrategy  string  `ini:"Ranker.GeoScoreStrategy"`
	GeoScoreWeight    float64 `ini:"Ranker.GeoScoreWeight"`
	SizeScoreWeight   float64 `ini:"Ranker.SizeScoreWeight"`
	ProxScoreWeight   float64 `ini:"Ranker.ProxScoreWeight"`
	GradientStepSize  float64 `ini:"Ranker.GradientStepSize"`
	PositionTolerance float64 `ini:"Ranker.PositionTolerance"`
	ErrorSigma        float64 `ini:"Ranker.ErrorSigma"`
	SamplingStepSize  float64 `ini:"Ranker.SamplingStepSize"`
	MaxDistance       float64 `ini:"Ranker.MaxDistance"`
	MaxSamplingPoints int     `ini:"Ranker.MaxSamplingPoints"`
}

// CreatorConfig is the [GA] section's Creator.* keys.
type CreatorConfig struct {
	CreateNewRandomProb float64 `ini:"Creator.CreateNewRandomProb"`
	SubtreeProb         float64 `ini:"Creator.SubtreeProb"`
}

// GAConfig is the [GA] section.
type GAConfig struct {
	PopulationSize int     `ini:"PopulationSize"`
	NumBestParents int     `ini:"NumBestParents"`
	MutationRate   float64 `ini:"MutationRate"`
	CrossoverRate  float64 `ini:"CrossoverRate"`
	TournamentK    int     `ini:"TournamentK"`
	MaxIterations  int     `ini:"MaxIterations"`
	MaxCount       int     `ini:"MaxCount"`
	Delta          float64 `ini:"Delta"`
	InParallel     bool    `ini:"InParallel"`
	UseCaching     bool    `ini:"UseCaching"`

	Ranker  RankerConfig
	Creator CreatorConfig
}

// Config groups the Pipeline, GA and PSS sections, the whole of the
// driver's configuration file.
type Config struct {
	Pipeline PipelineConfig
	GA       GAConfig
	PSS      PSSConfig
}

// DefaultConfig returns the documented defaults for any key the file
// leaves unset.
func DefaultConfig() Config {
	return Config{
		Pipeline: PipelineConfig{
			Optimizer:        "GA",
			SamplingGridSize: 0.1,
			Seed:             1,
		},
		GA: GAConfig{
			PopulationSize: 64,
			NumBestParents: 2,
			MutationRate:   0.2,
			CrossoverRate:  0.6,
			TournamentK:    2,
			MaxIterations:  100,
		},
		PSS: PSSConfig{
			MaxSetSize:               12,
			AngleEps:                 0.1,
			MinParallelPlaneDistance: 0.05,
			MaxMutationIters:         1,
			MaxCrossoverIters:        1,
			DistanceEps:              0.02,
			AreaWeight:               1,
			GeoWeight:                1,
			SizeWeight:               0,
		},
	}
}

// LoadConfig reads an INI file at path into a Config, starting from
// DefaultConfig and overwriting only the keys present in the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := ini.Load(path)
	if err != nil {
		return Config{}, err
	}

	if sec := f.Section("Pipeline"); sec != nil {
		if err := sec.MapTo(&cfg.Pipeline); err != nil {
			return Config{}, err
		}
	}
	if sec := f.Section("GA"); sec != nil {
		if err := sec.MapTo(&cfg.GA); err != nil {
			return Config{}, err
		}
		if err := sec.MapTo(&cfg.GA.Ranker); err != nil {
			return Config{}, err
		}
		if err := sec.MapTo(&cfg.GA.Creator); err != nil {
			return Config{}, err
		}
	}
	if sec := f.Section("PSS"); sec != nil {
		if err := sec.MapTo(&cfg.PSS); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}
