package bootstrap

import (
	"fmt"

	"moodmatch/internal/config"
	"moodmatch/internal/emotion"
	"moodmatch/internal/logging"
	"moodmatch/internal/taxonomy"
	"moodmatch/internal/vision"
)

// Vision is the inference side of a scan, shared by the server and moodctl.
type Vision struct {
	Labels   *emotion.Labels
	Taxonomy *taxonomy.Registry
	Locator  *vision.FaceLocator
	Models   *vision.ModelHolder
}

// NewVision builds labels, taxonomy, face locator and model holder from cfg.
// A model that fails to load is logged and scans run degraded until an admin
// loads one.
func NewVision(cfg *config.Config) (*Vision, error) {
	labels, err := emotion.NewLabels(cfg.Vision.Labels, cfg.Vision.DefaultLabel)
	if err != nil {
		return nil, fmt.Errorf("build label set failed: %w", err)
	}

	extra := make([]taxonomy.Version, 0, len(cfg.Taxonomy.Versions))
	for _, v := range cfg.Taxonomy.Versions {
		extra = append(extra, taxonomy.Version{ID: v.ID, Description: v.Description, Buckets: v.Buckets})
	}
	registry, err := taxonomy.NewRegistry(labels.Names(), extra, cfg.Taxonomy.Active)
	if err != nil {
		return nil, fmt.Errorf("build taxonomy failed: %w", err)
	}

	detector, err := vision.NewDetector(cfg.Vision.FaceCascadePath, cfg.Vision.FaceMinSize, cfg.Vision.FaceQuality)
	if err != nil {
		logging.Warn().Err(err).Str("cascade", cfg.Vision.FaceCascadePath).
			Msg("face detector unavailable, using full frames")
		detector = nil
	}

	target := vision.Size{Width: cfg.Vision.TargetWidth, Height: cfg.Vision.TargetHeight}
	holder := vision.NewModelHolder(vision.ONNXLoader(cfg.Vision.ONNXSharedLibPath, target), labels.Len())
	if cfg.Vision.ModelPath != "" {
		if _, err := holder.Load(cfg.Vision.ModelPath); err != nil {
			logging.Error().Err(err).Str("path", cfg.Vision.ModelPath).
				Msg("initial model load failed, scans will return the default label")
		}
	} else {
		logging.Warn().Msg("no model configured, scans will return the default label")
	}

	return &Vision{
		Labels:   labels,
		Taxonomy: registry,
		Locator:  vision.NewFaceLocator(detector, cfg.Vision.FaceMargin),
		Models:   holder,
	}, nil
}
