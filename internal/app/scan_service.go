package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"moodmatch/internal/emotion"
	"moodmatch/internal/logging"
	"moodmatch/internal/match"
	"moodmatch/internal/metrics"
	"moodmatch/internal/model"
	"moodmatch/internal/taxonomy"
	"moodmatch/internal/vision"
)

var (
	ErrInvalidImage = errors.New("invalid image")
	ErrNoContent    = match.ErrNoContent
)

const (
	WarnModelUnavailable = "model_unavailable"
	WarnInferenceFailed  = "inference_failed"
)

// ModelSource hands out the loaded engine for one prediction.
type ModelSource interface {
	Acquire() (vision.Engine, func(), error)
}

type Matcher interface {
	Retrieve(ctx context.Context, bucket, rawLabel string) (match.Result, error)
}

// LikesProvider returns the ids of songs the user has liked.
type LikesProvider interface {
	LikedSongIDs(ctx context.Context, userID uint) (map[uint]struct{}, error)
}

type ScanPublisher interface {
	PublishScan(ctx context.Context, scan model.EmotionScan) error
}

type ScanInput struct {
	UserID          uint
	Image           []byte
	TaxonomyVersion string
}

type ScanResult struct {
	ScanID          string               `json:"scan_id"`
	RawLabel        string               `json:"raw_label"`
	Scores          []emotion.LabelScore `json:"scores"`
	MoodBucket      string               `json:"mood_bucket"`
	TaxonomyVersion string               `json:"taxonomy_version"`
	FaceFound       bool                 `json:"face_found"`
	Tier            match.Tier           `json:"tier"`
	Fallback        bool                 `json:"fallback"`
	Assembled
	Warnings []string `json:"warnings"`
}

type ScanServiceConfig struct {
	Normalization   vision.NormMode
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// ScanService runs one photo through face location, inference, taxonomy
// mapping and catalog matching.
type ScanService struct {
	locator   *vision.FaceLocator
	models    ModelSource
	labels    *emotion.Labels
	taxonomy  *taxonomy.Registry
	matcher   Matcher
	likes     LikesProvider
	publisher ScanPublisher
	norm      vision.NormMode
	breaker   *gobreaker.CircuitBreaker[[]float32]
	log       zerolog.Logger
	newID     func() string
}

func NewScanService(
	locator *vision.FaceLocator,
	models ModelSource,
	labels *emotion.Labels,
	registry *taxonomy.Registry,
	matcher Matcher,
	likes LikesProvider,
	publisher ScanPublisher,
	cfg ScanServiceConfig,
) *ScanService {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	log := logging.WithComponent("scan_service")

	breaker := gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
		Name:        "inference",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("inference breaker state changed")
		},
	})

	return &ScanService{
		locator:   locator,
		models:    models,
		labels:    labels,
		taxonomy:  registry,
		matcher:   matcher,
		likes:     likes,
		publisher: publisher,
		norm:      cfg.Normalization,
		breaker:   breaker,
		log:       log,
		newID:     func() string { return uuid.NewString() },
	}
}

func (s *ScanService) Scan(ctx context.Context, in ScanInput) (*ScanResult, error) {
	start := time.Now()

	version, err := s.taxonomy.Resolve(in.TaxonomyVersion)
	if err != nil {
		metrics.RecordScan("bad_request", time.Since(start))
		return nil, err
	}

	cls, err := s.Classify(in.Image)
	if err != nil {
		metrics.RecordScan("invalid_image", time.Since(start))
		return nil, err
	}
	pred, warning := cls.Prediction, cls.Warning

	bucket, err := s.taxonomy.Map(version, pred.Label)
	if err != nil {
		metrics.RecordScan("error", time.Since(start))
		return nil, err
	}

	result, err := s.matcher.Retrieve(ctx, bucket, pred.Label)
	if err != nil {
		if errors.Is(err, match.ErrNoContent) {
			metrics.RecordScan("no_content", time.Since(start))
			return nil, ErrNoContent
		}
		metrics.RecordScan("error", time.Since(start))
		return nil, fmt.Errorf("match songs failed: %w", err)
	}

	out := &ScanResult{
		ScanID:          s.newID(),
		RawLabel:        pred.Label,
		Scores:          pred.Scores,
		MoodBucket:      bucket,
		TaxonomyVersion: version,
		FaceFound:       cls.FaceFound,
		Tier:            result.Tier,
		Fallback:        result.Fallback,
		Assembled:       Assemble(result, s.likedSet(ctx, in.UserID)),
		Warnings:        []string{},
	}
	if out.Scores == nil {
		out.Scores = []emotion.LabelScore{}
	}
	if warning != "" {
		out.Warnings = append(out.Warnings, warning)
	}

	s.publish(ctx, in.UserID, out, warning)
	metrics.RecordScan("ok", time.Since(start))
	s.log.Debug().Str("scan_id", out.ScanID).Str("label", out.RawLabel).Str("bucket", bucket).
		Str("tier", result.Tier.String()).Bool("face", cls.FaceFound).Msg("scan completed")
	return out, nil
}

// Classification is the inference half of a scan.
type Classification struct {
	emotion.Prediction
	FaceFound bool
	Warning   string
}

// Classify decodes the photo, locates the face and scores it. Only
// undecodable bytes fail; model problems degrade to the default label.
func (s *ScanService) Classify(data []byte) (Classification, error) {
	img, err := vision.Decode(data)
	if err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	region := s.locator.Locate(img)
	if !region.Found {
		metrics.FaceNotFound.Inc()
	}

	pred, warning := s.predict(img, region)
	return Classification{Prediction: pred, FaceFound: region.Found, Warning: warning}, nil
}

// predict never fails: a missing model, an open breaker or a failed run
// yields the default label and a warning.
func (s *ScanService) predict(img image.Image, region vision.FaceRegion) (emotion.Prediction, string) {
	engine, release, err := s.models.Acquire()
	if err != nil {
		metrics.DegradedPredictions.WithLabelValues(WarnModelUnavailable).Inc()
		return s.labels.Unavailable(), WarnModelUnavailable
	}
	defer release()

	contract := engine.Contract()
	plane := vision.Normalize(img, region, contract.Width, contract.Height)
	tensor, err := vision.Adapt(plane, contract, s.norm)
	if err != nil {
		s.log.Error().Err(err).Str("contract", contract.String()).Msg("adapt tensor failed")
		metrics.DegradedPredictions.WithLabelValues(WarnInferenceFailed).Inc()
		return s.labels.Unavailable(), WarnInferenceFailed
	}

	started := time.Now()
	scores, err := s.breaker.Execute(func() ([]float32, error) {
		return engine.Predict(tensor)
	})
	metrics.InferenceDuration.Observe(time.Since(started).Seconds())
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.DegradedPredictions.WithLabelValues(WarnModelUnavailable).Inc()
		return s.labels.Unavailable(), WarnModelUnavailable
	}
	if err != nil {
		s.log.Error().Err(err).Msg("inference failed")
		metrics.DegradedPredictions.WithLabelValues(WarnInferenceFailed).Inc()
		return s.labels.Unavailable(), WarnInferenceFailed
	}

	pred, err := s.labels.FromScores(scores)
	if err != nil {
		s.log.Error().Err(err).Msg("score vector does not match labels")
		metrics.DegradedPredictions.WithLabelValues(WarnInferenceFailed).Inc()
		return s.labels.Unavailable(), WarnInferenceFailed
	}
	return pred, ""
}

func (s *ScanService) likedSet(ctx context.Context, userID uint) map[uint]struct{} {
	if s.likes == nil || userID == 0 {
		return nil
	}
	liked, err := s.likes.LikedSongIDs(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("load liked songs failed, continuing without")
		return nil
	}
	return liked
}

func (s *ScanService) publish(ctx context.Context, userID uint, out *ScanResult, warning string) {
	if s.publisher == nil || userID == 0 {
		return
	}
	record := model.EmotionScan{
		ID:               out.ScanID,
		UserID:           userID,
		RawLabel:         out.RawLabel,
		MoodBucket:       out.MoodBucket,
		TaxonomyVersion:  out.TaxonomyVersion,
		Tier:             int(out.Tier),
		MatchCount:       len(out.Matches),
		FaceFound:        out.FaceFound,
		ModelUnavailable: warning == WarnModelUnavailable,
		InferenceFailed:  warning == WarnInferenceFailed,
		CreatedAt:        time.Now(),
	}
	if out.Primary != nil {
		id := *out.Primary
		record.PrimarySongID = &id
	}
	if err := s.publisher.PublishScan(ctx, record); err != nil {
		metrics.ScanRecordsPublished.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("scan_id", out.ScanID).Msg("publish scan record failed")
		return
	}
	metrics.ScanRecordsPublished.WithLabelValues("ok").Inc()
}
