// Package match selects catalog songs for a mood bucket through an ordered
// cascade of progressively looser queries.
package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"moodmatch/internal/logging"
	"moodmatch/internal/metrics"
	"moodmatch/internal/model"
)

var ErrNoContent = errors.New("no content available")

// Catalog is the song store the cascade queries. Every method returns only
// active songs; limit caps the candidate pool, not the final result.
type Catalog interface {
	FindByMoodTag(ctx context.Context, bucket string, limit int) ([]model.Song, error)
	FindByLegacyEmotion(ctx context.Context, name string, limit int) ([]model.Song, error)
	RandomSample(ctx context.Context, n int) ([]model.Song, error)
}

type Tier int

const (
	TierExact Tier = iota + 1
	TierLegacy
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierLegacy:
		return "legacy"
	case TierFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Result is the cascade output. Songs is never empty when err is nil.
type Result struct {
	Songs    []model.Song
	Bucket   string
	Tier     Tier
	Fallback bool
}

type Options struct {
	MaxPerTier    int
	CandidatePool int
	// UnionTiers merges exact and legacy candidates (exact first) instead of
	// stopping at the first tier with results.
	UnionTiers bool
	Seed       int64
}

type Retriever struct {
	catalog Catalog
	opts    Options

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRetriever(catalog Catalog, opts Options) *Retriever {
	if opts.MaxPerTier <= 0 {
		opts.MaxPerTier = 10
	}
	if opts.CandidatePool < opts.MaxPerTier {
		opts.CandidatePool = opts.MaxPerTier * 5
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Retriever{catalog: catalog, opts: opts, rng: rand.New(rand.NewSource(opts.Seed))}
}

// Retrieve runs the cascade for bucket. rawLabel is the classifier label and
// feeds the legacy tier when no legacy emotion carries the bucket's name.
func (r *Retriever) Retrieve(ctx context.Context, bucket, rawLabel string) (Result, error) {
	exact := r.tier(ctx, TierExact, func() ([]model.Song, error) {
		return r.catalog.FindByMoodTag(ctx, bucket, r.opts.CandidatePool)
	})
	if len(exact) > 0 && !r.opts.UnionTiers {
		return r.finish(bucket, TierExact, exact), nil
	}

	legacy := r.tier(ctx, TierLegacy, func() ([]model.Song, error) {
		songs, err := r.catalog.FindByLegacyEmotion(ctx, strings.ToLower(bucket), r.opts.CandidatePool)
		if err != nil || len(songs) > 0 || rawLabel == "" || strings.EqualFold(rawLabel, bucket) {
			return songs, err
		}
		return r.catalog.FindByLegacyEmotion(ctx, strings.ToLower(rawLabel), r.opts.CandidatePool)
	})

	if r.opts.UnionTiers && len(exact) > 0 {
		// exact candidates are shuffled ahead of legacy ones so truncation keeps them.
		r.shuffle(exact)
		r.shuffle(legacy)
		merged := dedupe(append(exact, legacy...))
		r.record(TierExact)
		return Result{Songs: truncate(merged, r.opts.MaxPerTier), Bucket: bucket, Tier: TierExact}, nil
	}
	if len(legacy) > 0 {
		return r.finish(bucket, TierLegacy, legacy), nil
	}

	// the last tier has nothing to fall back to, so its errors are returned.
	if err := ctx.Err(); err != nil {
		return Result{Bucket: bucket}, err
	}
	sample, err := r.catalog.RandomSample(ctx, r.opts.MaxPerTier)
	if err != nil {
		metrics.TierErrors.WithLabelValues(TierFallback.String()).Inc()
		return Result{Bucket: bucket}, fmt.Errorf("sample songs failed: %w", err)
	}
	sample = dedupe(sample)
	if len(sample) == 0 {
		return Result{Bucket: bucket}, ErrNoContent
	}
	res := r.finish(bucket, TierFallback, sample)
	res.Fallback = true
	return res, nil
}

// tier runs one of the first two queries. Errors are logged and the tier is
// treated as empty.
func (r *Retriever) tier(ctx context.Context, t Tier, query func() ([]model.Song, error)) []model.Song {
	if ctx.Err() != nil {
		return nil
	}
	songs, err := query()
	if err != nil {
		metrics.TierErrors.WithLabelValues(t.String()).Inc()
		logging.Warn().Err(err).Str("tier", t.String()).Msg("match tier query failed, skipping")
		return nil
	}
	return dedupe(songs)
}

func (r *Retriever) finish(bucket string, t Tier, songs []model.Song) Result {
	r.shuffle(songs)
	r.record(t)
	return Result{Songs: truncate(songs, r.opts.MaxPerTier), Bucket: bucket, Tier: t}
}

func (r *Retriever) record(t Tier) {
	metrics.TierHits.WithLabelValues(t.String()).Inc()
}

func (r *Retriever) shuffle(songs []model.Song) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rng.Shuffle(len(songs), func(i, j int) { songs[i], songs[j] = songs[j], songs[i] })
}

func dedupe(songs []model.Song) []model.Song {
	seen := make(map[uint]struct{}, len(songs))
	out := make([]model.Song, 0, len(songs))
	for _, s := range songs {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}

func truncate(songs []model.Song, n int) []model.Song {
	if len(songs) > n {
		return songs[:n]
	}
	return songs
}
