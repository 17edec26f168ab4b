// Package taxonomy maps classifier labels to catalog mood buckets. Each
// mapping is an immutable, versioned table; the catalog has been re-tagged
// several times and older data still refers to older buckets.
package taxonomy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	ErrUnknownVersion = errors.New("unknown taxonomy version")
	ErrUnknownLabel   = errors.New("label not covered by taxonomy version")
	ErrShippedVersion = errors.New("taxonomy version id is reserved")
)

type Version struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Buckets     map[string]string `json:"buckets"`
	Shipped     bool              `json:"shipped"`
}

// BucketNames lists the distinct buckets in sorted order.
func (v Version) BucketNames() []string {
	seen := make(map[string]struct{})
	for _, b := range v.Buckets {
		seen[b] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Shipped returns the built-in versions.
func Shipped() []Version {
	vs := []Version{
		{
			ID:          "fer7-v1",
			Description: "identity over the seven FER classes",
			Buckets: map[string]string{
				"angry": "Angry", "disgust": "Disgust", "fear": "Fear", "happy": "Happy",
				"neutral": "Neutral", "sad": "Sad", "surprise": "Surprise",
			},
		},
		{
			ID:          "legacy-v0",
			Description: "original emotions table import",
			Buckets: map[string]string{
				"angry": "angry", "disgust": "angry", "fear": "sad", "happy": "happy",
				"neutral": "neutral", "sad": "sad", "surprise": "surprise",
			},
		},
		{
			ID:          "mood4-v1",
			Description: "four-bucket catalog tagging",
			Buckets: map[string]string{
				"angry": "Angry", "disgust": "Angry", "fear": "Angry", "happy": "Happy",
				"neutral": "Neutral", "sad": "Sad", "surprise": "Happy",
			},
		},
		{
			ID:          "mood3-v2",
			Description: "three-bucket catalog tagging",
			Buckets: map[string]string{
				"angry": "Angry", "disgust": "Angry", "fear": "Relax", "happy": "Happy",
				"neutral": "Relax", "sad": "Relax", "surprise": "Happy",
			},
		},
	}
	for i := range vs {
		vs[i].Shipped = true
	}
	return vs
}

// Registry holds every known version and the active version id. Versions
// never change after construction; only the active id is swapped.
type Registry struct {
	versions map[string]Version
	order    []string
	active   atomic.Value
	mu       sync.Mutex
}

// NewRegistry combines the shipped versions with extra ones, checks every
// version covers exactly labels, and activates active.
func NewRegistry(labels []string, extra []Version, active string) (*Registry, error) {
	r := &Registry{versions: make(map[string]Version)}
	for _, v := range Shipped() {
		r.add(v)
	}
	for _, v := range extra {
		if _, exists := r.versions[v.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrShippedVersion, v.ID)
		}
		v.Shipped = false
		r.add(normalize(v))
	}
	if err := r.Validate(labels); err != nil {
		return nil, err
	}
	if err := r.SetActive(active); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) add(v Version) {
	r.versions[v.ID] = v
	r.order = append(r.order, v.ID)
}

func normalize(v Version) Version {
	buckets := make(map[string]string, len(v.Buckets))
	for label, bucket := range v.Buckets {
		buckets[strings.ToLower(strings.TrimSpace(label))] = strings.TrimSpace(bucket)
	}
	v.Buckets = buckets
	return v
}

// Validate checks that every version's domain is exactly labels.
func (r *Registry) Validate(labels []string) error {
	for _, id := range r.order {
		if err := Check(r.versions[id], labels); err != nil {
			return err
		}
	}
	return nil
}

// Check reports the first label v leaves unmapped, or the first mapped
// label that is not in labels.
func Check(v Version, labels []string) error {
	v = normalize(v)
	want := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		want[strings.ToLower(l)] = struct{}{}
	}
	for _, l := range labels {
		b, ok := v.Buckets[strings.ToLower(l)]
		if !ok || b == "" {
			return fmt.Errorf("taxonomy %q: %w: %q", v.ID, ErrUnknownLabel, l)
		}
	}
	for l := range v.Buckets {
		if _, ok := want[l]; !ok {
			return fmt.Errorf("taxonomy %q maps %q which is not a model label", v.ID, l)
		}
	}
	return nil
}

// Map returns the bucket for label under version.
func (r *Registry) Map(version, label string) (string, error) {
	v, ok := r.versions[version]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}
	b, ok := v.Buckets[strings.ToLower(label)]
	if !ok {
		return "", fmt.Errorf("taxonomy %q: %w: %q", version, ErrUnknownLabel, label)
	}
	return b, nil
}

func (r *Registry) Get(id string) (Version, bool) {
	v, ok := r.versions[id]
	return v, ok
}

func (r *Registry) Versions() []Version {
	out := make([]Version, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.versions[id])
	}
	return out
}

func (r *Registry) Active() string {
	id, _ := r.active.Load().(string)
	return id
}

// SetActive switches the version used when callers do not name one.
func (r *Registry) SetActive(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.versions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVersion, id)
	}
	r.active.Store(id)
	return nil
}

// Resolve returns id when set, or the active version id.
func (r *Registry) Resolve(id string) (string, error) {
	if id == "" {
		return r.Active(), nil
	}
	if _, ok := r.versions[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownVersion, id)
	}
	return id, nil
}
