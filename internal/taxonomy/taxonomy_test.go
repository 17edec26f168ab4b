package taxonomy

import (
	"errors"
	"testing"
)

var labels = []string{"angry", "disgust", "fear", "happy", "neutral", "sad", "surprise"}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(labels, nil, "mood3-v2")
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestShippedVersionsAreTotal(t *testing.T) {
	r := newTestRegistry(t)
	for _, v := range r.Versions() {
		for _, l := range labels {
			b, err := r.Map(v.ID, l)
			if err != nil {
				t.Fatalf("%s: %v", v.ID, err)
			}
			if b == "" {
				t.Fatalf("%s maps %q to an empty bucket", v.ID, l)
			}
		}
	}
}

func TestMap(t *testing.T) {
	r := newTestRegistry(t)
	tests := []struct {
		version string
		label   string
		want    string
	}{
		{"mood3-v2", "happy", "Happy"},
		{"mood3-v2", "surprise", "Happy"},
		{"mood3-v2", "fear", "Relax"},
		{"mood3-v2", "sad", "Relax"},
		{"mood3-v2", "disgust", "Angry"},
		{"mood4-v1", "fear", "Angry"},
		{"mood4-v1", "neutral", "Neutral"},
		{"mood4-v1", "surprise", "Happy"},
		{"legacy-v0", "disgust", "angry"},
		{"legacy-v0", "fear", "sad"},
		{"legacy-v0", "surprise", "surprise"},
		{"fer7-v1", "Neutral", "Neutral"},
	}
	for _, tt := range tests {
		t.Run(tt.version+"/"+tt.label, func(t *testing.T) {
			got, err := r.Map(tt.version, tt.label)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := r.Map("mood9", "happy"); !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("expected ErrUnknownVersion, got %v", err)
	}
	if _, err := r.Map("mood3-v2", "bored"); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
}

func TestExtraVersions(t *testing.T) {
	binary := Version{ID: "binary-v1", Buckets: map[string]string{
		"Angry": "Low", "disgust": "Low", "fear": "Low", "happy": "High",
		"neutral": "Low", "sad": "Low", "surprise": "High",
	}}
	r, err := NewRegistry(labels, []Version{binary}, "binary-v1")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Map("binary-v1", "angry"); got != "Low" {
		t.Fatalf("got %q", got)
	}
	if v, _ := r.Get("binary-v1"); v.Shipped {
		t.Fatal("config version marked shipped")
	}

	redefine := Version{ID: "mood3-v2", Buckets: binary.Buckets}
	if _, err := NewRegistry(labels, []Version{redefine}, "mood3-v2"); !errors.Is(err, ErrShippedVersion) {
		t.Fatalf("expected ErrShippedVersion, got %v", err)
	}

	partial := Version{ID: "partial", Buckets: map[string]string{"happy": "High"}}
	if _, err := NewRegistry(labels, []Version{partial}, "mood3-v2"); !errors.Is(err, ErrUnknownLabel) {
		t.Fatalf("expected totality error, got %v", err)
	}
}

func TestRegistryRejectsForeignLabelSet(t *testing.T) {
	if _, err := NewRegistry([]string{"happy", "sad", "calm"}, nil, "mood3-v2"); err == nil {
		t.Fatal("expected error for labels the shipped versions do not cover")
	}
}

func TestActiveVersion(t *testing.T) {
	r := newTestRegistry(t)
	if r.Active() != "mood3-v2" {
		t.Fatalf("active = %q", r.Active())
	}
	if err := r.SetActive("mood4-v1"); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Resolve(""); got != "mood4-v1" {
		t.Fatalf("Resolve(\"\") = %q", got)
	}
	if got, _ := r.Resolve("legacy-v0"); got != "legacy-v0" {
		t.Fatalf("Resolve(legacy-v0) = %q", got)
	}
	if err := r.SetActive("nope"); !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("expected ErrUnknownVersion, got %v", err)
	}
	if r.Active() != "mood4-v1" {
		t.Fatal("failed SetActive changed the active version")
	}
}

func TestBucketNames(t *testing.T) {
	r := newTestRegistry(t)
	v, _ := r.Get("mood3-v2")
	got := v.BucketNames()
	want := []string{"Angry", "Happy", "Relax"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCheck(t *testing.T) {
	full := map[string]string{}
	for _, l := range labels {
		full[l] = "All"
	}
	partial := map[string]string{"happy": "Up", "sad": "Down"}
	extra := map[string]string{"contempt": "Down"}
	for k, v := range full {
		extra[k] = v
	}

	tests := []struct {
		name    string
		buckets map[string]string
		wantErr bool
	}{
		{"total", full, false},
		{"missing labels", partial, true},
		{"unknown label", extra, true},
		{"mixed case keys", map[string]string{
			"Angry": "A", "DISGUST": "A", "fear": "B", "happy": "C", "neutral": "B", "sad": "B", "surprise": "C",
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(Version{ID: "x", Buckets: tt.buckets}, labels)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	for _, v := range Shipped() {
		if !v.Shipped {
			t.Fatalf("%s not flagged shipped", v.ID)
		}
		if err := Check(v, labels); err != nil {
			t.Fatal(err)
		}
	}
}
