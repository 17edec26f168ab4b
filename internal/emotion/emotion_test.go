package emotion

import (
	"errors"
	"testing"
)

func TestNewLabels(t *testing.T) {
	tests := []struct {
		name     string
		labels   []string
		fallback string
		wantErr  bool
	}{
		{name: "defaults", labels: DefaultLabels, fallback: "neutral"},
		{name: "mixed case normalized", labels: []string{"Happy", " Sad "}, fallback: "SAD"},
		{name: "empty set", labels: nil, fallback: "neutral", wantErr: true},
		{name: "duplicate", labels: []string{"happy", "Happy"}, fallback: "happy", wantErr: true},
		{name: "blank label", labels: []string{"happy", " "}, fallback: "happy", wantErr: true},
		{name: "unknown fallback", labels: []string{"happy"}, fallback: "neutral", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLabels(tt.labels, tt.fallback)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromScores(t *testing.T) {
	labels, err := NewLabels(DefaultLabels, "neutral")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		scores []float32
		want   string
	}{
		{name: "clear winner", scores: []float32{0.01, 0.01, 0.02, 0.9, 0.03, 0.02, 0.01}, want: "happy"},
		{name: "logits", scores: []float32{-3, -2, 4.5, 1, 0, 2, -1}, want: "fear"},
		{name: "tie goes to lowest index", scores: []float32{0.1, 0.3, 0.1, 0.3, 0.1, 0.05, 0.05}, want: "disgust"},
		{name: "last class", scores: []float32{0, 0, 0, 0, 0, 0, 1}, want: "surprise"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := labels.FromScores(tt.scores)
			if err != nil {
				t.Fatal(err)
			}
			if p.Label != tt.want {
				t.Fatalf("label = %q, want %q", p.Label, tt.want)
			}
			if len(p.Scores) != 7 || p.Scores[3].Label != "happy" {
				t.Fatalf("unexpected scores %+v", p.Scores)
			}
			if p.ModelUnavailable {
				t.Fatal("real prediction flagged unavailable")
			}
		})
	}

	if _, err := labels.FromScores([]float32{1, 2}); !errors.Is(err, ErrScoreCount) {
		t.Fatalf("expected ErrScoreCount, got %v", err)
	}
}

func TestUnavailable(t *testing.T) {
	labels, err := NewLabels(DefaultLabels, "Neutral")
	if err != nil {
		t.Fatal(err)
	}
	p := labels.Unavailable()
	if p.Label != "neutral" || !p.ModelUnavailable || len(p.Scores) != 0 {
		t.Fatalf("unexpected prediction %+v", p)
	}
}
