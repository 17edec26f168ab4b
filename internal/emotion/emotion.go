// Package emotion turns raw class scores into a labelled prediction.
package emotion

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLabels is the class-index order the bundled FER model was trained
// with (alphabetical directory order).
var DefaultLabels = []string{"angry", "disgust", "fear", "happy", "neutral", "sad", "surprise"}

var ErrScoreCount = errors.New("score count does not match label count")

type LabelScore struct {
	Label string  `json:"label"`
	Score float32 `json:"score"`
}

// Prediction is the classifier outcome for one image. ModelUnavailable marks
// a substituted default label rather than a real inference.
type Prediction struct {
	Scores           []LabelScore `json:"scores"`
	Label            string       `json:"label"`
	ModelUnavailable bool         `json:"model_unavailable"`
}

// Labels is the ordered label enumeration for one deployment.
type Labels struct {
	names    []string
	fallback string
}

// NewLabels normalizes names to lowercase and checks the fallback is one of them.
func NewLabels(names []string, fallback string) (*Labels, error) {
	if len(names) == 0 {
		return nil, errors.New("label set is empty")
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			return nil, fmt.Errorf("label %d is empty", i)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("label %q listed twice", n)
		}
		seen[n] = struct{}{}
		out[i] = n
	}
	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if _, ok := seen[fallback]; !ok {
		return nil, fmt.Errorf("default label %q is not in the label set", fallback)
	}
	return &Labels{names: out, fallback: fallback}, nil
}

func (l *Labels) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

func (l *Labels) Len() int { return len(l.names) }

func (l *Labels) Default() string { return l.fallback }

// FromScores picks the highest score. Ties go to the lowest class index.
func (l *Labels) FromScores(scores []float32) (Prediction, error) {
	if len(scores) != len(l.names) {
		return Prediction{}, fmt.Errorf("%w: %d scores, %d labels", ErrScoreCount, len(scores), len(l.names))
	}
	best := 0
	out := make([]LabelScore, len(scores))
	for i, s := range scores {
		out[i] = LabelScore{Label: l.names[i], Score: s}
		if s > scores[best] {
			best = i
		}
	}
	return Prediction{Scores: out, Label: l.names[best]}, nil
}

// Unavailable is the prediction used when no model could score the image.
func (l *Labels) Unavailable() Prediction {
	return Prediction{Label: l.fallback, ModelUnavailable: true}
}
