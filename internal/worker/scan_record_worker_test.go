package worker

import (
	"context"
	"errors"
	"testing"

	"moodmatch/internal/model"
)

type memStore struct {
	saved []model.EmotionScan
	err   error
}

func (s *memStore) Create(_ context.Context, scan *model.EmotionScan) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, *scan)
	return nil
}

func TestScanRecordWorkerHandle(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		storeErr  error
		malformed bool
		wantSaved int
	}{
		{
			name:      "valid record",
			body:      `{"id":"6f1c","user_id":3,"raw_label":"happy","mood_bucket":"Happy","taxonomy_version":"mood3-v2","tier":1}`,
			wantSaved: 1,
		},
		{name: "not json", body: `{{{`, malformed: true},
		{name: "missing id", body: `{"user_id":3}`, malformed: true},
		{name: "missing user", body: `{"id":"abc"}`, malformed: true},
		{
			name:     "store failure",
			body:     `{"id":"6f1c","user_id":3}`,
			storeErr: errors.New("db down"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{err: tt.storeErr}
			w := NewScanRecordWorker(nil, store, "scan.record.persist")

			err := w.handle(context.Background(), []byte(tt.body))
			if tt.malformed != errors.Is(err, errMalformedScan) {
				t.Fatalf("malformed = %v, err = %v", tt.malformed, err)
			}
			if tt.storeErr != nil && !errors.Is(err, tt.storeErr) {
				t.Fatalf("expected store error, got %v", err)
			}
			if len(store.saved) != tt.wantSaved {
				t.Fatalf("saved %d, want %d", len(store.saved), tt.wantSaved)
			}
		})
	}
}

func TestScanRecordWorkerCloseWithoutStart(t *testing.T) {
	w := NewScanRecordWorker(nil, &memStore{}, "q")
	w.Close()
}
