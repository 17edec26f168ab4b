package app

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"moodmatch/internal/match"
	"moodmatch/internal/model"
)

func TestAssemble(t *testing.T) {
	result := match.Result{
		Songs: []model.Song{
			{ID: 4, Title: "four", MoodTag: "Happy", Artist: model.Artist{Name: "A"}},
			{ID: 9, Title: "nine", MoodTag: "Happy", Artist: model.Artist{Name: "B"}},
		},
		Tier: match.TierExact,
	}

	out := Assemble(result, map[uint]struct{}{9: {}})
	if len(out.Songs) != 2 || out.Matches[0] != 4 || out.Matches[1] != 9 {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Songs[0].Liked || !out.Songs[1].Liked {
		t.Fatalf("liked flags wrong: %+v", out.Songs)
	}
	if out.Primary == nil || *out.Primary != 4 {
		t.Fatalf("unexpected primary %v", out.Primary)
	}
	if out.PrimarySong == nil || out.PrimarySong.ID != 4 || out.PrimarySong.Artist != "A" {
		t.Fatalf("unexpected primary song %+v", out.PrimarySong)
	}

	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"primary_match":4,`) {
		t.Fatalf("primary_match must be the bare song id: %s", raw)
	}

	// the primary song is a copy, not an alias into Songs
	out.PrimarySong.Liked = true
	if out.Songs[0].Liked {
		t.Fatal("primary aliases the songs slice")
	}
}

func TestAssembleEmpty(t *testing.T) {
	out := Assemble(match.Result{}, nil)
	if out.Primary != nil || out.PrimarySong != nil || len(out.Songs) != 0 || out.Matches == nil {
		t.Fatalf("unexpected output %+v", out)
	}
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"primary_match":null`) {
		t.Fatalf("empty result must carry a null primary_match: %s", raw)
	}
}
