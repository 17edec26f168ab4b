package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"moodmatch/internal/model"
	"moodmatch/internal/platform/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(context.Background(), "sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type fixture struct {
	db     *gorm.DB
	artist model.Artist
	songs  map[string]model.Song
}

func seedCatalog(t *testing.T) fixture {
	t.Helper()
	return seedCatalogInto(t, newTestDB(t))
}

func seedCatalogInto(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{db: db, artist: model.Artist{Name: "Tilly"}, songs: map[string]model.Song{}}
	if err := db.Create(&f.artist).Error; err != nil {
		t.Fatal(err)
	}

	add := func(title, tag string, active bool) {
		s := model.Song{Title: title, ArtistID: f.artist.ID, MoodTag: tag, IsActive: true}
		if err := db.Create(&s).Error; err != nil {
			t.Fatal(err)
		}
		if !active {
			// the column default would override a false value on insert
			if err := db.Model(&s).Update("is_active", false).Error; err != nil {
				t.Fatal(err)
			}
		}
		f.songs[title] = s
	}
	add("sunny", "Happy", true)
	add("bright", "happy", true)
	add("hidden", "Happy", false)
	add("storm", "Angry", true)
	add("untagged", "", true)

	angry := model.Emotion{Name: "angry"}
	fear := model.Emotion{Name: "fear"}
	if err := db.Create(&angry).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&fear).Error; err != nil {
		t.Fatal(err)
	}
	links := []model.SongEmotion{
		{SongID: f.songs["untagged"].ID, EmotionID: fear.ID, Confidence: 0.4, Source: "import"},
		{SongID: f.songs["storm"].ID, EmotionID: fear.ID, Confidence: 0.9, Source: "import"},
		{SongID: f.songs["hidden"].ID, EmotionID: fear.ID, Confidence: 1, Source: "import"},
		{SongID: f.songs["storm"].ID, EmotionID: angry.ID, Confidence: 1, Source: "manual"},
	}
	if err := db.Create(&links).Error; err != nil {
		t.Fatal(err)
	}
	return f
}

func titles(songs []model.Song) []string {
	out := make([]string, len(songs))
	for i, s := range songs {
		out[i] = s.Title
	}
	return out
}

func TestSongRepositoryFindByMoodTag(t *testing.T) {
	f := seedCatalog(t)
	repo := NewSongRepository(f.db)
	ctx := context.Background()

	songs, err := repo.FindByMoodTag(ctx, "HAPPY", 10)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(titles(songs), ","); got != "sunny,bright" {
		t.Fatalf("got %q", got)
	}
	if songs[0].Artist.Name != "Tilly" {
		t.Fatalf("artist not preloaded: %+v", songs[0].Artist)
	}

	songs, err = repo.FindByMoodTag(ctx, "Relax", 10)
	if err != nil || len(songs) != 0 {
		t.Fatalf("expected no Relax songs, got %v %v", titles(songs), err)
	}

	songs, err = repo.FindByMoodTag(ctx, "happy", 1)
	if err != nil || len(songs) != 1 {
		t.Fatalf("limit not applied: %v %v", titles(songs), err)
	}
}

func TestSongRepositoryFindByLegacyEmotion(t *testing.T) {
	f := seedCatalog(t)
	repo := NewSongRepository(f.db)

	songs, err := repo.FindByLegacyEmotion(context.Background(), "Fear", 10)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(titles(songs), ","); got != "storm,untagged" {
		t.Fatalf("got %q, want strongest active link first", got)
	}
}

func TestSongRepositoryRandomSample(t *testing.T) {
	f := seedCatalog(t)
	repo := NewSongRepository(f.db)

	songs, err := repo.RandomSample(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(songs) != 4 {
		t.Fatalf("expected the 4 active songs, got %v", titles(songs))
	}
	for _, s := range songs {
		if !s.IsActive {
			t.Fatalf("inactive song sampled: %s", s.Title)
		}
	}

	n, err := repo.CountActive(context.Background())
	if err != nil || n != 4 {
		t.Fatalf("CountActive = %d, %v", n, err)
	}
}

func TestFavoriteRepository(t *testing.T) {
	f := seedCatalog(t)
	repo := NewFavoriteRepository(f.db)
	ctx := context.Background()
	sunny, storm := f.songs["sunny"].ID, f.songs["storm"].ID

	for _, id := range []uint{sunny, storm, sunny} {
		if err := repo.Add(ctx, 1, id); err != nil {
			t.Fatalf("Add(%d): %v", id, err)
		}
	}
	ids, err := repo.SongIDsByUser(ctx, 1)
	if err != nil || len(ids) != 2 {
		t.Fatalf("expected 2 liked ids, got %v %v", ids, err)
	}

	favs, err := repo.ListByUser(ctx, 1, 0)
	if err != nil || len(favs) != 2 || favs[0].Song.Artist.Name != "Tilly" {
		t.Fatalf("unexpected favorites %+v %v", favs, err)
	}

	if err := repo.Remove(ctx, 1, sunny); err != nil {
		t.Fatal(err)
	}
	ids, _ = repo.SongIDsByUser(ctx, 1)
	if len(ids) != 1 || ids[0] != storm {
		t.Fatalf("unexpected ids after remove %v", ids)
	}
	if ids, _ := repo.SongIDsByUser(ctx, 2); len(ids) != 0 {
		t.Fatalf("other user sees likes: %v", ids)
	}
}

func TestScanRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewScanRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		scan := &model.EmotionScan{
			ID: id, UserID: 5, RawLabel: "happy", MoodBucket: "Happy",
			TaxonomyVersion: "mood3-v2", Tier: 1, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, scan); err != nil {
			t.Fatal(err)
		}
	}
	// redelivery of the same id is ignored
	if err := repo.Create(ctx, &model.EmotionScan{ID: "a", UserID: 5, RawLabel: "sad", MoodBucket: "Relax", TaxonomyVersion: "mood3-v2"}); err != nil {
		t.Fatal(err)
	}

	scans, err := repo.ListByUser(ctx, 5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(scans) != 2 || scans[0].ID != "c" || scans[1].ID != "b" {
		t.Fatalf("unexpected history %+v", scans)
	}
	all, _ := repo.ListByUser(ctx, 5, 0)
	if len(all) != 3 || all[2].RawLabel != "happy" {
		t.Fatalf("redelivered scan overwrote the original: %+v", all)
	}
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	u := &model.User{Username: "mali", Email: "mali@example.com", PasswordHash: "x"}
	if err := repo.Create(u); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetByUsername("mali")
	if err != nil || got == nil {
		t.Fatalf("GetByUsername: %v %v", got, err)
	}
	if got.Status != model.UserStatusActive || got.Role != model.RoleUser {
		t.Fatalf("unexpected defaults %q %q", got.Status, got.Role)
	}
	if missing, err := repo.GetByEmail("nobody@example.com"); err != nil || missing != nil {
		t.Fatalf("expected nil,nil for missing user, got %v %v", missing, err)
	}

	if err := repo.UpdateStatus(u.ID, model.UserStatusSuspended); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateRole(u.ID, model.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.GetByID(u.ID)
	if got.Status != model.UserStatusSuspended || !got.IsAdmin() {
		t.Fatalf("updates not applied: %+v", got)
	}
	if err := repo.UpdateStatus(9999, model.UserStatusActive); err == nil {
		t.Fatal("expected error for unknown user")
	}
}

func TestModelVersionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewModelVersionRepository(db)
	ctx := context.Background()

	if v, err := repo.Latest(ctx); err != nil || v != nil {
		t.Fatalf("expected empty history, got %v %v", v, err)
	}
	now := time.Now()
	for i, path := range []string{"a.onnx", "b.onnx"} {
		v := &model.ModelVersion{Path: path, Layout: "NHWC", InputShape: "[1 48 48 1]", Classes: 7, ActivatedAt: now.Add(time.Duration(i) * time.Second)}
		if err := repo.Create(ctx, v); err != nil {
			t.Fatal(err)
		}
	}
	v, err := repo.Latest(ctx)
	if err != nil || v.Path != "b.onnx" {
		t.Fatalf("Latest = %+v, %v", v, err)
	}
	list, err := repo.List(ctx, 0)
	if err != nil || len(list) != 2 {
		t.Fatalf("List = %v, %v", list, err)
	}
}
