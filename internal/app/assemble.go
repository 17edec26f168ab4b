package app

import (
	"moodmatch/internal/match"
	"moodmatch/internal/model"
)

// SongView is a matched song as the client sees it.
type SongView struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	MoodTag string `json:"mood_tag"`
	Liked   bool   `json:"liked"`
}

// Assembled is the match result joined with the user's liked set.
type Assembled struct {
	Matches     []uint     `json:"matches"`
	Primary     *uint      `json:"primary_match"`
	PrimarySong *SongView  `json:"primary_song"`
	Songs       []SongView `json:"songs"`
}

// Assemble pairs each matched song with the liked flag and picks the first
// song as the headline match. primary_match carries only the song id and is
// null when nothing matched. It keeps the retriever's order.
func Assemble(result match.Result, liked map[uint]struct{}) Assembled {
	out := Assembled{
		Matches: make([]uint, 0, len(result.Songs)),
		Songs:   make([]SongView, 0, len(result.Songs)),
	}
	for _, s := range result.Songs {
		out.Matches = append(out.Matches, s.ID)
		out.Songs = append(out.Songs, songView(s, liked))
	}
	if len(out.Songs) > 0 {
		id := out.Matches[0]
		out.Primary = &id
		primary := out.Songs[0]
		out.PrimarySong = &primary
	}
	return out
}

func songView(s model.Song, liked map[uint]struct{}) SongView {
	_, isLiked := liked[s.ID]
	return SongView{
		ID:      s.ID,
		Title:   s.Title,
		Artist:  s.Artist.Name,
		MoodTag: s.MoodTag,
		Liked:   isLiked,
	}
}
