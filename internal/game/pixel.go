package game

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"doodlechain/internal/model"
)

// pixelPolicy is memorize-and-reproduce: a single scored round where every
// player recreates a small pixel grid from memory. Ranking is by descending
// match score.
type pixelPolicy struct{}

func (pixelPolicy) Mode() model.GameMode { return model.ModePixelPerfect }

func (pixelPolicy) Rounds(int) int { return 1 }

func (pixelPolicy) Start(_ *rand.Rand) model.ModeState { return model.ModeState{} }

// PixelGridSize maps difficulty to the square grid side length
func PixelGridSize(d model.PixelDifficulty) int {
	switch d {
	case model.PixelMedium:
		return 24
	case model.PixelHard:
		return 32
	default:
		return 16
	}
}

// PixelPalette is the color palette shown to every player for a theme.
// Unknown themes fall back to the default palette.
func PixelPalette(theme model.PixelTheme) []string {
	switch theme {
	case model.ThemeRetro:
		return []string{
			"#000000", "#FFFFFF", "#FF0000", "#00FF00",
			"#0000FF", "#FFFF00", "#FF00FF", "#00FFFF",
		}
	case model.ThemeGameboy:
		return []string{"#0f380f", "#306230", "#8bac0f", "#9bbc0f"}
	default:
		return []string{
			"#000000", "#FFFFFF", "#FF0000", "#FFA500",
			"#FFFF00", "#00FF00", "#0000FF", "#800080",
		}
	}
}

func (pixelPolicy) Assignments(st *State) map[string]Assignment {
	size := PixelGridSize(st.Room.Settings.Difficulty)
	palette := PixelPalette(st.Room.Settings.Theme)
	out := make(map[string]Assignment, len(st.Players))
	for _, p := range st.Players {
		out[p.ID] = Assignment{
			PlayerID: p.ID,
			ChainID:  ChainFor(p.ID),
			Round:    st.Room.CurrentRound,
			Kind:     model.KindDrawing,
			GridSize: size,
			Palette:  palette,
		}
	}
	return out
}

func (p pixelPolicy) Complete(st *State) bool {
	if st.Room.Status != model.RoomStatusPlaying {
		return false
	}
	return SubmissionsDone(expectationsOf(p.Assignments(st)), st.Submissions)
}

func (pixelPolicy) Advance(st *State) Outcome {
	return Outcome{Status: model.RoomStatusResults, Round: st.Room.CurrentRound, Finished: true}
}

// MatchScore is the percentage of cells identical between the target grid
// and the reproduction, over the full grid area. Empty cells count: two
// identical grids score 100, fully disjoint grids score 0.
func MatchScore(c model.PixelContent) int {
	total := c.Width * c.Height
	if total == 0 {
		return 0
	}
	matching := 0
	for x := 0; x < c.Width; x++ {
		for y := 0; y < c.Height; y++ {
			key := fmt.Sprintf("%d,%d", x, y)
			if c.Target[key] == c.Pixels[key] {
				matching++
			}
		}
	}
	return int(math.Round(float64(matching) / float64(total) * 100))
}

// PlayerScore is one row of the pixel-perfect ranking
type PlayerScore struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

// PixelRanking ranks players by their best submission's score, descending,
// with join order breaking ties. Duplicate submissions per player keep only
// the best.
func PixelRanking(st *State) []PlayerScore {
	best := make(map[string]int, len(st.Players))
	for _, s := range st.Submissions {
		score := s.Score
		if score == 0 && len(s.Content) > 0 {
			var c model.PixelContent
			if json.Unmarshal(s.Content, &c) == nil {
				score = MatchScore(c)
			}
		}
		if score > best[s.PlayerID] {
			best[s.PlayerID] = score
		}
	}

	out := make([]PlayerScore, 0, len(st.Players))
	for _, p := range st.Players {
		out = append(out, PlayerScore{PlayerID: p.ID, Score: best[p.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
