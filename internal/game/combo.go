package game

import (
	"math/rand"

	"doodlechain/internal/model"
)

// comboPolicy is the simultaneous collaborative canvas: a single round where
// every player draws at once inside an exclusive zone of the shared canvas.
type comboPolicy struct{}

func (comboPolicy) Mode() model.GameMode { return model.ModeCombo }

func (comboPolicy) Rounds(int) int { return 1 }

func (comboPolicy) Start(_ *rand.Rand) model.ModeState { return model.ModeState{} }

// ComboZoneFor partitions the canvas by player count: vertical halves for 2,
// quadrants up to 4, equal-height rows beyond. Coordinates are fractions of
// the canvas so the layout is resolution independent.
func ComboZoneFor(index, total int) model.ComboZone {
	switch {
	case total <= 2:
		return model.ComboZone{X: float64(index) * 0.5, Y: 0, Width: 0.5, Height: 1}
	case total <= 4:
		col := index % 2
		row := index / 2
		return model.ComboZone{X: float64(col) * 0.5, Y: float64(row) * 0.5, Width: 0.5, Height: 0.5}
	default:
		h := 1.0 / float64(total)
		return model.ComboZone{X: 0, Y: float64(index) * h, Width: 1, Height: h}
	}
}

func (comboPolicy) Assignments(st *State) map[string]Assignment {
	total := len(st.Players)
	out := make(map[string]Assignment, total)
	for i, p := range st.Players {
		zone := ComboZoneFor(i, total)
		out[p.ID] = Assignment{
			PlayerID: p.ID,
			ChainID:  ChainFor(p.ID),
			Round:    st.Room.CurrentRound,
			Kind:     model.KindDrawing,
			Zone:     &zone,
		}
	}
	return out
}

func (p comboPolicy) Complete(st *State) bool {
	if st.Room.Status != model.RoomStatusPlaying {
		return false
	}
	return SubmissionsDone(expectationsOf(p.Assignments(st)), st.Submissions)
}

func (comboPolicy) Advance(st *State) Outcome {
	// Single round, no voting: straight to results
	return Outcome{Status: model.RoomStatusResults, Round: st.Room.CurrentRound, Finished: true}
}
