package game

import (
	"math"
	"math/rand"

	"doodlechain/internal/model"
)

// morphPairs are the origin→target concepts a game morphs between
var morphPairs = [][2]string{
	{"Cat", "Rocket"},
	{"Tree", "Robot"},
	{"House", "Spaceship"},
	{"Fish", "Airplane"},
	{"Flower", "Dragon"},
	{"Apple", "Planet"},
	{"Car", "Monster"},
	{"Bird", "Submarine"},
}

// morphPolicy is the progressive transformation relay: one shared chain,
// one submitter per round, each redrawing the previous drawing shifted a
// step further toward the target concept.
type morphPolicy struct{}

func (morphPolicy) Mode() model.GameMode { return model.ModeMorph }

func (morphPolicy) Rounds(playerCount int) int { return playerCount }

func (morphPolicy) Start(rng *rand.Rand) model.ModeState {
	pair := morphPairs[rng.Intn(len(morphPairs))]
	return model.ModeState{MorphOrigin: pair[0], MorphTarget: pair[1]}
}

// MorphProgress is how far toward the target the player at position k
// draws: 0 for the origin, 100 for the last position.
func MorphProgress(k, playerCount int) int {
	if playerCount <= 1 {
		return 100
	}
	return int(math.Round(float64(k) / float64(playerCount-1) * 100))
}

// Assignments covers only the round's single submitter; everyone else waits.
func (morphPolicy) Assignments(st *State) map[string]Assignment {
	r := st.Room.CurrentRound
	if r < 0 || r >= len(st.Players) {
		return nil
	}
	p := st.Players[r]
	a := Assignment{
		PlayerID:      p.ID,
		ChainID:       morphChainID,
		Round:         r,
		Kind:          model.KindDrawing,
		MorphProgress: MorphProgress(r, len(st.Players)),
		OriginPrompt:  st.Room.Mode.MorphOrigin,
		TargetPrompt:  st.Room.Mode.MorphTarget,
	}
	if r > 0 {
		a.Previous = slotSubmission(st.Submissions, morphChainID, r-1)
		if a.Previous == nil {
			a.Waiting = true
		}
	}
	return map[string]Assignment{p.ID: a}
}

func (p morphPolicy) Complete(st *State) bool {
	switch st.Room.Status {
	case model.RoomStatusPlaying:
		return SubmissionsDone(expectationsOf(p.Assignments(st)), st.Submissions)
	case model.RoomStatusVoting:
		return VotesDone(playerIDs(st.Players), st.Votes, st.Room.CurrentRound)
	}
	return false
}

func (p morphPolicy) Advance(st *State) Outcome {
	r := st.Room.CurrentRound
	switch st.Room.Status {
	case model.RoomStatusPlaying:
		if r+1 < st.Room.MaxRounds {
			return Outcome{Status: model.RoomStatusPlaying, Round: r + 1}
		}
		return Outcome{Status: model.RoomStatusVoting, Round: r}
	case model.RoomStatusVoting:
		return Outcome{Status: model.RoomStatusResults, Round: r, Finished: true}
	}
	return Outcome{Status: st.Room.Status, Round: r}
}
