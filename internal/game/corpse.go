package game

import (
	"math/rand"

	"doodlechain/internal/model"
)

// Exquisite-corpse canvas geometry: three 200px bands with a 20px junction
// strip shared with each adjacent part.
const (
	corpseBandHeight   = 200
	corpseJunctionSize = 20
)

// corpsePolicy is the body relay: fixed three rounds in which every player
// draws the head, body, and legs of their own creature, seeing only the
// junction strip of the previous part.
type corpsePolicy struct{}

func (corpsePolicy) Mode() model.GameMode { return model.ModeCorpse }

func (corpsePolicy) Rounds(int) int { return 3 }

func (corpsePolicy) Start(_ *rand.Rand) model.ModeState { return model.ModeState{} }

// PartForRound maps rounds 0, 1, 2 to head, body, legs
func PartForRound(round int) model.CorpsePart {
	switch round {
	case 0:
		return model.PartHead
	case 1:
		return model.PartBody
	default:
		return model.PartLegs
	}
}

// JunctionsFor returns the shared strips visible from adjacent parts
func JunctionsFor(part model.CorpsePart) model.JunctionLines {
	top := float64(corpseJunctionSize)
	bottom := float64(corpseBandHeight - corpseJunctionSize)
	switch part {
	case model.PartHead:
		return model.JunctionLines{Bottom: &bottom}
	case model.PartBody:
		return model.JunctionLines{Top: &top, Bottom: &bottom}
	default:
		return model.JunctionLines{Top: &top}
	}
}

func (corpsePolicy) Assignments(st *State) map[string]Assignment {
	r := st.Room.CurrentRound
	part := PartForRound(r)
	junctions := JunctionsFor(part)
	out := make(map[string]Assignment, len(st.Players))

	for _, p := range st.Players {
		a := Assignment{
			PlayerID:  p.ID,
			ChainID:   ChainFor(p.ID), // not rotated: players keep their own creature
			Round:     r,
			Kind:      model.KindDrawing,
			Part:      part,
			Junctions: &junctions,
		}
		if r > 0 {
			a.Previous = slotSubmission(st.Submissions, a.ChainID, r-1)
			if a.Previous == nil {
				a.Waiting = true
			}
		}
		out[p.ID] = a
	}
	return out
}

func (p corpsePolicy) Complete(st *State) bool {
	switch st.Room.Status {
	case model.RoomStatusPlaying:
		return SubmissionsDone(expectationsOf(p.Assignments(st)), st.Submissions)
	case model.RoomStatusVoting:
		return VotesDone(playerIDs(st.Players), st.Votes, st.Room.CurrentRound)
	}
	return false
}

func (p corpsePolicy) Advance(st *State) Outcome {
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
