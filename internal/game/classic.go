package game

import (
	"math/rand"
	"sort"

	"doodlechain/internal/model"
)

// classicPolicy is the telephone relay: chains rotate through every player,
// alternating drawings and descriptions, then everyone votes for a favorite.
type classicPolicy struct{}

func (classicPolicy) Mode() model.GameMode { return model.ModeClassic }

// Rounds equals the player count so every chain passes through every player
func (classicPolicy) Rounds(playerCount int) int { return playerCount }

func (classicPolicy) Start(_ *rand.Rand) model.ModeState { return model.ModeState{} }

func (classicPolicy) Assignments(st *State) map[string]Assignment {
	return rotationAssignments(st)
}

func (p classicPolicy) Complete(st *State) bool {
	switch st.Room.Status {
	case model.RoomStatusPlaying:
		return SubmissionsDone(expectationsOf(p.Assignments(st)), st.Submissions)
	case model.RoomStatusVoting:
		return VotesDone(playerIDs(st.Players), st.Votes, st.Room.CurrentRound)
	}
	return false
}

func (p classicPolicy) Advance(st *State) Outcome {
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

func playerIDs(players []*model.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

// TallyVotes counts a round's votes per target, collapsing duplicate votes
// from one voter to their earliest
func TallyVotes(votes []*model.Vote, round int) map[string]int {
	sorted := make([]*model.Vote, 0, len(votes))
	for _, v := range votes {
		if v.Round == round {
			sorted = append(sorted, v)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	seen := make(map[string]bool, len(sorted))
	tally := make(map[string]int)
	for _, v := range sorted {
		if seen[v.VoterID] {
			continue
		}
		seen[v.VoterID] = true
		tally[v.TargetID]++
	}
	return tally
}
