package game

import (
	"math/rand"
	"sort"

	"doodlechain/internal/model"
)

// battlePrompts rotate deterministically between rounds; Start picks the
// first one at random.
var battlePrompts = []string{
	"A superhero walking a dog",
	"A robot cooking breakfast",
	"A pirate at the dentist",
	"A dinosaur riding a bicycle",
	"An alien doing laundry",
	"A wizard stuck in traffic",
	"A penguin on vacation",
	"A dragon afraid of fire",
}

// battlePolicy is the elimination mode: every survivor draws the same prompt,
// survivors vote on each other's drawings, and the lowest-voted are
// eliminated until one remains.
type battlePolicy struct{}

func (battlePolicy) Mode() model.GameMode { return model.ModeBattleRoyale }

// eliminationCount decides how many survivors a voting round removes: two
// normally, one when four or fewer remain, and never below a single winner.
func eliminationCount(survivors int) int {
	switch {
	case survivors <= 1:
		return 0
	case survivors <= 4:
		return 1
	default:
		return 2
	}
}

// Rounds simulates elimination until one survivor remains
func (battlePolicy) Rounds(playerCount int) int {
	rounds := 0
	for remaining := playerCount; remaining > 1; rounds++ {
		remaining -= eliminationCount(remaining)
	}
	return rounds
}

func (battlePolicy) Start(rng *rand.Rand) model.ModeState {
	return model.ModeState{BattlePrompt: battlePrompts[rng.Intn(len(battlePrompts))]}
}

func nextBattlePrompt(current string) string {
	for i, p := range battlePrompts {
		if p == current {
			return battlePrompts[(i+1)%len(battlePrompts)]
		}
	}
	return battlePrompts[0]
}

func (battlePolicy) Assignments(st *State) map[string]Assignment {
	survivors := st.Survivors()
	out := make(map[string]Assignment, len(survivors))
	for _, p := range survivors {
		out[p.ID] = Assignment{
			PlayerID: p.ID,
			ChainID:  ChainFor(p.ID),
			Round:    st.Room.CurrentRound,
			Kind:     model.KindDrawing,
			Prompt:   st.Room.Mode.BattlePrompt,
		}
	}
	return out
}

func (p battlePolicy) Complete(st *State) bool {
	switch st.Room.Status {
	case model.RoomStatusPlaying:
		return SubmissionsDone(expectationsOf(p.Assignments(st)), st.Submissions)
	case model.RoomStatusVoting:
		return VotesDone(playerIDs(st.Survivors()), st.Votes, st.Room.CurrentRound)
	}
	return false
}

func (p battlePolicy) Advance(st *State) Outcome {
	r := st.Room.CurrentRound

	if st.Room.Status == model.RoomStatusPlaying {
		// All survivors have drawn; open the voting sub-phase
		return Outcome{Status: model.RoomStatusVoting, Round: r, Mode: st.Room.Mode}
	}

	// Voting complete: tally and eliminate
	eliminated := Eliminate(st.Survivors(), TallyVotes(st.Votes, r))

	remaining := len(st.Survivors()) - len(eliminated)
	if remaining <= 1 {
		winner := ""
		elim := make(map[string]bool, len(eliminated))
		for _, id := range eliminated {
			elim[id] = true
		}
		for _, s := range st.Survivors() {
			if !elim[s.ID] {
				winner = s.ID
				break
			}
		}
		mode := st.Room.Mode
		mode.WinnerID = winner
		return Outcome{
			Status:     model.RoomStatusResults,
			Round:      r,
			Eliminated: eliminated,
			WinnerID:   winner,
			Mode:       mode,
			Finished:   true,
		}
	}

	mode := st.Room.Mode
	mode.BattlePrompt = nextBattlePrompt(mode.BattlePrompt)
	return Outcome{
		Status:     model.RoomStatusPlaying,
		Round:      r + 1,
		Eliminated: eliminated,
		Mode:       mode,
	}
}

// Eliminate picks the survivors to remove: lowest vote counts first, ties
// broken by lowest join-order index so repeated tallies always agree.
func Eliminate(survivors []*model.Player, tally map[string]int) []string {
	count := eliminationCount(len(survivors))
	if count == 0 {
		return nil
	}

	ranked := make([]*model.Player, len(survivors))
	copy(ranked, survivors)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := tally[ranked[i].ID], tally[ranked[j].ID]
		if vi != vj {
			return vi < vj
		}
		return ranked[i].JoinOrder < ranked[j].JoinOrder
	})

	out := make([]string, 0, count)
	for _, p := range ranked[:count] {
		out = append(out, p.ID)
	}
	return out
}
