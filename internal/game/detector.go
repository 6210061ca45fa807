package game

import (
	"sort"

	"doodlechain/internal/model"
)

// Expectation names one submission slot a phase is waiting on
type Expectation struct {
	PlayerID string
	ChainID  string
	Sequence int
}

// expectationsOf turns a round's assignments into the slots completion
// requires. Waiting assignments still name a slot; they just cannot be
// satisfied until the prior round's item lands.
func expectationsOf(assignments map[string]Assignment) []Expectation {
	out := make([]Expectation, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, Expectation{PlayerID: a.PlayerID, ChainID: a.ChainID, Sequence: a.Round})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// Dedupe collapses duplicate (chainId, sequence) slots, keeping the earliest
// created submission. Storage does not guarantee slot uniqueness, so a client
// retry racing the original write can leave two rows; the first one wins.
func Dedupe(subs []*model.Submission) []*model.Submission {
	type slot struct {
		chain string
		seq   int
	}
	sorted := make([]*model.Submission, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	seen := make(map[slot]bool, len(sorted))
	out := make([]*model.Submission, 0, len(sorted))
	for _, s := range sorted {
		k := slot{s.ChainID, s.Sequence}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

// SubmissionsDone reports whether every expected slot is filled. It is a pure
// predicate: re-running it over the same inputs gives the same answer, so
// duplicate or partial event delivery cannot signal completion twice.
func SubmissionsDone(expected []Expectation, subs []*model.Submission) bool {
	if len(expected) == 0 {
		return false
	}
	subs = Dedupe(subs)
	for _, e := range expected {
		if slotSubmission(subs, e.ChainID, e.Sequence) == nil {
			return false
		}
	}
	return true
}

// VotesDone reports whether every expected voter has cast a vote this round.
// Duplicate votes from one voter count once.
func VotesDone(voters []string, votes []*model.Vote, round int) bool {
	if len(voters) == 0 {
		return false
	}
	voted := make(map[string]bool, len(votes))
	for _, v := range votes {
		if v.Round == round {
			voted[v.VoterID] = true
		}
	}
	for _, id := range voters {
		if !voted[id] {
			return false
		}
	}
	return true
}
