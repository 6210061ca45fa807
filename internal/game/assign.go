package game

import (
	"sort"

	"doodlechain/internal/model"
)

// ChainFor names the chain ("book") owned by a player
func ChainFor(playerID string) string {
	return "chain-" + playerID
}

// morphChainID is the single shared chain used by morph mode
const morphChainID = "morph"

// rotationOwner returns the index of the player whose chain the player at
// position i continues in round r: (i - r) mod n. Round 0 is the identity,
// so every player starts their own chain.
func rotationOwner(i, r, n int) int {
	return ((i-r)%n + n) % n
}

// nextKind alternates the task by the previous chain item, not the round
// number, so a skipped kind cannot make the chain drift: prompts and
// descriptions are drawn, drawings are described.
func nextKind(prev model.SubmissionKind) model.SubmissionKind {
	if prev == model.KindDrawing {
		return model.KindDescription
	}
	return model.KindDrawing
}

// slotSubmission returns the submission at (chainID, sequence), or nil. The
// input is assumed deduplicated (earliest creation wins).
func slotSubmission(subs []*model.Submission, chainID string, sequence int) *model.Submission {
	for _, s := range subs {
		if s.ChainID == chainID && s.Sequence == sequence {
			return s
		}
	}
	return nil
}

// rotationAssignments is the classic relay rule shared by classic mode
func rotationAssignments(st *State) map[string]Assignment {
	n := len(st.Players)
	r := st.Room.CurrentRound
	out := make(map[string]Assignment, n)

	for i, p := range st.Players {
		owner := st.Players[rotationOwner(i, r, n)]
		a := Assignment{
			PlayerID: p.ID,
			ChainID:  ChainFor(owner.ID),
			Round:    r,
		}
		if r == 0 {
			a.Kind = model.KindPrompt
		} else {
			prev := slotSubmission(st.Submissions, a.ChainID, r-1)
			if prev == nil {
				// Transient: earlier contributors are still working
				a.Waiting = true
			} else {
				a.Previous = prev
				a.Kind = nextKind(prev.Kind)
			}
		}
		out[p.ID] = a
	}
	return out
}

// ChainsOf groups submissions into their derived chains, ordered by
// sequence, one chain per owning player plus any shared chains.
func ChainsOf(players []*model.Player, subs []*model.Submission) []*model.Chain {
	subs = Dedupe(subs)
	byID := make(map[string]*model.Chain)
	var order []string

	add := func(id, ownerID string) *model.Chain {
		if c, ok := byID[id]; ok {
			return c
		}
		c := &model.Chain{ID: id, OwnerID: ownerID}
		byID[id] = c
		order = append(order, id)
		return c
	}

	// Seed per-player chains in join order so empty chains still appear
	for _, p := range players {
		add(ChainFor(p.ID), p.ID)
	}
	for _, s := range subs {
		add(s.ChainID, "")
	}

	for _, s := range subs {
		c := byID[s.ChainID]
		c.Submissions = append(c.Submissions, s)
	}
	for _, c := range byID {
		sort.Slice(c.Submissions, func(i, j int) bool {
			return c.Submissions[i].Sequence < c.Submissions[j].Sequence
		})
	}

	out := make([]*model.Chain, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}
