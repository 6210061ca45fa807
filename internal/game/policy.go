// Package game is the round/turn coordination engine: it decides what every
// player must produce next, detects when a round is complete, and advances
// room state through each mode's phases.
package game

import (
	"math/rand"

	"doodlechain/internal/model"
)

// Assignment is the single work item a player must complete this round
type Assignment struct {
	PlayerID string               `json:"playerId"`
	ChainID  string               `json:"chainId"`
	Round    int                  `json:"round"`
	Kind     model.SubmissionKind `json:"kind"`
	// Previous is the chain item the player reacts to (nil in round 0)
	Previous *model.Submission `json:"previous,omitempty"`
	// Waiting means the prior chain item does not exist yet; the player
	// sees a waiting screen, not an error
	Waiting bool `json:"waiting,omitempty"`

	// Mode-specific extras
	Part          model.CorpsePart     `json:"part,omitempty"`
	Junctions     *model.JunctionLines `json:"junctionLines,omitempty"`
	Zone          *model.ComboZone     `json:"zone,omitempty"`
	GridSize      int                  `json:"gridSize,omitempty"`
	Palette       []string             `json:"palette,omitempty"`
	MorphProgress int                  `json:"morphProgress,omitempty"`
	OriginPrompt  string               `json:"originPrompt,omitempty"`
	TargetPrompt  string               `json:"targetPrompt,omitempty"`
	Prompt        string               `json:"prompt,omitempty"`
}

// State is a snapshot of everything a policy needs: the room, players in
// stable join order, deduplicated submissions, and the current round's votes.
type State struct {
	Room        *model.Room
	Players     []*model.Player
	Submissions []*model.Submission
	Votes       []*model.Vote
}

// Survivors returns the non-eliminated players, preserving join order
func (st *State) Survivors() []*model.Player {
	out := make([]*model.Player, 0, len(st.Players))
	for _, p := range st.Players {
		if !p.IsEliminated {
			out = append(out, p)
		}
	}
	return out
}

// Player returns the player with the given id, or nil
func (st *State) Player(id string) *model.Player {
	for _, p := range st.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Outcome is a policy's decision after a completed phase
type Outcome struct {
	Status     model.RoomStatus
	Round      int
	Eliminated []string        // players eliminated by this resolution
	WinnerID   string          // battle-royale winner, when decided
	Mode       model.ModeState // updated per-game mode values
	Finished   bool            // game reached its results phase
}

// Policy supplies a game mode's assignment rule, completion predicate, and
// resolution rule. Implementations are stateless; everything derives from the
// State snapshot so re-evaluation is idempotent.
type Policy interface {
	Mode() model.GameMode
	// Rounds returns the number of playing rounds for a player count
	Rounds(playerCount int) int
	// Start picks per-game values (morph pair, battle prompt) at game start
	Start(rng *rand.Rand) model.ModeState
	// Assignments maps every expected contributor to their work item
	Assignments(st *State) map[string]Assignment
	// Complete reports whether the current phase has everything it needs
	Complete(st *State) bool
	// Advance resolves the completed phase and names the next one
	Advance(st *State) Outcome
}

var policies = map[model.GameMode]Policy{
	model.ModeClassic:      classicPolicy{},
	model.ModeCorpse:       corpsePolicy{},
	model.ModeCombo:        comboPolicy{},
	model.ModePixelPerfect: pixelPolicy{},
	model.ModeMorph:        morphPolicy{},
	model.ModeBattleRoyale: battlePolicy{},
}

// PolicyFor returns the policy for a mode, or false for unknown modes
func PolicyFor(mode model.GameMode) (Policy, bool) {
	p, ok := policies[mode]
	return p, ok
}
