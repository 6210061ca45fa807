package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"doodlechain/internal/cache"
	"doodlechain/internal/model"
	"doodlechain/internal/notify"
	"doodlechain/internal/repository"
)

// Broadcaster pushes messages to connected clients (implemented by the ws hub)
type Broadcaster interface {
	BroadcastToRoom(roomCode string, msgType string, payload interface{})
	BroadcastToPlayer(roomCode, playerID string, msgType string, payload interface{})
}

// ControllerDeps are the collaborators a room controller consumes
type ControllerDeps struct {
	Rooms        repository.RoomRepo
	Players      repository.PlayerRepo
	Submissions  repository.SubmissionRepo
	Votes        repository.VoteRepo
	RoomCache    cache.RoomCache
	Notifier     notify.Notifier
	Broadcaster  Broadcaster
	PollInterval time.Duration
}

// Controller is the single authoritative actor for one room. It wakes on
// change events (with a poll fallback), re-derives everything from storage,
// and performs phase advances through conditional updates so duplicate wakes
// can never double-advance a round.
type Controller struct {
	deps ControllerDeps
	code string
	log  *logrus.Entry
}

func NewController(code string, deps ControllerDeps) *Controller {
	return &Controller{
		deps: deps,
		code: code,
		log:  logrus.WithField("room", code),
	}
}

// Run blocks until ctx is cancelled or the room finishes
func (c *Controller) Run(ctx context.Context) {
	events, cancelSub := c.deps.Notifier.Subscribe(ctx, c.code)
	defer cancelSub()

	poller := notify.Poller{Interval: c.deps.PollInterval}
	polls := poller.Run(ctx, c.code)

	timer := time.NewTimer(time.Second)
	defer timer.Stop()

	c.log.Info("controller started")
	for {
		var deadline bool
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Table == "messages" {
				continue // chat never affects round state
			}
		case <-polls:
		case <-timer.C:
			deadline = true
		}

		next, stop := c.evaluate(ctx, deadline)
		if stop {
			c.log.Info("controller stopped")
			return
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		wait := time.Until(next)
		if next.IsZero() || wait <= 0 {
			wait = time.Second
		}
		timer.Reset(wait)
	}
}

// evaluate re-derives the room state and advances if the phase is complete.
// It returns the next soft deadline and whether the controller should stop.
func (c *Controller) evaluate(ctx context.Context, deadline bool) (time.Time, bool) {
	room, err := c.deps.Rooms.GetByCode(ctx, c.code)
	if err != nil {
		c.log.WithError(err).Warn("load room")
		return time.Time{}, false
	}
	if room == nil || room.Status == model.RoomStatusFinished {
		return time.Time{}, true
	}
	if !room.InProgress() {
		return time.Time{}, false
	}

	st, policy, err := c.snapshot(ctx, room)
	if err != nil {
		c.log.WithError(err).Warn("snapshot room state")
		return room.RoundDeadline(), false
	}

	expired := !time.Now().Before(room.RoundDeadline())
	if deadline && expired && room.Status == model.RoomStatusPlaying {
		if err := c.fillPlaceholders(ctx, st, policy); err != nil {
			c.log.WithError(err).Warn("fill placeholders")
		}
		if st, policy, err = c.snapshot(ctx, room); err != nil {
			return room.RoundDeadline(), false
		}
	}
	// An expired voting phase resolves with whatever votes landed
	force := deadline && expired && room.Status == model.RoomStatusVoting

	if policy.Complete(st) || force {
		c.apply(ctx, st, policy.Advance(st))
	}
	return room.RoundDeadline(), false
}

func (c *Controller) snapshot(ctx context.Context, room *model.Room) (*State, Policy, error) {
	policy, ok := PolicyFor(room.GameMode)
	if !ok {
		return nil, nil, errUnknownMode(room.GameMode)
	}
	players, err := c.deps.Players.ListByRoom(ctx, c.code)
	if err != nil {
		return nil, nil, err
	}
	subs, err := c.deps.Submissions.ListByRoom(ctx, c.code)
	if err != nil {
		return nil, nil, err
	}
	votes, err := c.deps.Votes.ListByRound(ctx, c.code, room.CurrentRound)
	if err != nil {
		return nil, nil, err
	}
	return &State{
		Room:        room,
		Players:     players,
		Submissions: Dedupe(subs),
		Votes:       votes,
	}, policy, nil
}

// fillPlaceholders auto-submits empty work for contributors who missed the
// round deadline, the engine's only cancellation mechanism.
func (c *Controller) fillPlaceholders(ctx context.Context, st *State, policy Policy) error {
	for _, a := range policy.Assignments(st) {
		if a.Waiting {
			continue
		}
		if slotSubmission(st.Submissions, a.ChainID, a.Round) != nil {
			continue
		}
		sub := &model.Submission{
			RoomCode:    c.code,
			PlayerID:    a.PlayerID,
			ChainID:     a.ChainID,
			Sequence:    a.Round,
			Kind:        a.Kind,
			Content:     json.RawMessage(`{}`),
			Placeholder: true,
		}
		if err := c.deps.Submissions.Create(ctx, sub); err != nil {
			return err
		}
		c.log.WithFields(logrus.Fields{"player": a.PlayerID, "round": a.Round}).
			Info("deadline placeholder submitted")
		_ = c.deps.Notifier.Publish(ctx, notify.Event{
			RoomCode: c.code, Table: "submissions", Op: notify.OpInsert, ID: sub.ID,
		})
	}
	return nil
}

// apply commits an outcome. Eliminations land first (they are idempotent and
// deterministic, so a racing duplicate applies the same set); the room write
// is conditional on the phase we resolved, guaranteeing at most one advance.
func (c *Controller) apply(ctx context.Context, st *State, out Outcome) {
	for _, id := range out.Eliminated {
		p := st.Player(id)
		if p == nil || p.IsEliminated {
			continue
		}
		p.IsEliminated = true
		if err := c.deps.Players.Update(ctx, p); err != nil {
			c.log.WithError(err).WithField("player", id).Warn("mark eliminated")
			return
		}
	}

	updated := *st.Room
	updated.Status = out.Status
	updated.CurrentRound = out.Round
	if out.Mode != (model.ModeState{}) {
		updated.Mode = out.Mode
	}
	updated.PhaseStartAt = time.Now()
	if out.Finished {
		now := updated.PhaseStartAt
		updated.EndedAt = &now
	}

	ok, err := c.deps.Rooms.UpdateIf(ctx, &updated, st.Room.Status, st.Room.CurrentRound)
	if err != nil {
		c.log.WithError(err).Warn("advance room")
		return
	}
	if !ok {
		c.log.Debug("lost advance race, another writer got there first")
		return
	}
	if err := c.deps.RoomCache.Set(ctx, &updated); err != nil {
		c.log.WithError(err).Warn("refresh room cache")
	}
	_ = c.deps.Notifier.Publish(ctx, notify.Event{
		RoomCode: c.code, Table: "rooms", Op: notify.OpUpdate, ID: c.code,
	})

	c.log.WithFields(logrus.Fields{
		"status": out.Status, "round": out.Round, "eliminated": len(out.Eliminated),
	}).Info("phase advanced")
	c.broadcast(&updated, out)
}

func (c *Controller) broadcast(room *model.Room, out Outcome) {
	b := c.deps.Broadcaster
	if b == nil {
		return
	}
	if len(out.Eliminated) > 0 {
		b.BroadcastToRoom(c.code, model.MsgElimination, map[string]interface{}{
			"eliminated": out.Eliminated,
			"round":      out.Round,
		})
	}
	switch {
	case out.Finished:
		b.BroadcastToRoom(c.code, model.MsgGameOver, map[string]interface{}{
			"winnerId": out.WinnerID,
			"status":   room.Status,
		})
	case out.Status == model.RoomStatusVoting:
		b.BroadcastToRoom(c.code, model.MsgPhaseChanged, map[string]interface{}{
			"status": room.Status,
			"round":  room.CurrentRound,
		})
	default:
		b.BroadcastToRoom(c.code, model.MsgRoundAdvanced, map[string]interface{}{
			"round":  room.CurrentRound,
			"status": room.Status,
		})
	}
}

type errUnknownMode model.GameMode

func (e errUnknownMode) Error() string { return "unknown game mode: " + string(e) }
