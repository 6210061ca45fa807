package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"doodlechain/internal/cache"
	"doodlechain/internal/game"
	"doodlechain/internal/model"
	"doodlechain/internal/notify"
	"doodlechain/internal/repository"
)

// SubmissionService accepts player work. The work item itself is always
// re-derived server-side from the latest room state; the client only supplies
// content. Submitting into an already-filled slot is silently coalesced so
// client retries after a missed ack are safe.
type SubmissionService struct {
	rooms       repository.RoomRepo
	players     repository.PlayerRepo
	submissions repository.SubmissionRepo
	votes       repository.VoteRepo
	scores      cache.ScoreCache
	notifier    notify.Notifier
	manager     *game.Manager
	broadcaster game.Broadcaster
}

func NewSubmissionService(
	rooms repository.RoomRepo,
	players repository.PlayerRepo,
	submissions repository.SubmissionRepo,
	votes repository.VoteRepo,
	scores cache.ScoreCache,
	notifier notify.Notifier,
	manager *game.Manager,
) *SubmissionService {
	return &SubmissionService{
		rooms:       rooms,
		players:     players,
		submissions: submissions,
		votes:       votes,
		scores:      scores,
		notifier:    notifier,
		manager:     manager,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SubmissionService) SetBroadcaster(b game.Broadcaster) {
	s.broadcaster = b
}

// Assignment computes the player's current work item from the latest
// observed state. Players without a slot this round get a waiting marker.
func (s *SubmissionService) Assignment(ctx context.Context, code, playerID string) (*game.Assignment, error) {
	st, policy, err := s.snapshot(ctx, code)
	if err != nil {
		return nil, err
	}
	if st.Player(playerID) == nil {
		return nil, ErrPlayerNotFound
	}
	if st.Room.Status != model.RoomStatusPlaying {
		return nil, ErrWrongPhase
	}

	assignments := policy.Assignments(st)
	if a, ok := assignments[playerID]; ok {
		return &a, nil
	}
	// Not this round's contributor (morph relay, eliminated in battle)
	return &game.Assignment{PlayerID: playerID, Round: st.Room.CurrentRound, Waiting: true}, nil
}

// Submit stores the player's work for their current assignment
func (s *SubmissionService) Submit(ctx context.Context, code, playerID string, content json.RawMessage) (*model.Submission, error) {
	st, policy, err := s.snapshot(ctx, code)
	if err != nil {
		return nil, err
	}
	player := st.Player(playerID)
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if st.Room.Status != model.RoomStatusPlaying {
		return nil, ErrWrongPhase
	}
	if player.IsEliminated {
		return nil, ErrEliminated
	}

	a, ok := policy.Assignments(st)[playerID]
	if !ok || a.Waiting {
		return nil, ErrWrongPhase
	}

	// Idempotent: a retry against a filled slot returns the stored row
	if existing := gameSlot(st.Submissions, a.ChainID, a.Round); existing != nil {
		return existing, nil
	}

	sub := &model.Submission{
		RoomCode: st.Room.Code,
		PlayerID: playerID,
		ChainID:  a.ChainID,
		Sequence: a.Round,
		Kind:     a.Kind,
		Content:  content,
	}
	if st.Room.GameMode == model.ModePixelPerfect {
		var pc model.PixelContent
		if err := json.Unmarshal(content, &pc); err != nil {
			return nil, fmt.Errorf("invalid pixel content: %w", err)
		}
		sub.Score = game.MatchScore(pc)
	}

	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}
	if st.Room.GameMode == model.ModePixelPerfect {
		if err := s.scores.UpdateBest(ctx, st.Room.Code, playerID, sub.Score); err != nil {
			logrus.WithError(err).WithField("room", st.Room.Code).Warn("update score cache")
		}
	}

	if err := s.notifier.Publish(ctx, notify.Event{
		RoomCode: st.Room.Code, Table: "submissions", Op: notify.OpInsert, ID: sub.ID,
	}); err != nil {
		logrus.WithError(err).WithField("room", st.Room.Code).Warn("publish change event")
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(st.Room.Code, model.MsgSubmissionSaved, map[string]interface{}{
			"playerId": playerID,
			"round":    a.Round,
		})
	}
	// A write may be the one that completes the round; make sure the
	// room's controller is awake to notice
	s.manager.Ensure(st.Room.Code)

	logrus.WithFields(logrus.Fields{
		"room": st.Room.Code, "player": playerID, "chain": a.ChainID, "round": a.Round, "kind": a.Kind,
	}).Info("submission stored")
	return sub, nil
}

func (s *SubmissionService) snapshot(ctx context.Context, code string) (*game.State, game.Policy, error) {
	code = NormalizeCode(code)
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if room == nil {
		return nil, nil, ErrRoomNotFound
	}
	policy, ok := game.PolicyFor(room.GameMode)
	if !ok {
		return nil, nil, ErrInvalidMode
	}
	players, err := s.players.ListByRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	subs, err := s.submissions.ListByRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	votes, err := s.votes.ListByRound(ctx, code, room.CurrentRound)
	if err != nil {
		return nil, nil, err
	}
	return &game.State{
		Room:        room,
		Players:     players,
		Submissions: game.Dedupe(subs),
		Votes:       votes,
	}, policy, nil
}

func gameSlot(subs []*model.Submission, chainID string, seq int) *model.Submission {
	for _, s := range subs {
		if s.ChainID == chainID && s.Sequence == seq {
			return s
		}
	}
	return nil
}
