package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"doodlechain/internal/game"
	"doodlechain/internal/model"
	"doodlechain/internal/notify"
	"doodlechain/internal/repository"
)

// VoteService enforces the voting invariants: one vote per voter per round,
// never for yourself, and in battle-royale only among survivors.
type VoteService struct {
	rooms       repository.RoomRepo
	players     repository.PlayerRepo
	votes       repository.VoteRepo
	notifier    notify.Notifier
	manager     *game.Manager
	broadcaster game.Broadcaster
}

func NewVoteService(
	rooms repository.RoomRepo,
	players repository.PlayerRepo,
	votes repository.VoteRepo,
	notifier notify.Notifier,
	manager *game.Manager,
) *VoteService {
	return &VoteService{
		rooms:    rooms,
		players:  players,
		votes:    votes,
		notifier: notifier,
		manager:  manager,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *VoteService) SetBroadcaster(b game.Broadcaster) {
	s.broadcaster = b
}

// Cast records a vote for another player's work in the current round
func (s *VoteService) Cast(ctx context.Context, code, voterID, targetID string) (*model.Vote, error) {
	code = NormalizeCode(code)
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if room.Status != model.RoomStatusVoting {
		return nil, ErrWrongPhase
	}
	if voterID == targetID {
		return nil, ErrSelfVote
	}

	voter, err := s.players.GetByID(ctx, voterID)
	if err != nil {
		return nil, err
	}
	if voter == nil || voter.RoomCode != code {
		return nil, ErrPlayerNotFound
	}
	if voter.IsEliminated {
		return nil, ErrEliminated
	}

	target, err := s.players.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil || target.RoomCode != code || target.IsEliminated {
		return nil, ErrInvalidTarget
	}

	if existing, err := s.votes.GetByVoter(ctx, code, room.CurrentRound, voterID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateVote
	}

	vote := &model.Vote{
		RoomCode: code,
		Round:    room.CurrentRound,
		VoterID:  voterID,
		TargetID: targetID,
	}
	if err := s.votes.Create(ctx, vote); err != nil {
		return nil, fmt.Errorf("failed to store vote: %w", err)
	}

	if err := s.notifier.Publish(ctx, notify.Event{
		RoomCode: code, Table: "votes", Op: notify.OpInsert, ID: vote.ID,
	}); err != nil {
		logrus.WithError(err).WithField("room", code).Warn("publish change event")
	}
	if s.broadcaster != nil {
		// Ballots stay secret until the tally; only announce that one landed
		s.broadcaster.BroadcastToRoom(code, model.MsgVoteSaved, map[string]interface{}{
			"round": room.CurrentRound,
		})
	}
	s.manager.Ensure(code)

	logrus.WithFields(logrus.Fields{"room": code, "voter": voterID, "round": room.CurrentRound}).
		Info("vote cast")
	return vote, nil
}
