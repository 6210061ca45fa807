package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"doodlechain/internal/cache"
	"doodlechain/internal/game"
	"doodlechain/internal/model"
	"doodlechain/internal/notify"
	"doodlechain/internal/repository"
)

// PlayerService handles join, ready, and leave
type PlayerService struct {
	rooms       repository.RoomRepo
	players     repository.PlayerRepo
	roomCache   cache.RoomCache
	notifier    notify.Notifier
	authSvc     *AuthService
	broadcaster game.Broadcaster
}

func NewPlayerService(
	rooms repository.RoomRepo,
	players repository.PlayerRepo,
	roomCache cache.RoomCache,
	notifier notify.Notifier,
	authSvc *AuthService,
) *PlayerService {
	return &PlayerService{
		rooms:     rooms,
		players:   players,
		roomCache: roomCache,
		notifier:  notifier,
		authSvc:   authSvc,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *PlayerService) SetBroadcaster(b game.Broadcaster) {
	s.broadcaster = b
}

// Join adds a player to a lobby room. Late joins and full rooms are rejected.
func (s *PlayerService) Join(ctx context.Context, code, name, avatar string) (*model.PlayerJoinResponse, error) {
	code = NormalizeCode(code)

	room, err := s.roomCache.Get(ctx, code)
	if err != nil || room == nil {
		if room, err = s.rooms.GetByCode(ctx, code); err != nil {
			return nil, fmt.Errorf("failed to get room: %w", err)
		}
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if room.Status != model.RoomStatusLobby {
		return nil, ErrRoomNotInLobby
	}

	existing, err := s.players.ListByRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if len(existing) >= room.Settings.MaxPlayers {
		return nil, ErrRoomFull
	}

	joinOrder := 0
	for _, p := range existing {
		if p.JoinOrder >= joinOrder {
			joinOrder = p.JoinOrder + 1
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "Player"
	}
	if len(name) > 24 {
		name = name[:24]
	}

	player := &model.Player{
		ID:        "p_" + uuid.New().String()[:8],
		RoomCode:  code,
		Name:      name,
		Color:     model.PlayerColors[joinOrder%len(model.PlayerColors)],
		Avatar:    avatar,
		JoinOrder: joinOrder,
		JoinedAt:  time.Now(),
	}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	token, err := s.authSvc.GeneratePlayerToken(code, player.ID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.publish(ctx, code, notify.OpInsert, player.ID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(code, model.MsgPlayerJoined, player)
	}
	logrus.WithFields(logrus.Fields{"room": code, "player": player.ID}).Info("player joined")

	return &model.PlayerJoinResponse{Player: player, Token: token, Room: room}, nil
}

// List returns the room's players in join order
func (s *PlayerService) List(ctx context.Context, code string) ([]*model.Player, error) {
	return s.players.ListByRoom(ctx, NormalizeCode(code))
}

// SetReady toggles a player's lobby readiness
func (s *PlayerService) SetReady(ctx context.Context, code, playerID string, ready bool) (*model.Player, error) {
	code = NormalizeCode(code)
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player == nil || player.RoomCode != code {
		return nil, ErrPlayerNotFound
	}

	player.IsReady = ready
	if err := s.players.Update(ctx, player); err != nil {
		return nil, err
	}

	s.publish(ctx, code, notify.OpUpdate, playerID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(code, model.MsgPlayerReady, map[string]interface{}{
			"playerId": playerID,
			"ready":    ready,
		})
	}
	return player, nil
}

// Leave removes a player. An emptied room is deleted outright.
func (s *PlayerService) Leave(ctx context.Context, code, playerID string) error {
	code = NormalizeCode(code)
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return err
	}
	if player == nil || player.RoomCode != code {
		return ErrPlayerNotFound
	}

	if err := s.players.Delete(ctx, playerID); err != nil {
		return err
	}

	remaining, err := s.players.CountByRoom(ctx, code)
	if err == nil && remaining == 0 {
		_ = s.rooms.Delete(ctx, code)
		_ = s.roomCache.Delete(ctx, code)
	}

	s.publish(ctx, code, notify.OpDelete, playerID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(code, model.MsgPlayerLeft, map[string]interface{}{
			"playerId": playerID,
		})
	}
	logrus.WithFields(logrus.Fields{"room": code, "player": playerID}).Info("player left")
	return nil
}

func (s *PlayerService) publish(ctx context.Context, code string, op notify.Op, id string) {
	if err := s.notifier.Publish(ctx, notify.Event{RoomCode: code, Table: "players", Op: op, ID: id}); err != nil {
		logrus.WithError(err).WithField("room", code).Warn("publish change event")
	}
}
