package service

import (
	"context"
	"crypto/rand"
	"fmt"
	mrand "math/rand"
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

// RoomService owns the room lifecycle: create, settings, start, play-again,
// and results assembly. Phase advances during play belong to the game
// controller, not here.
type RoomService struct {
	rooms       repository.RoomRepo
	players     repository.PlayerRepo
	submissions repository.SubmissionRepo
	votes       repository.VoteRepo
	messages    repository.MessageRepo
	roomCache   cache.RoomCache
	scores      cache.ScoreCache
	notifier    notify.Notifier
	manager     *game.Manager
	authSvc     *AuthService
	broadcaster game.Broadcaster
	codeLength  int
}

func NewRoomService(
	rooms repository.RoomRepo,
	players repository.PlayerRepo,
	submissions repository.SubmissionRepo,
	votes repository.VoteRepo,
	messages repository.MessageRepo,
	roomCache cache.RoomCache,
	scores cache.ScoreCache,
	notifier notify.Notifier,
	manager *game.Manager,
	authSvc *AuthService,
	codeLength int,
) *RoomService {
	return &RoomService{
		rooms:       rooms,
		players:     players,
		submissions: submissions,
		votes:       votes,
		messages:    messages,
		roomCache:   roomCache,
		scores:      scores,
		notifier:    notifier,
		manager:     manager,
		authSvc:     authSvc,
		codeLength:  codeLength,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *RoomService) SetBroadcaster(b game.Broadcaster) {
	s.broadcaster = b
}

// NormalizeCode uppercases a human-typed room code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateRoom creates a room with its host player and returns the host token
func (s *RoomService) CreateRoom(ctx context.Context, hostName string, mode model.GameMode, settings *model.RoomSettings) (*model.PlayerJoinResponse, error) {
	cfg, ok := model.ConfigFor(mode)
	if !ok {
		return nil, ErrInvalidMode
	}

	code, err := s.generateRoomCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate room code: %w", err)
	}

	roomSettings := model.RoomSettings{
		MaxPlayers:       cfg.MaxPlayers,
		RoundTimeSeconds: cfg.DefaultRoundTime,
	}
	if settings != nil {
		if settings.MaxPlayers > 0 && settings.MaxPlayers <= cfg.MaxPlayers {
			roomSettings.MaxPlayers = settings.MaxPlayers
		}
		if settings.RoundTimeSeconds > 0 {
			roomSettings.RoundTimeSeconds = settings.RoundTimeSeconds
		}
		if settings.Difficulty != "" {
			roomSettings.Difficulty = settings.Difficulty
		}
		if settings.Theme != "" {
			roomSettings.Theme = settings.Theme
		}
	}

	host := &model.Player{
		ID:        "p_" + uuid.New().String()[:8],
		RoomCode:  code,
		Name:      strings.TrimSpace(hostName),
		Color:     model.PlayerColors[0],
		IsHost:    true,
		IsReady:   true,
		JoinOrder: 0,
		JoinedAt:  time.Now(),
	}
	if host.Name == "" {
		host.Name = "Host"
	}

	room := &model.Room{
		Code:         code,
		Status:       model.RoomStatusLobby,
		GameMode:     mode,
		HostPlayerID: host.ID,
		Settings:     roomSettings,
		CreatedAt:    time.Now(),
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	if err := s.players.Create(ctx, host); err != nil {
		return nil, fmt.Errorf("failed to create host player: %w", err)
	}
	if err := s.roomCache.Set(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to cache room: %w", err)
	}

	token, err := s.authSvc.GeneratePlayerToken(code, host.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logrus.WithFields(logrus.Fields{"room": code, "mode": mode}).Info("room created")
	return &model.PlayerJoinResponse{Player: host, Token: token, Room: room}, nil
}

// GetRoom retrieves a room, preferring the cache
func (s *RoomService) GetRoom(ctx context.Context, code string) (*model.Room, error) {
	code = NormalizeCode(code)
	if room, err := s.roomCache.Get(ctx, code); err == nil && room != nil {
		return room, nil
	}
	return s.rooms.GetByCode(ctx, code)
}

// UpdateSettings lets the host tune mode and settings while in the lobby
func (s *RoomService) UpdateSettings(ctx context.Context, code, hostID string, mode model.GameMode, settings *model.RoomSettings) (*model.Room, error) {
	room, err := s.requireHost(ctx, code, hostID)
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusLobby {
		return nil, ErrRoomNotInLobby
	}

	if mode != "" {
		cfg, ok := model.ConfigFor(mode)
		if !ok {
			return nil, ErrInvalidMode
		}
		room.GameMode = mode
		room.Settings.MaxPlayers = cfg.MaxPlayers
		room.Settings.RoundTimeSeconds = cfg.DefaultRoundTime
	}
	if settings != nil {
		if settings.MaxPlayers > 0 {
			room.Settings.MaxPlayers = settings.MaxPlayers
		}
		if settings.RoundTimeSeconds > 0 {
			room.Settings.RoundTimeSeconds = settings.RoundTimeSeconds
		}
		if settings.Difficulty != "" {
			room.Settings.Difficulty = settings.Difficulty
		}
		if settings.Theme != "" {
			room.Settings.Theme = settings.Theme
		}
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	if err := s.roomCache.Set(ctx, room); err != nil {
		return nil, err
	}
	s.publish(ctx, room.Code, "rooms", notify.OpUpdate)
	return room, nil
}

// Start transitions lobby → playing: validates readiness and player count,
// purges stale records, computes maxRounds from the mode policy, and spawns
// the room controller.
func (s *RoomService) Start(ctx context.Context, code, hostID string) (*model.Room, error) {
	room, err := s.requireHost(ctx, code, hostID)
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusLobby {
		return nil, ErrRoomNotInLobby
	}

	policy, ok := game.PolicyFor(room.GameMode)
	if !ok {
		return nil, ErrInvalidMode
	}
	cfg, _ := model.ConfigFor(room.GameMode)

	players, err := s.players.ListByRoom(ctx, room.Code)
	if err != nil {
		return nil, err
	}
	if len(players) < cfg.MinPlayers || len(players) > cfg.MaxPlayers {
		return nil, ErrPlayerCount
	}
	for _, p := range players {
		if !p.IsHost && !p.IsReady {
			return nil, ErrPlayersNotReady
		}
	}

	// Stale records from an abandoned game must not satisfy round 0
	if err := s.submissions.DeleteByRoom(ctx, room.Code); err != nil {
		return nil, err
	}
	if err := s.votes.DeleteByRoom(ctx, room.Code); err != nil {
		return nil, err
	}
	if err := s.scores.Delete(ctx, room.Code); err != nil {
		return nil, err
	}

	now := time.Now()
	rng := mrand.New(mrand.NewSource(now.UnixNano()))
	updated := *room
	updated.Status = model.RoomStatusPlaying
	updated.CurrentRound = 0
	updated.MaxRounds = policy.Rounds(len(players))
	updated.Mode = policy.Start(rng)
	updated.PhaseStartAt = now
	updated.StartedAt = &now
	updated.EndedAt = nil

	ok, err = s.rooms.UpdateIf(ctx, &updated, model.RoomStatusLobby, room.CurrentRound)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRoomNotInLobby
	}
	if err := s.roomCache.Set(ctx, &updated); err != nil {
		return nil, err
	}

	s.publish(ctx, updated.Code, "rooms", notify.OpUpdate)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(updated.Code, model.MsgGameStarted, map[string]interface{}{
			"gameMode":  updated.GameMode,
			"maxRounds": updated.MaxRounds,
		})
	}
	s.manager.Ensure(updated.Code)

	logrus.WithFields(logrus.Fields{
		"room": updated.Code, "mode": updated.GameMode, "players": len(players), "maxRounds": updated.MaxRounds,
	}).Info("game started")
	return &updated, nil
}

// PlayAgain resets a finished room back to the lobby, clearing all
// submissions, votes, and chat, and un-eliminating every player.
func (s *RoomService) PlayAgain(ctx context.Context, code, hostID string) (*model.Room, error) {
	room, err := s.requireHost(ctx, code, hostID)
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusResults && room.Status != model.RoomStatusFinished {
		return nil, ErrWrongPhase
	}

	if err := s.submissions.DeleteByRoom(ctx, room.Code); err != nil {
		return nil, err
	}
	if err := s.votes.DeleteByRoom(ctx, room.Code); err != nil {
		return nil, err
	}
	if err := s.messages.DeleteByRoom(ctx, room.Code); err != nil {
		return nil, err
	}
	if err := s.scores.Delete(ctx, room.Code); err != nil {
		return nil, err
	}

	players, err := s.players.ListByRoom(ctx, room.Code)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		p.IsReady = p.IsHost
		p.IsEliminated = false
		if err := s.players.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	updated := *room
	updated.Status = model.RoomStatusLobby
	updated.CurrentRound = 0
	updated.MaxRounds = 0
	updated.Mode = model.ModeState{}
	updated.StartedAt = nil
	updated.EndedAt = nil

	ok, err := s.rooms.UpdateIf(ctx, &updated, room.Status, room.CurrentRound)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongPhase
	}
	if err := s.roomCache.Set(ctx, &updated); err != nil {
		return nil, err
	}

	s.publish(ctx, updated.Code, "rooms", notify.OpUpdate)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(updated.Code, model.MsgRoomReset, map[string]interface{}{})
	}
	logrus.WithField("room", updated.Code).Info("room reset for another game")
	return &updated, nil
}

// Finish archives a results-phase room
func (s *RoomService) Finish(ctx context.Context, code, hostID string) (*model.Room, error) {
	room, err := s.requireHost(ctx, code, hostID)
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusResults {
		return nil, ErrWrongPhase
	}

	updated := *room
	updated.Status = model.RoomStatusFinished
	ok, err := s.rooms.UpdateIf(ctx, &updated, room.Status, room.CurrentRound)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWrongPhase
	}
	if err := s.roomCache.Set(ctx, &updated); err != nil {
		return nil, err
	}
	s.publish(ctx, updated.Code, "rooms", notify.OpUpdate)
	return &updated, nil
}

func (s *RoomService) requireHost(ctx context.Context, code, hostID string) (*model.Room, error) {
	room, err := s.rooms.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if room.HostPlayerID != hostID {
		return nil, ErrNotHost
	}
	return room, nil
}

func (s *RoomService) publish(ctx context.Context, code, table string, op notify.Op) {
	if err := s.notifier.Publish(ctx, notify.Event{RoomCode: code, Table: table, Op: op}); err != nil {
		logrus.WithError(err).WithField("room", code).Warn("publish change event")
	}
}

// generateRoomCode creates a short human-typable code, retrying on collision
func (s *RoomService) generateRoomCode(ctx context.Context) (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	length := s.codeLength
	if length < 3 {
		length = 4
	}

	for attempts := 0; attempts < 12; attempts++ {
		b := make([]byte, length)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := make([]byte, length)
		for i := range code {
			code[i] = chars[int(b[i])%len(chars)]
		}
		codeStr := string(code)

		if exists, err := s.roomCache.Exists(ctx, codeStr); err != nil {
			return "", err
		} else if exists {
			continue
		}
		// The cache can miss expired rooms; the store is authoritative
		if room, err := s.rooms.GetByCode(ctx, codeStr); err != nil {
			return "", err
		} else if room == nil {
			return codeStr, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique room code")
}
