package service

import (
	"context"
	"strings"

	"doodlechain/internal/game"
	"doodlechain/internal/model"
	"doodlechain/internal/repository"
)

const chatHistoryLimit = 200

// ChatService stores and fans out room chat
type ChatService struct {
	players     repository.PlayerRepo
	messages    repository.MessageRepo
	broadcaster game.Broadcaster
}

func NewChatService(players repository.PlayerRepo, messages repository.MessageRepo) *ChatService {
	return &ChatService{players: players, messages: messages}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *ChatService) SetBroadcaster(b game.Broadcaster) {
	s.broadcaster = b
}

// Post stores a chat line and pushes it to the room
func (s *ChatService) Post(ctx context.Context, code, playerID, text string) (*model.Message, error) {
	code = NormalizeCode(code)
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len(text) > 500 {
		text = text[:500]
	}

	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player == nil || player.RoomCode != code {
		return nil, ErrPlayerNotFound
	}

	msg := &model.Message{
		RoomCode:    code,
		PlayerID:    playerID,
		PlayerName:  player.Name,
		PlayerColor: player.Color,
		Text:        text,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToRoom(code, model.MsgChat, msg)
	}
	return msg, nil
}

// History returns the room's recent chat in chronological order
func (s *ChatService) History(ctx context.Context, code string) ([]*model.Message, error) {
	return s.messages.ListByRoom(ctx, NormalizeCode(code), chatHistoryLimit)
}
