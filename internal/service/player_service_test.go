package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doodlechain/internal/model"
)

func TestJoinAssignsJoinOrderAndColor(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0), testPlayers(2)...)
	defer h.manager.StopAll()

	resp, err := h.playerService().Join(context.Background(), "game42", "carol", "")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Player.JoinOrder)
	assert.Equal(t, model.PlayerColors[2], resp.Player.Color)
	assert.False(t, resp.Player.IsHost)
	assert.False(t, resp.Player.IsReady)
	assert.NotEmpty(t, resp.Token)
}

func TestJoinRejections(t *testing.T) {
	t.Parallel()

	t.Run("unknown room", func(t *testing.T) {
		h := newHarness(nil)
		defer h.manager.StopAll()
		_, err := h.playerService().Join(context.Background(), "NOPE99", "carol", "")
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("game already running", func(t *testing.T) {
		h := newHarness(testRoom(model.ModeClassic, model.RoomStatusPlaying, 0, 3), testPlayers(3)...)
		defer h.manager.StopAll()
		_, err := h.playerService().Join(context.Background(), "GAME42", "carol", "")
		assert.ErrorIs(t, err, ErrRoomNotInLobby)
	})

	t.Run("room full", func(t *testing.T) {
		room := testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0)
		room.Settings.MaxPlayers = 3
		h := newHarness(room, testPlayers(3)...)
		defer h.manager.StopAll()
		_, err := h.playerService().Join(context.Background(), "GAME42", "carol", "")
		assert.ErrorIs(t, err, ErrRoomFull)
	})
}

func TestJoinNormalizesName(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0))
	defer h.manager.StopAll()
	svc := h.playerService()

	resp, err := svc.Join(context.Background(), "GAME42", "   ", "")
	require.NoError(t, err)
	assert.Equal(t, "Player", resp.Player.Name)

	resp, err = svc.Join(context.Background(), "GAME42", strings.Repeat("x", 40), "")
	require.NoError(t, err)
	assert.Len(t, resp.Player.Name, 24)
}

func TestSetReady(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0), testPlayers(3)...)
	defer h.manager.StopAll()
	svc := h.playerService()

	p, err := svc.SetReady(context.Background(), "GAME42", "p1", false)
	require.NoError(t, err)
	assert.False(t, p.IsReady)

	_, err = svc.SetReady(context.Background(), "GAME42", "ghost", true)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestLeaveDeletesEmptiedRoom(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0), testPlayers(1)...)
	defer h.manager.StopAll()
	svc := h.playerService()

	require.NoError(t, svc.Leave(context.Background(), "GAME42", "p0"))

	room, err := h.rooms.GetByCode(context.Background(), "GAME42")
	require.NoError(t, err)
	assert.Nil(t, room, "last player out deletes the room")
}
