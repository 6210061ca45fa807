package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doodlechain/internal/model"
)

func TestNormalizeCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "GAME42", NormalizeCode("  game42 "))
	assert.Equal(t, "GAME42", NormalizeCode("GAME42"))
}

func TestCreateRoom(t *testing.T) {
	t.Parallel()
	h := newHarness(nil)
	defer h.manager.StopAll()
	svc := h.roomService()

	resp, err := svc.CreateRoom(context.Background(), "alice", model.ModeClassic, nil)
	require.NoError(t, err)

	assert.Len(t, resp.Room.Code, 6)
	assert.Equal(t, model.RoomStatusLobby, resp.Room.Status)
	assert.Equal(t, 12, resp.Room.Settings.MaxPlayers, "defaults come from the mode table")
	assert.Equal(t, 60, resp.Room.Settings.RoundTimeSeconds)
	assert.True(t, resp.Player.IsHost)
	assert.True(t, resp.Player.IsReady)
	assert.Equal(t, resp.Player.ID, resp.Room.HostPlayerID)
	assert.NotEmpty(t, resp.Token)
}

func TestCreateRoomUnknownMode(t *testing.T) {
	t.Parallel()
	h := newHarness(nil)
	defer h.manager.StopAll()

	_, err := h.roomService().CreateRoom(context.Background(), "alice", "freestyle", nil)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestCreateRoomCapsSettings(t *testing.T) {
	t.Parallel()
	h := newHarness(nil)
	defer h.manager.StopAll()

	resp, err := h.roomService().CreateRoom(context.Background(), "alice", model.ModeCombo, &model.RoomSettings{
		MaxPlayers:       99, // above the combo limit, ignored
		RoundTimeSeconds: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Room.Settings.MaxPlayers)
	assert.Equal(t, 120, resp.Room.Settings.RoundTimeSeconds)
}

func TestCreateRoomPixelOptions(t *testing.T) {
	t.Parallel()
	h := newHarness(nil)
	defer h.manager.StopAll()

	resp, err := h.roomService().CreateRoom(context.Background(), "alice", model.ModePixelPerfect, &model.RoomSettings{
		Difficulty: model.PixelHard,
		Theme:      model.ThemeGameboy,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PixelHard, resp.Room.Settings.Difficulty)
	assert.Equal(t, model.ThemeGameboy, resp.Room.Settings.Theme)
}

func TestStartGame(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0), testPlayers(4)...)
	defer h.manager.StopAll()

	room, err := h.roomService().Start(context.Background(), "GAME42", "p0")
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusPlaying, room.Status)
	assert.Equal(t, 0, room.CurrentRound)
	assert.Equal(t, 4, room.MaxRounds, "classic plays one round per player")
	require.NotNil(t, room.StartedAt)
}

func TestStartGameValidations(t *testing.T) {
	t.Parallel()

	t.Run("non-host rejected", func(t *testing.T) {
		h := newHarness(testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0), testPlayers(4)...)
		defer h.manager.StopAll()
		_, err := h.roomService().Start(context.Background(), "GAME42", "p1")
		assert.ErrorIs(t, err, ErrNotHost)
	})

	t.Run("too few players", func(t *testing.T) {
		h := newHarness(testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0), testPlayers(2)...)
		defer h.manager.StopAll()
		_, err := h.roomService().Start(context.Background(), "GAME42", "p0")
		assert.ErrorIs(t, err, ErrPlayerCount)
	})

	t.Run("battle needs six", func(t *testing.T) {
		h := newHarness(testRoom(model.ModeBattleRoyale, model.RoomStatusLobby, 0, 0), testPlayers(5)...)
		defer h.manager.StopAll()
		_, err := h.roomService().Start(context.Background(), "GAME42", "p0")
		assert.ErrorIs(t, err, ErrPlayerCount)
	})

	t.Run("unready player blocks start", func(t *testing.T) {
		players := testPlayers(4)
		players[2].IsReady = false
		h := newHarness(testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0), players...)
		defer h.manager.StopAll()
		_, err := h.roomService().Start(context.Background(), "GAME42", "p0")
		assert.ErrorIs(t, err, ErrPlayersNotReady)
	})

	t.Run("already started", func(t *testing.T) {
		h := newHarness(testRoom(model.ModeClassic, model.RoomStatusPlaying, 0, 4), testPlayers(4)...)
		defer h.manager.StopAll()
		_, err := h.roomService().Start(context.Background(), "GAME42", "p0")
		assert.ErrorIs(t, err, ErrRoomNotInLobby)
	})
}

func TestStartBattlePicksPrompt(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeBattleRoyale, model.RoomStatusLobby, 0, 0), testPlayers(6)...)
	defer h.manager.StopAll()

	room, err := h.roomService().Start(context.Background(), "GAME42", "p0")
	require.NoError(t, err)
	assert.NotEmpty(t, room.Mode.BattlePrompt)
	assert.Equal(t, 4, room.MaxRounds, "6 players: 6→4→3→2→1")
}

func TestStartMorphPicksConceptPair(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeMorph, model.RoomStatusLobby, 0, 0), testPlayers(4)...)
	defer h.manager.StopAll()

	room, err := h.roomService().Start(context.Background(), "GAME42", "p0")
	require.NoError(t, err)
	assert.NotEmpty(t, room.Mode.MorphOrigin)
	assert.NotEmpty(t, room.Mode.MorphTarget)
}

func TestStartPurgesStaleRecords(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeClassic, model.RoomStatusLobby, 0, 0), testPlayers(3)...)
	defer h.manager.StopAll()

	// Leftovers from an abandoned game
	h.subs.Create(context.Background(), &model.Submission{RoomCode: "GAME42", ChainID: "chain-p0", Sequence: 0})
	h.votes.Create(context.Background(), &model.Vote{RoomCode: "GAME42", VoterID: "p0", TargetID: "p1"})

	_, err := h.roomService().Start(context.Background(), "GAME42", "p0")
	require.NoError(t, err)

	subs, _ := h.subs.ListByRoom(context.Background(), "GAME42")
	assert.Empty(t, subs, "stale submissions must not satisfy round zero")
}

func TestPlayAgainResetsRoom(t *testing.T) {
	t.Parallel()
	room := testRoom(model.ModeBattleRoyale, model.RoomStatusResults, 3, 4)
	room.Mode = model.ModeState{BattlePrompt: "x", WinnerID: "p1"}
	players := testPlayers(6)
	players[0].IsEliminated = true
	players[2].IsEliminated = true
	h := newHarness(room, players...)
	defer h.manager.StopAll()

	got, err := h.roomService().PlayAgain(context.Background(), "GAME42", "p0")
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusLobby, got.Status)
	assert.Equal(t, 0, got.CurrentRound)
	assert.Equal(t, model.ModeState{}, got.Mode)
	assert.Nil(t, got.StartedAt)

	listed, _ := h.players.ListByRoom(context.Background(), "GAME42")
	for _, p := range listed {
		assert.False(t, p.IsEliminated)
		assert.Equal(t, p.IsHost, p.IsReady, "only the host stays ready after a reset")
	}
}

func TestPlayAgainOnlyAfterResults(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeClassic, model.RoomStatusPlaying, 1, 3), testPlayers(3)...)
	defer h.manager.StopAll()

	_, err := h.roomService().PlayAgain(context.Background(), "GAME42", "p0")
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestFinishArchivesRoom(t *testing.T) {
	t.Parallel()
	h := newHarness(testRoom(model.ModeClassic, model.RoomStatusResults, 2, 3), testPlayers(3)...)
	defer h.manager.StopAll()
	svc := h.roomService()

	got, err := svc.Finish(context.Background(), "GAME42", "p0")
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusFinished, got.Status)

	_, err = svc.Finish(context.Background(), "GAME42", "p0")
	assert.ErrorIs(t, err, ErrWrongPhase, "finishing twice has no second effect")
}
