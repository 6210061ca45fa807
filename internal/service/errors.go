package service

import "errors"

// Rejected actions are reported to the acting player; ErrRoomNotFound is
// fatal to the session.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrPlayerNotFound  = errors.New("player not in room")
	ErrRoomNotInLobby  = errors.New("room already started")
	ErrRoomFull        = errors.New("room is full")
	ErrNotHost         = errors.New("only the host can do that")
	ErrPlayersNotReady = errors.New("not every player is ready")
	ErrPlayerCount     = errors.New("player count outside mode limits")
	ErrInvalidMode     = errors.New("unknown game mode")
	ErrWrongPhase      = errors.New("action not allowed in this phase")
	ErrSelfVote        = errors.New("cannot vote for yourself")
	ErrDuplicateVote   = errors.New("already voted this round")
	ErrEliminated      = errors.New("eliminated players cannot act")
	ErrInvalidTarget   = errors.New("vote target not eligible")
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrInvalidToken    = errors.New("invalid or expired token")
)
