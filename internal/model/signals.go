package model

// WebSocket message types pushed to connected clients

const (
	MsgPlayerJoined    = "player_joined"
	MsgPlayerLeft      = "player_left"
	MsgPlayerReady     = "player_ready"
	MsgGameStarted     = "game_started"
	MsgRoundAdvanced   = "round_advanced"
	MsgPhaseChanged    = "phase_changed"
	MsgAssignment      = "assignment"
	MsgSubmissionSaved = "submission_saved"
	MsgVoteSaved       = "vote_saved"
	MsgElimination     = "elimination"
	MsgGameOver        = "game_over"
	MsgRoomReset       = "room_reset"
	MsgChat            = "chat"
	MsgError           = "error"
)
