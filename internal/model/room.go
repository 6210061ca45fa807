package model

import "time"

type RoomStatus string

const (
	RoomStatusLobby    RoomStatus = "lobby"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusVoting   RoomStatus = "voting"
	RoomStatusResults  RoomStatus = "results"
	RoomStatusFinished RoomStatus = "finished"
)

// RoomSettings are host-configurable while the room is in the lobby
type RoomSettings struct {
	MaxPlayers       int             `json:"maxPlayers" bson:"maxPlayers"`
	RoundTimeSeconds int             `json:"roundTimeSeconds" bson:"roundTimeSeconds"`
	Difficulty       PixelDifficulty `json:"difficulty,omitempty" bson:"difficulty,omitempty"` // pixel-perfect only
	Theme            PixelTheme      `json:"theme,omitempty" bson:"theme,omitempty"`           // pixel-perfect only
}

// ModeState carries per-game values picked at game start
type ModeState struct {
	BattlePrompt string `json:"battlePrompt,omitempty" bson:"battlePrompt,omitempty"` // prompt every survivor draws this round
	MorphOrigin  string `json:"morphOrigin,omitempty" bson:"morphOrigin,omitempty"`
	MorphTarget  string `json:"morphTarget,omitempty" bson:"morphTarget,omitempty"`
	WinnerID     string `json:"winnerId,omitempty" bson:"winnerId,omitempty"` // last battle-royale survivor
}

type Room struct {
	Code         string       `json:"code" bson:"code"`
	Status       RoomStatus   `json:"status" bson:"status"`
	GameMode     GameMode     `json:"gameMode" bson:"gameMode"`
	HostPlayerID string       `json:"hostPlayerId" bson:"hostPlayerId"`
	CurrentRound int          `json:"currentRound" bson:"currentRound"`
	MaxRounds    int          `json:"maxRounds" bson:"maxRounds"`
	Settings     RoomSettings `json:"settings" bson:"settings"`
	Mode         ModeState    `json:"mode" bson:"mode"`
	PhaseStartAt time.Time    `json:"phaseStartAt" bson:"phaseStartAt"` // anchor for the soft round deadline
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt"`
	StartedAt    *time.Time   `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	EndedAt      *time.Time   `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

// InProgress reports whether rounds are being played or voted on
func (r *Room) InProgress() bool {
	return r.Status == RoomStatusPlaying || r.Status == RoomStatusVoting
}

// RoundDeadline is when the current phase's soft timer expires
func (r *Room) RoundDeadline() time.Time {
	return r.PhaseStartAt.Add(time.Duration(r.Settings.RoundTimeSeconds) * time.Second)
}
