package model

import "time"

// Player represents a participant in a room
type Player struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	RoomCode     string    `json:"roomCode" bson:"roomCode"`
	Name         string    `json:"name" bson:"name"`
	Color        string    `json:"color" bson:"color"`
	Avatar       string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	IsHost       bool      `json:"isHost" bson:"isHost"`
	IsReady      bool      `json:"isReady" bson:"isReady"`
	IsEliminated bool      `json:"isEliminated" bson:"isEliminated"` // battle-royale only
	JoinOrder    int       `json:"joinOrder" bson:"joinOrder"`       // stable index, assigned at join
	JoinedAt     time.Time `json:"joinedAt" bson:"joinedAt"`
}

// PlayerJoinResponse is returned when a player joins a room
type PlayerJoinResponse struct {
	Player *Player `json:"player"`
	Token  string  `json:"token"`
	Room   *Room   `json:"room"`
}

// PlayerColors is the palette join assigns display colors from
var PlayerColors = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f1c40f", "#9b59b6",
	"#e67e22", "#1abc9c", "#fd79a8", "#6c5ce7", "#16a085",
}
