package model

import "time"

// Message is a chat line scoped to a room
type Message struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	RoomCode    string    `json:"roomCode" bson:"roomCode"`
	PlayerID    string    `json:"playerId" bson:"playerId"`
	PlayerName  string    `json:"playerName" bson:"playerName"`
	PlayerColor string    `json:"playerColor" bson:"playerColor"`
	Text        string    `json:"text" bson:"text"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
