package model

import "time"

// Vote is cast by a player against another player's work. One per voter per
// round; self-votes are rejected at the service layer.
type Vote struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	RoomCode  string    `json:"roomCode" bson:"roomCode"`
	Round     int       `json:"round" bson:"round"`
	VoterID   string    `json:"voterId" bson:"voterId"`
	TargetID  string    `json:"targetId" bson:"targetId"` // player being voted for
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
