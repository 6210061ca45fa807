package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are JWT claims for room-scoped player tokens. The host is an
// ordinary player with IsHost set; there is no account system.
type PlayerClaims struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	IsHost   bool   `json:"isHost"`
	jwt.RegisteredClaims
}
