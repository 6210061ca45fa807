package model

import (
	"encoding/json"
	"time"
)

type SubmissionKind string

const (
	KindPrompt      SubmissionKind = "prompt"
	KindDrawing     SubmissionKind = "drawing"
	KindDescription SubmissionKind = "description"
)

// Submission is the atomic unit of work product. At most one submission may
// occupy a (chainId, sequence) slot; the completion detector treats the
// earliest-created one as authoritative when storage lets a duplicate slip in.
type Submission struct {
	ID          string          `json:"id" bson:"_id,omitempty"`
	RoomCode    string          `json:"roomCode" bson:"roomCode"`
	PlayerID    string          `json:"playerId" bson:"playerId"`
	ChainID     string          `json:"chainId" bson:"chainId"`
	Sequence    int             `json:"sequence" bson:"sequence"` // round number at creation time
	Kind        SubmissionKind  `json:"kind" bson:"kind"`
	Content     json.RawMessage `json:"content" bson:"content"`
	Score       int             `json:"score,omitempty" bson:"score,omitempty"` // pixel-perfect match percentage
	Placeholder bool            `json:"placeholder,omitempty" bson:"placeholder,omitempty"`
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
}

// Chain is a derived grouping of submissions sharing a chainId, ordered by
// sequence. Chains are never stored as rows.
type Chain struct {
	ID          string        `json:"id"`
	OwnerID     string        `json:"ownerId"`
	Submissions []*Submission `json:"submissions"`
}
