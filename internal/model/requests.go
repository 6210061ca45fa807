package model

import "encoding/json"

// CreateRoomRequest is the body for POST /v1/rooms
type CreateRoomRequest struct {
	HostName string        `json:"hostName"`
	Mode     GameMode      `json:"mode"`
	Settings *RoomSettings `json:"settings,omitempty"`
}

// JoinRoomRequest is the body for POST /v1/rooms/{code}/join
type JoinRoomRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// UpdateSettingsRequest is the body for PATCH /v1/rooms/{code}/settings
type UpdateSettingsRequest struct {
	Mode     GameMode      `json:"mode,omitempty"`
	Settings *RoomSettings `json:"settings,omitempty"`
}

// ReadyRequest is the body for POST /v1/rooms/{code}/ready
type ReadyRequest struct {
	Ready bool `json:"ready"`
}

// SubmitRequest is the body for POST /v1/rooms/{code}/submissions
type SubmitRequest struct {
	Content json.RawMessage `json:"content"`
}

// VoteRequest is the body for POST /v1/rooms/{code}/votes
type VoteRequest struct {
	TargetID string `json:"targetId"`
}

// ChatRequest is the body for POST /v1/rooms/{code}/chat
type ChatRequest struct {
	Text string `json:"text"`
}
