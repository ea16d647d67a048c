package collab

import (
	"encoding/json"

	"github.com/polydraw/polydraw/backend-go/internal/editor"
)

type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Color       string     `json:"color,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Editor commands, client to server
	TypeInput    = "input"
	TypeTool     = "tool"
	TypeColor    = "color"
	TypeRotation = "rotation"
	TypeClear    = "clear"

	// Editor output, server to client
	TypeRender = "render"
	TypeState  = "state"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	CanEdit  bool   `json:"canEdit"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// InputPayload is the payload for input messages.
type InputPayload = editor.Input

type ToolPayload struct {
	Tool string `json:"tool"`
}

type ColorPayload struct {
	Color string `json:"color"`
}

type RotationPayload struct {
	Degrees float64 `json:"degrees"`
}

type RenderPayload struct {
	Commands []editor.DrawCommand `json:"commands"`
}

// StatePayload is the payload for state messages.
type StatePayload = editor.Status
