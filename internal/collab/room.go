package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/polydraw/polydraw/backend-go/internal/document"
	"github.com/polydraw/polydraw/backend-go/internal/editor"
)

var (
	ErrReadOnly       = errors.New("read-only session")
	ErrUnknownMessage = errors.New("unknown message type")
)

// Room is the live session of one drawing. Its editor is the authoritative
// copy of the scene and is only mutated from the hub goroutine.
type Room struct {
	drawingID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	editor    *editor.Editor
	doc       *document.Document
	seq       int64
	dirty     bool
	logger    *slog.Logger
}

// NewRoom opens a room over doc, loading its shapes into a fresh editor.
func NewRoom(doc *document.Document, logger *slog.Logger) (*Room, error) {
	shapes, err := doc.Drawables()
	if err != nil {
		return nil, fmt.Errorf("open drawing %s: %w", doc.ID, err)
	}

	logger = logger.With("drawing", doc.ID)
	ed := editor.New(editor.WithLogger(logger))
	ed.Load(shapes)

	return &Room{
		drawingID: doc.ID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		editor:    ed,
		doc:       doc,
		logger:    logger,
	}, nil
}

func (r *Room) Editor() *editor.Editor { return r.editor }

func (r *Room) Seq() int64 { return r.seq }

func (r *Room) Dirty() bool { return r.dirty }

// Apply runs one editor command from a client. Every applied command bumps
// the sequence number and marks the room dirty.
func (r *Room) Apply(msg *Message) error {
	switch msg.Type {
	case TypeInput:
		var in InputPayload
		if err := json.Unmarshal(msg.Payload, &in); err != nil {
			return fmt.Errorf("decode input: %w", err)
		}
		if err := r.editor.Dispatch(in); err != nil {
			return err
		}

	case TypeTool:
		var p ToolPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode tool: %w", err)
		}
		tool, err := editor.ParseTool(p.Tool)
		if err != nil {
			return err
		}
		r.editor.SetTool(tool)

	case TypeColor:
		var p ColorPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode color: %w", err)
		}
		if err := r.editor.SetColor(p.Color); err != nil {
			return err
		}

	case TypeRotation:
		var p RotationPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode rotation: %w", err)
		}
		r.editor.SetRotation(p.Degrees)

	case TypeClear:
		r.editor.Clear()

	default:
		return fmt.Errorf("%q: %w", msg.Type, ErrUnknownMessage)
	}

	r.seq++
	r.dirty = true
	return nil
}

// Snapshot encodes the editor's scene into the room's document.
func (r *Room) Snapshot() (*document.Document, error) {
	if err := r.doc.SetDrawables(r.editor.Shapes()); err != nil {
		return nil, fmt.Errorf("snapshot drawing %s: %w", r.drawingID, err)
	}
	return r.doc, nil
}

// Save stores the scene if it changed since the last save.
func (r *Room) Save(ctx context.Context, docs Documents) error {
	if !r.dirty {
		return nil
	}
	doc, err := r.Snapshot()
	if err != nil {
		return err
	}
	version, err := docs.StoreDocument(ctx, r.drawingID, doc)
	if err != nil {
		return fmt.Errorf("save drawing %s: %w", r.drawingID, err)
	}
	r.logger.Debug("drawing saved", "version", version, "shapes", len(doc.Shapes))
	r.dirty = false
	return nil
}

func (r *Room) renderMessage() *Message {
	commands := r.editor.Render()
	if commands == nil {
		commands = []editor.DrawCommand{}
	}
	payload, err := json.Marshal(RenderPayload{Commands: commands})
	if err != nil {
		r.logger.Error("marshal render", "error", err)
		return nil
	}
	return &Message{Type: TypeRender, DrawingID: r.drawingID, Seq: r.seq, Payload: payload}
}

func (r *Room) stateMessage() *Message {
	payload, err := json.Marshal(r.editor.Status())
	if err != nil {
		r.logger.Error("marshal state", "error", err)
		return nil
	}
	return &Message{Type: TypeState, DrawingID: r.drawingID, Seq: r.seq, Payload: payload}
}
