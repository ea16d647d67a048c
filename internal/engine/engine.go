// Package engine is the host-facing facade over the editor. It owns the open
// document and speaks JSON strings, the form the browser bridge passes
// across the WASM boundary.
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/polydraw/polydraw/backend-go/internal/document"
	"github.com/polydraw/polydraw/backend-go/internal/editor"
)

// LocalDrawingID names a document created in the browser before it is saved.
const LocalDrawingID = "drw_local"

// Engine owns the document metadata and the editor holding its shapes.
type Engine struct {
	doc    *document.Document
	editor *editor.Editor
}

// NewEngine creates an engine over an empty document. opts configure the
// editor.
func NewEngine(opts ...editor.Option) *Engine {
	return &Engine{
		doc:    document.NewEmptyDocument(LocalDrawingID, "Untitled"),
		editor: editor.New(opts...),
	}
}

func (e *Engine) Editor() *editor.Editor { return e.editor }

// --- Commands (frontend → backend) ---

// LoadDocument replaces the open document with the one in jsonData. On error
// the current document stays open.
func (e *Engine) LoadDocument(jsonData string) error {
	doc, err := document.Parse([]byte(jsonData))
	if err != nil {
		return err
	}
	return e.open(doc)
}

// LoadSampleDocument opens the built-in sample drawing.
func (e *Engine) LoadSampleDocument(drawingID string) error {
	return e.open(document.NewSampleDocument(drawingID))
}

func (e *Engine) open(doc *document.Document) error {
	shapes, err := doc.Drawables()
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	e.doc = doc
	e.editor.Load(shapes)
	return nil
}

// Input forwards a JSON-encoded editor.Input.
func (e *Engine) Input(jsonData string) error {
	var in editor.Input
	if err := json.Unmarshal([]byte(jsonData), &in); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return e.editor.Dispatch(in)
}

// SetTool switches the active tool by name.
func (e *Engine) SetTool(name string) error {
	tool, err := editor.ParseTool(name)
	if err != nil {
		return err
	}
	e.editor.SetTool(tool)
	return nil
}

// --- Queries (frontend ← backend) ---

// Render returns the draw commands for the current frame as JSON.
func (e *Engine) Render() string {
	return e.editor.RenderJSON()
}

// GetDocument returns the open document, with the editor's shapes, as JSON.
func (e *Engine) GetDocument() (string, error) {
	if err := e.doc.SetDrawables(e.editor.Shapes()); err != nil {
		return "", err
	}
	data, err := json.Marshal(e.doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(data), nil
}

// GetState returns the toolbar-facing editor status as JSON.
func (e *Engine) GetState() (string, error) {
	data, err := json.Marshal(e.editor.Status())
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	return string(data), nil
}

func (e *Engine) DocumentID() string { return e.doc.ID }
