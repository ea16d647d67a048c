package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydraw/polydraw/backend-go/internal/document"
	"github.com/polydraw/polydraw/backend-go/internal/editor"
)

func TestNewEngineIsEmpty(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, LocalDrawingID, e.DocumentID())
	assert.Equal(t, "[]", e.Render())

	data, err := e.GetDocument()
	require.NoError(t, err)
	doc, err := document.Parse([]byte(data))
	require.NoError(t, err)
	assert.Empty(t, doc.Shapes)
}

func TestLoadSampleAndEdit(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.LoadSampleDocument("drw_sample"))
	assert.Equal(t, "drw_sample", e.DocumentID())

	require.NoError(t, e.SetTool("line"))
	require.NoError(t, e.Input(`{"kind":"click","x":0,"y":0}`))
	require.NoError(t, e.Input(`{"kind":"click","x":10,"y":10}`))

	state, err := e.GetState()
	require.NoError(t, err)
	var status editor.Status
	require.NoError(t, json.Unmarshal([]byte(state), &status))
	assert.Equal(t, editor.ToolLine, status.Tool)
	assert.Equal(t, 5, status.Shapes)

	data, err := e.GetDocument()
	require.NoError(t, err)
	doc, err := document.Parse([]byte(data))
	require.NoError(t, err)
	assert.Len(t, doc.Shapes, 5)

	other := NewEngine()
	require.NoError(t, other.LoadDocument(data))
	assert.Equal(t, 5, other.Editor().Scene().Len())
}

func TestDocumentLeavesOutShapeUnderConstruction(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.SetTool("polygon"))
	require.NoError(t, e.Input(`{"kind":"click","x":50,"y":50}`))
	require.Equal(t, 1, e.Editor().Scene().Len())

	data, err := e.GetDocument()
	require.NoError(t, err)

	other := NewEngine()
	require.NoError(t, other.LoadDocument(data))
	assert.Equal(t, 0, other.Editor().Scene().Len())
	assert.Equal(t, "[]", other.Render())

	// the construction in the original engine carries on
	assert.Equal(t, 1, e.Editor().Scene().Len())
	assert.Equal(t, editor.StateDrawing, e.Editor().StateName())
}

func TestEngineRejectsBadInput(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.LoadSampleDocument("drw_sample"))

	assert.Error(t, e.LoadDocument(`{"shapes":[{"type":"blob","colors":[],"data":{}}]}`))
	assert.Equal(t, "drw_sample", e.DocumentID())
	assert.Equal(t, 4, e.Editor().Scene().Len())

	assert.Error(t, e.Input(`not json`))
	assert.ErrorIs(t, e.Input(`{"kind":"wiggle"}`), editor.ErrUnknownInput)
	assert.ErrorIs(t, e.SetTool("spray"), editor.ErrUnknownTool)
}
