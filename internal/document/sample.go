package document

import (
	"encoding/json"
	"time"

	"github.com/polydraw/polydraw/backend-go/internal/shape"
	"github.com/polydraw/polydraw/backend-go/internal/typeid"
)

// NewSampleDocument returns a starter drawing with one shape of each kind.
func NewSampleDocument(drawingID string) *Document {
	now := time.Now().UTC().Format(time.RFC3339)

	red := shape.Color{233, 69, 96}
	blue := shape.Color{15, 52, 96}
	green := shape.Color{83, 215, 105}
	white := shape.White

	return &Document{
		ID:         drawingID,
		Name:       "Untitled",
		Version:    CurrentVersion,
		Width:      1280,
		Height:     720,
		Background: "#000000",
		CreatedAt:  now,
		UpdatedAt:  now,
		Shapes: []ShapeRecord{
			{
				ID:     typeid.NewShapeID(),
				Type:   shape.KindRectangle,
				Colors: []shape.Color{red, red, blue, blue},
				Data:   json.RawMessage(`{"point": {"x": 120, "y": 120}, "width": 240, "height": 160}`),
			},
			{
				ID:             typeid.NewShapeID(),
				Type:           shape.KindSquare,
				Colors:         []shape.Color{blue, blue, blue, blue},
				RotationDegree: 30,
				Data:           json.RawMessage(`{"point": {"x": 520, "y": 140}, "length": 140, "negX": false, "negY": false}`),
			},
			{
				ID:     typeid.NewShapeID(),
				Type:   shape.KindPolygon,
				Colors: []shape.Color{green, green, white, green, green},
				Data: json.RawMessage(`{"points": [
					{"x": 900, "y": 120}, {"x": 1040, "y": 200}, {"x": 1000, "y": 360},
					{"x": 820, "y": 360}, {"x": 780, "y": 200}
				]}`),
			},
			{
				ID:     typeid.NewShapeID(),
				Type:   shape.KindLine,
				Colors: []shape.Color{white, red},
				Data:   json.RawMessage(`{"points": [{"x": 120, "y": 560}, {"x": 1160, "y": 560}]}`),
			},
		},
	}
}
