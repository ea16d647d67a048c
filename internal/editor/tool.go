package editor

import (
	"fmt"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
	"github.com/polydraw/polydraw/backend-go/internal/shape"
)

// Tool is the toolbar selection driving what a click on the canvas does.
type Tool string

const (
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolSquare    Tool = "square"
	ToolPolygon   Tool = "polygon"
	ToolSelect    Tool = "select"
	ToolErase     Tool = "erase"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolLine, ToolSquare, ToolRectangle, ToolPolygon, ToolSelect, ToolErase}

// ParseTool maps a toolbar name to a Tool. "select-shape" is accepted as an
// alias of "select".
func ParseTool(name string) (Tool, error) {
	if name == "select-shape" {
		return ToolSelect, nil
	}
	for _, t := range Tools {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("parse tool %q: %w", name, ErrUnknownTool)
}

// Draws reports whether t constructs new shapes.
func (t Tool) Draws() bool {
	switch t {
	case ToolLine, ToolRectangle, ToolSquare, ToolPolygon:
		return true
	}
	return false
}

// newShape starts a shape of the tool's kind anchored at p.
func (t Tool) newShape(p geom.Point, c shape.Color) shape.Drawable {
	switch t {
	case ToolLine:
		return shape.NewLine(p, p, c)
	case ToolRectangle:
		return shape.NewRectangle(p, 0, 0, c)
	case ToolSquare:
		return shape.NewSquare(p, 0, c)
	case ToolPolygon:
		poly := shape.NewPolygon([]shape.Vertex{{Point: p, Color: c}})
		poly.MoveDrawing(p)
		return poly
	}
	return nil
}
