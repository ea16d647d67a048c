package editor

import (
	"encoding/json"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
	"github.com/polydraw/polydraw/backend-go/internal/shape"
)

// Draw primitives understood by the WebGL frontend.
const (
	OpLines       = "lines"
	OpTriangles   = "triangles"
	OpTriangleFan = "triangleFan"
	OpPoints      = "points"
)

// Handle point sizes in pixels.
const (
	handleOuterSize = 10.0
	handleInnerSize = 4.0
)

// constructionColor outlines a polygon while it is being drawn.
var constructionColor = shape.Color{62, 208, 17}

// DrawCommand is a single draw call for the frontend to execute. Positions
// and colors are flat per-vertex attribute arrays; the remaining fields feed
// the vertex shader uniforms.
type DrawCommand struct {
	Op string `json:"op"`
	// Positions is [x0, y0, x1, y1, ...].
	Positions []float64 `json:"positions"`
	// Colors is [r0, g0, b0, ...] with channels in 0..1.
	Colors []float64 `json:"colors"`
	// Rotation is [sin, cos] of the rotation still to be applied.
	Rotation      []float64 `json:"rotation"`
	RotationPoint []float64 `json:"rotationPoint"`
	Scale         float64   `json:"scale"`
	PointSize     float64   `json:"pointSize,omitempty"`
}

// Render compiles the scene into draw commands in painter's order (back to
// front), followed by the handles of the selected shape.
func (e *Editor) Render() []DrawCommand {
	var commands []DrawCommand
	for _, d := range e.scene.Shapes() {
		compileShape(d, &commands)
	}
	if sel, _ := e.Selected(); sel != nil {
		compileHandles(sel, &commands)
	}
	return commands
}

// RenderJSON returns Render serialized as JSON.
func (e *Editor) RenderJSON() string {
	result, err := DrawCommandsToJSON(e.Render())
	if err != nil {
		e.logger.Error("encode draw commands", "error", err)
	}
	return result
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

func newCommand(op string, d shape.Drawable) DrawCommand {
	rp := d.RotationPoint()
	return DrawCommand{
		Op:            op,
		Rotation:      d.Rotation().ToSlice(),
		RotationPoint: []float64{rp.X, rp.Y},
		Scale:         d.Scale(),
	}
}

func (c *DrawCommand) add(p geom.Point, col shape.Color) {
	n := col.Normalized()
	c.Positions = append(c.Positions, p.X, p.Y)
	c.Colors = append(c.Colors, n[0], n[1], n[2])
}

// compileShape emits the draw calls for one shape.
func compileShape(d shape.Drawable, commands *[]DrawCommand) {
	pts := d.Points()
	colors := d.Colors()
	colorAt := func(i int) shape.Color {
		if i < len(colors) {
			return colors[i]
		}
		return shape.Black
	}

	switch d.Kind() {
	case shape.KindLine:
		cmd := newCommand(OpLines, d)
		for i, p := range pts {
			cmd.add(p, colorAt(i))
		}
		*commands = append(*commands, cmd)

	case shape.KindRectangle, shape.KindSquare:
		if len(pts) < 4 {
			return
		}
		cmd := newCommand(OpTriangles, d)
		for _, i := range []int{0, 1, 2, 0, 2, 3} {
			cmd.add(pts[i], colorAt(i))
		}
		*commands = append(*commands, cmd)

	case shape.KindPolygon:
		compilePolygon(d, pts, colorAt, commands)
	}
}

func compilePolygon(d shape.Drawable, pts []geom.Point, colorAt func(int) shape.Color, commands *[]DrawCommand) {
	verts := make([]geom.Point, len(pts))
	copy(verts, pts)
	vertColors := make([]shape.Color, len(pts))
	for i := range pts {
		vertColors[i] = colorAt(i)
	}

	var next *geom.Point
	if poly, ok := d.(*shape.Polygon); ok && d.IsDrawing() {
		if p, ok := poly.Next(); ok {
			next = &p
			last := shape.Black
			if n := len(vertColors); n > 0 {
				last = vertColors[n-1]
			}
			verts = append(verts, p)
			vertColors = append(vertColors, last)
		}
	}
	if len(verts) == 0 {
		return
	}

	op := OpTriangleFan
	switch len(verts) {
	case 1:
		op = OpPoints
	case 2:
		op = OpLines
	}
	cmd := newCommand(op, d)
	if op == OpPoints {
		cmd.PointSize = handleOuterSize
	}
	for i, p := range verts {
		cmd.add(p, vertColors[i])
	}
	*commands = append(*commands, cmd)

	if !d.IsDrawing() {
		return
	}

	// Construction outline, closed back to the first vertex.
	if len(verts) >= 2 {
		outline := newCommand(OpLines, d)
		for i := range verts {
			j := (i + 1) % len(verts)
			if j == 0 && len(verts) == 2 {
				break
			}
			outline.add(verts[i], constructionColor)
			outline.add(verts[j], constructionColor)
		}
		*commands = append(*commands, outline)
	}
	if next != nil {
		preview := newCommand(OpPoints, d)
		preview.PointSize = handleOuterSize
		preview.add(*next, constructionColor)
		*commands = append(*commands, preview)
	}
}

// compileHandles draws each grabbable vertex of d as a yellow square with a
// black center.
func compileHandles(d shape.Drawable, commands *[]DrawCommand) {
	handles := d.Handles()
	if len(handles) == 0 {
		return
	}
	outer := newCommand(OpPoints, d)
	outer.PointSize = handleOuterSize
	inner := newCommand(OpPoints, d)
	inner.PointSize = handleInnerSize
	for _, p := range handles {
		outer.add(p, shape.Yellow)
		inner.add(p, shape.Black)
	}
	*commands = append(*commands, outer, inner)
}
