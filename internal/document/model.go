package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/polydraw/polydraw/backend-go/internal/geom"
	"github.com/polydraw/polydraw/backend-go/internal/shape"
)

// CurrentVersion is the document format version written by Encode.
const CurrentVersion = 1

var (
	ErrUnknownShapeType = errors.New("unknown shape type")
	ErrInvalidShape     = errors.New("invalid shape")
)

// Document is a persisted drawing: canvas metadata plus the scene's shapes
// in z-order.
type Document struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Version    int           `json:"version"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Background string        `json:"background"`
	CreatedAt  string        `json:"createdAt"`
	UpdatedAt  string        `json:"updatedAt"`
	Shapes     []ShapeRecord `json:"shapes"`
}

// ShapeRecord is one shape, discriminated by Type. Geometry lives in Data,
// whose layout depends on the type. Geometry is stored with RotationDegree
// already applied where the shape bakes its rotation in.
type ShapeRecord struct {
	ID             string          `json:"id,omitempty"`
	Type           shape.Kind      `json:"type"`
	Colors         []shape.Color   `json:"colors"`
	RotationDegree float64         `json:"rotationDegree"`
	// Drawing marks a shape that was still under construction. Encode never
	// sets it; Decode drops such records.
	Drawing        bool            `json:"drawing,omitempty"`
	Data           json.RawMessage `json:"data"`
}

type LineData struct {
	Points []geom.Point `json:"points"`
}

type RectangleData struct {
	Point  geom.Point `json:"point"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
}

type SquareData struct {
	Point  geom.Point `json:"point"`
	Length float64    `json:"length"`
	NegX   bool       `json:"negX"`
	NegY   bool       `json:"negY"`
}

type PolygonData struct {
	Points []geom.Point `json:"points"`
}

// NewEmptyDocument creates an empty document for a new drawing.
func NewEmptyDocument(drawingID, name string) *Document {
	return &Document{
		ID:         drawingID,
		Name:       name,
		Version:    CurrentVersion,
		Width:      1280,
		Height:     720,
		Background: "#000000",
		CreatedAt:  "", // Will be set by caller
		UpdatedAt:  "",
		Shapes:     []ShapeRecord{},
	}
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if _, err := Decode(doc.Shapes); err != nil {
		return nil, err
	}
	if doc.Shapes == nil {
		doc.Shapes = []ShapeRecord{}
	}
	return &doc, nil
}

// Drawables reconstructs the document's shapes.
func (d *Document) Drawables() ([]shape.Drawable, error) {
	return Decode(d.Shapes)
}

// SetDrawables replaces the document's shapes with an encoding of shapes.
func (d *Document) SetDrawables(shapes []shape.Drawable) error {
	records, err := Encode(shapes)
	if err != nil {
		return err
	}
	d.Shapes = records
	return nil
}

// Encode serializes shapes in order. Rectangles and squares are written
// with their committed geometry; an uncommitted vertex drag is not saved.
// Shapes still under construction are skipped.
func Encode(shapes []shape.Drawable) ([]ShapeRecord, error) {
	records := make([]ShapeRecord, 0, len(shapes))
	for i, d := range shapes {
		if d.IsDrawing() {
			continue
		}
		rec, err := encodeShape(d)
		if err != nil {
			return nil, fmt.Errorf("encode shape %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func encodeShape(d shape.Drawable) (ShapeRecord, error) {
	rec := ShapeRecord{
		Type:           d.Kind(),
		Colors:         append([]shape.Color(nil), d.Colors()...),
		RotationDegree: d.RotationDegree(),
	}

	var data any
	switch s := d.(type) {
	case *shape.Line:
		a, b := s.Endpoints()
		data = LineData{Points: []geom.Point{a, b}}
	case *shape.Rectangle:
		w, h := s.Size()
		data = RectangleData{Point: s.Anchor(), Width: w, Height: h}
	case *shape.Square:
		negX, negY := s.Quadrant()
		data = SquareData{Point: s.Anchor(), Length: s.Length(), NegX: negX, NegY: negY}
	case *shape.Polygon:
		data = PolygonData{Points: append([]geom.Point(nil), s.Points()...)}
	default:
		return ShapeRecord{}, fmt.Errorf("%T: %w", d, ErrUnknownShapeType)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ShapeRecord{}, err
	}
	rec.Data = raw
	return rec, nil
}

// Decode reconstructs shapes from records, dispatching on each record's type.
// Every record is validated; the first failure aborts the whole decode.
// Records of shapes that were still under construction are dropped.
func Decode(records []ShapeRecord) ([]shape.Drawable, error) {
	shapes := make([]shape.Drawable, 0, len(records))
	for i, rec := range records {
		if rec.Drawing {
			continue
		}
		d, err := decodeShape(rec)
		if err != nil {
			return nil, fmt.Errorf("decode shape %d: %w", i, err)
		}
		shapes = append(shapes, d)
	}
	return shapes, nil
}

func decodeShape(rec ShapeRecord) (shape.Drawable, error) {
	if !finite(rec.RotationDegree) {
		return nil, fmt.Errorf("%w: rotation is not finite", ErrInvalidShape)
	}

	var d shape.Drawable
	switch rec.Type {
	case shape.KindLine:
		var data LineData
		if err := unmarshalData(rec, &data); err != nil {
			return nil, err
		}
		if len(data.Points) != 2 {
			return nil, fmt.Errorf("%w: line needs 2 points, got %d", ErrInvalidShape, len(data.Points))
		}
		if !finitePoints(data.Points) {
			return nil, fmt.Errorf("%w: line point is not finite", ErrInvalidShape)
		}
		if err := checkColors(rec, 2); err != nil {
			return nil, err
		}
		l := shape.NewLine(data.Points[0], data.Points[1], shape.Black)
		l.SetColors(rec.Colors)
		d = l

	case shape.KindRectangle:
		var data RectangleData
		if err := unmarshalData(rec, &data); err != nil {
			return nil, err
		}
		if !finitePoints([]geom.Point{data.Point}) || !finite(data.Width) || !finite(data.Height) {
			return nil, fmt.Errorf("%w: rectangle geometry is not finite", ErrInvalidShape)
		}
		if err := checkColors(rec, 4); err != nil {
			return nil, err
		}
		r := shape.NewRectangle(data.Point, data.Width, data.Height, shape.Black)
		r.SetColors(rec.Colors)
		d = r

	case shape.KindSquare:
		var data SquareData
		if err := unmarshalData(rec, &data); err != nil {
			return nil, err
		}
		if !finitePoints([]geom.Point{data.Point}) || !finite(data.Length) || data.Length < 0 {
			return nil, fmt.Errorf("%w: square length must be a finite non-negative number", ErrInvalidShape)
		}
		if err := checkColors(rec, 4); err != nil {
			return nil, err
		}
		s := shape.NewSquare(data.Point, data.Length, shape.Black)
		s.SetQuadrant(data.NegX, data.NegY)
		s.SetColors(rec.Colors)
		d = s

	case shape.KindPolygon:
		var data PolygonData
		if err := unmarshalData(rec, &data); err != nil {
			return nil, err
		}
		if len(data.Points) < 3 {
			return nil, fmt.Errorf("%w: polygon needs at least 3 points, got %d", ErrInvalidShape, len(data.Points))
		}
		if !finitePoints(data.Points) {
			return nil, fmt.Errorf("%w: polygon point is not finite", ErrInvalidShape)
		}
		if err := checkColors(rec, len(data.Points)); err != nil {
			return nil, err
		}
		vs := make([]shape.Vertex, len(data.Points))
		for i, p := range data.Points {
			vs[i] = shape.Vertex{Point: p, Color: rec.Colors[i]}
		}
		d = shape.NewPolygon(vs)

	default:
		return nil, fmt.Errorf("%q: %w", rec.Type, ErrUnknownShapeType)
	}

	d.RestoreRotation(rec.RotationDegree)
	return d, nil
}

func unmarshalData(rec ShapeRecord, v any) error {
	if len(rec.Data) == 0 {
		return fmt.Errorf("%w: %s has no data", ErrInvalidShape, rec.Type)
	}
	if err := json.Unmarshal(rec.Data, v); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrInvalidShape, rec.Type, err)
	}
	return nil
}

func checkColors(rec ShapeRecord, want int) error {
	if len(rec.Colors) != want {
		return fmt.Errorf("%w: %s has %d colors for %d vertices", ErrInvalidShape, rec.Type, len(rec.Colors), want)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finitePoints(pts []geom.Point) bool {
	for _, p := range pts {
		if !finite(p.X) || !finite(p.Y) {
			return false
		}
	}
	return true
}
