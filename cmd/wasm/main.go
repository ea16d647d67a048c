//go:build js && wasm

package main

import (
	"log/slog"
	"syscall/js"

	"github.com/polydraw/polydraw/backend-go/internal/editor"
	"github.com/polydraw/polydraw/backend-go/internal/engine"
	"github.com/polydraw/polydraw/backend-go/internal/geom"
	"github.com/polydraw/polydraw/backend-go/internal/shape"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(
		editor.WithLogger(slog.Default()),
		editor.WithColorSync(notifyColor),
		editor.WithRotationSync(notifyRotation),
	)

	// Create the editor API object
	polydrawEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	polydrawEditor.Set("click", js.FuncOf(pointer(eng.Editor().Click)))
	polydrawEditor.Set("mouseMove", js.FuncOf(pointer(eng.Editor().MouseMove)))
	polydrawEditor.Set("mouseDown", js.FuncOf(pointer(eng.Editor().MouseDown)))
	polydrawEditor.Set("mouseUp", js.FuncOf(pointer(eng.Editor().MouseUp)))
	polydrawEditor.Set("doubleClick", js.FuncOf(pointer(eng.Editor().DoubleClick)))
	polydrawEditor.Set("keyDown", js.FuncOf(keyDown))
	polydrawEditor.Set("input", js.FuncOf(input))
	polydrawEditor.Set("setTool", js.FuncOf(setTool))
	polydrawEditor.Set("setColor", js.FuncOf(setColor))
	polydrawEditor.Set("setRotation", js.FuncOf(setRotation))
	polydrawEditor.Set("clear", js.FuncOf(clearCanvas))
	polydrawEditor.Set("loadDocument", js.FuncOf(loadDocument))
	polydrawEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))

	// --- Queries (frontend ← backend) ---
	polydrawEditor.Set("render", js.FuncOf(render))
	polydrawEditor.Set("getDocument", js.FuncOf(getDocument))
	polydrawEditor.Set("getState", js.FuncOf(getState))
	polydrawEditor.Set("editEnabled", js.FuncOf(editEnabled))

	// Register on global scope
	js.Global().Set("polydrawEditor", polydrawEditor)

	// Signal that WASM is ready
	js.Global().Set("polydrawWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) any {
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(map[string]any{"ok": true})
}

// notifyColor tells the page's color picker about the selected shape.
func notifyColor(c shape.Color) {
	if fn := js.Global().Get("polydrawColorChanged"); fn.Type() == js.TypeFunction {
		fn.Invoke(c.Hex())
	}
}

func notifyRotation(degrees float64) {
	if fn := js.Global().Get("polydrawRotationChanged"); fn.Type() == js.TypeFunction {
		fn.Invoke(degrees)
	}
}

// --- Command Handlers ---

// pointer adapts an (x, y) pointer handler to a JS function.
func pointer(handle func(geom.Point)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		handle(geom.Pt(args[0].Float(), args[1].Float()))
		return nil
	}
}

func keyDown(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.Editor().KeyDown(args[0].String())
	return nil
}

func input(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return result(nil)
	}
	return result(eng.Input(args[0].String()))
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing tool"})
	}
	return result(eng.SetTool(args[0].String()))
}

func setColor(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing color"})
	}
	return result(eng.Editor().SetColor(args[0].String()))
}

func setRotation(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.Editor().SetRotation(args[0].Float())
	return nil
}

func clearCanvas(this js.Value, args []js.Value) any {
	eng.Editor().Clear()
	return nil
}

func loadDocument(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing document JSON"})
	}
	return result(eng.LoadDocument(args[0].String()))
}

func loadSampleDocument(this js.Value, args []js.Value) any {
	drawingID := "drw_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		drawingID = args[0].String()
	}
	return result(eng.LoadSampleDocument(drawingID))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Render())
}

func getDocument(this js.Value, args []js.Value) any {
	data, err := eng.GetDocument()
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(data)
}

func getState(this js.Value, args []js.Value) any {
	data, err := eng.GetState()
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(data)
}

func editEnabled(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Editor().EditEnabled())
}
