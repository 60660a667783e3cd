// src/wasm/main.go
//go:build js && wasm

package main

import (
	"bytes"
	"fmt"
	"syscall/js"

	"github.com/UnderminersTeam/gmlfront"
)

// wasmCompiler wraps a compile context for the JS bridge. Macros and enums
// defined by one call stay visible to later calls until gmlfront_reset.
type wasmCompiler struct {
	cc     *gmlfront.CompileContext
	legacy bool
	seen   int
	log    bytes.Buffer
}

func (w *wasmCompiler) reset() {
	config := gmlfront.DefaultConfig()
	config.Workers = 1
	if w.legacy {
		config.Flags = gmlfront.LegacyFlags()
	}
	w.cc = gmlfront.New(config, gmlfront.DefaultGameContext())
	w.cc.Logger().SetOutput(&w.log, &w.log)
	w.seen = 0
	w.log.Reset()
}

// --- JS bridge functions ---

// wasmCompile is called from JS: gmlfront_compile(name: string, source: string)
// and returns {ast: string, tokens: string, log: string,
// diagnostics: [{message, line, column, warning}]}
func (w *wasmCompiler) wasmCompile(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.Null()
	}
	result := w.cc.CompileEntry(args[0].String(), args[1].String())

	all := w.cc.Diagnostics()
	fresh := all[w.seen:]
	w.seen = len(all)

	diagnostics := make([]interface{}, 0, len(fresh))
	for _, d := range fresh {
		w.cc.Logger().CompileError(d)
		entry := map[string]interface{}{
			"message": d.Message,
			"warning": d.Warning,
		}
		if d.Position != nil {
			entry["line"] = d.Position.Line
			entry["column"] = d.Position.Column
		}
		diagnostics = append(diagnostics, entry)
	}
	log := w.log.String()
	w.log.Reset()

	return map[string]interface{}{
		"ast":         gmlfront.FormatNode(result.Root),
		"tokens":      gmlfront.FormatTokens(result.Lex.Tokens),
		"log":         log,
		"diagnostics": diagnostics,
	}
}

// wasmReset is called from JS: gmlfront_reset(legacy: boolean)
func (w *wasmCompiler) wasmReset(this js.Value, args []js.Value) interface{} {
	w.legacy = len(args) > 0 && args[0].Bool()
	w.reset()
	return true
}

// --- Main entrypoint ---
func main() {
	wasm := &wasmCompiler{}
	wasm.reset()

	// Expose JS functions
	js.Global().Set("gmlfront_compile", js.FuncOf(wasm.wasmCompile))
	js.Global().Set("gmlfront_reset", js.FuncOf(wasm.wasmReset))

	fmt.Println("gmlfront WASM ready!")

	// Keep the WASM runtime alive
	select {}
}
