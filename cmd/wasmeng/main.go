package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-engines/compiler"
	"github.com/wippyai/wasm-engines/engine"
	"github.com/wippyai/wasm-engines/opaque"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to wasm module or artifact file")
		engineKind  = flag.String("engine", "jit", "Engine variant: jit or native")
		backend     = flag.String("backend", "machine", "Compiler backend: machine, interpreter or headless")
		workDir     = flag.String("workdir", "", "Work directory for the native engine (default: temporary)")
		funcName    = flag.String("invoke", "", "Function to call")
		argList     = flag.String("args", "", "Comma-separated arguments for -invoke")
		savePath    = flag.String("save", "", "Write the compiled artifact to this path")
		list        = flag.Bool("list", false, "List exported functions and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: wasmeng -wasm <file.wasm> [-engine jit|native] [-backend machine|interpreter|headless]")
		fmt.Fprintln(os.Stderr, "       wasmeng -wasm <file.wasm> -list")
		fmt.Fprintln(os.Stderr, "       wasmeng -wasm <file.wasm> -invoke add -args 1,2")
		fmt.Fprintln(os.Stderr, "       wasmeng -wasm <file.cwasm> -backend headless -invoke add -args 1,2")
		fmt.Fprintln(os.Stderr, "       wasmeng -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			engine.SetLogger(l)
			defer l.Sync()
		}
	}

	cfg := buildConfig{
		engineKind: *engineKind,
		backend:    *backend,
		workDir:    *workDir,
	}

	if *interactive {
		if err := runInteractive(*wasmFile, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, cfg, *funcName, *argList, *savePath, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig captures the engine selection flags.
type buildConfig struct {
	engineKind string
	backend    string
	workDir    string
}

// buildEngine constructs the requested engine. The compiler configuration
// crosses into the builder the way an external producer's would: wrapped
// into an opaque carrier and transferred by handle.
func (c buildConfig) buildEngine(ctx context.Context) (eng anyEngine, cleanup func(), err error) {
	src := engine.Headless()
	cleanup = func() {}

	switch c.backend {
	case "headless":
	case "machine":
		carrier := opaque.Wrap(compiler.NewMachine())
		cleanup = carrier.Close
		src = engine.FromHandle(carrier.Handle())
	case "interpreter":
		carrier := opaque.Wrap(compiler.NewInterpreter())
		cleanup = carrier.Close
		src = engine.FromHandle(carrier.Handle())
	default:
		return nil, cleanup, fmt.Errorf("unknown backend %q", c.backend)
	}

	switch c.engineKind {
	case "jit":
		eng, err = engine.NewJIT(ctx, src)
	case "native":
		var opts []engine.NativeOption
		if c.workDir != "" {
			opts = append(opts, engine.WithWorkDir(c.workDir))
		}
		eng, err = engine.NewNative(ctx, src, opts...)
	default:
		err = fmt.Errorf("unknown engine %q", c.engineKind)
	}
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return eng, cleanup, nil
}

// anyEngine is the slice of the two engine variants the CLI needs.
type anyEngine interface {
	Compile(ctx context.Context, wasm []byte) (*engine.Module, error)
	Load(ctx context.Context, artifact []byte) (*engine.Module, error)
	Headless() bool
	Close(ctx context.Context) error
}

func run(wasmFile string, cfg buildConfig, funcName, argList, savePath string, listOnly bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	eng, cleanup, err := cfg.buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	defer eng.Close(ctx)

	mod, err := compileOrLoad(ctx, eng, data)
	if err != nil {
		return err
	}
	defer mod.Close(ctx)

	fmt.Printf("Module: %s\n", wasmFile)
	fmt.Printf("Engine: %s", cfg.engineKind)
	if eng.Headless() {
		fmt.Printf(" (headless)")
	} else {
		fmt.Printf(" (%s)", cfg.backend)
	}
	fmt.Println()
	if path := mod.ArtifactPath(); path != "" {
		fmt.Printf("Artifact: %s\n", path)
	}

	exports := exportNames(mod)
	fmt.Printf("\nExported functions:\n")
	for _, name := range exports {
		def := mod.ExportedFunctions()[name]
		fmt.Printf("  %s\n", formatSignature(name, def))
	}

	if savePath != "" {
		if err := os.WriteFile(savePath, mod.Serialize(), 0o644); err != nil {
			return fmt.Errorf("save artifact: %w", err)
		}
		fmt.Printf("\nSaved artifact to %s\n", savePath)
	}

	if listOnly {
		return nil
	}

	if funcName == "" {
		if len(exports) == 1 {
			funcName = exports[0]
		} else {
			fmt.Printf("\nUse -invoke to call a function.\n")
			return nil
		}
	}

	def, ok := mod.ExportedFunctions()[funcName]
	if !ok {
		return fmt.Errorf("function %q not exported", funcName)
	}

	params, err := parseArgs(argList, def.ParamTypes())
	if err != nil {
		return err
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return err
	}
	defer inst.Close(ctx)

	fmt.Printf("\nCalling %s(%s)...\n", funcName, argList)
	results, err := inst.Call(ctx, funcName, params...)
	if err != nil {
		return err
	}

	fmt.Printf("Result: %s\n", formatResults(results, def.ResultTypes()))
	return nil
}

// compileOrLoad feeds artifacts through Load and raw modules through
// Compile, so a headless engine works on .cwasm input transparently.
func compileOrLoad(ctx context.Context, eng anyEngine, data []byte) (*engine.Module, error) {
	if engine.IsArtifact(data) {
		return eng.Load(ctx, data)
	}
	return eng.Compile(ctx, data)
}

func exportNames(mod *engine.Module) []string {
	var names []string
	for name := range mod.ExportedFunctions() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatSignature(name string, def api.FunctionDefinition) string {
	var params []string
	for i, vt := range def.ParamTypes() {
		pname := fmt.Sprintf("arg%d", i)
		if names := def.ParamNames(); i < len(names) && names[i] != "" {
			pname = names[i]
		}
		params = append(params, pname+": "+api.ValueTypeName(vt))
	}
	sig := name + "(" + strings.Join(params, ", ") + ")"
	if results := def.ResultTypes(); len(results) > 0 {
		var rs []string
		for _, vt := range results {
			rs = append(rs, api.ValueTypeName(vt))
		}
		sig += " -> " + strings.Join(rs, ", ")
	}
	return sig
}

func parseArgs(argList string, paramTypes []api.ValueType) ([]uint64, error) {
	var raw []string
	if argList != "" {
		raw = strings.Split(argList, ",")
	}
	if len(raw) != len(paramTypes) {
		return nil, fmt.Errorf("function takes %d argument(s), got %d", len(paramTypes), len(raw))
	}

	params := make([]uint64, len(raw))
	for i, s := range raw {
		v, err := parseArg(strings.TrimSpace(s), paramTypes[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		params[i] = v
	}
	return params, nil
}

func parseArg(s string, vt api.ValueType) (uint64, error) {
	switch vt {
	case api.ValueTypeI32:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint64(uint32(int32(v))), nil
	case api.ValueTypeI64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint64(v), nil
	case api.ValueTypeF32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return 0, err
		}
		return uint64(api.EncodeF32(float32(v))), nil
	case api.ValueTypeF64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return api.EncodeF64(v), nil
	default:
		return 0, fmt.Errorf("unsupported parameter type %s", api.ValueTypeName(vt))
	}
}

func formatResults(results []uint64, resultTypes []api.ValueType) string {
	if len(results) == 0 {
		return "(none)"
	}
	var parts []string
	for i, r := range results {
		if i < len(resultTypes) {
			parts = append(parts, formatValue(r, resultTypes[i]))
		} else {
			parts = append(parts, strconv.FormatUint(r, 10))
		}
	}
	return strings.Join(parts, ", ")
}

func formatValue(v uint64, vt api.ValueType) string {
	switch vt {
	case api.ValueTypeI32:
		return strconv.FormatInt(int64(int32(uint32(v))), 10)
	case api.ValueTypeI64:
		return strconv.FormatInt(int64(v), 10)
	case api.ValueTypeF32:
		return strconv.FormatFloat(float64(api.DecodeF32(v)), 'g', -1, 32)
	case api.ValueTypeF64:
		return strconv.FormatFloat(api.DecodeF64(v), 'g', -1, 64)
	default:
		return strconv.FormatUint(v, 10)
	}
}
