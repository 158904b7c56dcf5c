package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/extension-host/bridge"
	"github.com/wippyai/extension-host/guest"
	"github.com/wippyai/extension-host/host"
	"github.com/wippyai/extension-host/lifecycle"
)

// Built-in module exporting add(i32, i32) -> i32, used when no -wasm
// file is given.
var addWasm = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x07, 0x01, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 0x61, 0x64, 0x64, 0x00, 0x00,
	0x0a, 0x09, 0x01, 0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
}

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to wasm module (defaults to a built-in adder)")
		funcName    = flag.String("func", "add", "Exported function to call")
		workers     = flag.Int("workers", 4, "Pool worker count")
		tasks       = flag.Int("tasks", 8, "Tasks to schedule in headless mode")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		host.SetLogger(logger)
	}

	wasmBytes := addWasm
	if *wasmFile != "" {
		data, err := os.ReadFile(*wasmFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read file: %v\n", err)
			os.Exit(1)
		}
		wasmBytes = data
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(wasmBytes, *funcName, *workers); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(wasmBytes, *funcName, *workers, *tasks); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmBytes []byte, funcName string, workers, tasks int) error {
	inst := host.NewInstance(host.Options{PoolWorkers: workers})
	defer inst.Close(context.Background())

	var mod *guest.Module
	var attachErr error
	inst.RunSync(func(env *host.Env) {
		mod, attachErr = guest.Attach(env, wasmBytes, &guest.Config{Name: "monitor"})
	})
	if attachErr != nil {
		return attachErr
	}

	results := make(chan string, tasks)
	inst.RunSync(func(env *host.Env) {
		fmt.Printf("Instance %d ready, %d pool workers\n", lifecycle.ID(env), workers)
		for i := 0; i < tasks; i++ {
			bridge.Schedule(env, [2]uint64{uint64(i), uint64(i * i)},
				func(in [2]uint64) [2]uint64 {
					// Pool-side stage; the guest call happens at
					// completion, back on the owning loop
					return in
				},
				func(env *host.Env, out [2]uint64) {
					if env == nil {
						results <- "dropped: environment torn down"
						return
					}
					r, err := mod.Call(env, funcName, out[0], out[1])
					if err != nil {
						results <- fmt.Sprintf("error: %v", err)
						return
					}
					results <- fmt.Sprintf("%s(%d, %d) = %d", funcName, out[0], out[1], r[0])
				})
		}
	})

	for i := 0; i < tasks; i++ {
		fmt.Println(<-results)
	}

	inst.RunSync(func(env *host.Env) {
		mod.Close(env)
	})
	return nil
}
