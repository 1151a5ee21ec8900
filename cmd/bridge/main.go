package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/helixlang/bridge/managed"
	"github.com/helixlang/bridge/script"
	"github.com/helixlang/bridge/transcode"
)

func main() {
	var (
		literal     = flag.String("int", "", "Integer literal to push across the bridge")
		radix       = flag.Int("radix", 10, "Engine-side output radix (2-36)")
		build       = flag.String("build", script.DefaultBuild, "Engine build version")
		maxPages    = flag.Uint("max-pages", 0, "Engine heap limit in 64KB pages (0 = no limit)")
		verbose     = flag.Bool("v", false, "Verbose conversion logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			defer log.Sync()
			script.SetLogger(log)
			transcode.SetLogger(log)
		}
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*build, uint32(*maxPages)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *literal == "" {
		fmt.Fprintln(os.Stderr, "Usage: bridge -int <decimal> [-radix n] [-build version]")
		fmt.Fprintln(os.Stderr, "       bridge -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*literal, *radix, *build, uint32(*maxPages)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(literal string, radix int, build string, maxPages uint32) error {
	ctx := context.Background()

	cx, err := script.NewContext(ctx, &script.Config{Build: build, MaxHeapPages: maxPages})
	if err != nil {
		return fmt.Errorf("create engine context: %w", err)
	}
	defer cx.Close(ctx)
	tc := transcode.New(cx)

	n, err := managed.ParseInt(literal)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	defer managed.Decref(n)

	bits, err := n.BitLen()
	if err != nil {
		return fmt.Errorf("measure: %w", err)
	}
	engineDigits := (bits + 63) / 64
	if engineDigits == 0 {
		engineDigits = 1
	}

	fmt.Printf("Managed value: %s\n", n)
	fmt.Printf("Magnitude:     %d bits, %d managed digit(s), %d engine digit(s)\n",
		bits, abs(n.Size()), engineDigits)

	v, err := tc.BigIntToScript(n)
	if err != nil {
		return fmt.Errorf("to engine: %w", err)
	}
	fmt.Printf("Engine value:  %s (cell %#x)\n", cx.DisplayString(v), v.Cell())
	if radix != 10 {
		s, err := cx.BigIntToString(v, radix)
		if err != nil {
			return fmt.Errorf("render radix %d: %w", radix, err)
		}
		fmt.Printf("Radix %-2d:      %s\n", radix, s)
	}

	back, err := tc.BigIntFromScript(v)
	if err != nil {
		return fmt.Errorf("from engine: %w", err)
	}
	defer managed.Decref(back)

	fmt.Printf("Round trip:    %s (foreign=%v)\n", back, back.IsForeign())
	if back.Cmp(n) != 0 {
		return fmt.Errorf("round trip mismatch: %s != %s", back, n)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
