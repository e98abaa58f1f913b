package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kplc/internal/trace"
)

var activeTracer trace.Tracer = trace.Nop

// setupTracing reads the trace flags and attaches a tracer to the command
// context.
func setupTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	// an output without a level means the caller wants phases
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return nil
}

// crashOutput is where a check that panicked dumps the ring buffer, nil
// when no ring is recording.
func crashOutput() io.Writer {
	if trace.Ring(activeTracer) == nil {
		return nil
	}
	return os.Stderr
}

func closeTracing() {
	if activeTracer == trace.Nop {
		return
	}
	if err := activeTracer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
	}
	activeTracer = trace.Nop
}
