package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"kplc/internal/diag"
	"kplc/internal/driver"
	"kplc/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "off":
		return uiModeOff, nil
	case "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}

type checkOutcome struct {
	results []*driver.Result
	err     error
}

// runChecksWithUI runs CheckFiles while a progress view follows the phase
// events of every manifest.
func runChecksWithUI(ctx context.Context, paths []string, opts driver.Options) ([]*driver.Result, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	opts.Observer = func(ev driver.PhaseEvent) {
		if ev.Status == driver.PhaseStart {
			events <- ui.Event{File: ev.Path, Phase: ev.Name, Status: ui.StatusWorking}
		}
	}
	opts.OnResult = func(res *driver.Result) {
		status, errs := ui.StatusDone, res.Bag.Count(diag.SevError)
		if errs > 0 {
			status = ui.StatusError
		}
		events <- ui.Event{File: res.Path, Status: status, Errors: errs}
	}

	go func() {
		results, err := driver.CheckFiles(ctx, paths, opts)
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking manifests", paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep draining so the checks can finish
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
