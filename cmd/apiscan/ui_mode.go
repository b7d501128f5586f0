package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeTUI  uiMode = "tui"
	uiModeBar  uiMode = "bar"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "tui", "on":
		return uiModeTUI, nil
	case "bar":
		return uiModeBar, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|tui|bar|off)", value)
	}
}

// resolveUIMode turns auto into a concrete mode. Progress is drawn on stderr,
// so auto depends on stderr being a terminal.
func resolveUIMode(mode uiMode, quiet bool, files int) uiMode {
	if quiet || files == 0 {
		return uiModeOff
	}
	if mode != uiModeAuto {
		return mode
	}
	if !isTerminal(os.Stderr) {
		return uiModeOff
	}
	if files > 40 {
		return uiModeBar
	}
	return uiModeTUI
}
