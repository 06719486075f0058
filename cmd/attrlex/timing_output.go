package main

import (
	"io"

	"attrlex/internal/observ"
)

// printTimings печатает фазы прогона команды (config, tokenize, render).
func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	timer.WriteSummary(out)
}
