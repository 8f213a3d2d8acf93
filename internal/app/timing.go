package app

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// TimingEnv enables phase timing output when set to a truthy value.
const TimingEnv = "KERNTUNE_PRINT_TIMING"

func timingEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(TimingEnv))) {
	case "1", "on", "true", "yes":
		return true
	default:
		return false
	}
}

// timed starts timing phase and returns the function that reports it.
func (a *App) timed(phase string) func() {
	if !timingEnabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		a.logger.Info(fmt.Sprintf("%s took %s", phase, time.Since(start).Round(time.Millisecond)))
	}
}
