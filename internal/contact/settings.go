// internal/contact/settings.go
//
// Landing – Contact pipeline: page settings.
//
// Context
//   The page server renders its contact config onto the form element as
//   data-* attributes:
//
//     data-endpoint, data-mode, data-timeout, data-delay, data-busy-label
//
//   Durations are whole milliseconds.  SettingsFromData turns them back into
//   submitter options and the gate's busy label, so the browser build only
//   has to hand over an attribute lookup.
//
//------------------------------------------------------------------------------

package contact

import (
	"strconv"
	"strings"
	"time"
)

// Settings is what a host needs to build the submitter and gate.
type Settings struct {
	Options   Options
	BusyLabel string
}

// SettingsFromData reads the form's data attributes through data, which
// takes the dataset key (“busyLabel” for data-busy-label).  An empty mode
// selects the simulated submitter so a static copy of the page still
// behaves; an unknown one is reported.
func SettingsFromData(data func(key string) string) (Settings, error) {
	st := Settings{
		Options: Options{
			Endpoint: data("endpoint"),
			Timeout:  Millis(data("timeout"), DefaultTimeout),
			Delay:    Millis(data("delay"), DefaultSimulatedDelay),
		},
		BusyLabel: data("busyLabel"),
	}
	raw := data("mode")
	if raw == "" {
		st.Options.Mode = ModeSimulated
		return st, nil
	}
	m, err := ParseMode(raw)
	if err != nil {
		return st, err
	}
	st.Options.Mode = m
	return st, nil
}

// Millis parses a whole number of milliseconds.  Empty, malformed, or
// non-positive input yields def.
func Millis(s string, def time.Duration) time.Duration {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}
