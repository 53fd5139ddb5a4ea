package spinner

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

var loader *spinner.Spinner

// StartSpinner starts the CLI loading spinner on stderr with the given
// suffix. It does nothing when enabled is false.
func StartSpinner(suffix string, enabled bool) {
	if !enabled {
		return
	}
	loader = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	loader.Color("yellow") //nolint:errcheck
	loader.Suffix = " " + suffix
	loader.Start()
}

// UpdateSpinner replaces the suffix of a running spinner.
func UpdateSpinner(suffix string) {
	if loader != nil {
		loader.Lock()
		loader.Suffix = " " + suffix
		loader.Unlock()
	}
}

// StopSpinner stops the CLI loading spinner.
func StopSpinner() {
	if loader != nil {
		loader.Stop()
		loader = nil
	}
}
