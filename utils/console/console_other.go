//go:build !windows

// Package console holds the platform specific terminal helpers.
package console

import (
	"os"
	"strings"
)

// EnableANSI is a no-op outside Windows, where escape sequences work by default.
func EnableANSI() {}

// IsBlueBackground reports whether COLORFGBG announces a blue background.
func IsBlueBackground() bool {
	return blueBackground(os.Getenv("COLORFGBG"))
}

func blueBackground(colorfgbg string) bool {
	parts := strings.Split(colorfgbg, ";")
	bg := strings.TrimSpace(parts[len(parts)-1])

	// ANSI 16-color backgrounds: 4 (blue) and 12 (bright blue).
	return bg == "4" || bg == "12"
}
