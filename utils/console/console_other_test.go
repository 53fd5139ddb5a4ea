//go:build !windows

package console

import "testing"

func TestBlueBackground(t *testing.T) {
	tests := map[string]bool{
		"":      false,
		"15;0":  false,
		"0;4":   true,
		"7;12":  true,
		"0;4 ":  true,
		"12;0":  false,
		"0;7;4": true,
	}
	for in, want := range tests {
		if got := blueBackground(in); got != want {
			t.Fatalf("blueBackground(%q) = %v, want %v", in, got, want)
		}
	}
}
