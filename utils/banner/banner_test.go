package banner

import (
	"bytes"
	"strings"
	"testing"
)

func TestColorFromEnv(t *testing.T) {
	if _, ok := colorFromEnv(""); ok {
		t.Fatalf("empty value must not select a color")
	}
	seq, ok := colorFromEnv("shieldblue")
	if !ok || seq != bannerColors[2].seq {
		t.Fatalf("expected case-insensitive name match, got %q %v", seq, ok)
	}
	if _, ok := colorFromEnv("Chartreuse"); ok {
		t.Fatalf("unknown name must not match")
	}
}

func TestPrintCenteredLinesCountsRunes(t *testing.T) {
	var buf bytes.Buffer
	printCenteredLines(&buf, []string{"██"}, 10)
	if got := buf.String(); got != "    ██\n" {
		t.Fatalf("unexpected padding %q", got)
	}

	buf.Reset()
	printCenteredLines(&buf, titleLines, 10)
	if strings.HasPrefix(buf.String(), "  ") {
		t.Fatalf("lines wider than the terminal must not be padded")
	}
}
