package banner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/thirukguru/aws-edge-audit/utils/console"
	"golang.org/x/term"
)

// ColorEnv selects the banner color by name or raw escape sequence.
const ColorEnv = "AWS_EDGE_AUDIT_BANNER_COLOR"

const (
	defaultWidth = 80
	reset        = "\x1b[0m"
)

type bannerColor struct {
	name string
	seq  string
}

var bannerColors = []bannerColor{
	{"AmazonOrange", "\x1b[38;2;255;153;0m"},
	{"SquidInk", "\x1b[38;2;35;47;62m"},
	{"ShieldBlue", "\x1b[38;2;0;113;197m"},
	{"SafeGreen", "\x1b[38;2;63;185;80m"},
	{"AlertRed", "\x1b[38;2;248;81;73m"},
	{"EdgePurple", "\x1b[38;2;145;70;255m"},
	{"SkyBlue", "\x1b[38;2;0;175;240m"},
}

const (
	colorDefault        = 0
	colorBlueBackground = 3
)

var titleLines = []string{
	" ███████╗ ██████╗   ██████╗  ███████╗     █████╗  ██╗   ██╗ ██████╗  ██╗ ████████╗",
	" ██╔════╝ ██╔══██╗ ██╔════╝  ██╔════╝    ██╔══██╗ ██║   ██║ ██╔══██╗ ██║ ╚══██╔══╝",
	" █████╗   ██║  ██║ ██║  ███╗ █████╗      ███████║ ██║   ██║ ██║  ██║ ██║    ██║   ",
	" ██╔══╝   ██║  ██║ ██║   ██║ ██╔══╝      ██╔══██║ ██║   ██║ ██║  ██║ ██║    ██║   ",
	" ███████╗ ██████╔╝ ╚██████╔╝ ███████╗    ██║  ██║ ╚██████╔╝ ██████╔╝ ██║    ██║   ",
	" ╚══════╝ ╚═════╝   ╚═════╝  ╚══════╝    ╚═╝  ╚═╝  ╚═════╝  ╚═════╝  ╚═╝    ╚═╝   ",
}

func printCenteredLines(w io.Writer, lines []string, width int) {
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); width > n {
			fmt.Fprint(w, strings.Repeat(" ", (width-n)/2))
		}
		fmt.Fprintln(w, line)
	}
}

func titleColor() string {
	if seq, ok := colorFromEnv(os.Getenv(ColorEnv)); ok {
		return seq
	}
	if console.IsBlueBackground() {
		return bannerColors[colorBlueBackground].seq
	}
	return bannerColors[colorDefault].seq
}

func colorFromEnv(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, c := range bannerColors {
		if strings.EqualFold(raw, c.name) || raw == c.seq {
			return c.seq, true
		}
	}
	return "", false
}

// DrawBannerTitle prints the application title banner centered to the
// terminal width.
func DrawBannerTitle(w io.Writer) {
	console.EnableANSI()

	width := defaultWidth
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = cols
	}

	fmt.Fprint(w, titleColor())
	printCenteredLines(w, titleLines, width)
	fmt.Fprint(w, reset)
}
