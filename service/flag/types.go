package flag

// View is an analyze switch such as --list or --by-region.
type View struct {
	Name  string
	Usage string
}

// Defaults shared by the sub-commands.
const (
	DefaultOutputDir   = "."
	DefaultLogFormat   = "auto"
	DefaultLogLevel    = "info"
	DefaultDashboard   = 8080
	DefaultHistoryDays = 30
	DefaultHistoryRows = 20
)
