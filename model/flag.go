package model

// GlobalFlags are shared by every sub-command.
type GlobalFlags struct {
	Debug     bool
	LogFormat string
	LogLevel  string
	NoBanner  bool
}

// ScanFlags represents the flags of the scan sub-commands.
type ScanFlags struct {
	Profiles       []string
	AllSSOProfiles bool
	Regions        []string
	AllRegions     bool
	OutputFile     string
	OutputDir      string
	MaxParallel    int
	NoParallel     bool
	Mode           string
	ConfigPath     string
	NoLatest       bool
}

// AnalyzeFlags represents the flags shared by the analyze sub-commands.
// Service-specific switches live in Views.
type AnalyzeFlags struct {
	Views       []string
	Search      string
	SearchValue string
	CSVPath     string
	Query       string
}

// CorrelateFlags represents the flags of the correlate sub-command.
type CorrelateFlags struct {
	WAFPath     string
	ALBPath     string
	Route53Path string
	UseLatest   bool
	InputDir    string
	Output      string
	JSON        bool
	Store       bool
	DBPath      string
}
