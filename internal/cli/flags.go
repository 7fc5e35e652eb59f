package cli

import "pwr/internal/config"

// Flags holds command-line flags
type Flags struct {
	ProjectPath   string
	TestDir       string
	ServerURL     string
	ProgressURL   string
	Headed        bool
	Cloud         bool
	NameFilter    string
	Select        []string
	All           bool
	Selection     string
	SaveSelection string
	Interactive   bool
	OpenResults   bool
	TestCases     bool
	ReportOutput  string
	OpenReport    bool
	LogLevel      string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath:   f.ProjectPath,
		TestDir:       f.TestDir,
		ServerURL:     f.ServerURL,
		ProgressURL:   f.ProgressURL,
		Headed:        f.Headed,
		Cloud:         f.Cloud,
		NameFilter:    f.NameFilter,
		Select:        append([]string(nil), f.Select...),
		All:           f.All,
		Selection:     f.Selection,
		SaveSelection: f.SaveSelection,
		Interactive:   f.Interactive,
		OpenResults:   f.OpenResults,
		TestCases:     f.TestCases,
		ReportOutput:  f.ReportOutput,
		OpenReport:    f.OpenReport,
		LogLevel:      f.LogLevel,
	}
}
