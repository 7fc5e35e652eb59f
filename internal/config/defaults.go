package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestDir is the test directory relative to the project
	DefaultTestDir = "./tests"
	// DefaultServerURL is the base URL of the runner API
	DefaultServerURL = "http://localhost:3001"
	// DefaultProgressURL is the progress websocket endpoint
	DefaultProgressURL = "ws://localhost:3001"
	// DefaultHeadless runs browsers without a window
	DefaultHeadless = true
	// DefaultConfigFile is looked up in the project directory
	DefaultConfigFile = "pwr.yaml"
	// DefaultEnvFile is looked up in the project directory
	DefaultEnvFile = ".env"
	// DefaultSelectionsFile stores named selections, relative to the project
	DefaultSelectionsFile = ".pwr/selections.json"
	// DefaultReportFile is where the HTML report is written, relative to the project
	DefaultReportFile = ".pwr/report.html"
	// DefaultLogLevel only lets warnings through
	DefaultLogLevel = "warn"
	// DefaultRequestTimeout bounds a single request to the runner API
	DefaultRequestTimeout = 30 * time.Second
)

// Environment variables read on top of the config file
const (
	EnvServerURL   = "PWR_SERVER_URL"
	EnvProgressURL = "PWR_PROGRESS_URL"
	EnvTestDir     = "PWR_TEST_DIR"
	EnvHeadless    = "PWR_HEADLESS"
	EnvLogLevel    = "PWR_LOG_LEVEL"
)

// DefaultSpecExtensions are the file extensions parsed for tests
var DefaultSpecExtensions = []string{
	".spec.ts",
	".spec.js",
}

// DefaultPathsToIgnore are names skipped wherever they appear in the test tree
var DefaultPathsToIgnore = []string{
	"node_modules",
	".playwright-artifacts",
	"temp-locator-mapping.json",
	".last-run.json",
	"results.json",
	"playwright.config.ts",
	"playwright.config.js",
	"package-lock.json",
	"package.json",
	"Dockerfile",
	"README.md",
	"test-results",
	"screenshots",
}
