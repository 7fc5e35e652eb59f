package execution

import (
	"strings"

	"github.com/google/uuid"

	"pwr/internal/domain"
)

// Runner API endpoints
const (
	PathRunLocal = "/run-tests"
	PathRunCloud = "/run-cloud"
	PathStop     = "/stop-tests"
	PathReport   = "/get-test-result"
)

// RunInfoFile is the artifact name the cloud runner stores the spec under
const RunInfoFile = "run-info.json"

// Target selects where a run executes
type Target int

const (
	TargetLocal Target = iota
	TargetCloud
)

func (t Target) String() string {
	if t == TargetCloud {
		return "cloud"
	}
	return "local"
}

// Request is a compiled run ready to be posted to the runner
type Request struct {
	Target Target
	Path   string
	Body   interface{}
	// Total is the number of selected cases, used for progress display
	Total int
}

// LocalBody is posted to the local runner
type LocalBody struct {
	FolderPath string            `json:"folderPath"`
	ToBeTested domain.ToBeTested `json:"toBeTested"`
}

// ReportBody asks for the HTML report of the last local run
type ReportBody struct {
	FolderPath string `json:"folderPath"`
}

// CloudBody is posted to the cloud runner
type CloudBody struct {
	ProjectPath  string           `json:"projectPath"`
	FolderName   string           `json:"folderName"`
	ProjectName  string           `json:"projectName"`
	JSONFileName string           `json:"jsonFileName"`
	JSONData     domain.CloudSpec `json:"jsonData"`
	UUID         string           `json:"uuid"`
}

// newRunID returns the short identifier attached to cloud runs
var newRunID = func() string {
	return uuid.New().String()[:13]
}

// NewLocalRequest builds a local run of spec rooted at folderPath
func NewLocalRequest(folderPath string, spec domain.LocalSpec, total int) (Request, error) {
	if spec.IsEmpty() {
		return Request{}, ErrEmptySelection
	}
	return Request{
		Target: TargetLocal,
		Path:   PathRunLocal,
		Body:   LocalBody{FolderPath: folderPath, ToBeTested: spec.ToBeTested},
		Total:  total,
	}, nil
}

// NewCloudRequest builds a cloud run of spec for the project
func NewCloudRequest(projectPath, testDir string, headless bool, spec domain.CloudSpec) (Request, error) {
	if !headless {
		return Request{}, ErrHeadlessRequired
	}
	if spec.IsEmpty() {
		return Request{}, ErrEmptySelection
	}
	return Request{
		Target: TargetCloud,
		Path:   PathRunCloud,
		Body: CloudBody{
			ProjectPath:  projectPath,
			FolderName:   FolderName(testDir),
			ProjectName:  ProjectName(projectPath),
			JSONFileName: RunInfoFile,
			JSONData:     spec,
			UUID:         newRunID(),
		},
		Total: len(spec),
	}, nil
}

// FolderName is the test directory as the cloud runner expects it
func FolderName(testDir string) string {
	return strings.ReplaceAll(testDir, "./", "")
}

// ProjectName is the last segment of projectPath, which may use either
// separator.
func ProjectName(projectPath string) string {
	trimmed := strings.TrimRight(projectPath, `/\`)
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
