// Package deps reports whether the external programs vttscribe shells out to
// can be found.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement is one external program.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

// Missing reports whether a required (non-optional) program was not found.
func (s Status) Missing() bool {
	return !s.Available && !s.Optional
}

// Tools names the binaries a transcription run may need.
type Tools struct {
	Provider string
	Python   string
	UVX      string
	FFmpeg   string
	FFprobe  string
}

// Requirements lists the binaries for tools. The provider decides which of
// python and uvx/ffmpeg are mandatory; ffprobe only feeds progress totals and
// is always optional.
func Requirements(tools Tools) []Requirement {
	fasterWhisper := tools.Provider != "whisperx"
	return []Requirement{
		{
			Name:        "Python",
			Command:     tools.Python,
			Description: "Runs the faster-whisper helper",
			Optional:    !fasterWhisper,
		},
		{
			Name:        "uvx",
			Command:     tools.UVX,
			Description: "Runs WhisperX",
			Optional:    fasterWhisper,
		},
		{
			Name:        "FFmpeg",
			Command:     tools.FFmpeg,
			Description: "Extracts audio for WhisperX",
			Optional:    fasterWhisper,
		},
		{
			Name:        "FFprobe",
			Command:     tools.FFprobe,
			Description: "Probes media duration for progress",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		if req.Command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(req.Command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			results = append(results, status)
			continue
		}
		status.Path = path
		status.Available = true
		results = append(results, status)
	}
	return results
}

// FirstMissing returns the first required program that is unavailable.
func FirstMissing(statuses []Status) (Status, bool) {
	for _, status := range statuses {
		if status.Missing() {
			return status, true
		}
	}
	return Status{}, false
}
