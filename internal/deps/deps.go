// Package deps reports the availability of the external conversion tools the
// library can hand files to. None of them are required for cataloging; the
// status output exists so users can see which conversions are possible before
// reaching for them.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool romshelf can make use of.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a tool.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Defaults lists the conversion tools the catalog knows how to use. All of
// them are optional; scanning and verification never shell out.
func Defaults() []Requirement {
	return []Requirement{
		{
			Name:        "chdman",
			Command:     "chdman",
			Description: "Converts disc images to and from CHD",
			Optional:    true,
		},
		{
			Name:        "dolphin-tool",
			Command:     "dolphin-tool",
			Description: "Converts GameCube and Wii images to RVZ",
			Optional:    true,
		},
		{
			Name:        "maxcso",
			Command:     "maxcso",
			Description: "Compresses PSP ISO images to CSO",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}
