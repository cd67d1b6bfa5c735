package commands

import (
	"fmt"

	"github.com/macrokeys/macrod/backends"
)

// BackendsRequest represents the parameters for a backend probe command
type BackendsRequest struct {
	Backend string `json:"backend,omitempty"` // explicit kind or "auto"
}

// BackendProbeReport is the JSON-friendly outcome of a probe.
type BackendProbeReport struct {
	Selected backends.Kind         `json:"selected"`
	Skipped  []backends.Diagnostic `json:"skipped,omitempty"`
}

// BackendsCommand probes backend availability the same way agent startup
// does, then tears the probe backend down again. Used by the doctor-style
// `backends` CLI command and the RPC surface.
func BackendsCommand(req BackendsRequest) *CommandResponse {
	result, err := backends.Create(req.Backend)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("backend probe failed: %w", err))
	}

	report := BackendProbeReport{
		Selected: result.Backend.Kind(),
		Skipped:  result.Skipped,
	}

	if err := result.Backend.Destroy(); err != nil {
		return NewErrorResponse(fmt.Errorf("failed to tear down probe backend: %w", err))
	}

	return NewSuccessResponse(report)
}
