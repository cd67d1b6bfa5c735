package commands

import (
	"fmt"

	"github.com/macrokeys/macrod/backends"
	"github.com/macrokeys/macrod/executor"
	"github.com/macrokeys/macrod/profile"
)

// ValidateRequest represents the parameters for a profile validation command
type ValidateRequest struct {
	Path string `json:"path"`
}

// BindingReport is the per-binding outcome of a validation pass.
type BindingReport struct {
	Name       string `json:"name"`
	Executable bool   `json:"executable"`
	Reason     string `json:"reason,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// ValidationReport covers a whole profile.
type ValidationReport struct {
	Profile  string          `json:"profile"`
	Bindings []BindingReport `json:"bindings"`
}

// ValidateCommand loads a profile and reports which bindings would be
// executable. Settings violations fail the whole command, matching agent
// startup; binding violations only mark the one binding.
func ValidateCommand(req ValidateRequest) *CommandResponse {
	if req.Path == "" {
		return NewErrorResponse(fmt.Errorf("profile path is required"))
	}

	p, err := profile.Load(req.Path)
	if err != nil {
		return NewErrorResponse(err)
	}

	report := ValidationReport{Profile: p.Name}
	for i := range p.Bindings {
		b := &p.Bindings[i]
		br := BindingReport{Name: b.Name, Executable: true}
		if verr := executor.ValidateBinding(b); verr != nil {
			br.Executable = false
			br.Reason = verr.Reason
			br.Detail = verr.Detail
		}
		report.Bindings = append(report.Bindings, br)
	}

	return NewSuccessResponse(report)
}

// DryRunRequest represents the parameters for a dry-run command
type DryRunRequest struct {
	Path    string `json:"path"`
	Binding string `json:"binding"`
}

// DryRunCommand computes a binding's timing plan offline with a mock
// backend; no input is injected.
func DryRunCommand(req DryRunRequest) *CommandResponse {
	if req.Path == "" || req.Binding == "" {
		return NewErrorResponse(fmt.Errorf("profile path and binding name are required"))
	}

	p, err := profile.Load(req.Path)
	if err != nil {
		return NewErrorResponse(err)
	}

	b := p.FindBinding(req.Binding)
	if b == nil {
		return NewErrorResponse(fmt.Errorf("no binding named %q in profile %s", req.Binding, p.Name))
	}

	seq := executor.NewSequencer(backends.NewMock(), false)
	plan, err := seq.DryRun(b)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"binding": b.Name,
		"plan":    plan,
	})
}
