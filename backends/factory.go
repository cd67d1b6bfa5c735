package backends

import (
	"fmt"

	"github.com/macrokeys/macrod/utils"
)

// Diagnostic records why one probed variant was not selected.
type Diagnostic struct {
	Kind Kind   `json:"kind"`
	Err  string `json:"error"`
}

// Result is the factory's outcome: the live backend plus a diagnostic for
// every variant that was skipped before it.
type Result struct {
	Backend Backend
	Skipped []Diagnostic
}

// probeOrder is the automatic fallback sequence, lowest detection risk
// first.
var probeOrder = []Kind{KindKernel, KindUserSpace, KindMock}

// construct is indirected so tests can simulate unavailable variants.
var construct = defaultConstruct

func defaultConstruct(kind Kind) (Backend, error) {
	switch kind {
	case KindKernel:
		return newKernelLevel()
	case KindUserSpace:
		return newUserSpace()
	case KindMock:
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown backend kind: %s", kind)
	}
}

// Create selects an injection backend. A non-empty preference other than
// "auto" constructs exactly that variant and fails loudly if it is
// unavailable. Otherwise variants are probed in priority order; construction
// failures are recoverable and probing continues. Total unavailability
// across all variants is a fatal startup condition for the caller.
func Create(preference string) (*Result, error) {
	if preference != "" && preference != "auto" {
		backend, err := construct(Kind(preference))
		if err != nil {
			return nil, fmt.Errorf("backend %q: %w", preference, err)
		}
		utils.Info("backends: using %s (explicit)", backend.Kind())
		return &Result{Backend: backend}, nil
	}

	var skipped []Diagnostic
	for _, kind := range probeOrder {
		backend, err := construct(kind)
		if err != nil {
			utils.Verbose("backends: %s unavailable: %v", kind, err)
			skipped = append(skipped, Diagnostic{Kind: kind, Err: err.Error()})
			continue
		}
		utils.Info("backends: using %s", backend.Kind())
		return &Result{Backend: backend, Skipped: skipped}, nil
	}

	return nil, fmt.Errorf("no injection backend available: %v", skipped)
}
