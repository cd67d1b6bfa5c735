package commands

import (
	"fmt"
)

// ExecuteRequest represents the parameters for an execute command
type ExecuteRequest struct {
	Binding string `json:"binding"`
}

// ExecuteCommand starts a registered binding's sequence on the active
// session. The run is asynchronous; progress is reported on the event feed.
func ExecuteCommand(req ExecuteRequest) *CommandResponse {
	if req.Binding == "" {
		return NewErrorResponse(fmt.Errorf("binding name is required"))
	}

	session, err := GetSession()
	if err != nil {
		return NewErrorResponse(err)
	}

	runID, err := session.Sequencer().Execute(req.Binding)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to execute %s: %w", req.Binding, err))
	}

	return NewSuccessResponse(map[string]interface{}{
		"runId": runID,
	})
}

// CancelCommand aborts the in-flight sequence, if any.
func CancelCommand() *CommandResponse {
	session, err := GetSession()
	if err != nil {
		return NewErrorResponse(err)
	}

	session.Sequencer().CancelAll()
	return NewSuccessResponse(map[string]interface{}{
		"message": "cancelled",
	})
}

// StatusCommand reports the active profile and its non-executable bindings.
func StatusCommand() *CommandResponse {
	session, err := GetSession()
	if err != nil {
		return NewErrorResponse(err)
	}

	p := session.Profile()
	rejected := make(map[string]string)
	for name, verr := range session.Sequencer().Rejected() {
		rejected[name] = verr.Reason
	}

	return NewSuccessResponse(map[string]interface{}{
		"profile":  p.Name,
		"bindings": len(p.Bindings),
		"rejected": rejected,
	})
}
