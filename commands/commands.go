package commands

import (
	"fmt"

	"github.com/macrokeys/macrod/agent"
	"github.com/macrokeys/macrod/backends"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// activeSession is the running agent session, set once by the run command
// (or a test harness) before commands are served.
var activeSession *agent.Session

// backendRegistry holds the registry for backend cleanup tracking. It is set
// once at application startup via SetRegistry and used to destroy live
// backends during graceful shutdown (SIGINT/SIGTERM).
var backendRegistry *backends.Registry

// SetSession sets the active agent session commands operate on.
func SetSession(s *agent.Session) {
	activeSession = s
}

// GetSession returns the active session, or an error when the agent is not
// running.
func GetSession() (*agent.Session, error) {
	if activeSession == nil {
		return nil, fmt.Errorf("no active session; is the agent running?")
	}
	return activeSession, nil
}

// SetRegistry sets the global backend registry for cleanup tracking.
// This should be called once at application startup.
func SetRegistry(registry *backends.Registry) {
	backendRegistry = registry
}

// GetRegistry returns the current backend registry.
// Returns nil if SetRegistry has not been called yet.
func GetRegistry() *backends.Registry {
	return backendRegistry
}
