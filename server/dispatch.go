package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/macrokeys/macrod/commands"
)

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(params json.RawMessage) (interface{}, error)

var errMethodNotFound = errors.New("method not found")

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP server and embedded clients
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"status":           handleStatus,
		"backends":         handleBackends,
		"profile_validate": handleProfileValidate,
		"profile_dryrun":   handleProfileDryRun,
		"execute":          handleExecute,
		"cancel":           handleCancel,
	}
}

// Execute dispatches a method call using the registry
func Execute(method string, params json.RawMessage) (interface{}, error) {
	registry := GetMethodRegistry()

	handler, exists := registry[method]
	if !exists {
		return nil, errMethodNotFound
	}

	return handler(params)
}

// unwrap converts the command layer's response envelope into a JSON-RPC
// result or error.
func unwrap(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}

func handleStatus(json.RawMessage) (interface{}, error) {
	return unwrap(commands.StatusCommand())
}

func handleBackends(params json.RawMessage) (interface{}, error) {
	var req commands.BackendsRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &req); err != nil {
			return nil, fmt.Errorf("invalid parameters: %v", err)
		}
	}
	return unwrap(commands.BackendsCommand(req))
}

func handleProfileValidate(params json.RawMessage) (interface{}, error) {
	var req commands.ValidateRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v", err)
	}
	return unwrap(commands.ValidateCommand(req))
}

func handleProfileDryRun(params json.RawMessage) (interface{}, error) {
	var req commands.DryRunRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v", err)
	}
	return unwrap(commands.DryRunCommand(req))
}

func handleExecute(params json.RawMessage) (interface{}, error) {
	var req commands.ExecuteRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v", err)
	}
	return unwrap(commands.ExecuteCommand(req))
}

func handleCancel(json.RawMessage) (interface{}, error) {
	return unwrap(commands.CancelCommand())
}
