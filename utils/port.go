package utils

import (
	"net"
)

// IsAddressAvailable reports whether the host:port address can be bound.
// Used to fail fast before daemonizing instead of discovering the conflict
// in the detached child.
func IsAddressAvailable(addr string) bool {
	Verbose("Checking if %s is available", addr)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		Verbose("error: %v", err)
		return false
	}

	defer listener.Close()
	return true
}
