package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "macrod"
const keyringUser = "rpc-token"

// NewToken generates a fresh RPC access token and stores it in the OS
// keyring, replacing any previous one.
func NewToken() (string, error) {
	tokenBytes := make([]byte, 24)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)

	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return "", fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return token, nil
}

// GetToken returns the stored RPC access token.
func GetToken() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}

// ClearToken removes the stored RPC access token.
func ClearToken() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to remove token from keyring: %w", err)
	}
	return nil
}
