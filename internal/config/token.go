package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "peer-cli"
	keyringUser    = "bridge-pairing-token"
)

// SaveToken stores the bridge pairing token in the OS keyring.
func SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("pairing token cannot be empty")
	}
	return keyring.Set(keyringService, keyringUser, token)
}

// LoadToken returns the stored pairing token, or "" if none is stored.
func LoadToken() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// DeleteToken removes the stored pairing token. It reports whether one was
// present.
func DeleteToken() (bool, error) {
	err := keyring.Delete(keyringService, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
