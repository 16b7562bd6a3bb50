// Package keyring keeps the PostgreSQL connection string, password included,
// in the OS credential store instead of the config file.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitgarden/internal/constants"
)

var (
	// ErrNotFound is returned when nothing is stored for habitgarden.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrUnavailable is returned when the OS keyring cannot be reached.
	ErrUnavailable = errors.New("OS keyring is not available")
)

// ConnectionString returns the stored connection string.
func ConnectionString() (string, error) {
	connStr, err := gokeyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return connStr, nil
}

// SetConnectionString stores connStr, replacing any previous value.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := gokeyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteConnectionString removes the stored connection string.
func DeleteConnectionString() error {
	err := gokeyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if errors.Is(err, gokeyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Available reports whether the OS keyring answers at all. An empty keyring
// counts as available.
func Available() bool {
	_, err := gokeyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, gokeyring.ErrNotFound)
}
