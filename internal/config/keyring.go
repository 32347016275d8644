package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the OS keyring service name passwords are stored under.
const KeyringService = "rentalviz"

// ResolvePassword fills in the connection password from the OS keyring when
// neither the config file nor the environment provided one. A missing keyring
// entry is not an error.
func ResolvePassword(c *Connection) error {
	if c.Password != "" {
		return nil
	}

	pw, err := keyring.Get(KeyringService, c.DisplayString())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("keyring lookup: %w", err)
	}
	c.Password = pw
	return nil
}

// StorePassword saves the password for a connection in the OS keyring.
func StorePassword(c Connection, password string) error {
	if password == "" {
		return errors.New("empty password")
	}
	if err := keyring.Set(KeyringService, c.DisplayString(), password); err != nil {
		return fmt.Errorf("keyring store: %w", err)
	}
	return nil
}
