package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the engine's secrets in the OS keychain.
const KeyringService = "coursehub"

// GetPortalPassword looks up the provider portal password for the given
// keyring account. Passwords never live in the config file.
func GetPortalPassword(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, keyringAccount)
	if err != nil || strings.TrimSpace(pw) == "" {
		return "", errors.New("portal password not found (set it via the secrets endpoint)")
	}
	return pw, nil
}

func SetPortalPassword(keyringAccount string, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeletePortalPassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}

// PortalKeyringAccount derives a stable keychain account name from the
// portal username so rotating the username rotates the secret slot too.
func PortalKeyringAccount(username string) string {
	return fmt.Sprintf("coursehub:portal:%s", username)
}
