package auth

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	credentialDir  = ".frame-render"
	credentialFile = "credentials.gpg"
	passphraseFile = "passphrase"
)

// ErrNoAPIKey is returned when no credential source yields a key.
var ErrNoAPIKey = errors.New("API key not found: set GEMINI_API_KEY or store it in ~/.frame-render/credentials.gpg")

// apiKeyEnvVars are checked in order.
var apiKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// GetAPIKey retrieves the generator backend API key.
// Priority order:
//  1. GEMINI_API_KEY, then GOOGLE_API_KEY environment variables
//  2. GPG-encrypted file at ~/.frame-render/credentials.gpg
func GetAPIKey() (string, error) {
	for _, name := range apiKeyEnvVars {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			log.Debug().Str("source", name).Msg("Using API key from environment variable")
			return key, nil
		}
	}

	key, err := getFromGPG()
	if err == nil && key != "" {
		log.Debug().Msg("Using API key from GPG encrypted file")
		return key, nil
	}

	log.Debug().Err(err).Msg("No API key available")
	return "", ErrNoAPIKey
}

// getFromGPG decrypts the API key from the GPG-encrypted credentials file.
func getFromGPG() (string, error) {
	dir, err := getCredentialDir()
	if err != nil {
		return "", err
	}

	credPath := filepath.Join(dir, credentialFile)
	if _, err := os.Stat(credPath); os.IsNotExist(err) {
		return "", fmt.Errorf("GPG credentials file not found at %s", credPath)
	}

	if _, err := exec.LookPath("gpg"); err != nil {
		return "", fmt.Errorf("gpg not found in PATH: %w", err)
	}

	log.Debug().Str("file", credPath).Msg("Decrypting GPG credentials")

	args := []string{"--decrypt", "--quiet", "--batch"}

	// A passphrase file allows non-interactive decryption; it must be owner-only.
	passphrasePath := filepath.Join(dir, passphraseFile)
	if fi, statErr := os.Stat(passphrasePath); statErr == nil {
		if mode := fi.Mode().Perm(); mode&0o077 != 0 {
			log.Warn().
				Str("passphrase_file", passphrasePath).
				Str("permissions", fmt.Sprintf("%04o", mode)).
				Msg("Passphrase file has insecure permissions (should be 0600); skipping")
		} else {
			args = append(args, "--pinentry-mode", "loopback", "--passphrase-file", passphrasePath)
		}
	}

	args = append(args, credPath)
	output, err := exec.Command("gpg", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("GPG decryption failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("GPG decryption failed: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// getCredentialDir returns ~/.frame-render.
func getCredentialDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, credentialDir), nil
}
