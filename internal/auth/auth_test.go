package auth

import (
	"errors"
	"path/filepath"
	"testing"

	"google.golang.org/genai"
)

func TestGetAPIKeyFromEnv(t *testing.T) {
	const testKey = "test-api-key-12345"
	t.Setenv("GEMINI_API_KEY", testKey)

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != testKey {
		t.Errorf("expected key %q, got %q", testKey, key)
	}
}

func TestGetAPIKeyFallbackEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	key, err := GetAPIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "google-key" {
		t.Errorf("expected GOOGLE_API_KEY fallback, got %q", key)
	}
}

func TestGetAPIKeyNoSource(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, err := GetAPIKey()
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestGetCredentialDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := getCredentialDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != filepath.Join(home, ".frame-render") {
		t.Errorf("expected %q, got %q", filepath.Join(home, ".frame-render"), dir)
	}
}

func TestGetFromGPGFileNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := getFromGPG(); err == nil {
		t.Error("expected error when credentials file does not exist")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ValidationErrorType
	}{
		{"api 403", genai.APIError{Code: 403, Message: "denied"}, ErrTypeInvalidKey},
		{"api 429", genai.APIError{Code: 429}, ErrTypeQuotaExceeded},
		{"api 503", genai.APIError{Code: 503}, ErrTypeNetworkError},
		{"api 404", genai.APIError{Code: 404, Message: "model not found"}, ErrTypeUnknown},
		{"message key", errors.New("API key not valid. Please pass a valid API key."), ErrTypeInvalidKey},
		{"message dial", errors.New("dial tcp: lookup host: no such host"), ErrTypeNetworkError},
		{"message quota", errors.New("Resource exhausted"), ErrTypeQuotaExceeded},
		{"other", errors.New("boom"), ErrTypeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(tc.err)
			if got.Type != tc.want {
				t.Errorf("classifyError(%v).Type = %v, want %v", tc.err, got.Type, tc.want)
			}
			if !errors.Is(got, tc.err) {
				t.Error("ValidationError does not unwrap to the original error")
			}
		})
	}
}

func TestValidateModel_NilClient(t *testing.T) {
	err := ValidateModel(t.Context(), nil, "imagen-4.0-generate-001")
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Type != ErrTypeNoKey {
		t.Errorf("ValidateModel(nil) = %v, want ErrTypeNoKey", err)
	}
}
