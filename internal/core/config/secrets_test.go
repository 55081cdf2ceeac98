package config

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestAuthSecret(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv(AuthSecretEnv, "")
		secret, err := AuthSecret()
		if err != nil || secret != nil {
			t.Errorf("AuthSecret() = (%v, %v), want (nil, nil)", secret, err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		raw := bytes.Repeat([]byte{0x42}, 32)
		t.Setenv(AuthSecretEnv, " "+base64.StdEncoding.EncodeToString(raw)+"\n")
		secret, err := AuthSecret()
		if err != nil {
			t.Fatalf("AuthSecret() error = %v", err)
		}
		if !bytes.Equal(secret, raw) {
			t.Errorf("AuthSecret() = %x, want %x", secret, raw)
		}
	})

	t.Run("not base64", func(t *testing.T) {
		t.Setenv(AuthSecretEnv, "not base64!")
		if _, err := AuthSecret(); err == nil {
			t.Error("AuthSecret() accepted invalid base64")
		}
	})

	t.Run("too short", func(t *testing.T) {
		t.Setenv(AuthSecretEnv, base64.StdEncoding.EncodeToString([]byte("short")))
		if _, err := AuthSecret(); err == nil {
			t.Error("AuthSecret() accepted a 5-byte secret")
		}
	})
}
