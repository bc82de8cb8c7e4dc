package auth_test

import (
	"testing"

	"github.com/amiad5298/ingot/internal/auth"
	"github.com/amiad5298/ingot/pkg/models"
)

func TestStaticAuthManager_ConfiguredWhenAllKeysPresent(t *testing.T) {
	m := auth.NewStaticAuthManager(map[models.PlatformTag]map[string]string{
		models.PlatformJira: {"url": "https://acme.atlassian.net", "email": "a@b.com", "token": "tok"},
	})
	creds := m.Credentials(models.PlatformJira)
	if !creds.IsConfigured {
		t.Errorf("IsConfigured = false, want true: %s", creds.ErrorMessage)
	}
}

func TestStaticAuthManager_MissingKeyIsNotConfigured(t *testing.T) {
	m := auth.NewStaticAuthManager(map[models.PlatformTag]map[string]string{
		models.PlatformJira: {"url": "https://acme.atlassian.net"},
	})
	creds := m.Credentials(models.PlatformJira)
	if creds.IsConfigured {
		t.Error("IsConfigured = true, want false (missing email/token)")
	}
	if creds.ErrorMessage == "" {
		t.Error("expected an actionable ErrorMessage")
	}
}

func TestStaticAuthManager_UnknownPlatform(t *testing.T) {
	m := auth.NewStaticAuthManager(nil)
	creds := m.Credentials(models.PlatformTag("unknown"))
	if creds.IsConfigured {
		t.Error("IsConfigured = true for an unknown platform")
	}
}
