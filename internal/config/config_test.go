package config_test

import (
	"testing"

	"github.com/amiad5298/ingot/internal/config"
	"github.com/amiad5298/ingot/pkg/models"
)

func TestLoad_Defaults(t *testing.T) {
	c := config.Load()
	if c.Port != 8080 {
		t.Errorf("Port = %d, want 8080", c.Port)
	}
	if c.CacheMaxSize != 500 {
		t.Errorf("CacheMaxSize = %d, want 500", c.CacheMaxSize)
	}
}

func TestLoad_CredentialAliasing(t *testing.T) {
	t.Setenv("JIRA_API_TOKEN", "secret-token")
	t.Setenv("JIRA_URL", "https://acme.atlassian.net")
	t.Setenv("JIRA_EMAIL", "a@b.com")

	c := config.Load()
	jira := c.Credentials[models.PlatformJira]
	if jira["token"] != "secret-token" {
		t.Errorf("token = %q, want secret-token (via JIRA_API_TOKEN alias)", jira["token"])
	}
	if jira["url"] != "https://acme.atlassian.net" {
		t.Errorf("url = %q", jira["url"])
	}
}

func TestLoad_PreferredAliasWinsOverFallback(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "primary")
	t.Setenv("GH_TOKEN", "fallback")

	c := config.Load()
	if c.Credentials[models.PlatformGitHub]["token"] != "primary" {
		t.Errorf("token = %q, want primary (GITHUB_TOKEN takes priority over GH_TOKEN)", c.Credentials[models.PlatformGitHub]["token"])
	}
}
