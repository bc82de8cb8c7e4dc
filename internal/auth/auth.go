// Package auth supplies the per-platform Credentials a direct-API
// fetch needs, decoupled from how they were sourced (environment,
// config file, secrets manager).
package auth

import "github.com/amiad5298/ingot/pkg/models"

// requiredKeys lists the canonical credential keys each platform's
// Handler needs, for IsConfigured validation.
var requiredKeys = map[models.PlatformTag][]string{
	models.PlatformJira:        {"url", "email", "token"},
	models.PlatformGitHub:      {"token"},
	models.PlatformAzureDevOps: {"organization", "pat"},
	models.PlatformTrello:      {"key", "token"},
	models.PlatformLinear:      {"api_key"},
	models.PlatformMonday:      {"api_key"},
}

// AuthManager resolves Credentials for a platform.
type AuthManager interface {
	Credentials(platform models.PlatformTag) models.Credentials
}

// StaticAuthManager serves credentials from a fixed, pre-loaded map
// (typically populated once at startup from internal/config), never
// refreshing or re-reading its source.
type StaticAuthManager struct {
	byPlatform map[models.PlatformTag]map[string]string
}

// NewStaticAuthManager builds a StaticAuthManager from a nested map of
// platform -> credential key -> value.
func NewStaticAuthManager(byPlatform map[models.PlatformTag]map[string]string) *StaticAuthManager {
	return &StaticAuthManager{byPlatform: byPlatform}
}

func (m *StaticAuthManager) Credentials(platform models.PlatformTag) models.Credentials {
	values := m.byPlatform[platform]
	required, known := requiredKeys[platform]
	if !known {
		return models.Credentials{Platform: platform, ErrorMessage: "no credential schema known for this platform"}
	}

	missing := missingKeys(values, required)
	if len(missing) > 0 {
		return models.Credentials{
			Platform:     platform,
			Values:       values,
			IsConfigured: false,
			ErrorMessage: "missing required credential(s) for " + platform.String() + ": " + joinKeys(missing),
		}
	}
	return models.Credentials{Platform: platform, Values: values, IsConfigured: true}
}

func missingKeys(values map[string]string, required []string) []string {
	var missing []string
	for _, k := range required {
		if values[k] == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

func joinKeys(keys []string) string {
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}
