// Package config loads the ticket acquisition core's configuration
// from environment variables: which agent backend (if any) is wired
// as primary, per-platform credentials and defaults, and cache sizing.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/amiad5298/ingot/pkg/models"
)

// Config holds everything cmd/ticketctl needs to compose a Service.
type Config struct {
	Port    int
	Version string

	// AgentBackend names the CLI to use as the primary mediated
	// fetcher ("auggie", "claude", "cursor", or "" for none — direct
	// API becomes the sole mechanism).
	AgentBackend string
	AgentTimeout time.Duration

	CacheTTL     time.Duration
	CacheMaxSize int
	// CacheDir, if set, selects the file-backed cache tier instead of
	// the default in-memory one.
	CacheDir string

	Providers ProviderDefaults

	// Credentials maps platform -> canonical credential key -> value,
	// already resolved through credentialKeyAliases by loadCredentials below.
	Credentials map[models.PlatformTag]map[string]string
}

// ProviderDefaults mirrors providers.ProviderDeps so config stays
// decoupled from the providers package's import graph.
type ProviderDefaults struct {
	DefaultProjectKey string
	DefaultOwner      string
	DefaultRepo       string
	EnterpriseHost    string
	BaseURL           string
}

// credentialKeyAliases lists, per platform and canonical key, the
// environment variable names accepted for it, tried in order. This
// lets "JIRA_TOKEN" and the more explicit "JIRA_API_TOKEN" both work
// without every deployment needing to agree on one spelling.
var credentialKeyAliases = map[models.PlatformTag]map[string][]string{
	models.PlatformJira: {
		"url":   {"JIRA_URL", "JIRA_BASE_URL"},
		"email": {"JIRA_EMAIL", "JIRA_USER"},
		"token": {"JIRA_TOKEN", "JIRA_API_TOKEN"},
	},
	models.PlatformGitHub: {
		"token": {"GITHUB_TOKEN", "GH_TOKEN"},
	},
	models.PlatformAzureDevOps: {
		"organization": {"AZURE_DEVOPS_ORG", "AZDO_ORGANIZATION"},
		"pat":          {"AZURE_DEVOPS_PAT", "AZDO_PAT"},
	},
	models.PlatformTrello: {
		"key":   {"TRELLO_KEY", "TRELLO_API_KEY"},
		"token": {"TRELLO_TOKEN", "TRELLO_API_TOKEN"},
	},
	models.PlatformLinear: {
		"api_key": {"LINEAR_API_KEY", "LINEAR_TOKEN"},
	},
	models.PlatformMonday: {
		"api_key": {"MONDAY_API_KEY", "MONDAY_TOKEN"},
	},
}

// Load reads configuration from environment variables with sensible
// defaults; nothing here is required to be set for the service to
// construct — an unconfigured platform simply reports
// CredentialValidation when a direct fetch is attempted against it.
func Load() *Config {
	return &Config{
		Port:    envInt("TICKETCTL_PORT", 8080),
		Version: envStr("TICKETCTL_VERSION", "0.1.0"),

		AgentBackend: envStr("TICKETCTL_AGENT_BACKEND", ""),
		AgentTimeout: envDuration("TICKETCTL_AGENT_TIMEOUT_SECONDS", 60*time.Second),

		CacheTTL:     envDuration("TICKETCTL_CACHE_TTL_SECONDS", time.Hour),
		CacheMaxSize: envInt("TICKETCTL_CACHE_MAX_SIZE", 500),
		CacheDir:     envStr("TICKETCTL_CACHE_DIR", ""),

		Providers: ProviderDefaults{
			DefaultProjectKey: envStr("TICKETCTL_DEFAULT_PROJECT_KEY", ""),
			DefaultOwner:      envStr("TICKETCTL_DEFAULT_OWNER", ""),
			DefaultRepo:       envStr("TICKETCTL_DEFAULT_REPO", ""),
			EnterpriseHost:    envStr("TICKETCTL_GITHUB_ENTERPRISE_HOST", ""),
			BaseURL:           envStr("TICKETCTL_BASE_URL", ""),
		},

		Credentials: loadCredentials(),
	}
}

func loadCredentials() map[models.PlatformTag]map[string]string {
	out := make(map[models.PlatformTag]map[string]string, len(credentialKeyAliases))
	for platform, keys := range credentialKeyAliases {
		values := make(map[string]string, len(keys))
		for canonical, envNames := range keys {
			for _, name := range envNames {
				if v := os.Getenv(name); v != "" {
					values[canonical] = v
					break
				}
			}
		}
		out[platform] = values
	}
	return out
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
