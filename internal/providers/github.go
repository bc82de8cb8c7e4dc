package providers

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

var (
	githubCompositePattern = regexp.MustCompile(`^([\w.-]+)/([\w.-]+)#(\d+)$`)
	githubURLPattern       = regexp.MustCompile(`^https://github\.com/([\w.-]+)/([\w.-]+)/issues/(\d+)$`)
	githubBareHashPattern  = regexp.MustCompile(`^#(\d+)$`)
)

var githubLabelTypeTable = []struct {
	keyword string
	ttype   models.TicketType
}{
	{"bug", models.TypeBug},
	{"enhancement", models.TypeFeature},
	{"feature", models.TypeFeature},
	{"documentation", models.TypeMaintenance},
	{"chore", models.TypeMaintenance},
	{"maintenance", models.TypeMaintenance},
}

type githubProvider struct {
	defaultOwner   string
	defaultRepo    string
	enterpriseHost string
}

// NewGitHubProvider is the ProviderFactory for GitHub.
func NewGitHubProvider(deps ProviderDeps) Provider {
	return &githubProvider{
		defaultOwner:   deps.DefaultOwner,
		defaultRepo:    deps.DefaultRepo,
		enterpriseHost: deps.EnterpriseHost,
	}
}

func (p *githubProvider) Platform() models.PlatformTag { return models.PlatformGitHub }
func (p *githubProvider) Name() string                 { return "github" }

func (p *githubProvider) enterpriseURLPattern() *regexp.Regexp {
	if p.enterpriseHost == "" {
		return nil
	}
	return regexp.MustCompile(`^https://` + regexp.QuoteMeta(p.enterpriseHost) + `/([\w.-]+)/([\w.-]+)/issues/(\d+)$`)
}

func (p *githubProvider) CanHandle(input string) bool {
	trimmed := strings.TrimSpace(input)
	if githubURLPattern.MatchString(trimmed) {
		return true
	}
	if re := p.enterpriseURLPattern(); re != nil && re.MatchString(trimmed) {
		return true
	}
	if githubCompositePattern.MatchString(trimmed) {
		return true
	}
	if githubBareHashPattern.MatchString(trimmed) {
		return p.defaultOwner != "" && p.defaultRepo != ""
	}
	return false
}

func (p *githubProvider) ParseInput(input string) (string, error) {
	trimmed := strings.TrimSpace(input)

	if m := githubURLPattern.FindStringSubmatch(trimmed); m != nil {
		return fmt.Sprintf("%s/%s#%s", m[1], m[2], m[3]), nil
	}
	if re := p.enterpriseURLPattern(); re != nil {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return fmt.Sprintf("%s/%s#%s", m[1], m[2], m[3]), nil
		}
	}
	if githubCompositePattern.MatchString(trimmed) {
		return trimmed, nil
	}
	if m := githubBareHashPattern.FindStringSubmatch(trimmed); m != nil {
		if p.defaultOwner == "" || p.defaultRepo == "" {
			return "", ticketerrors.NewTicketIDFormat("github", input, "bare #N reference requires a configured default owner and repo")
		}
		return fmt.Sprintf("%s/%s#%s", p.defaultOwner, p.defaultRepo, m[1]), nil
	}
	return "", ticketerrors.NewTicketIDFormat("github", input, "does not match owner/repo#123 or a GitHub issue URL")
}

func (p *githubProvider) Normalize(raw map[string]any, id string) (*models.Ticket, error) {
	numberVal := SafeNestedGet(raw, "number", nil)
	if numberVal == nil {
		return nil, ticketerrors.NewTicketValidation("github", "missing issue number")
	}

	title := SafeNestedGetString(raw, "title", "")
	description := SafeNestedGetString(raw, "body", "")

	state := strings.ToLower(SafeNestedGetString(raw, "state", ""))
	reason := strings.ToLower(SafeNestedGetString(raw, "state_reason", ""))
	var status models.TicketStatus
	switch {
	case SafeNestedGet(raw, "pull_request.merged_at", nil) != nil || SafeNestedGet(raw, "merged_at", nil) != nil:
		status = models.StatusDone
	case state == "open":
		status = models.StatusOpen
	case state == "closed" && reason == "not_planned":
		status = models.StatusClosed
	case state == "closed":
		status = models.StatusDone
	default:
		status = models.StatusUnknown
	}

	var rawLabels []string
	ttype := models.TypeUnknown
	if labelsList, ok := raw["labels"].([]any); ok {
		names := make([]any, 0, len(labelsList))
		for _, l := range labelsList {
			var name string
			switch v := l.(type) {
			case map[string]any:
				name = SafeNestedGetString(v, "name", "")
			case string:
				name = v
			}
			names = append(names, name)
		}
		rawLabels = DedupeLabels(names)
		ttype = inferGithubType(rawLabels)
	}

	var assignee *string
	if login := SafeNestedGetString(raw, "assignee.login", ""); login != "" {
		assignee = &login
	}

	createdAt, _ := ParseISOTimestamp(SafeNestedGetString(raw, "created_at", ""))
	updatedAt, _ := ParseISOTimestamp(SafeNestedGetString(raw, "updated_at", ""))

	issueURL := SafeNestedGetString(raw, "html_url", "")

	meta := map[string]any{
		"is_pull_request": SafeNestedGet(raw, "pull_request", nil) != nil,
		"_internal": map[string]any{
			"raw_state":         state,
			"raw_state_reason":  reason,
			"source_fetched_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	return &models.Ticket{
		ID:               id,
		Platform:         models.PlatformGitHub,
		URL:              issueURL,
		Title:            title,
		Description:      description,
		Status:           status,
		Type:             ttype,
		Assignee:         assignee,
		Labels:           rawLabels,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
		BranchSummary:    models.BranchSlug(id, title),
		PlatformMetadata: meta,
	}, nil
}

func (p *githubProvider) PromptTemplate() string {
	return "Fetch GitHub issue {ticket_id} and return ONLY a JSON object with fields: " +
		"number, title, body, state, state_reason, assignee, labels, created_at, updated_at, html_url, pull_request."
}

func inferGithubType(labels []string) models.TicketType {
	for _, l := range labels {
		lower := strings.ToLower(l)
		for _, entry := range githubLabelTypeTable {
			if strings.Contains(lower, entry.keyword) {
				return entry.ttype
			}
		}
	}
	return models.TypeUnknown
}
