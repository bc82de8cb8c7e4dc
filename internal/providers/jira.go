package providers

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

var (
	jiraIDPattern  = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`)
	jiraURLPattern = regexp.MustCompile(`^https://[a-zA-Z0-9.-]+\.atlassian\.net/browse/([A-Z][A-Z0-9]*-\d+)$`)
	jiraNumericOnly = regexp.MustCompile(`^\d+$`)
)

var jiraStatusTable = map[string]models.TicketStatus{
	"to do":       models.StatusOpen,
	"open":        models.StatusOpen,
	"backlog":     models.StatusOpen,
	"in progress": models.StatusInProgress,
	"in review":   models.StatusReview,
	"code review": models.StatusReview,
	"review":      models.StatusReview,
	"done":        models.StatusDone,
	"resolved":    models.StatusDone,
	"closed":      models.StatusClosed,
	"blocked":     models.StatusBlocked,
}

var jiraTypeTable = map[string]models.TicketType{
	"bug":         models.TypeBug,
	"story":       models.TypeFeature,
	"feature":     models.TypeFeature,
	"task":        models.TypeTask,
	"sub-task":    models.TypeTask,
	"improvement": models.TypeMaintenance,
	"chore":       models.TypeMaintenance,
}

type jiraProvider struct {
	defaultProjectKey string
	baseURL           string
}

// NewJiraProvider is the ProviderFactory for Jira.
func NewJiraProvider(deps ProviderDeps) Provider {
	return &jiraProvider{defaultProjectKey: deps.DefaultProjectKey, baseURL: deps.BaseURL}
}

func (p *jiraProvider) Platform() models.PlatformTag { return models.PlatformJira }
func (p *jiraProvider) Name() string                 { return "jira" }

func (p *jiraProvider) CanHandle(input string) bool {
	trimmed := strings.TrimSpace(input)
	if jiraURLPattern.MatchString(trimmed) {
		return true
	}
	if jiraIDPattern.MatchString(trimmed) {
		return true
	}
	if jiraNumericOnly.MatchString(trimmed) {
		return p.defaultProjectKey != ""
	}
	return false
}

func (p *jiraProvider) ParseInput(input string) (string, error) {
	trimmed := strings.TrimSpace(input)

	if m := jiraURLPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1], nil
	}
	if jiraIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}
	if jiraNumericOnly.MatchString(trimmed) {
		if p.defaultProjectKey == "" {
			return "", ticketerrors.NewTicketIDFormat("jira", input, "bare numeric id requires a configured default project key")
		}
		return fmt.Sprintf("%s-%s", p.defaultProjectKey, trimmed), nil
	}
	return "", ticketerrors.NewTicketIDFormat("jira", input, "does not match PROJECT-123 or a Jira browse URL")
}

func (p *jiraProvider) Normalize(raw map[string]any, id string) (*models.Ticket, error) {
	ticketID := SafeNestedGetString(raw, "key", id)
	if strings.TrimSpace(ticketID) == "" {
		return nil, ticketerrors.NewTicketValidation("jira", "missing issue key")
	}

	fields, _ := raw["fields"].(map[string]any)

	title := SafeNestedGetString(raw, "summary", "")
	if title == "" {
		title = SafeNestedGetString(fields, "summary", "")
	}

	description, descRaw := extractJiraDescription(fields)

	statusName := SafeNestedGetString(fields, "status.name", "")
	status, ok := jiraStatusTable[strings.ToLower(statusName)]
	if !ok {
		status = models.StatusUnknown
	}

	typeName := SafeNestedGetString(fields, "issuetype.name", "")
	ttype, ok := jiraTypeTable[strings.ToLower(typeName)]
	if !ok {
		ttype = models.TypeUnknown
	}

	var assignee *string
	if name := SafeNestedGetString(fields, "assignee.displayName", ""); name != "" {
		assignee = &name
	}

	var labels []string
	if raw, ok := fields["labels"].([]any); ok {
		labels = DedupeLabels(raw)
	}

	createdAt, _ := ParseISOTimestamp(SafeNestedGetString(fields, "created", ""))
	updatedAt, _ := ParseISOTimestamp(SafeNestedGetString(fields, "updated", ""))

	browseURL := reconstructJiraURL(raw, ticketID, p.baseURL)

	meta := map[string]any{
		"priority":      SafeNestedGetString(fields, "priority.name", ""),
		"project_key":   SafeNestedGetString(fields, "project.key", ""),
		"project_name":  SafeNestedGetString(fields, "project.name", ""),
		"description_raw": descRaw,
		"_internal": map[string]any{
			"raw_state":         statusName,
			"source_fetched_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	return &models.Ticket{
		ID:               ticketID,
		Platform:         models.PlatformJira,
		URL:              browseURL,
		Title:            title,
		Description:      description,
		Status:           status,
		Type:             ttype,
		Assignee:         assignee,
		Labels:           labels,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
		BranchSummary:    models.BranchSlug(ticketID, title),
		PlatformMetadata: meta,
	}, nil
}

func (p *jiraProvider) PromptTemplate() string {
	return "Fetch Jira issue {ticket_id} and return ONLY a JSON object with fields: " +
		"key, summary, self, fields (summary, description, status, issuetype, assignee, labels, created, updated, priority, project)."
}

// extractJiraDescription collapses an ADF (Atlassian Document Format)
// rich-text body to a short placeholder, preserving the raw structure
// for platform_metadata. A plain string description passes through
// unchanged.
func extractJiraDescription(fields map[string]any) (description string, raw any) {
	d, ok := fields["description"]
	if !ok || d == nil {
		return "", nil
	}
	if s, ok := d.(string); ok {
		return s, nil
	}
	// Non-string (e.g. ADF document node) — collapse, keep raw.
	return "[rich text content]", d
}

func reconstructJiraURL(raw map[string]any, id, baseURL string) string {
	if self, ok := raw["self"].(string); ok && self != "" {
		if u, err := url.Parse(self); err == nil && u.Scheme != "" && u.Host != "" {
			return fmt.Sprintf("%s://%s/browse/%s", u.Scheme, u.Host, id)
		}
	}
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/") + "/browse/" + id
	}
	return ""
}
