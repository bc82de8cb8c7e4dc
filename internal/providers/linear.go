package providers

import (
	"regexp"
	"strings"
	"time"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

var (
	linearIDPattern  = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+$`)
	linearURLPattern = regexp.MustCompile(`^https://linear\.app/[a-zA-Z0-9_-]+/issue/([A-Z][A-Z0-9]*-\d+)(?:/.*)?$`)
)

// linearStateTypeTable maps Linear's workflow state "type" (a small
// closed vocabulary Linear itself defines) to a canonical status. This
// is the fallback signal, consulted only when linearStateNameTable has
// no entry for the state's name.
var linearStateTypeTable = map[string]models.TicketStatus{
	"triage":    models.StatusOpen,
	"backlog":   models.StatusOpen,
	"unstarted": models.StatusOpen,
	"started":   models.StatusInProgress,
	"completed": models.StatusDone,
	"canceled":  models.StatusClosed,
}

// linearStateNameTable maps the specific, free-form workflow state
// *names* teams commonly configure in Linear to a canonical status.
// This table is consulted before linearStateTypeTable: a name match
// here always wins, because a name like "Code Review" carries more
// specific lifecycle meaning than its underlying type ("started").
var linearStateNameTable = map[string]models.TicketStatus{
	"in review":      models.StatusReview,
	"review":         models.StatusReview,
	"code review":    models.StatusReview,
	"pending review": models.StatusReview,
	"todo":           models.StatusOpen,
	"to do":          models.StatusOpen,
	"ready":          models.StatusOpen,
	"backlog":        models.StatusOpen,
	"triage":         models.StatusOpen,
	"in progress":    models.StatusInProgress,
	"in development": models.StatusInProgress,
	"done":           models.StatusDone,
	"complete":       models.StatusDone,
	"completed":      models.StatusDone,
	"canceled":       models.StatusClosed,
	"cancelled":      models.StatusClosed,
}

// linearLabelTypeTable drives Linear's label-keyword type inference.
// Unlike status, Linear carries no structured "type" field at all —
// every signal comes from label text.
var linearLabelTypeTable = []struct {
	keyword string
	ttype   models.TicketType
}{
	{"bug", models.TypeBug},
	{"feature", models.TypeFeature},
	{"enhancement", models.TypeFeature},
	{"task", models.TypeTask},
	{"chore", models.TypeMaintenance},
	{"maintenance", models.TypeMaintenance},
	{"documentation", models.TypeMaintenance},
}

// inferLinearType scans labels for a type keyword, defaulting to
// TypeFeature (not TypeUnknown) when nothing matches — Linear's own
// default for untyped work, per its issue-tracker conventions.
func inferLinearType(labels []string) models.TicketType {
	for _, l := range labels {
		lower := strings.ToLower(l)
		for _, entry := range linearLabelTypeTable {
			if strings.Contains(lower, entry.keyword) {
				return entry.ttype
			}
		}
	}
	return models.TypeFeature
}

type linearProvider struct {
	baseURL string
}

// NewLinearProvider is the ProviderFactory for Linear.
func NewLinearProvider(deps ProviderDeps) Provider {
	return &linearProvider{baseURL: deps.BaseURL}
}

func (p *linearProvider) Platform() models.PlatformTag { return models.PlatformLinear }
func (p *linearProvider) Name() string                 { return "linear" }

func (p *linearProvider) CanHandle(input string) bool {
	trimmed := strings.TrimSpace(input)
	return linearURLPattern.MatchString(trimmed) || linearIDPattern.MatchString(trimmed)
}

func (p *linearProvider) ParseInput(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if m := linearURLPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1], nil
	}
	if linearIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}
	return "", ticketerrors.NewTicketIDFormat("linear", input, "does not match ENG-42 or a linear.app issue URL")
}

func (p *linearProvider) Normalize(raw map[string]any, id string) (*models.Ticket, error) {
	ticketID := SafeNestedGetString(raw, "identifier", id)
	if strings.TrimSpace(ticketID) == "" {
		return nil, ticketerrors.NewTicketValidation("linear", "missing issue identifier")
	}

	title := SafeNestedGetString(raw, "title", "")
	description := SafeNestedGetString(raw, "description", "")

	stateType := strings.ToLower(SafeNestedGetString(raw, "state.type", ""))
	stateName := SafeNestedGetString(raw, "state.name", "")

	// The state *name* table is the primary signal — it is checked
	// first and, on a match, wins outright over the type-derived
	// status — because a specific name like "Code Review" carries more
	// lifecycle meaning than its underlying type ("started"). Only when
	// the name doesn't match anything known does the type table apply.
	status, ok := linearStateNameTable[strings.ToLower(stateName)]
	if !ok {
		status, ok = linearStateTypeTable[stateType]
		if !ok {
			status = models.StatusUnknown
		}
	}

	var assignee *string
	if name := SafeNestedGetString(raw, "assignee.name", ""); name != "" {
		assignee = &name
	}

	var labels []string
	if nodes, ok := SafeNestedGet(raw, "labels.nodes", nil).([]any); ok {
		names := make([]any, 0, len(nodes))
		for _, n := range nodes {
			if m, ok := n.(map[string]any); ok {
				names = append(names, SafeNestedGetString(m, "name", ""))
			}
		}
		labels = DedupeLabels(names)
	}

	ttype := inferLinearType(labels)

	createdAt, _ := ParseISOTimestamp(SafeNestedGetString(raw, "createdAt", ""))
	updatedAt, _ := ParseISOTimestamp(SafeNestedGetString(raw, "updatedAt", ""))

	issueURL := SafeNestedGetString(raw, "url", "")
	if issueURL == "" && p.baseURL != "" {
		issueURL = strings.TrimRight(p.baseURL, "/") + "/issue/" + ticketID
	}

	meta := map[string]any{
		"team_key":  SafeNestedGetString(raw, "team.key", ""),
		"team_name": SafeNestedGetString(raw, "team.name", ""),
		"priority":  SafeNestedGet(raw, "priority", nil),
		"_internal": map[string]any{
			"raw_state_type":    stateType,
			"raw_state_name":    stateName,
			"source_fetched_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	return &models.Ticket{
		ID:               ticketID,
		Platform:         models.PlatformLinear,
		URL:              issueURL,
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

func (p *linearProvider) PromptTemplate() string {
	return "Fetch Linear issue {ticket_id} and return ONLY a JSON object with fields: " +
		"identifier, title, description, state (name, type), assignee, labels (nodes: name), createdAt, updatedAt, url, priority, team (key, name)."
}
