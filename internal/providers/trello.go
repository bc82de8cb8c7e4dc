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
	trelloShortLinkPattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)
	trelloURLPattern       = regexp.MustCompile(`^https://trello\.com/c/([A-Za-z0-9]{8})(?:/.*)?$`)
)

var trelloListTable = map[string]models.TicketStatus{
	"backlog":     models.StatusOpen,
	"to do":       models.StatusOpen,
	"in progress": models.StatusInProgress,
	"doing":       models.StatusInProgress,
	"review":      models.StatusReview,
	"in review":   models.StatusReview,
	"done":        models.StatusDone,
}

type trelloProvider struct {
	baseURL string
}

// NewTrelloProvider is the ProviderFactory for Trello.
func NewTrelloProvider(deps ProviderDeps) Provider {
	return &trelloProvider{baseURL: deps.BaseURL}
}

func (p *trelloProvider) Platform() models.PlatformTag { return models.PlatformTrello }
func (p *trelloProvider) Name() string                 { return "trello" }

func (p *trelloProvider) CanHandle(input string) bool {
	trimmed := strings.TrimSpace(input)
	return trelloURLPattern.MatchString(trimmed) || trelloShortLinkPattern.MatchString(trimmed)
}

func (p *trelloProvider) ParseInput(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if m := trelloURLPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1], nil
	}
	if trelloShortLinkPattern.MatchString(trimmed) {
		return trimmed, nil
	}
	return "", ticketerrors.NewTicketIDFormat("trello", input, "does not match an 8-character short link or a trello.com card URL")
}

func (p *trelloProvider) Normalize(raw map[string]any, id string) (*models.Ticket, error) {
	ticketID := SafeNestedGetString(raw, "shortLink", "")
	if ticketID == "" {
		// Fall back to Trello's per-board numeric idShort when the card
		// payload carries no shortLink (e.g. a minimal agent reply).
		if n := SafeNestedGet(raw, "idShort", nil); n != nil {
			ticketID = fmt.Sprint(n)
		}
	}
	if ticketID == "" {
		ticketID = id
	}
	if strings.TrimSpace(ticketID) == "" {
		return nil, ticketerrors.NewTicketValidation("trello", "missing shortLink/idShort")
	}

	title := SafeNestedGetString(raw, "name", "")
	description := SafeNestedGetString(raw, "desc", "")

	listName := SafeNestedGetString(raw, "list.name", "")
	status, ok := trelloListTable[strings.ToLower(listName)]
	if !ok {
		if closed, _ := raw["closed"].(bool); closed {
			status = models.StatusClosed
		} else {
			status = models.StatusUnknown
		}
	}

	ttype := models.TypeUnknown
	var rawLabels []string
	if labelsList, ok := raw["labels"].([]any); ok {
		names := make([]any, 0, len(labelsList))
		for _, l := range labelsList {
			if m, ok := l.(map[string]any); ok {
				names = append(names, SafeNestedGetString(m, "name", ""))
			}
		}
		rawLabels = DedupeLabels(names)
		for _, l := range rawLabels {
			lower := strings.ToLower(l)
			if strings.Contains(lower, "bug") {
				ttype = models.TypeBug
				break
			}
			if strings.Contains(lower, "feature") {
				ttype = models.TypeFeature
				break
			}
		}
	}

	var assignee *string
	if members, ok := raw["members"].([]any); ok && len(members) > 0 {
		if m, ok := members[0].(map[string]any); ok {
			if name := SafeNestedGetString(m, "fullName", ""); name != "" {
				assignee = &name
			}
		}
	}

	updatedAt, _ := ParseISOTimestamp(SafeNestedGetString(raw, "dateLastActivity", ""))

	cardURL := SafeNestedGetString(raw, "url", "")
	if cardURL == "" && p.baseURL != "" {
		cardURL = strings.TrimRight(p.baseURL, "/") + "/c/" + ticketID
	}

	meta := map[string]any{
		"list_name": listName,
		"_internal": map[string]any{
			"raw_closed":        raw["closed"],
			"source_fetched_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	return &models.Ticket{
		ID:               ticketID,
		Platform:         models.PlatformTrello,
		URL:              cardURL,
		Title:            title,
		Description:      description,
		Status:           status,
		Type:             ttype,
		Assignee:         assignee,
		Labels:           rawLabels,
		CreatedAt:        nil,
		UpdatedAt:        updatedAt,
		BranchSummary:    models.BranchSlug(ticketID, title),
		PlatformMetadata: meta,
	}, nil
}

func (p *trelloProvider) PromptTemplate() string {
	return "Fetch Trello card {ticket_id} and return ONLY a JSON object with fields: " +
		"id, shortLink, idShort, name, desc, list (name), labels, members (fullName), dateLastActivity, url, closed."
}
