package providers

import (
	"regexp"
	"strings"
	"time"

	"github.com/amiad5298/ingot/internal/ticketerrors"
	"github.com/amiad5298/ingot/pkg/models"
)

var (
	// mondayURLPattern captures board id, pulse id, and an optional
	// single trailing slug segment Monday sometimes appends
	// ("/pulses/222/some-title"). The slug is discarded: it is not part
	// of the canonical id and is not stored in platform_metadata.
	mondayURLPattern = regexp.MustCompile(`^https://[a-zA-Z0-9-]+\.monday\.com/boards/(\d+)/pulses/(\d+)(?:/([\w-]+))?$`)
	mondayIDPattern  = regexp.MustCompile(`^(\d+)/(\d+)$`)
)

var mondayStatusTable = map[string]models.TicketStatus{
	"not started":    models.StatusOpen,
	"working on it":  models.StatusInProgress,
	"in progress":    models.StatusInProgress,
	"stuck":          models.StatusBlocked,
	"waiting review": models.StatusReview,
	"done":           models.StatusDone,
	"closed":         models.StatusClosed,
}

// mondayLabelTypeTable drives Monday's label-keyword type inference.
// Monday has no structured "type" column of its own — the signal
// comes from whatever tag/label text a board's "tags" (dropdown-type)
// column carries, same as the other label-scanning providers.
var mondayLabelTypeTable = []struct {
	keyword string
	ttype   models.TicketType
}{
	{"bug", models.TypeBug},
	{"feature", models.TypeFeature},
	{"enhancement", models.TypeFeature},
	{"task", models.TypeTask},
	{"chore", models.TypeMaintenance},
	{"maintenance", models.TypeMaintenance},
}

func inferMondayType(labels []string) models.TicketType {
	for _, l := range labels {
		lower := strings.ToLower(l)
		for _, entry := range mondayLabelTypeTable {
			if strings.Contains(lower, entry.keyword) {
				return entry.ttype
			}
		}
	}
	return models.TypeUnknown
}

type mondayProvider struct {
	baseURL string
}

// NewMondayProvider is the ProviderFactory for Monday.com.
func NewMondayProvider(deps ProviderDeps) Provider {
	return &mondayProvider{baseURL: deps.BaseURL}
}

func (p *mondayProvider) Platform() models.PlatformTag { return models.PlatformMonday }
func (p *mondayProvider) Name() string                 { return "monday" }

func (p *mondayProvider) CanHandle(input string) bool {
	trimmed := strings.TrimSpace(input)
	return mondayURLPattern.MatchString(trimmed) || mondayIDPattern.MatchString(trimmed)
}

func (p *mondayProvider) ParseInput(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if m := mondayURLPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1] + "/" + m[2], nil
	}
	if mondayIDPattern.MatchString(trimmed) {
		return trimmed, nil
	}
	return "", ticketerrors.NewTicketIDFormat("monday", input, "does not match board/pulse id or a monday.com pulse URL")
}

func (p *mondayProvider) Normalize(raw map[string]any, id string) (*models.Ticket, error) {
	pulseID := SafeNestedGetString(raw, "id", "")
	if pulseID == "" {
		return nil, ticketerrors.NewTicketValidation("monday", "missing pulse id")
	}

	title := SafeNestedGetString(raw, "name", "")

	var statusText, assigneeText string
	var description string
	var labels []string
	columns := map[string]string{}
	if cols, ok := raw["column_values"].([]any); ok {
		for _, c := range cols {
			col, ok := c.(map[string]any)
			if !ok {
				continue
			}
			colType := SafeNestedGetString(col, "type", "")
			colText := SafeNestedGetString(col, "text", "")
			switch colType {
			case "status":
				statusText = colText
			case "person":
				assigneeText = colText
			case "long-text", "text":
				if description == "" {
					description = colText
				}
			case "tags", "dropdown":
				for _, part := range strings.Split(colText, ",") {
					labels = append(labels, part)
				}
			}
			if colID := SafeNestedGetString(col, "id", ""); colID != "" && colType != "status" {
				columns[colID] = colText
			}
		}
	}
	rawLabels := make([]any, len(labels))
	for i, l := range labels {
		rawLabels[i] = l
	}
	labels = DedupeLabels(rawLabels)

	status, ok := mondayStatusTable[strings.ToLower(statusText)]
	if !ok {
		status = models.StatusUnknown
	}

	ttype := inferMondayType(labels)

	var assignee *string
	if assigneeText != "" {
		assignee = &assigneeText
	}

	createdAt, _ := ParseISOTimestamp(SafeNestedGetString(raw, "created_at", ""))
	updatedAt, _ := ParseISOTimestamp(SafeNestedGetString(raw, "updated_at", ""))

	boardID := SafeNestedGetString(raw, "board.id", "")
	boardName := SafeNestedGetString(raw, "board.name", "")

	pulseURL := ""
	if p.baseURL != "" {
		pulseURL = strings.TrimRight(p.baseURL, "/") + "/boards/" + boardID + "/pulses/" + pulseID
	}

	meta := map[string]any{
		"board_id":   boardID,
		"board_name": boardName,
		"columns":    columns,
		"_internal": map[string]any{
			"raw_status_text":   statusText,
			"source_fetched_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	return &models.Ticket{
		ID:               id,
		Platform:         models.PlatformMonday,
		URL:              pulseURL,
		Title:            title,
		Description:      description,
		Status:           status,
		Type:             ttype,
		Assignee:         assignee,
		Labels:           labels,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
		BranchSummary:    models.BranchSlug(id, title),
		PlatformMetadata: meta,
	}, nil
}

func (p *mondayProvider) PromptTemplate() string {
	return "Fetch Monday.com pulse {ticket_id} (board_id/pulse_id) and return ONLY a JSON object with fields: " +
		"id, name, board (id, name), column_values (id, type, text), created_at, updated_at."
}
