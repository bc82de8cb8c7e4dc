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
	azureURLPattern       = regexp.MustCompile(`^https://dev\.azure\.com/([\w.-]+)/([\w.-]+)/_workitems/edit/(\d+)$`)
	azureCompositePattern = regexp.MustCompile(`^([\w.-]+)#(\d+)$`)
	azureNumericOnly      = regexp.MustCompile(`^\d+$`)
)

var azureStateTable = map[string]models.TicketStatus{
	"new":      models.StatusOpen,
	"to do":    models.StatusOpen,
	"approved": models.StatusOpen,
	"active":   models.StatusInProgress,
	"resolved": models.StatusReview,
	"closed":   models.StatusDone,
	"done":     models.StatusDone,
	"removed":  models.StatusClosed,
}

var azureWorkItemTypeTable = map[string]models.TicketType{
	"bug":        models.TypeBug,
	"task":       models.TypeTask,
	"user story": models.TypeFeature,
	"feature":    models.TypeFeature,
	"issue":      models.TypeTask,
}

type azureDevOpsProvider struct {
	defaultProjectKey string
	baseURL           string
}

// NewAzureDevOpsProvider is the ProviderFactory for Azure DevOps.
func NewAzureDevOpsProvider(deps ProviderDeps) Provider {
	return &azureDevOpsProvider{defaultProjectKey: deps.DefaultProjectKey, baseURL: deps.BaseURL}
}

func (p *azureDevOpsProvider) Platform() models.PlatformTag { return models.PlatformAzureDevOps }
func (p *azureDevOpsProvider) Name() string                 { return "azure_devops" }

func (p *azureDevOpsProvider) CanHandle(input string) bool {
	trimmed := strings.TrimSpace(input)
	if azureURLPattern.MatchString(trimmed) {
		return true
	}
	if azureCompositePattern.MatchString(trimmed) {
		return true
	}
	if azureNumericOnly.MatchString(trimmed) {
		return p.defaultProjectKey != ""
	}
	return false
}

func (p *azureDevOpsProvider) ParseInput(input string) (string, error) {
	trimmed := strings.TrimSpace(input)

	if m := azureURLPattern.FindStringSubmatch(trimmed); m != nil {
		return fmt.Sprintf("%s#%s", m[2], m[3]), nil
	}
	if azureCompositePattern.MatchString(trimmed) {
		return trimmed, nil
	}
	if azureNumericOnly.MatchString(trimmed) {
		if p.defaultProjectKey == "" {
			return "", ticketerrors.NewTicketIDFormat("azure_devops", input, "bare numeric id requires a configured default project")
		}
		return fmt.Sprintf("%s#%s", p.defaultProjectKey, trimmed), nil
	}
	return "", ticketerrors.NewTicketIDFormat("azure_devops", input, "does not match PROJECT#123 or a work item URL")
}

func (p *azureDevOpsProvider) Normalize(raw map[string]any, id string) (*models.Ticket, error) {
	idVal := SafeNestedGet(raw, "id", nil)
	if idVal == nil {
		return nil, ticketerrors.NewTicketValidation("azure_devops", "missing work item id")
	}

	fields, _ := raw["fields"].(map[string]any)

	title := SafeNestedGetString(fields, "System.Title", "")
	description := SafeNestedGetString(fields, "System.Description", "")

	stateName := SafeNestedGetString(fields, "System.State", "")
	status, ok := azureStateTable[strings.ToLower(stateName)]
	if !ok {
		status = models.StatusUnknown
	}

	typeName := SafeNestedGetString(fields, "System.WorkItemType", "")
	ttype, ok := azureWorkItemTypeTable[strings.ToLower(typeName)]
	if !ok {
		ttype = models.TypeUnknown
	}

	var assignee *string
	if name := SafeNestedGetString(fields, "System.AssignedTo.displayName", ""); name != "" {
		assignee = &name
	}

	labels := parseAzureTags(SafeNestedGetString(fields, "System.Tags", ""))

	createdAt, _ := ParseISOTimestamp(SafeNestedGetString(fields, "System.CreatedDate", ""))
	updatedAt, _ := ParseISOTimestamp(SafeNestedGetString(fields, "System.ChangedDate", ""))

	workItemURL := ""
	if p.baseURL != "" {
		workItemURL = fmt.Sprintf("%s/_workitems/edit/%v", strings.TrimRight(p.baseURL, "/"), idVal)
	}

	meta := map[string]any{
		"raw_type":  typeName,
		"area_path": SafeNestedGetString(fields, "System.AreaPath", ""),
		"_internal": map[string]any{
			"raw_state":         stateName,
			"source_fetched_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	return &models.Ticket{
		ID:               id,
		Platform:         models.PlatformAzureDevOps,
		URL:              workItemURL,
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

func (p *azureDevOpsProvider) PromptTemplate() string {
	return "Fetch Azure DevOps work item {ticket_id} and return ONLY a JSON object with fields: " +
		"id, url, fields (System.Title, System.Description, System.State, System.WorkItemType, System.AssignedTo, System.Tags, System.CreatedDate, System.ChangedDate)."
}

// parseAzureTags splits Azure DevOps's "tag1; tag2; tag3" semicolon-
// delimited tag string, which System.Tags returns instead of an array.
func parseAzureTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	asAny := make([]any, 0, len(parts))
	for _, p := range parts {
		asAny = append(asAny, p)
	}
	return DedupeLabels(asAny)
}
