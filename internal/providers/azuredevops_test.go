package providers_test

import (
	"testing"

	"github.com/amiad5298/ingot/internal/providers"
	"github.com/amiad5298/ingot/pkg/models"
)

func TestAzureDevOpsProvider_ParseInputIdempotent(t *testing.T) {
	p := providers.NewAzureDevOpsProvider(providers.ProviderDeps{DefaultProjectKey: "Widgets"})
	cases := []string{
		"https://dev.azure.com/acme-corp/Widgets/_workitems/edit/555",
		"Widgets#555",
		"555",
	}
	for _, c := range cases {
		id, err := p.ParseInput(c)
		if err != nil {
			t.Fatalf("ParseInput(%q) error = %v", c, err)
		}
		if !p.CanHandle(id) {
			t.Errorf("CanHandle(ParseInput(%q)) = false (id=%q)", c, id)
		}
	}
}

func TestAzureDevOpsProvider_Normalize(t *testing.T) {
	p := providers.NewAzureDevOpsProvider(providers.ProviderDeps{})
	raw := map[string]any{
		"id": float64(555),
		"fields": map[string]any{
			"System.Title":        "Investigate memory leak",
			"System.Description":  "Heap grows unbounded under load.",
			"System.State":        "Active",
			"System.WorkItemType": "Bug",
			"System.AssignedTo":   map[string]any{"displayName": "Alex Kim"},
			"System.Tags":         "perf; backend",
			"System.CreatedDate":  "2024-02-01T00:00:00Z",
			"System.ChangedDate":  "2024-02-03T00:00:00Z",
		},
	}
	ticket, err := p.Normalize(raw, "Widgets#555")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if ticket.Status != models.StatusInProgress {
		t.Errorf("Status = %q, want in_progress", ticket.Status)
	}
	if ticket.Type != models.TypeBug {
		t.Errorf("Type = %q, want bug", ticket.Type)
	}
	if len(ticket.Labels) != 2 {
		t.Errorf("Labels = %v, want [perf backend]", ticket.Labels)
	}
}
