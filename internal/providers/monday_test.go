package providers_test

import (
	"testing"

	"github.com/amiad5298/ingot/internal/providers"
	"github.com/amiad5298/ingot/pkg/models"
)

func TestMondayProvider_ParseInputIdempotent(t *testing.T) {
	p := providers.NewMondayProvider(providers.ProviderDeps{})
	cases := []string{
		"111/222",
		"https://acme.monday.com/boards/111/pulses/222",
		"https://acme.monday.com/boards/111/pulses/222/a-descriptive-slug",
	}
	for _, c := range cases {
		id, err := p.ParseInput(c)
		if err != nil {
			t.Fatalf("ParseInput(%q) error = %v", c, err)
		}
		if id != "111/222" {
			t.Errorf("ParseInput(%q) = %q, want 111/222 (slug discarded from id)", c, id)
		}
		if !p.CanHandle(id) {
			t.Errorf("CanHandle(ParseInput(%q)) = false", c)
		}
	}
}

func TestMondayProvider_BareNumericNotHandled(t *testing.T) {
	p := providers.NewMondayProvider(providers.ProviderDeps{})
	if p.CanHandle("123456789") {
		t.Error("CanHandle(bare numeric) = true; Monday has no bare-numeric id form")
	}
}

func TestMondayProvider_Normalize(t *testing.T) {
	p := providers.NewMondayProvider(providers.ProviderDeps{})
	raw := map[string]any{
		"id":   "222",
		"name": "Ship the release",
		"board": map[string]any{"id": "111", "name": "Engineering"},
		"column_values": []any{
			map[string]any{"id": "status", "type": "status", "text": "Working on it"},
			map[string]any{"id": "person", "type": "person", "text": "Sam"},
		},
	}
	ticket, err := p.Normalize(raw, "111/222")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if ticket.Status != models.StatusInProgress {
		t.Errorf("Status = %q, want in_progress", ticket.Status)
	}
	if ticket.Assignee == nil || *ticket.Assignee != "Sam" {
		t.Errorf("Assignee = %v", ticket.Assignee)
	}
	if ticket.PlatformMetadata["board_id"] != "111" {
		t.Errorf("board_id metadata = %v", ticket.PlatformMetadata["board_id"])
	}
}

func TestMondayProvider_TypeLabelScanAndColumnsMetadata(t *testing.T) {
	p := providers.NewMondayProvider(providers.ProviderDeps{})
	raw := map[string]any{
		"id":   "222",
		"name": "Fix the release",
		"board": map[string]any{"id": "111", "name": "Engineering"},
		"column_values": []any{
			map[string]any{"id": "status", "type": "status", "text": "Working on it"},
			map[string]any{"id": "tags", "type": "tags", "text": "bug, urgent"},
			map[string]any{"id": "text", "type": "text", "text": "Some detail"},
		},
	}
	ticket, err := p.Normalize(raw, "111/222")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if ticket.Type != models.TypeBug {
		t.Errorf("Type = %q, want bug", ticket.Type)
	}
	cols, ok := ticket.PlatformMetadata["columns"].(map[string]string)
	if !ok {
		t.Fatalf("columns metadata = %v, want map[string]string", ticket.PlatformMetadata["columns"])
	}
	if cols["tags"] != "bug, urgent" {
		t.Errorf("columns[tags] = %q, want %q", cols["tags"], "bug, urgent")
	}
	if cols["text"] != "Some detail" {
		t.Errorf("columns[text] = %q, want %q", cols["text"], "Some detail")
	}
	if _, statusPresent := cols["status"]; statusPresent {
		t.Error("columns should omit the status column (its own mondayStatusTable signal)")
	}
}

func TestMondayProvider_TypeDefaultsUnknownWithoutLabels(t *testing.T) {
	p := providers.NewMondayProvider(providers.ProviderDeps{})
	raw := map[string]any{
		"id":   "333",
		"name": "No labels here",
	}
	ticket, err := p.Normalize(raw, "111/333")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if ticket.Type != models.TypeUnknown {
		t.Errorf("Type = %q, want unknown (no labels to scan)", ticket.Type)
	}
}
