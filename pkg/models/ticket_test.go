package models_test

import (
	"strings"
	"testing"
	"time"

	"github.com/amiad5298/ingot/pkg/models"
)

func TestBranchSlug_CappedAt50Chars(t *testing.T) {
	slug := models.BranchSlug("PROJ-123", "This is an extremely long and overly descriptive ticket title that goes on and on")
	if len(slug) > 50 {
		t.Errorf("len(slug) = %d, want <= 50: %q", len(slug), slug)
	}
	if !strings.HasPrefix(slug, "proj-123") {
		t.Errorf("slug = %q, want prefix proj-123", slug)
	}
}

func TestBranchSlug_AdversarialCharactersSanitized(t *testing.T) {
	slug := models.BranchSlug("../../etc/passwd@{HEAD}", "rm -rf / && echo pwned")
	if strings.Contains(slug, "..") || strings.Contains(slug, "@{") || strings.HasSuffix(slug, "/") {
		t.Errorf("slug = %q contains a git-ref-unsafe sequence", slug)
	}
	for _, r := range slug {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
			t.Fatalf("slug = %q contains disallowed rune %q", slug, r)
		}
	}
}

func TestBranchSlug_EmptyIDFallsBackToHash(t *testing.T) {
	slug := models.BranchSlug("!!!", "title")
	if !strings.HasPrefix(slug, "ticket-") {
		t.Errorf("slug = %q, want a ticket-<hash> fallback for an id that sanitizes to empty", slug)
	}
}

func TestBranchSlug_DeterministicForSameInput(t *testing.T) {
	a := models.BranchSlug("PROJ-9", "Fix the thing")
	b := models.BranchSlug("PROJ-9", "Fix the thing")
	if a != b {
		t.Errorf("BranchSlug is not deterministic: %q != %q", a, b)
	}
}

func TestFilesystemStem_ReplacesReservedCharacters(t *testing.T) {
	stem := models.FilesystemStem(`weird/id:with*reserved?chars`)
	if strings.ContainsAny(stem, `/\:*?"<>|`) {
		t.Errorf("stem = %q still contains a reserved character", stem)
	}
}

func TestFilesystemStem_WindowsReservedNameSuffixed(t *testing.T) {
	stem := models.FilesystemStem("CON")
	if stem != "CON_file" {
		t.Errorf("stem = %q, want CON_file", stem)
	}
}

func TestFilesystemStem_NeverEmpty(t *testing.T) {
	stem := models.FilesystemStem("")
	if stem == "" {
		t.Error("FilesystemStem(\"\") returned an empty string")
	}
}

func TestTicket_CloneIsolatesMutation(t *testing.T) {
	assignee := "alice"
	created := time.Now().UTC()
	original := &models.Ticket{
		ID:       "PROJ-1",
		Assignee: &assignee,
		Labels:   []string{"bug"},
		CreatedAt: &created,
		PlatformMetadata: map[string]any{
			"nested": map[string]any{"k": "v"},
		},
	}

	clone := original.Clone()
	*clone.Assignee = "mallory"
	clone.Labels[0] = "mutated"
	clone.PlatformMetadata["nested"].(map[string]any)["k"] = "tampered"

	if *original.Assignee != "alice" {
		t.Errorf("original.Assignee mutated via clone: %q", *original.Assignee)
	}
	if original.Labels[0] != "bug" {
		t.Errorf("original.Labels mutated via clone: %q", original.Labels[0])
	}
	if original.PlatformMetadata["nested"].(map[string]any)["k"] != "v" {
		t.Errorf("original.PlatformMetadata mutated via clone")
	}
}

func TestTicket_ToDictFromDictRoundTrip(t *testing.T) {
	assignee := "bob"
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	original := &models.Ticket{
		ID:               "PROJ-42",
		Platform:         models.PlatformJira,
		URL:              "https://acme.atlassian.net/browse/PROJ-42",
		Title:            "Fix the thing",
		Description:      "details",
		Status:           models.StatusInProgress,
		Type:             models.TypeBug,
		Assignee:         &assignee,
		Labels:           []string{"urgent", "backend"},
		CreatedAt:        &created,
		BranchSummary:    "proj-42-fix-the-thing",
		PlatformMetadata: map[string]any{"priority": "high"},
	}

	dict := original.ToDict()
	restored := models.FromDict(dict)

	if restored.ID != original.ID || restored.Platform != original.Platform {
		t.Fatalf("round trip lost ID/Platform: got %+v", restored)
	}
	if restored.Status != original.Status || restored.Type != original.Type {
		t.Errorf("round trip lost Status/Type: got status=%q type=%q", restored.Status, restored.Type)
	}
	if restored.CreatedAt == nil || !restored.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", restored.CreatedAt, created)
	}
	if restored.BranchSummary != original.BranchSummary {
		t.Errorf("BranchSummary = %q, want %q", restored.BranchSummary, original.BranchSummary)
	}
}

func TestTicket_ToDictSanitizesNonSerializableMetadata(t *testing.T) {
	original := &models.Ticket{
		ID:       "PROJ-1",
		Platform: models.PlatformJira,
		PlatformMetadata: map[string]any{
			"bad": make(chan int),
		},
	}
	dict := original.ToDict()
	meta, ok := dict["platform_metadata"].(map[string]any)
	if !ok {
		t.Fatalf("platform_metadata = %T, want map[string]any", dict["platform_metadata"])
	}
	placeholder, ok := meta["bad"].(map[string]any)
	if !ok || placeholder["__non_serializable__"] != true {
		t.Errorf("bad = %+v, want a __non_serializable__ placeholder", meta["bad"])
	}
}

func TestFromDict_UnknownEnumValuesBecomeUnknown(t *testing.T) {
	restored := models.FromDict(map[string]any{
		"id":     "X-1",
		"status": "not-a-real-status",
		"type":   "not-a-real-type",
	})
	if restored.Status != models.StatusUnknown {
		t.Errorf("Status = %q, want unknown", restored.Status)
	}
	if restored.Type != models.TypeUnknown {
		t.Errorf("Type = %q, want unknown", restored.Type)
	}
}
