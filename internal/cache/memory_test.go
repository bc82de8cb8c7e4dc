package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/amiad5298/ingot/internal/cache"
	"github.com/amiad5298/ingot/pkg/models"
)

func testTicket(id string) *models.Ticket {
	return &models.Ticket{ID: id, Platform: models.PlatformJira, Title: "test"}
}

func TestMemoryCache_SetGetRoundTrip(t *testing.T) {
	c, err := cache.NewMemoryCache(10)
	if err != nil {
		t.Fatalf("NewMemoryCache() error = %v", err)
	}
	key := models.CacheKey{Platform: models.PlatformJira, TicketID: "PROJ-1"}
	if err := c.Set(context.Background(), key, testTicket("PROJ-1"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := c.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("Get() = (%v, %v, %v), want hit", got, ok, err)
	}
	if got.ID != "PROJ-1" {
		t.Errorf("ID = %q", got.ID)
	}
}

func TestMemoryCache_GetDoesNotAliasStoredTicket(t *testing.T) {
	c, _ := cache.NewMemoryCache(10)
	key := models.CacheKey{Platform: models.PlatformJira, TicketID: "PROJ-1"}
	_ = c.Set(context.Background(), key, testTicket("PROJ-1"), time.Hour)

	got, _, _ := c.Get(context.Background(), key)
	got.Title = "mutated by caller"

	got2, _, _ := c.Get(context.Background(), key)
	if got2.Title != "test" {
		t.Errorf("Title = %q, want unaffected by caller mutation", got2.Title)
	}
}

func TestMemoryCache_ExpiredEntryIsMiss(t *testing.T) {
	now := time.Now()
	c, _ := cache.NewMemoryCache(10)
	c = c.WithClock(func() time.Time { return now })

	key := models.CacheKey{Platform: models.PlatformJira, TicketID: "PROJ-1"}
	_ = c.Set(context.Background(), key, testTicket("PROJ-1"), time.Millisecond)

	c.WithClock(func() time.Time { return now.Add(time.Hour) })
	_, ok, err := c.Get(context.Background(), key)
	if err != nil || ok {
		t.Fatalf("Get() = (_, %v, %v), want miss", ok, err)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c, _ := cache.NewMemoryCache(10)
	_, ok, err := c.Get(context.Background(), models.CacheKey{Platform: models.PlatformJira, TicketID: "nope"})
	if err != nil || ok {
		t.Fatalf("Get() = (_, %v, %v), want miss", ok, err)
	}
	if c.Stats().Misses != 1 {
		t.Errorf("Misses = %d, want 1", c.Stats().Misses)
	}
}

func TestNewMemoryCache_RejectsNonPositiveSize(t *testing.T) {
	if _, err := cache.NewMemoryCache(0); err == nil {
		t.Error("expected error for max_size=0")
	}
}
