package fetchers

import (
	"strings"

	"github.com/amiad5298/ingot/internal/ticketerrors"
)

const ticketIDSlot = "{ticket_id}"

// RenderPrompt substitutes id into template's {ticket_id} slot. A
// template with no slot is a configuration error — the core would
// silently ask the agent for the wrong ticket otherwise — and an empty
// template means the platform has no agent-mediated support.
func RenderPrompt(platform, template, id string) (string, error) {
	if template == "" {
		return "", ticketerrors.NewPlatformNotSupported(platform, "agent")
	}
	if !strings.Contains(template, ticketIDSlot) {
		return "", ticketerrors.NewAgentIntegration(platform, "prompt template has no {ticket_id} slot", nil)
	}
	return strings.ReplaceAll(template, ticketIDSlot, id), nil
}
