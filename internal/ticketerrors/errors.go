// Package ticketerrors defines the core's closed error taxonomy.
//
// Every kind shares the single *TicketError type, and callers switch on
// its Kind field; fallback eligibility is a method on the type rather than
// a table keyed by exception class, per SPEC_FULL.md §7's redesign of
// the source's exception-for-control-flow fallback decision.
package ticketerrors

import (
	"errors"
	"fmt"
)

// Kind identifies which branch of the taxonomy an error belongs to.
type Kind string

const (
	KindUnsupportedInput    Kind = "unsupported_input"
	KindUnsupportedPlatform Kind = "unsupported_platform"
	KindTicketIDFormat      Kind = "ticket_id_format"
	KindCredentialValidation Kind = "credential_validation"
	KindPlatformNotFound    Kind = "platform_not_found"
	KindPlatformAPI         Kind = "platform_api"
	KindPlatformNotSupported Kind = "platform_not_supported"
	KindAgentIntegration    Kind = "agent_integration"
	KindAgentFetch          Kind = "agent_fetch"
	KindAgentResponseParse  Kind = "agent_response_parse"
	KindCacheConfiguration  Kind = "cache_configuration"
	KindTicketValidation    Kind = "ticket_validation"
)

// fallbackEligible is the closed set of kinds the service retries
// against a fallback fetcher, per SPEC_FULL.md §4.5/§7.
var fallbackEligible = map[Kind]bool{
	KindAgentIntegration:   true,
	KindAgentFetch:         true,
	KindAgentResponseParse: true,
}

// TicketError is the single concrete error type for every kind in the
// taxonomy. Construct one with the New* helpers below rather than
// this struct literal directly.
type TicketError struct {
	Kind     Kind
	Message  string
	Platform string // empty when not platform-specific
	Input    string // the offending input, when relevant
	Cause    error
}

func (e *TicketError) Error() string {
	switch {
	case e.Platform != "" && e.Cause != nil:
		return fmt.Sprintf("%s (platform=%s): %s: %v", e.Message, e.Platform, e.Kind, e.Cause)
	case e.Platform != "":
		return fmt.Sprintf("%s (platform=%s)", e.Message, e.Platform)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	default:
		return e.Message
	}
}

func (e *TicketError) Unwrap() error { return e.Cause }

// FallbackEligible reports whether the service should try the
// fallback fetcher after this error. Only AgentIntegration, AgentFetch
// and AgentResponseParse are eligible; not-found, credential,
// id-format, and cache errors are not — they represent conditions a
// fallback cannot fix.
func (e *TicketError) FallbackEligible() bool {
	return fallbackEligible[e.Kind]
}

// IsFallbackEligible reports whether err is, or wraps, a *TicketError
// whose kind is fallback-eligible. Non-TicketError errors (including
// context cancellation) are never fallback-eligible.
func IsFallbackEligible(err error) bool {
	var te *TicketError
	if !errors.As(err, &te) {
		return false
	}
	return te.FallbackEligible()
}

// KindOf returns the Kind of err if it is a *TicketError, or "" if not.
func KindOf(err error) Kind {
	te, ok := err.(*TicketError)
	if !ok {
		return ""
	}
	return te.Kind
}

func NewUnsupportedInput(input string, known []string) *TicketError {
	return &TicketError{
		Kind:    KindUnsupportedInput,
		Message: fmt.Sprintf("unrecognized ticket reference %q (known platforms: %v)", input, known),
		Input:   input,
	}
}

func NewUnsupportedPlatform(platform string, registered []string) *TicketError {
	return &TicketError{
		Kind:     KindUnsupportedPlatform,
		Message:  fmt.Sprintf("platform %q is not registered (registered: %v)", platform, registered),
		Platform: platform,
	}
}

func NewTicketIDFormat(platform, input, reason string) *TicketError {
	return &TicketError{
		Kind:     KindTicketIDFormat,
		Message:  fmt.Sprintf("invalid ticket id %q: %s", input, reason),
		Platform: platform,
		Input:    input,
	}
}

func NewCredentialValidation(platform, reason string) *TicketError {
	return &TicketError{
		Kind:     KindCredentialValidation,
		Message:  fmt.Sprintf("credentials for %s are not usable: %s", platform, reason),
		Platform: platform,
	}
}

func NewPlatformNotFound(platform, id string) *TicketError {
	return &TicketError{
		Kind:     KindPlatformNotFound,
		Message:  fmt.Sprintf("ticket not found: %s", id),
		Platform: platform,
		Input:    id,
	}
}

func NewPlatformAPI(platform, id, reason string, cause error) *TicketError {
	return &TicketError{
		Kind:     KindPlatformAPI,
		Message:  fmt.Sprintf("%s API error for %s: %s", platform, id, reason),
		Platform: platform,
		Input:    id,
		Cause:    cause,
	}
}

func NewPlatformNotSupported(platform, mechanism string) *TicketError {
	return &TicketError{
		Kind:     KindPlatformNotSupported,
		Message:  fmt.Sprintf("%s fetch does not support platform %s", mechanism, platform),
		Platform: platform,
	}
}

func NewAgentIntegration(platform, reason string, cause error) *TicketError {
	return &TicketError{
		Kind:     KindAgentIntegration,
		Message:  fmt.Sprintf("agent integration misconfigured for %s: %s", platform, reason),
		Platform: platform,
		Cause:    cause,
	}
}

func NewAgentFetch(platform, reason string, cause error) *TicketError {
	return &TicketError{
		Kind:     KindAgentFetch,
		Message:  fmt.Sprintf("agent fetch failed for %s: %s", platform, reason),
		Platform: platform,
		Cause:    cause,
	}
}

func NewAgentResponseParse(platform, reason string) *TicketError {
	return &TicketError{
		Kind:     KindAgentResponseParse,
		Message:  fmt.Sprintf("could not parse agent response for %s: %s", platform, reason),
		Platform: platform,
	}
}

func NewCacheConfiguration(reason string) *TicketError {
	return &TicketError{
		Kind:    KindCacheConfiguration,
		Message: fmt.Sprintf("cache misconfigured: %s", reason),
	}
}

func NewTicketValidation(platform, reason string) *TicketError {
	return &TicketError{
		Kind:     KindTicketValidation,
		Message:  fmt.Sprintf("cannot normalize %s ticket: %s", platform, reason),
		Platform: platform,
	}
}
