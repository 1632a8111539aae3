package pipeline

import (
	"fmt"

	"github.com/pbaille/fleeting/internal/domain"
)

// autoTransitions lists the status transitions automated pipelines may
// perform. Pipelines move items forward but never graduate them:
// routed, done, and archived have no automated outbound transitions,
// those are human-operated only.
var autoTransitions = map[domain.Status][]domain.Status{
	domain.StatusInbox:      {domain.StatusProcessing, domain.StatusRouted},
	domain.StatusProcessing: {domain.StatusRouted},
}

// ValidateTransition reports whether an automated status change is
// permitted, with a human-readable reason on rejection. A rejection is
// a deliberate skip for the caller, not an error.
func ValidateTransition(from, to domain.Status) (bool, string) {
	allowed, ok := autoTransitions[from]
	if !ok {
		return false, fmt.Sprintf("automated pipelines cannot transition from %q; only a human-operated path can move items out of %q", from, from)
	}
	for _, s := range allowed {
		if s == to {
			return true, ""
		}
	}
	return false, fmt.Sprintf("invalid transition %s → %s; allowed from %q: %v", from, to, from, allowed)
}
