package pipeline

import (
	"strings"
	"testing"

	"github.com/pbaille/fleeting/internal/domain"
)

func TestValidateTransition_InboxToProcessing(t *testing.T) {
	if ok, _ := ValidateTransition(domain.StatusInbox, domain.StatusProcessing); !ok {
		t.Error("inbox → processing should be allowed")
	}
}

func TestValidateTransition_InboxToRouted(t *testing.T) {
	if ok, _ := ValidateTransition(domain.StatusInbox, domain.StatusRouted); !ok {
		t.Error("inbox → routed should be allowed")
	}
}

func TestValidateTransition_ProcessingToRouted(t *testing.T) {
	if ok, _ := ValidateTransition(domain.StatusProcessing, domain.StatusRouted); !ok {
		t.Error("processing → routed should be allowed")
	}
}

func TestValidateTransition_NoGraduationFromRouted(t *testing.T) {
	ok, reason := ValidateTransition(domain.StatusRouted, domain.StatusDone)
	if ok {
		t.Fatal("routed → done must be rejected: graduation is never automated")
	}
	if !strings.Contains(reason, "routed") {
		t.Errorf("rejection reason should name the source state, got %q", reason)
	}
}

func TestValidateTransition_NoAutomatedMoveFromDone(t *testing.T) {
	if ok, _ := ValidateTransition(domain.StatusDone, domain.StatusArchived); ok {
		t.Error("done → archived must be rejected")
	}
}

func TestValidateTransition_NoBackwardMove(t *testing.T) {
	if ok, _ := ValidateTransition(domain.StatusProcessing, domain.StatusInbox); ok {
		t.Error("processing → inbox must be rejected")
	}
}

func TestValidateTransition_ArchivedIsTerminal(t *testing.T) {
	for _, to := range []domain.Status{domain.StatusInbox, domain.StatusProcessing, domain.StatusRouted, domain.StatusDone} {
		if ok, _ := ValidateTransition(domain.StatusArchived, to); ok {
			t.Errorf("archived → %s must be rejected", to)
		}
	}
}
