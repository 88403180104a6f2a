package alert

import "testing"

func TestTransition_FromActive(t *testing.T) {
	next, err := Transition(StatusActive, ActionAcknowledge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatusAcknowledged {
		t.Errorf("expected ACKNOWLEDGED, got %s", next)
	}
	next, err = Transition(StatusActive, ActionDismiss)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != StatusDismissed {
		t.Errorf("expected DISMISSED, got %s", next)
	}
}

func TestTransition_TerminalStatesRejectActions(t *testing.T) {
	for _, status := range []string{StatusAcknowledged, StatusDismissed} {
		for _, action := range []string{ActionAcknowledge, ActionDismiss} {
			if _, err := Transition(status, action); err == nil {
				t.Errorf("expected error for %s on %s alert", action, status)
			}
		}
	}
}

func TestTransition_RejectionMessage(t *testing.T) {
	_, err := Transition(StatusDismissed, ActionAcknowledge)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "alert in status DISMISSED cannot be acknowledged" {
		t.Errorf("unexpected message: %s", got)
	}
	_, err = Transition(StatusAcknowledged, ActionDismiss)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "alert in status ACKNOWLEDGED cannot be dismissed" {
		t.Errorf("unexpected message: %s", got)
	}
}

func TestTransition_UnknownAction(t *testing.T) {
	if _, err := Transition(StatusActive, "REOPEN"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestTypeIsRecurring(t *testing.T) {
	if !TypeIsRecurring(TypeNews2High) || !TypeIsRecurring(TypeNews2Critical) {
		t.Error("NEWS2 types must be recurring")
	}
	for _, typ := range []string{TypeLabCritical, TypeLabAbnormal, TypeDrugInteraction, TypeAllergyContraindication} {
		if TypeIsRecurring(typ) {
			t.Errorf("%s must not be recurring", typ)
		}
	}
}
