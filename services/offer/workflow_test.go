package offer

import (
	"testing"

	"lastmile/models"
)

const (
	testBusinessID = "biz-1"
	testRiderID    = "rider-1"
	testStrangerID = "rider-2"
)

func offerAt(status models.OfferStatus, acceptedBy string) *models.Offer {
	return &models.Offer{
		ID:         "offer-1",
		BusinessID: testBusinessID,
		Status:     status,
		AcceptedBy: acceptedBy,
	}
}

func TestTransitionTableClosure(t *testing.T) {
	all := []models.OfferStatus{
		models.OfferStatusOpen,
		models.OfferStatusAccepted,
		models.OfferStatusPickedUp,
		models.OfferStatusInTransit,
		models.OfferStatusDelivered,
		models.OfferStatusCompleted,
		models.OfferStatusCancelled,
	}

	allowed := map[models.OfferStatus]map[models.OfferStatus]bool{
		models.OfferStatusOpen:      {models.OfferStatusAccepted: true, models.OfferStatusCancelled: true},
		models.OfferStatusAccepted:  {models.OfferStatusPickedUp: true, models.OfferStatusCancelled: true},
		models.OfferStatusPickedUp:  {models.OfferStatusInTransit: true, models.OfferStatusCancelled: true},
		models.OfferStatusInTransit: {models.OfferStatusDelivered: true, models.OfferStatusCancelled: true},
		models.OfferStatusDelivered: {models.OfferStatusCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			// The assigned rider satisfies every role rule except accept,
			// where any non-owner rider is valid too.
			o := offerAt(from, testRiderID)
			err := ValidateTransition(o, to, testRiderID)

			if allowed[from][to] {
				if err != nil {
					t.Errorf("%s -> %s: expected allowed, got %v", from, to, err)
				}
				continue
			}
			if err == nil {
				t.Errorf("%s -> %s: expected rejection", from, to)
				continue
			}
			if err.Code != CodeInvalidTransition {
				t.Errorf("%s -> %s: expected %s, got %s", from, to, CodeInvalidTransition, err.Code)
			}
		}
	}
}

func TestTerminalStatesHaveNoSuccessors(t *testing.T) {
	for _, status := range []models.OfferStatus{models.OfferStatusCompleted, models.OfferStatusCancelled} {
		if next := AllowedNext(status); len(next) != 0 {
			t.Errorf("%s should be terminal, got successors %v", status, next)
		}
		if !status.Terminal() {
			t.Errorf("%s.Terminal() = false", status)
		}
	}
	if models.OfferStatusOpen.Terminal() {
		t.Error("open must not be terminal")
	}
}

func TestRejectionCarriesAllowedNext(t *testing.T) {
	o := offerAt(models.OfferStatusAccepted, testRiderID)
	err := ValidateTransition(o, models.OfferStatusDelivered, testRiderID)
	if err == nil {
		t.Fatal("expected rejection")
	}
	want := map[models.OfferStatus]bool{
		models.OfferStatusPickedUp:  true,
		models.OfferStatusCancelled: true,
	}
	if len(err.AllowedNext) != len(want) {
		t.Fatalf("allowedNext = %v, want picked_up and cancelled", err.AllowedNext)
	}
	for _, s := range err.AllowedNext {
		if !want[s] {
			t.Errorf("unexpected allowed next state %s", s)
		}
	}
}

func TestBusinessCannotAcceptOwnOffer(t *testing.T) {
	o := offerAt(models.OfferStatusOpen, "")
	err := ValidateTransition(o, models.OfferStatusAccepted, testBusinessID)
	if err == nil || err.Code != CodeInsufficientPermission {
		t.Fatalf("expected %s, got %v", CodeInsufficientPermission, err)
	}
}

func TestOnlyAssignedRiderAdvancesDelivery(t *testing.T) {
	cases := []struct {
		from   models.OfferStatus
		target models.OfferStatus
	}{
		{models.OfferStatusAccepted, models.OfferStatusPickedUp},
		{models.OfferStatusPickedUp, models.OfferStatusInTransit},
		{models.OfferStatusInTransit, models.OfferStatusDelivered},
	}
	for _, tc := range cases {
		o := offerAt(tc.from, testRiderID)
		if err := ValidateTransition(o, tc.target, testStrangerID); err == nil || err.Code != CodeNotAssignedRider {
			t.Errorf("%s -> %s by stranger: expected %s, got %v", tc.from, tc.target, CodeNotAssignedRider, err)
		}
		if err := ValidateTransition(o, tc.target, testRiderID); err != nil {
			t.Errorf("%s -> %s by assigned rider: unexpected %v", tc.from, tc.target, err)
		}
	}
}

func TestCompleteAndCancelRequireOwnerOrRider(t *testing.T) {
	o := offerAt(models.OfferStatusDelivered, testRiderID)
	if err := ValidateTransition(o, models.OfferStatusCompleted, testBusinessID); err != nil {
		t.Errorf("business completing: unexpected %v", err)
	}
	if err := ValidateTransition(o, models.OfferStatusCompleted, testRiderID); err != nil {
		t.Errorf("assigned rider completing: unexpected %v", err)
	}
	if err := ValidateTransition(o, models.OfferStatusCompleted, testStrangerID); err == nil || err.Code != CodeInsufficientPermission {
		t.Errorf("stranger completing: expected %s, got %v", CodeInsufficientPermission, err)
	}

	open := offerAt(models.OfferStatusOpen, "")
	if err := ValidateTransition(open, models.OfferStatusCancelled, testBusinessID); err != nil {
		t.Errorf("business cancelling open offer: unexpected %v", err)
	}
	if err := ValidateTransition(open, models.OfferStatusCancelled, testStrangerID); err == nil {
		t.Error("stranger cancelling unassigned offer: expected rejection")
	}
}

func TestAcceptOnAlreadyAssignedOffer(t *testing.T) {
	o := offerAt(models.OfferStatusOpen, testRiderID)
	err := ValidateTransition(o, models.OfferStatusAccepted, testStrangerID)
	if err == nil || err.Code != CodeAlreadyAccepted {
		t.Fatalf("expected %s, got %v", CodeAlreadyAccepted, err)
	}
}

func TestMilestoneFieldMapping(t *testing.T) {
	cases := map[models.OfferStatus]string{
		models.OfferStatusAccepted:  "acceptedAt",
		models.OfferStatusPickedUp:  "pickedUpAt",
		models.OfferStatusInTransit: "inTransitAt",
		models.OfferStatusDelivered: "deliveredAt",
		models.OfferStatusCompleted: "completedAt",
		models.OfferStatusCancelled: "cancelledAt",
	}
	for status, field := range cases {
		if got := milestoneField(status); got != field {
			t.Errorf("milestoneField(%s) = %q, want %q", status, got, field)
		}
	}
	if got := milestoneField(models.OfferStatusOpen); got != "" {
		t.Errorf("milestoneField(open) = %q, want empty", got)
	}
}
