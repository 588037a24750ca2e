package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dgca/paywalled-blog/pkg/access"
	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/testutils"
)

func setupOrchestrator(fake *testutils.FakeOracle) (*access.Orchestrator, *testutils.TestPersister) {
	persister := &testutils.TestPersister{}
	resolver := access.NewResolver(fake)
	orchestrator := access.NewOrchestrator(&access.NewOrchestratorParams{
		Oracle:   fake,
		Resolver: resolver,
		Receipts: persister,
	})
	return orchestrator, persister
}

func newAttempt(account model.Account) *model.PaymentAttempt {
	return model.NewPaymentAttempt(&model.PaymentAttemptParams{
		Content:     testContent(),
		Account:     account,
		SubmittedTs: 1257894000,
	})
}

func TestUnlockUnconnected(t *testing.T) {
	fake := testutils.NewFakeOracle()
	orchestrator, _ := setupOrchestrator(fake)

	report := orchestrator.Unlock(context.Background(), newAttempt(model.NoAccount()))
	if report.Status != model.StatusFailed || report.Reason != model.ReasonUnconnected {
		t.Errorf("Should have failed with unconnected: report: %v", report)
	}
	if fake.PriceCalls != 0 || fake.PayCalls != 0 {
		t.Errorf("Should not have touched the oracle for an absent account")
	}
}

func TestUnlockPriceUnavailable(t *testing.T) {
	fake := testutils.NewFakeOracle()
	fake.PriceErr = errors.New("connection refused")
	orchestrator, persister := setupOrchestrator(fake)

	report := orchestrator.Unlock(context.Background(), newAttempt(testAccount()))
	if report.Status != model.StatusFailed || report.Reason != model.ReasonPriceUnavailable {
		t.Errorf("Should have failed with price-unavailable: report: %v", report)
	}
	if fake.PayCalls != 0 {
		t.Errorf("Should not have submitted a payment after a failed price fetch")
	}
	if len(persister.AllReceipts()) != 0 {
		t.Errorf("Should not have recorded a receipt for an aborted attempt")
	}
}

func TestUnlockPaymentRejected(t *testing.T) {
	fake := testutils.NewFakeOracle()
	fake.PayErr = model.ErrPaymentRejected
	orchestrator, persister := setupOrchestrator(fake)

	report := orchestrator.Unlock(context.Background(), newAttempt(testAccount()))
	if report.Status != model.StatusFailed || report.Reason != model.ReasonPaymentRejected {
		t.Errorf("Should have failed with payment-rejected: report: %v", report)
	}

	receipts := persister.AllReceipts()
	if len(receipts) != 1 {
		t.Fatalf("Should have recorded one receipt for the rejected attempt")
	}
	if receipts[0].Outcome() != model.OutcomeRejected {
		t.Errorf("Should have recorded a rejected outcome: outcome: %v", receipts[0].Outcome())
	}
}

func TestUnlockPaymentError(t *testing.T) {
	fake := testutils.NewFakeOracle()
	fake.PayErr = errors.New("nonce conflict")
	orchestrator, _ := setupOrchestrator(fake)

	report := orchestrator.Unlock(context.Background(), newAttempt(testAccount()))
	if report.Status != model.StatusFailed || report.Reason != model.ReasonPaymentError {
		t.Errorf("Should have failed with payment-error: report: %v", report)
	}
}

func TestUnlockNotGranted(t *testing.T) {
	fake := testutils.NewFakeOracle()
	// Payment confirms but the access predicate never flips
	fake.PayGrants = false
	orchestrator, persister := setupOrchestrator(fake)

	report := orchestrator.Unlock(context.Background(), newAttempt(testAccount()))
	if report.Status != model.StatusFailed || report.Reason != model.ReasonNotGranted {
		t.Errorf("Should have failed with not-granted: report: %v", report)
	}

	receipts := persister.AllReceipts()
	if len(receipts) != 1 {
		t.Fatalf("Should have recorded one receipt for the confirmed payment")
	}
	if receipts[0].Outcome() != model.OutcomeConfirmed {
		t.Errorf("Should have recorded a confirmed outcome: outcome: %v", receipts[0].Outcome())
	}
	if receipts[0].BlockNumber() == 0 {
		t.Errorf("Should have recorded the finality block number")
	}
}

func TestUnlockSucceeds(t *testing.T) {
	fake := testutils.NewFakeOracle()
	fake.PayGrants = true
	orchestrator, persister := setupOrchestrator(fake)

	report := orchestrator.Unlock(context.Background(), newAttempt(testAccount()))
	if report.Status != model.StatusUnlocked {
		t.Errorf("Should have unlocked after a confirmed payment: report: %v", report)
	}
	if fake.PayCalls != 1 {
		t.Errorf("Should have submitted exactly one payment: calls: %v", fake.PayCalls)
	}

	receipts := persister.AllReceipts()
	if len(receipts) != 1 {
		t.Fatalf("Should have recorded one receipt for the confirmed payment")
	}
	if receipts[0].Price() == nil || receipts[0].Price().Cmp(fake.Price) != 0 {
		t.Errorf("Should have recorded the fetched price on the receipt")
	}
}

func TestUnlockSuccessRequiresPositiveRead(t *testing.T) {
	fake := testutils.NewFakeOracle()
	fake.PayGrants = true
	// The re-resolution after a confirmed payment fails; the orchestrator's
	// own success must not imply unlocked
	fake.AccessErr = errors.New("connection refused")
	orchestrator, _ := setupOrchestrator(fake)

	report := orchestrator.Unlock(context.Background(), newAttempt(testAccount()))
	if report.Status == model.StatusUnlocked {
		t.Fatalf("Should not have unlocked without a positive oracle read")
	}
	if report.Reason != model.ReasonNetwork {
		t.Errorf("Should have surfaced the re-resolution failure: reason: %v", report.Reason)
	}
}
