package access

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/utils"
)

// NewOrchestratorParams are the params to initialize a new Orchestrator
type NewOrchestratorParams struct {
	Oracle   model.EntitlementOracle
	Resolver *Resolver
	Receipts model.PurchaseReceiptPersister
}

// NewOrchestrator is a convenience function to init an Orchestrator
func NewOrchestrator(params *NewOrchestratorParams) *Orchestrator {
	return &Orchestrator{
		oracle:   params.Oracle,
		resolver: params.Resolver,
		receipts: params.Receipts,
	}
}

// Orchestrator drives the pay-and-unlock sequence for a single payment
// attempt: fetch the current price, submit the payment, wait for finality,
// then re-resolve entitlement. Exactly one payment instruction is submitted
// per successful run; the early-abort paths never reach the ledger.
type Orchestrator struct {
	oracle model.EntitlementOracle

	resolver *Resolver

	// receipts records finalized attempts for audit. Never read back by
	// access decisions.
	receipts model.PurchaseReceiptPersister
}

// Unlock runs the pay-and-unlock sequence for the given attempt and returns
// the resulting status. The orchestrator's own success never implies
// StatusUnlocked; only the post-payment positive read from the resolver
// does.
func (o *Orchestrator) Unlock(ctx context.Context, attempt *model.PaymentAttempt) model.StatusReport {
	account := attempt.Account()
	content := attempt.Content()

	if !account.Connected() {
		return model.ReportFailure(model.ReasonUnconnected)
	}

	price, err := o.oracle.PriceOf(ctx, content.ID())
	if err != nil {
		log.Errorf("Error fetching price for content %v: err: %v", content.ID(), err)
		return model.ReportFailure(model.ReasonPriceUnavailable)
	}
	attempt.SetPrice(price)

	receipt, err := o.oracle.PayForContent(ctx, account.Address(), content.ID(), price)
	if err != nil {
		if errors.Cause(err) == model.ErrPaymentRejected {
			log.Infof("Payment rejected for %v, content %v", account.Hex(), content.ID())
			attempt.SetOutcome(model.OutcomeRejected)
			o.recordAttempt(attempt, nil)
			return model.ReportFailure(model.ReasonPaymentRejected)
		}
		log.Errorf("Error submitting payment for %v, content %v: err: %v",
			account.Hex(), content.ID(), err)
		return model.ReportFailure(model.ReasonPaymentError)
	}

	attempt.SetOutcome(model.OutcomeConfirmed)
	o.recordAttempt(attempt, receipt)

	report := o.resolver.Resolve(ctx, account, content)
	if report.Status == model.StatusLocked {
		// Payment reached finality but the access predicate still reports
		// no entitlement. Diagnosable separately from a rejected payment.
		log.Errorf("Payment confirmed but access not granted: account: %v, content: %v, tx: %v",
			account.Hex(), content.ID(), receipt.TxHash().Hex())
		return model.ReportFailure(model.ReasonNotGranted)
	}
	return report
}

// recordAttempt writes the audit receipt for a finalized attempt. Audit
// failures are logged, never propagated into the access decision.
func (o *Orchestrator) recordAttempt(attempt *model.PaymentAttempt, receipt *model.PaymentReceipt) {
	if o.receipts == nil {
		return
	}
	params := &model.PurchaseReceiptParams{
		AccountAddress: attempt.Account().Address(),
		ContentID:      attempt.Content().ID(),
		Slug:           attempt.Content().Slug(),
		Price:          attempt.Price(),
		Outcome:        attempt.Outcome(),
		SubmittedTs:    attempt.SubmittedTs(),
		ResolvedTs:     utils.CurrentEpochSecsInInt64(),
	}
	if receipt != nil {
		params.TxHash = receipt.TxHash()
		params.BlockNumber = receipt.BlockNumber()
	} else {
		params.TxHash = common.Hash{}
	}
	err := o.receipts.CreatePurchaseReceipt(model.NewPurchaseReceipt(params))
	if err != nil {
		log.Errorf("Error persisting purchase receipt: err: %v", err)
	}
}
