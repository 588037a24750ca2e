package model

import (
	"math/big"
)

// PaymentOutcome is the result of a payment instruction submitted to the
// oracle
type PaymentOutcome int

const (
	// OutcomePending means the payment has been submitted but finality has
	// not been reached
	OutcomePending PaymentOutcome = iota

	// OutcomeConfirmed means the payment was irreversibly recorded by the
	// ledger
	OutcomeConfirmed

	// OutcomeRejected means the user or the ledger declined the payment
	OutcomeRejected
)

var outcomeNames = map[PaymentOutcome]string{
	OutcomePending:   "pending",
	OutcomeConfirmed: "confirmed",
	OutcomeRejected:  "rejected",
}

// String returns the name for this outcome
func (o PaymentOutcome) String() string {
	name, ok := outcomeNames[o]
	if !ok {
		return "pending"
	}
	return name
}

// PaymentAttemptParams are the params to initialize a new PaymentAttempt
type PaymentAttemptParams struct {
	Content     ContentRef
	Account     Account
	Price       *big.Int
	SubmittedTs int64
}

// NewPaymentAttempt is a convenience method to init a PaymentAttempt struct
func NewPaymentAttempt(params *PaymentAttemptParams) *PaymentAttempt {
	return &PaymentAttempt{
		content:     params.Content,
		account:     params.Account,
		price:       params.Price,
		submittedTs: params.SubmittedTs,
		outcome:     OutcomePending,
	}
}

// PaymentAttempt is the transient record of an in-flight unlock. At most one
// attempt may exist per (account, content) pair at a time; it is discarded
// once the attempt resolves into an updated status.
type PaymentAttempt struct {
	content ContentRef

	account Account

	// price in wei at the time the attempt started
	price *big.Int

	submittedTs int64

	outcome PaymentOutcome
}

// Content returns the content item this attempt pays for
func (p *PaymentAttempt) Content() ContentRef {
	return p.content
}

// Account returns the paying account
func (p *PaymentAttempt) Account() Account {
	return p.account
}

// Price returns the price fetched when the attempt started
func (p *PaymentAttempt) Price() *big.Int {
	return p.price
}

// SubmittedTs returns the timestamp the attempt was submitted
func (p *PaymentAttempt) SubmittedTs() int64 {
	return p.submittedTs
}

// Outcome returns the current outcome of the attempt
func (p *PaymentAttempt) Outcome() PaymentOutcome {
	return p.outcome
}

// SetPrice records the price fetched for this attempt
func (p *PaymentAttempt) SetPrice(price *big.Int) {
	p.price = price
}

// SetOutcome updates the outcome of the attempt
func (p *PaymentAttempt) SetOutcome(outcome PaymentOutcome) {
	p.outcome = outcome
}
