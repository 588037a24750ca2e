package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PurchaseReceiptParams are the params to initialize a new PurchaseReceipt
type PurchaseReceiptParams struct {
	AccountAddress common.Address
	ContentID      uint64
	Slug           string
	Price          *big.Int
	Outcome        PaymentOutcome
	TxHash         common.Hash
	BlockNumber    uint64
	SubmittedTs    int64
	ResolvedTs     int64
}

// NewPurchaseReceipt is a convenience method to init a PurchaseReceipt struct
func NewPurchaseReceipt(params *PurchaseReceiptParams) *PurchaseReceipt {
	return &PurchaseReceipt{
		accountAddress: params.AccountAddress,
		contentID:      params.ContentID,
		slug:           params.Slug,
		price:          params.Price,
		outcome:        params.Outcome,
		txHash:         params.TxHash,
		blockNumber:    params.BlockNumber,
		submittedTs:    params.SubmittedTs,
		resolvedTs:     params.ResolvedTs,
	}
}

// PurchaseReceipt is the audit record of a finalized payment attempt. It is
// write-only from the gateway's point of view: access decisions never read
// it back, the oracle stays the only durable source of entitlement truth.
type PurchaseReceipt struct {
	accountAddress common.Address

	contentID uint64

	slug string

	// price in wei at the time of the attempt
	price *big.Int

	outcome PaymentOutcome

	txHash common.Hash

	blockNumber uint64

	submittedTs int64

	resolvedTs int64
}

// AccountAddress returns the paying wallet address
func (r *PurchaseReceipt) AccountAddress() common.Address {
	return r.accountAddress
}

// ContentID returns the contract content ID that was paid for
func (r *PurchaseReceipt) ContentID() uint64 {
	return r.contentID
}

// Slug returns the slug of the content item that was paid for
func (r *PurchaseReceipt) Slug() string {
	return r.slug
}

// Price returns the price in wei at the time of the attempt
func (r *PurchaseReceipt) Price() *big.Int {
	return r.price
}

// Outcome returns the finalized outcome of the attempt
func (r *PurchaseReceipt) Outcome() PaymentOutcome {
	return r.outcome
}

// TxHash returns the transaction hash of the payment, zero hash if the
// instruction never reached the ledger
func (r *PurchaseReceipt) TxHash() common.Hash {
	return r.txHash
}

// BlockNumber returns the block in which the payment reached finality,
// zero if it never did
func (r *PurchaseReceipt) BlockNumber() uint64 {
	return r.blockNumber
}

// SubmittedTs returns the timestamp the attempt was submitted
func (r *PurchaseReceipt) SubmittedTs() int64 {
	return r.submittedTs
}

// ResolvedTs returns the timestamp the attempt resolved
func (r *PurchaseReceipt) ResolvedTs() int64 {
	return r.resolvedTs
}
