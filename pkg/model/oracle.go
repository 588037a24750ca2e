package model

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrOracleNotConfigured is returned by oracle implementations when the
// contract address is missing or invalid. Callers map it to the "config"
// failure category without attempting a network call.
var ErrOracleNotConfigured = errors.New("entitlement oracle is not configured")

// ErrPaymentRejected is returned by PayForContent when the user or the
// ledger declined the payment instruction
var ErrPaymentRejected = errors.New("payment instruction was rejected")

// PaymentReceiptParams are the params to initialize a new PaymentReceipt
type PaymentReceiptParams struct {
	TxHash      common.Hash
	BlockNumber uint64
	ConfirmedTs int64
}

// NewPaymentReceipt is a convenience method to init a PaymentReceipt struct
func NewPaymentReceipt(params *PaymentReceiptParams) *PaymentReceipt {
	return &PaymentReceipt{
		txHash:      params.TxHash,
		blockNumber: params.BlockNumber,
		confirmedTs: params.ConfirmedTs,
	}
}

// PaymentReceipt carries the ledger coordinates of a finalized payment
// instruction
type PaymentReceipt struct {
	txHash common.Hash

	blockNumber uint64

	confirmedTs int64
}

// TxHash returns the transaction hash of the payment instruction
func (r *PaymentReceipt) TxHash() common.Hash {
	return r.txHash
}

// BlockNumber returns the block in which the payment reached finality
func (r *PaymentReceipt) BlockNumber() uint64 {
	return r.blockNumber
}

// ConfirmedTs returns the timestamp finality was observed
func (r *PaymentReceipt) ConfirmedTs() int64 {
	return r.confirmedTs
}

// EntitlementOracle is the interface to the authoritative ledger of content
// prices and entitlements. Calling PayForContent twice is two distinct
// payments; preventing duplicate submission is the caller's responsibility.
type EntitlementOracle interface {
	// PriceOf returns the current price in wei of the given content item
	PriceOf(ctx context.Context, contentID uint64) (*big.Int, error)
	// HasAccess returns true if the account already holds entitlement to
	// the given content item
	HasAccess(ctx context.Context, account common.Address, contentID uint64) (bool, error)
	// PayForContent submits a payment instruction for the given content
	// item at the given price and waits for finality. Returns
	// ErrPaymentRejected if the instruction was declined.
	PayForContent(ctx context.Context, account common.Address, contentID uint64,
		amount *big.Int) (*PaymentReceipt, error)
}
