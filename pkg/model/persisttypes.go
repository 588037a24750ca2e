package model

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrPersisterNoResults is the error returned from persistence when there
// are no results found
var ErrPersisterNoResults = errors.New("no results from persister")

// ErrDirectoryNoResults is the error returned from the content directory
// when no post exists for a slug
var ErrDirectoryNoResults = errors.New("no post found in directory")

// PurchaseReceiptPersister is the interface to store the audit log of
// finalized payment attempts
type PurchaseReceiptPersister interface {
	// CreatePurchaseReceipt saves a new purchase receipt
	CreatePurchaseReceipt(receipt *PurchaseReceipt) error
	// PurchaseReceiptsByAccount retrieves the receipts recorded for an
	// account, newest first
	PurchaseReceiptsByAccount(account common.Address) ([]*PurchaseReceipt, error)
}
