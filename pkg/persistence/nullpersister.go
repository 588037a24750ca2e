package persistence

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/dgca/paywalled-blog/pkg/model"
)

// NullPersister is a persister that does nothing but return default values.
// Used when the gateway runs without a receipt database.
type NullPersister struct{}

// CreatePurchaseReceipt drops the receipt
func (n *NullPersister) CreatePurchaseReceipt(receipt *model.PurchaseReceipt) error {
	return nil
}

// PurchaseReceiptsByAccount returns no results
func (n *NullPersister) PurchaseReceiptsByAccount(account common.Address) (
	[]*model.PurchaseReceipt, error) {
	return nil, model.ErrPersisterNoResults
}
