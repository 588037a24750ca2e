package persistence_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/persistence"
)

var _ model.PurchaseReceiptPersister = &persistence.NullPersister{}

func TestNullPersister(t *testing.T) {
	persister := &persistence.NullPersister{}

	err := persister.CreatePurchaseReceipt(&model.PurchaseReceipt{})
	if err != nil {
		t.Errorf("Should have accepted and dropped the receipt: err: %v", err)
	}

	_, err = persister.PurchaseReceiptsByAccount(common.Address{})
	if err != model.ErrPersisterNoResults {
		t.Errorf("Should have returned the no results error: err: %v", err)
	}
}
