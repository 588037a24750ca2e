package postgres_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common"

	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/persistence/postgres"
)

func modelReceipt() *model.PurchaseReceipt {
	return model.NewPurchaseReceipt(&model.PurchaseReceiptParams{
		AccountAddress: common.HexToAddress("0x2652c60CF04bbf6bB6cc8A5e6f1C18143729d440"),
		ContentID:      3,
		Slug:           "hello-world",
		Price:          big.NewInt(1000000000000000),
		Outcome:        model.OutcomeConfirmed,
		TxHash:         common.HexToHash("0xabc123"),
		BlockNumber:    42,
		SubmittedTs:    1257894000,
		ResolvedTs:     1257894060,
	})
}

func TestNewPurchaseReceipt(t *testing.T) {
	receipt := modelReceipt()
	dbReceipt := postgres.NewPurchaseReceipt(receipt)

	if dbReceipt.AccountAddress != receipt.AccountAddress().Hex() {
		t.Errorf("Should have set the account address: %v", spew.Sdump(dbReceipt))
	}
	if dbReceipt.ContentID != 3 {
		t.Errorf("Should have set the content ID: %v", spew.Sdump(dbReceipt))
	}
	if dbReceipt.Price != "1000000000000000" {
		t.Errorf("Should have stringified the price: %v", spew.Sdump(dbReceipt))
	}
	if dbReceipt.Outcome != "confirmed" {
		t.Errorf("Should have set the outcome name: %v", spew.Sdump(dbReceipt))
	}
	if dbReceipt.TxHash != receipt.TxHash().Hex() {
		t.Errorf("Should have set the tx hash: %v", spew.Sdump(dbReceipt))
	}
}

func TestDbToPurchaseReceipt(t *testing.T) {
	dbReceipt := postgres.NewPurchaseReceipt(modelReceipt())
	receipt := dbReceipt.DbToPurchaseReceipt()
	expected := modelReceipt()

	if receipt.AccountAddress() != expected.AccountAddress() {
		t.Errorf("Should have restored the account address: %v", spew.Sdump(receipt))
	}
	if receipt.ContentID() != expected.ContentID() {
		t.Errorf("Should have restored the content ID: %v", spew.Sdump(receipt))
	}
	if receipt.Slug() != expected.Slug() {
		t.Errorf("Should have restored the slug: %v", spew.Sdump(receipt))
	}
	if receipt.Price().Cmp(expected.Price()) != 0 {
		t.Errorf("Should have restored the price: %v", spew.Sdump(receipt))
	}
	if receipt.Outcome() != expected.Outcome() {
		t.Errorf("Should have restored the outcome: %v", spew.Sdump(receipt))
	}
	if receipt.TxHash() != expected.TxHash() {
		t.Errorf("Should have restored the tx hash: %v", spew.Sdump(receipt))
	}
	if receipt.BlockNumber() != expected.BlockNumber() {
		t.Errorf("Should have restored the block number: %v", spew.Sdump(receipt))
	}
	if receipt.SubmittedTs() != expected.SubmittedTs() {
		t.Errorf("Should have restored the submitted timestamp: %v", spew.Sdump(receipt))
	}
}

func TestDbToPurchaseReceiptBadPrice(t *testing.T) {
	dbReceipt := &postgres.PurchaseReceipt{Price: "not a number"}
	receipt := dbReceipt.DbToPurchaseReceipt()
	if receipt.Price().Cmp(big.NewInt(0)) != 0 {
		t.Errorf("Should have defaulted an unparseable price to zero: %v", receipt.Price())
	}
}

func TestCreateTableQueries(t *testing.T) {
	query := postgres.CreatePurchaseReceiptTableQueryString("test_receipt")
	if !strings.Contains(query, "CREATE TABLE IF NOT EXISTS test_receipt") {
		t.Errorf("Should have generated the create table query: %v", query)
	}
	indices := postgres.CreatePurchaseReceiptTableIndicesString("test_receipt")
	if !strings.Contains(indices, "CREATE INDEX IF NOT EXISTS") {
		t.Errorf("Should have generated the create indices query: %v", indices)
	}
}
