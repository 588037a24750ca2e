// Package postgres contains the postgres definitions of the persisted
// models.
package postgres

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dgca/paywalled-blog/pkg/model"
)

const (
	defaultPurchaseReceiptTableName = "purchase_receipt"
)

// CreatePurchaseReceiptTableQuery returns the query to create the
// purchase_receipt table
func CreatePurchaseReceiptTableQuery() string {
	return CreatePurchaseReceiptTableQueryString(defaultPurchaseReceiptTableName)
}

// CreatePurchaseReceiptTableQueryString returns the query to create the
// purchase_receipt table with the given table name
func CreatePurchaseReceiptTableQueryString(tableName string) string {
	queryString := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s(
			account_address TEXT,
			content_id INT,
			slug TEXT,
			price NUMERIC,
			outcome TEXT,
			tx_hash TEXT,
			block_number INT,
			submitted_timestamp INT,
			resolved_timestamp INT
		);
	`, tableName)
	return queryString
}

// CreatePurchaseReceiptTableIndices returns the query to create indices
// for the purchase_receipt table
func CreatePurchaseReceiptTableIndices() string {
	return CreatePurchaseReceiptTableIndicesString(defaultPurchaseReceiptTableName)
}

// CreatePurchaseReceiptTableIndicesString returns the query to create
// indices for the purchase_receipt table with the given table name
func CreatePurchaseReceiptTableIndicesString(tableName string) string {
	queryString := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS receipt_account_idx ON %s (account_address);
	`, tableName)
	return queryString
}

// NewPurchaseReceipt creates a new postgres PurchaseReceipt from a
// model.PurchaseReceipt
func NewPurchaseReceipt(receipt *model.PurchaseReceipt) *PurchaseReceipt {
	dbReceipt := &PurchaseReceipt{}
	dbReceipt.AccountAddress = receipt.AccountAddress().Hex()
	dbReceipt.ContentID = receipt.ContentID()
	dbReceipt.Slug = receipt.Slug()
	if receipt.Price() != nil {
		dbReceipt.Price = receipt.Price().String()
	}
	dbReceipt.Outcome = receipt.Outcome().String()
	dbReceipt.TxHash = receipt.TxHash().Hex()
	dbReceipt.BlockNumber = receipt.BlockNumber()
	dbReceipt.SubmittedTimestamp = receipt.SubmittedTs()
	dbReceipt.ResolvedTimestamp = receipt.ResolvedTs()
	return dbReceipt
}

// PurchaseReceipt is the postgres definition of a model.PurchaseReceipt
type PurchaseReceipt struct {
	AccountAddress string `db:"account_address"`

	ContentID uint64 `db:"content_id"`

	Slug string `db:"slug"`

	// Price in wei as a decimal string
	Price string `db:"price"`

	Outcome string `db:"outcome"`

	TxHash string `db:"tx_hash"`

	BlockNumber uint64 `db:"block_number"`

	SubmittedTimestamp int64 `db:"submitted_timestamp"`

	ResolvedTimestamp int64 `db:"resolved_timestamp"`
}

// DbToPurchaseReceipt creates a model.PurchaseReceipt from a
// postgres.PurchaseReceipt
func (r *PurchaseReceipt) DbToPurchaseReceipt() *model.PurchaseReceipt {
	params := &model.PurchaseReceiptParams{}
	params.AccountAddress = common.HexToAddress(r.AccountAddress)
	params.ContentID = r.ContentID
	params.Slug = r.Slug
	price := new(big.Int)
	price, ok := price.SetString(r.Price, 10)
	if !ok {
		price = big.NewInt(0)
	}
	params.Price = price
	params.Outcome = outcomeFromName(r.Outcome)
	params.TxHash = common.HexToHash(r.TxHash)
	params.BlockNumber = r.BlockNumber
	params.SubmittedTs = r.SubmittedTimestamp
	params.ResolvedTs = r.ResolvedTimestamp
	return model.NewPurchaseReceipt(params)
}

func outcomeFromName(name string) model.PaymentOutcome {
	switch name {
	case "confirmed":
		return model.OutcomeConfirmed
	case "rejected":
		return model.OutcomeRejected
	}
	return model.OutcomePending
}
