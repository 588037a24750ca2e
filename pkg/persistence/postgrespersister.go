// Package persistence contains components to interact with the DB
package persistence

import (
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jmoiron/sqlx"

	// driver for postgresql
	_ "github.com/lib/pq"

	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/persistence/postgres"
)

const (
	purchaseReceiptTableName = "purchase_receipt"
)

// NewPostgresPersister creates a new postgres persister
func NewPostgresPersister(host string, port int, user string, password string,
	dbname string) (*PostgresPersister, error) {
	pgPersister := &PostgresPersister{}
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
	db, err := sqlx.Connect("postgres", psqlInfo)
	if err != nil {
		return pgPersister, fmt.Errorf("Error connecting to sqlx: %v", err)
	}
	pgPersister.db = db
	return pgPersister, nil
}

// NewPostgresPersisterFromSqlx creates a new postgres persister from an
// existing sqlx.DB
func NewPostgresPersisterFromSqlx(db *sqlx.DB) (*PostgresPersister, error) {
	return &PostgresPersister{db: db}, nil
}

// PostgresPersister holds the DB connection and persistence
type PostgresPersister struct {
	db *sqlx.DB
}

// CreateTables creates the tables for the gateway if they don't exist
func (p *PostgresPersister) CreateTables() error {
	receiptSchema := postgres.CreatePurchaseReceiptTableQuery()
	_, err := p.db.Exec(receiptSchema)
	if err != nil {
		return fmt.Errorf("Error creating purchase_receipt table in postgres: %v", err)
	}
	return nil
}

// CreateIndices creates the table indices for the gateway if they don't exist
func (p *PostgresPersister) CreateIndices() error {
	indexQuery := postgres.CreatePurchaseReceiptTableIndices()
	_, err := p.db.Exec(indexQuery)
	if err != nil {
		return fmt.Errorf("Error creating indices in postgres: %v", err)
	}
	return nil
}

// Close closes the underlying DB connection
func (p *PostgresPersister) Close() error {
	return p.db.Close()
}

// CreatePurchaseReceipt saves a new purchase receipt
func (p *PostgresPersister) CreatePurchaseReceipt(receipt *model.PurchaseReceipt) error {
	queryString := p.createReceiptQueryString(purchaseReceiptTableName)
	dbReceipt := postgres.NewPurchaseReceipt(receipt)
	_, err := p.db.NamedExec(queryString, dbReceipt)
	if err != nil {
		return fmt.Errorf("Error saving purchase receipt to table: %v", err)
	}
	return nil
}

// PurchaseReceiptsByAccount retrieves the receipts recorded for an account,
// newest first
func (p *PostgresPersister) PurchaseReceiptsByAccount(account common.Address) (
	[]*model.PurchaseReceipt, error) {
	queryString := p.receiptsByAccountQuery(purchaseReceiptTableName)
	dbReceipts := []postgres.PurchaseReceipt{}
	err := p.db.Select(&dbReceipts, queryString, account.Hex())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrPersisterNoResults
		}
		return nil, fmt.Errorf("Wasn't able to get purchase receipts from postgres table: %v", err)
	}
	if len(dbReceipts) == 0 {
		return nil, model.ErrPersisterNoResults
	}
	receipts := make([]*model.PurchaseReceipt, len(dbReceipts))
	for index, dbReceipt := range dbReceipts {
		receipt := dbReceipt
		receipts[index] = receipt.DbToPurchaseReceipt()
	}
	return receipts, nil
}

func (p *PostgresPersister) createReceiptQueryString(tableName string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (account_address, content_id, slug, price, outcome, tx_hash, "+
			"block_number, submitted_timestamp, resolved_timestamp) "+
			"VALUES (:account_address, :content_id, :slug, :price, :outcome, :tx_hash, "+
			":block_number, :submitted_timestamp, :resolved_timestamp);",
		tableName,
	)
}

func (p *PostgresPersister) receiptsByAccountQuery(tableName string) string {
	return fmt.Sprintf(
		"SELECT account_address, content_id, slug, price, outcome, tx_hash, "+
			"block_number, submitted_timestamp, resolved_timestamp "+
			"FROM %s WHERE account_address=$1 ORDER BY resolved_timestamp DESC;",
		tableName,
	)
}
