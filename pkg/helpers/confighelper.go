// Package helpers contains various common helper functions.
// Normally they are shared functions used by the cmds.
package helpers

import (
	"github.com/jmoiron/sqlx"

	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/persistence"
	"github.com/dgca/paywalled-blog/pkg/utils"
)

// ReceiptPersister is a helper function to return the correct receipt
// persister based on the given configuration
func ReceiptPersister(config *utils.GatewayConfig) (model.PurchaseReceiptPersister, error) {
	if config.PersisterType == utils.PersisterTypePostgresql {
		return postgresPersister(config)
	}
	// Default to the NullPersister
	return &persistence.NullPersister{}, nil
}

// ReceiptPersisterFromSqlx is a helper function to return a receipt
// persister given an initialized sqlx.DB struct
func ReceiptPersisterFromSqlx(db *sqlx.DB) (model.PurchaseReceiptPersister, error) {
	persister, err := persistence.NewPostgresPersisterFromSqlx(db)
	if err != nil {
		return nil, err
	}
	err = initTables(persister)
	if err != nil {
		return nil, err
	}
	return persister, nil
}

func postgresPersister(config *utils.GatewayConfig) (*persistence.PostgresPersister, error) {
	persister, err := persistence.NewPostgresPersister(
		config.PersisterPostgresAddress,
		config.PersisterPostgresPort,
		config.PersisterPostgresUser,
		config.PersisterPostgresPw,
		config.PersisterPostgresDbname,
	)
	if err != nil {
		return nil, err
	}
	err = initTables(persister)
	if err != nil {
		return nil, err
	}
	return persister, nil
}

func initTables(persister *persistence.PostgresPersister) error {
	// Attempts to create all the necessary tables here
	err := persister.CreateTables()
	if err != nil {
		return err
	}
	// Attempts to create all the necessary table indices here
	return persister.CreateIndices()
}
