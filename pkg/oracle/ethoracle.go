package oracle

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/utils"
)

// Backend is the ethereum client capability the oracle needs: contract
// calls, transaction submission and mined-receipt retrieval. Satisfied by
// ethclient.Client.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// NewEthOracleParams are the params to initialize a new EthOracle
type NewEthOracleParams struct {
	Backend         Backend
	ContractAddress common.Address
	Transactor      *bind.TransactOpts
}

// NewEthOracle creates a new EthOracle bound to the ContentManager contract
// at the given address. A zero contract address yields an unconfigured
// oracle whose calls all fail with model.ErrOracleNotConfigured without
// touching the network. The transactor may be nil for a read-only oracle.
func NewEthOracle(params *NewEthOracleParams) (*EthOracle, error) {
	oracle := &EthOracle{
		backend:         params.Backend,
		contractAddress: params.ContractAddress,
		transactor:      params.Transactor,
	}
	if params.ContractAddress == (common.Address{}) {
		return oracle, nil
	}
	contract, err := NewContentManagerContract(params.ContractAddress, params.Backend)
	if err != nil {
		return nil, errors.Wrap(err, "Error binding ContentManager contract")
	}
	oracle.contract = contract
	return oracle, nil
}

// EthOracle implements model.EntitlementOracle against the ContentManager
// contract via a go-ethereum backend
type EthOracle struct {
	backend Backend

	contractAddress common.Address

	// contract is nil when the oracle is unconfigured
	contract *ContentManagerContract

	// transactor signs payment submissions, nil for read-only oracles
	transactor *bind.TransactOpts
}

// PriceOf returns the current price in wei of the given content item. The
// ContentManager contract prices all content uniformly, so the content ID
// only selects the item being paid for, not its price.
func (e *EthOracle) PriceOf(ctx context.Context, contentID uint64) (*big.Int, error) {
	if e.contract == nil {
		return nil, model.ErrOracleNotConfigured
	}
	price, err := e.contract.ContentPrice(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, errors.Wrap(err, "Error fetching content price from contract")
	}
	return price, nil
}

// HasAccess queries the access predicate on the contract for the given
// account and content item
func (e *EthOracle) HasAccess(ctx context.Context, account common.Address,
	contentID uint64) (bool, error) {
	if e.contract == nil {
		return false, model.ErrOracleNotConfigured
	}
	hasAccess, err := e.contract.HasAccessToContent(
		&bind.CallOpts{Context: ctx},
		account,
		new(big.Int).SetUint64(contentID),
	)
	if err != nil {
		return false, errors.Wrap(err, "Error checking content access on contract")
	}
	return hasAccess, nil
}

// PayForContent submits the payment transaction for the given content item
// and waits for it to be mined. The signing key must belong to the given
// account; the oracle cannot pay on behalf of arbitrary readers.
func (e *EthOracle) PayForContent(ctx context.Context, account common.Address,
	contentID uint64, amount *big.Int) (*model.PaymentReceipt, error) {
	if e.contract == nil {
		return nil, model.ErrOracleNotConfigured
	}
	if e.transactor == nil {
		return nil, errors.New("Error no transactor configured for payment submission")
	}
	if e.transactor.From != account {
		return nil, errors.Errorf("Error transactor %v cannot pay for account %v",
			e.transactor.From.Hex(), account.Hex())
	}

	opts := *e.transactor
	opts.Context = ctx
	opts.Value = amount

	tx, err := e.contract.PayForContent(&opts, new(big.Int).SetUint64(contentID))
	if err != nil {
		return nil, errors.Wrap(err, "Error submitting payment transaction")
	}
	log.Infof("Submitted payment for content %v: tx: %v", contentID, tx.Hash().Hex())

	receipt, err := bind.WaitMined(ctx, e.backend, tx)
	if err != nil {
		return nil, errors.Wrap(err, "Error waiting for payment transaction to be mined")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, model.ErrPaymentRejected
	}

	return model.NewPaymentReceipt(&model.PaymentReceiptParams{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		ConfirmedTs: utils.CurrentEpochSecsInInt64(),
	}), nil
}

// TransactorFromHexKey builds the payment transactor from a hex-encoded
// private key and chain ID
func TransactorFromHexKey(hexKey string, chainID *big.Int) (*bind.TransactOpts, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "Error parsing payment private key")
	}
	transactor, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "Error creating payment transactor")
	}
	return transactor, nil
}
