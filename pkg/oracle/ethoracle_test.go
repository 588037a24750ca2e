package oracle_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/oracle"
)

const (
	testContractAddress = "0x39488b8F9C2e0c14A1DB4f3fF970c94C1a1FF136"
	testAccountAddress  = "0x2652c60CF04bbf6bB6cc8A5e6f1C18143729d440"

	// Throwaway key, do not fund
	testPrivateKeyHex = "fad9c8855b740a0b7ed4c221dbad0f33a83a49cad6b3fe8d5817ac83d38b6a19"
)

func TestUnconfiguredOracle(t *testing.T) {
	ethOracle, err := oracle.NewEthOracle(&oracle.NewEthOracleParams{
		ContractAddress: common.Address{},
	})
	if err != nil {
		t.Fatalf("Should have initialized an unconfigured oracle: err: %v", err)
	}

	ctx := context.Background()
	_, err = ethOracle.PriceOf(ctx, 1)
	if err != model.ErrOracleNotConfigured {
		t.Errorf("Should have failed with the unconfigured error: err: %v", err)
	}

	_, err = ethOracle.HasAccess(ctx, common.HexToAddress(testAccountAddress), 1)
	if err != model.ErrOracleNotConfigured {
		t.Errorf("Should have failed with the unconfigured error: err: %v", err)
	}

	_, err = ethOracle.PayForContent(ctx, common.HexToAddress(testAccountAddress), 1,
		big.NewInt(1000))
	if err != model.ErrOracleNotConfigured {
		t.Errorf("Should have failed with the unconfigured error: err: %v", err)
	}
}

func TestPayForContentRequiresTransactor(t *testing.T) {
	ethOracle, err := oracle.NewEthOracle(&oracle.NewEthOracleParams{
		ContractAddress: common.HexToAddress(testContractAddress),
	})
	if err != nil {
		t.Fatalf("Should have initialized the oracle: err: %v", err)
	}

	_, err = ethOracle.PayForContent(context.Background(),
		common.HexToAddress(testAccountAddress), 1, big.NewInt(1000))
	if err == nil {
		t.Errorf("Should have failed without a transactor")
	}
}

func TestPayForContentRejectsMismatchedAccount(t *testing.T) {
	ethOracle, err := oracle.NewEthOracle(&oracle.NewEthOracleParams{
		ContractAddress: common.HexToAddress(testContractAddress),
		Transactor: &bind.TransactOpts{
			From: common.HexToAddress(testContractAddress),
		},
	})
	if err != nil {
		t.Fatalf("Should have initialized the oracle: err: %v", err)
	}

	_, err = ethOracle.PayForContent(context.Background(),
		common.HexToAddress(testAccountAddress), 1, big.NewInt(1000))
	if err == nil {
		t.Errorf("Should have refused to pay for a mismatched account")
	}
}

func TestTransactorFromHexKey(t *testing.T) {
	transactor, err := oracle.TransactorFromHexKey(testPrivateKeyHex, big.NewInt(8453))
	if err != nil {
		t.Fatalf("Should have built the transactor: err: %v", err)
	}
	if transactor.From == (common.Address{}) {
		t.Errorf("Should have derived the from address from the key")
	}

	_, err = oracle.TransactorFromHexKey("not a key", big.NewInt(8453))
	if err == nil {
		t.Errorf("Should have failed on a malformed key")
	}
}
