package main

// This script checks the ContentManager contract directly for a single
// (account, content) pair. It prints the current content price and whether
// the account holds entitlement, bypassing the gateway's state machine.
// Useful for diagnosing "not-granted" reports against the ledger itself.

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/kelseyhightower/envconfig"

	"github.com/dgca/paywalled-blog/pkg/oracle"
)

// Config configures this script
type Config struct {
	EthAPIURL             string `envconfig:"eth_api_url" required:"true" desc:"Ethereum API address"`
	ContentManagerAddress string `split_words:"true" required:"true" desc:"Address of the ContentManager contract"`
}

// PopulateFromEnv processes the environment vars, populates Config
func (c *Config) PopulateFromEnv() error {
	return envconfig.Process("accesscheck", c)
}

func checkAccess(config *Config, accountHex string, contentID uint64) error {
	client, err := ethclient.Dial(config.EthAPIURL)
	if err != nil {
		return fmt.Errorf("Error connecting to eth API: err: %v", err)
	}
	defer client.Close()

	ethOracle, err := oracle.NewEthOracle(&oracle.NewEthOracleParams{
		Backend:         client,
		ContractAddress: common.HexToAddress(config.ContentManagerAddress),
	})
	if err != nil {
		return fmt.Errorf("Error initializing oracle: err: %v", err)
	}

	ctx := context.Background()
	price, err := ethOracle.PriceOf(ctx, contentID)
	if err != nil {
		return fmt.Errorf("Error fetching price: err: %v", err)
	}
	fmt.Printf("content %v: price: %v wei\n", contentID, price)

	if !common.IsHexAddress(accountHex) {
		return nil
	}
	hasAccess, err := ethOracle.HasAccess(ctx, common.HexToAddress(accountHex), contentID)
	if err != nil {
		return fmt.Errorf("Error checking access: err: %v", err)
	}
	fmt.Printf("account %v: hasAccess: %v\n", accountHex, hasAccess)
	return nil
}

func main() {
	accountHex := flag.String("account", "", "wallet address to check")
	contentID := flag.Uint64("contentid", 0, "content ID to check")
	flag.Parse()

	config := &Config{}
	err := config.PopulateFromEnv()
	if err != nil {
		fmt.Printf("Invalid accesscheck config: err: %v\n", err)
		os.Exit(2)
	}

	err = checkAccess(config, *accountHex, *contentID)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
