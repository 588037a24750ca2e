// Package oracle contains the client for the ContentManager contract, the
// authoritative ledger of content prices and entitlements.
package oracle

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ContentManagerABI is the input ABI used to bind the contract
const ContentManagerABI = `[
	{"constant":true,"inputs":[],"name":"CONTENT_PRICE","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"user","type":"address"},{"name":"contentId","type":"uint256"}],"name":"hasAccessToContent","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"contentId","type":"uint256"}],"name":"payForContent","outputs":[],"payable":true,"stateMutability":"payable","type":"function"}
]`

// NewContentManagerContract creates a new instance of the ContentManager
// contract bound to the given address
func NewContentManagerContract(address common.Address, backend bind.ContractBackend) (*ContentManagerContract, error) {
	parsed, err := abi.JSON(strings.NewReader(ContentManagerABI))
	if err != nil {
		return nil, err
	}
	contract := bind.NewBoundContract(address, parsed, backend, backend, backend)
	return &ContentManagerContract{contract: contract}, nil
}

// ContentManagerContract is the Go binding of the ContentManager contract
type ContentManagerContract struct {
	contract *bind.BoundContract
}

// ContentPrice calls the CONTENT_PRICE constant on the contract, returning
// the price in wei of a content item
func (c *ContentManagerContract) ContentPrice(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "CONTENT_PRICE")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// HasAccessToContent calls the access predicate on the contract for the
// given user and content ID
func (c *ContentManagerContract) HasAccessToContent(opts *bind.CallOpts, user common.Address,
	contentID *big.Int) (bool, error) {
	var out []interface{}
	err := c.contract.Call(opts, &out, "hasAccessToContent", user, contentID)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// PayForContent submits the payment transaction for the given content ID.
// The payment amount is carried in opts.Value.
func (c *ContentManagerContract) PayForContent(opts *bind.TransactOpts,
	contentID *big.Int) (*types.Transaction, error) {
	return c.contract.Transact(opts, "payForContent", contentID)
}
