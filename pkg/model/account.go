package model

import (
	"github.com/ethereum/go-ethereum/common"
)

// Account is a reader's wallet identity. The reader may have no wallet
// connected, so absence is a first-class value rather than ambient state;
// every core operation takes the account explicitly.
type Account struct {
	address   common.Address
	connected bool
}

// NewAccount returns a connected Account for the given wallet address
func NewAccount(address common.Address) Account {
	return Account{address: address, connected: true}
}

// NoAccount returns the absent Account, representing no connected wallet
func NoAccount() Account {
	return Account{}
}

// Address returns the wallet address. Only meaningful when Connected is true.
func (a Account) Address() common.Address {
	return a.address
}

// Connected returns true if a wallet is connected
func (a Account) Connected() bool {
	return a.connected
}

// Hex returns the hex form of the wallet address, or the empty string when
// no wallet is connected
func (a Account) Hex() string {
	if !a.connected {
		return ""
	}
	return a.address.Hex()
}
