// Package testutils contains fakes shared by the gateway tests.
package testutils

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dgca/paywalled-blog/pkg/model"
)

// FakeOracle is a scripted model.EntitlementOracle that counts calls.
// Behavior is controlled by setting the exported fields before use.
type FakeOracle struct {
	mu sync.Mutex

	// Price returned by PriceOf; PriceErr overrides it
	Price    *big.Int
	PriceErr error

	// Granted holds the accounts granted access, keyed by address hex +
	// content ID
	Granted map[string]bool

	// AccessErr makes HasAccess fail
	AccessErr error

	// AccessBlock, when non-nil, is closed by the test to release a query
	// blocked in HasAccess
	AccessBlock chan struct{}

	// PayErr makes PayForContent fail; PayGrants makes a confirmed payment
	// also flip the access predicate (the normal ledger behavior)
	PayErr    error
	PayGrants bool

	// PayBlock, when non-nil, is closed by the test to release a payment
	// call blocked in PayForContent
	PayBlock chan struct{}

	PriceCalls  int
	AccessCalls int
	PayCalls    int
}

// NewFakeOracle returns a FakeOracle with no entitlements and a default
// price
func NewFakeOracle() *FakeOracle {
	return &FakeOracle{
		Price:   big.NewInt(1000000000000000),
		Granted: map[string]bool{},
	}
}

func grantKey(account common.Address, contentID uint64) string {
	return account.Hex() + "/" + new(big.Int).SetUint64(contentID).String()
}

// Grant marks the pair as entitled
func (f *FakeOracle) Grant(account common.Address, contentID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Granted[grantKey(account, contentID)] = true
}

// PriceOf returns the scripted price
func (f *FakeOracle) PriceOf(ctx context.Context, contentID uint64) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PriceCalls++
	if f.PriceErr != nil {
		return nil, f.PriceErr
	}
	return f.Price, nil
}

// HasAccess returns the scripted entitlement for the pair
func (f *FakeOracle) HasAccess(ctx context.Context, account common.Address,
	contentID uint64) (bool, error) {
	f.mu.Lock()
	f.AccessCalls++
	block := f.AccessBlock
	accessErr := f.AccessErr
	granted := f.Granted[grantKey(account, contentID)]
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if accessErr != nil {
		return false, accessErr
	}
	return granted, nil
}

// PayForContent returns the scripted payment outcome, optionally blocking
// until the test releases PayBlock
func (f *FakeOracle) PayForContent(ctx context.Context, account common.Address,
	contentID uint64, amount *big.Int) (*model.PaymentReceipt, error) {
	f.mu.Lock()
	f.PayCalls++
	block := f.PayBlock
	payErr := f.PayErr
	payGrants := f.PayGrants
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if payErr != nil {
		return nil, payErr
	}
	if payGrants {
		f.Grant(account, contentID)
	}
	return model.NewPaymentReceipt(&model.PaymentReceiptParams{
		TxHash:      common.HexToHash("0xabc123"),
		BlockNumber: 42,
		ConfirmedTs: 1257894000,
	}), nil
}

// TestPersister is an in-memory model.PurchaseReceiptPersister
type TestPersister struct {
	mu sync.Mutex

	receipts []*model.PurchaseReceipt
}

// CreatePurchaseReceipt stores the receipt in memory
func (t *TestPersister) CreatePurchaseReceipt(receipt *model.PurchaseReceipt) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.receipts = append(t.receipts, receipt)
	return nil
}

// PurchaseReceiptsByAccount returns the stored receipts for the account
func (t *TestPersister) PurchaseReceiptsByAccount(account common.Address) (
	[]*model.PurchaseReceipt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	results := []*model.PurchaseReceipt{}
	for _, receipt := range t.receipts {
		if receipt.AccountAddress() == account {
			results = append(results, receipt)
		}
	}
	if len(results) == 0 {
		return nil, model.ErrPersisterNoResults
	}
	return results, nil
}

// AllReceipts returns every stored receipt
func (t *TestPersister) AllReceipts() []*model.PurchaseReceipt {
	t.mu.Lock()
	defer t.mu.Unlock()
	receipts := make([]*model.PurchaseReceipt, len(t.receipts))
	copy(receipts, t.receipts)
	return receipts
}

// FakeDirectory is an in-memory model.ContentDirectory
type FakeDirectory struct {
	Posts map[string]*model.Post
}

// NewFakeDirectory returns a FakeDirectory holding the given posts
func NewFakeDirectory(posts ...*model.Post) *FakeDirectory {
	directory := &FakeDirectory{Posts: map[string]*model.Post{}}
	for _, post := range posts {
		directory.Posts[post.Slug()] = post
	}
	return directory
}

// PostBySlug returns the post for the slug
func (f *FakeDirectory) PostBySlug(slug string) (*model.Post, error) {
	post, ok := f.Posts[slug]
	if !ok {
		return nil, model.ErrDirectoryNoResults
	}
	return post, nil
}

// AllPosts returns all posts
func (f *FakeDirectory) AllPosts() ([]*model.Post, error) {
	posts := []*model.Post{}
	for _, post := range f.Posts {
		posts = append(posts, post)
	}
	return posts, nil
}
