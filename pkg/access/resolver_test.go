package access_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dgca/paywalled-blog/pkg/access"
	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/testutils"
)

const (
	testAccountAddress = "0x2652c60CF04bbf6bB6cc8A5e6f1C18143729d440"
)

func testAccount() model.Account {
	return model.NewAccount(common.HexToAddress(testAccountAddress))
}

func testContent() model.ContentRef {
	return model.NewContentRef(3, "hello-world")
}

func TestResolveUnconnected(t *testing.T) {
	fake := testutils.NewFakeOracle()
	resolver := access.NewResolver(fake)

	report := resolver.Resolve(context.Background(), model.NoAccount(), testContent())
	if report.Status != model.StatusUnconnected {
		t.Errorf("Should have returned unconnected status: status: %v", report.Status)
	}
	if fake.AccessCalls != 0 {
		t.Errorf("Should not have made an oracle call for an absent account")
	}
}

func TestResolveLocked(t *testing.T) {
	fake := testutils.NewFakeOracle()
	resolver := access.NewResolver(fake)

	report := resolver.Resolve(context.Background(), testAccount(), testContent())
	if report.Status != model.StatusLocked {
		t.Errorf("Should have returned locked status: status: %v", report.Status)
	}
}

func TestResolveUnlocked(t *testing.T) {
	fake := testutils.NewFakeOracle()
	fake.Grant(testAccount().Address(), testContent().ID())
	resolver := access.NewResolver(fake)

	report := resolver.Resolve(context.Background(), testAccount(), testContent())
	if report.Status != model.StatusUnlocked {
		t.Errorf("Should have returned unlocked status: status: %v", report.Status)
	}
}

func TestResolveFailsClosedOnNetworkError(t *testing.T) {
	fake := testutils.NewFakeOracle()
	fake.Grant(testAccount().Address(), testContent().ID())
	fake.AccessErr = errors.New("connection refused")
	resolver := access.NewResolver(fake)

	report := resolver.Resolve(context.Background(), testAccount(), testContent())
	if report.Status == model.StatusUnlocked {
		t.Fatalf("Should never have returned unlocked on a query error")
	}
	if report.Status != model.StatusFailed {
		t.Errorf("Should have returned failed status: status: %v", report.Status)
	}
	if report.Reason != model.ReasonNetwork {
		t.Errorf("Should have categorized the failure as network: reason: %v", report.Reason)
	}
}

func TestResolveConfigError(t *testing.T) {
	fake := testutils.NewFakeOracle()
	fake.AccessErr = model.ErrOracleNotConfigured
	resolver := access.NewResolver(fake)

	report := resolver.Resolve(context.Background(), testAccount(), testContent())
	if report.Status != model.StatusFailed {
		t.Errorf("Should have returned failed status: status: %v", report.Status)
	}
	if report.Reason != model.ReasonConfig {
		t.Errorf("Should have categorized the failure as config: reason: %v", report.Reason)
	}
}

func TestResolveIdempotent(t *testing.T) {
	fake := testutils.NewFakeOracle()
	resolver := access.NewResolver(fake)

	first := resolver.Resolve(context.Background(), testAccount(), testContent())
	second := resolver.Resolve(context.Background(), testAccount(), testContent())
	if first != second {
		t.Errorf("Should have returned the same status both times: first: %v, second: %v",
			first, second)
	}
}
