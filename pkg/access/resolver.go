// Package access contains the access-gating core: the entitlement resolver,
// the payment orchestrator and the gate state machine that reconciles local
// belief, the on-chain entitlement oracle and the content store into a
// single render decision.
package access

import (
	"context"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/dgca/paywalled-blog/pkg/model"
)

// NewResolver is a convenience function to init a Resolver
func NewResolver(oracle model.EntitlementOracle) *Resolver {
	return &Resolver{oracle: oracle}
}

// Resolver determines the current access state of an (account, content)
// pair by querying the oracle's access predicate. Pure read, no side
// effects, safe to call repeatedly.
type Resolver struct {
	oracle model.EntitlementOracle
}

// Resolve returns the entitlement status for the given pair. An absent
// account short-circuits to StatusUnconnected without a network call. Every
// error path fails closed: the result is never StatusUnlocked unless the
// oracle positively confirmed entitlement.
func (r *Resolver) Resolve(ctx context.Context, account model.Account,
	content model.ContentRef) model.StatusReport {
	if !account.Connected() {
		return model.ReportStatus(model.StatusUnconnected)
	}

	hasAccess, err := r.oracle.HasAccess(ctx, account.Address(), content.ID())
	if err != nil {
		reason := queryFailureReason(err)
		log.Errorf("Error resolving entitlement for %v, content %v: reason: %v: err: %v",
			account.Hex(), content.ID(), reason, err)
		return model.ReportFailure(reason)
	}

	if hasAccess {
		return model.ReportStatus(model.StatusUnlocked)
	}
	return model.ReportStatus(model.StatusLocked)
}

// queryFailureReason maps an oracle query error to its stable failure
// category
func queryFailureReason(err error) model.FailureReason {
	if err == nil {
		return model.ReasonUnknown
	}
	if errors.Cause(err) == model.ErrOracleNotConfigured {
		return model.ReasonConfig
	}
	return model.ReasonNetwork
}
