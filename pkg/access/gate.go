package access

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/golang/glog"

	"github.com/dgca/paywalled-blog/pkg/model"
	"github.com/dgca/paywalled-blog/pkg/utils"
)

// ErrUnlockInFlight is returned by RequestUnlock when a payment attempt is
// already in flight for the pair. The new request is rejected, not queued,
// so a pair can never submit two payments concurrently.
var ErrUnlockInFlight = errors.New("unlock already in flight for this pair")

// Transition describes a single status change for an (account, content)
// pair, delivered to gate subscribers as it occurs
type Transition struct {
	Account model.Account
	Content model.ContentRef
	From    model.StatusReport
	To      model.StatusReport
	Ts      int64
}

// SubscriberFunc receives gate transitions
type SubscriberFunc func(Transition)

type pairKey struct {
	account   string
	contentID uint64
}

// cell is the per-pair state owned by the gate. The generation counter
// marks outstanding oracle responses stale when the pair is reset: a late
// result whose generation no longer matches is discarded, never applied.
type cell struct {
	account model.Account
	content model.ContentRef

	report model.StatusReport

	generation uint64

	resolving bool
	unlocking bool

	attempt *model.PaymentAttempt
}

// NewGate is a convenience function to init a Gate
func NewGate(resolver *Resolver, orchestrator *Orchestrator) *Gate {
	return &Gate{
		resolver:     resolver,
		orchestrator: orchestrator,
		cells:        map[pairKey]*cell{},
	}
}

// Gate is the access state machine. It owns the entitlement status for each
// (account, content) pair, enforces at most one in-flight resolver query
// and one in-flight payment attempt per pair, and reports every status
// change to subscribers. Renderers decide paywall vs full content from the
// gate's report alone.
type Gate struct {
	mu sync.Mutex

	resolver     *Resolver
	orchestrator *Orchestrator

	cells map[pairKey]*cell

	subscribers []SubscriberFunc

	// pending holds applied transitions awaiting delivery, in apply order.
	// Guarded by mu; drained under notifyMu so subscribers observe
	// transitions in the order the gate applied them.
	pending  []Transition
	notifyMu sync.Mutex
}

// Subscribe registers a subscriber for status transitions. Subscribers are
// invoked synchronously in registration order, in the order the transitions
// were applied. Subscribers must not call back into the gate.
func (g *Gate) Subscribe(fn SubscriberFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

// Status returns the current entitlement status for the pair, resolving
// against the oracle when the pair has no fresh answer. An absent account
// returns StatusUnconnected synchronously with no oracle call. StatusUnlocked
// is terminal for the session: once observed, no further oracle calls are
// made for the pair.
func (g *Gate) Status(ctx context.Context, account model.Account,
	content model.ContentRef) model.StatusReport {
	if !account.Connected() {
		return model.ReportStatus(model.StatusUnconnected)
	}

	g.mu.Lock()
	c := g.cellLocked(account, content)
	if c.report.Status == model.StatusUnlocked {
		report := c.report
		g.mu.Unlock()
		return report
	}
	if c.resolving || c.unlocking {
		// A query or payment is already in flight; report progress rather
		// than issuing a second oracle call for the pair.
		report := c.report
		g.mu.Unlock()
		return report
	}
	c.resolving = true
	gen := c.generation
	g.enqueueLocked(account, content, c.report, model.ReportStatus(model.StatusChecking))
	c.report = model.ReportStatus(model.StatusChecking)
	g.mu.Unlock()

	g.flush()

	report := g.resolver.Resolve(ctx, account, content)

	g.mu.Lock()
	c = g.cellLocked(account, content)
	if c.generation != gen {
		// The pair was reset or superseded while the query was
		// outstanding. Discard.
		g.mu.Unlock()
		return report
	}
	c.resolving = false
	g.enqueueLocked(account, content, c.report, report)
	c.report = report
	g.mu.Unlock()

	g.flush()
	return report
}

// RequestUnlock drives the pay-and-unlock sequence for the pair. Returns
// ErrUnlockInFlight if an attempt is already outstanding; a pair already
// unlocked returns its status without submitting anything. Retry after a
// failed attempt is accepted.
func (g *Gate) RequestUnlock(ctx context.Context, account model.Account,
	content model.ContentRef) (model.StatusReport, error) {
	if !account.Connected() {
		return model.ReportFailure(model.ReasonUnconnected), nil
	}

	g.mu.Lock()
	c := g.cellLocked(account, content)
	if c.report.Status == model.StatusUnlocked {
		report := c.report
		g.mu.Unlock()
		return report, nil
	}
	if c.unlocking {
		report := c.report
		g.mu.Unlock()
		return report, ErrUnlockInFlight
	}
	if c.resolving {
		// Abandon the outstanding query. Its answer predates the payment
		// and must never overwrite the state the unlock is about to write;
		// the post-payment re-resolution supersedes it.
		c.generation++
		c.resolving = false
	}
	attempt := model.NewPaymentAttempt(&model.PaymentAttemptParams{
		Content:     content,
		Account:     account,
		SubmittedTs: utils.CurrentEpochSecsInInt64(),
	})
	c.unlocking = true
	c.attempt = attempt
	gen := c.generation
	g.enqueueLocked(account, content, c.report, model.ReportStatus(model.StatusUnlocking))
	c.report = model.ReportStatus(model.StatusUnlocking)
	g.mu.Unlock()

	g.flush()

	report := g.orchestrator.Unlock(ctx, attempt)

	g.mu.Lock()
	c = g.cellLocked(account, content)
	if c.generation != gen {
		g.mu.Unlock()
		return report, nil
	}
	c.unlocking = false
	c.attempt = nil
	g.enqueueLocked(account, content, c.report, report)
	c.report = report
	g.mu.Unlock()

	g.flush()
	return report, nil
}

// Forget discards the gate's state for the pair, e.g. on page teardown or
// wallet switch. Any outstanding query or payment result for the pair is
// marked stale and will be discarded when it arrives; the payment itself,
// once submitted to the ledger, is not withdrawn.
func (g *Gate) Forget(account model.Account, content model.ContentRef) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := pairKey{account: account.Hex(), contentID: content.ID()}
	c, ok := g.cells[key]
	if !ok {
		return
	}
	c.generation++
	c.resolving = false
	c.unlocking = false
	c.attempt = nil
	c.report = model.ReportStatus(model.StatusUnknown)
}

// ReconcilePending sweeps pairs whose payment attempt has been outstanding
// longer than maxAge, abandons the wait and re-resolves against the oracle.
// The hung attempt's eventual result is discarded via the generation bump;
// the oracle's answer, not the stuck wait, decides the pair's status.
func (g *Gate) ReconcilePending(ctx context.Context, maxAge time.Duration) {
	now := utils.CurrentEpochSecsInInt64()
	cutoff := int64(maxAge.Seconds())

	g.mu.Lock()
	var stuck []*cell
	for _, c := range g.cells {
		if c.unlocking && c.attempt != nil && now-c.attempt.SubmittedTs() > cutoff {
			c.generation++
			c.resolving = false
			c.unlocking = false
			c.attempt = nil
			stuck = append(stuck, c)
		}
	}
	g.mu.Unlock()

	for _, c := range stuck {
		log.Infof("Reconciling stale payment attempt: account: %v, content: %v",
			c.account.Hex(), c.content.ID())
		g.Status(ctx, c.account, c.content)
	}
}

// cellLocked returns the cell for the pair, creating it if needed. Callers
// must hold g.mu.
func (g *Gate) cellLocked(account model.Account, content model.ContentRef) *cell {
	key := pairKey{account: account.Hex(), contentID: content.ID()}
	c, ok := g.cells[key]
	if !ok {
		c = &cell{
			account: account,
			content: content,
			report:  model.ReportStatus(model.StatusUnknown),
		}
		g.cells[key] = c
	}
	return c
}

// enqueueLocked appends a transition to the delivery queue. No-op
// transitions are not queued. Callers must hold g.mu, so the queue order
// matches the order state changes were applied.
func (g *Gate) enqueueLocked(account model.Account, content model.ContentRef,
	from model.StatusReport, to model.StatusReport) {
	if from == to {
		return
	}
	g.pending = append(g.pending, Transition{
		Account: account,
		Content: content,
		From:    from,
		To:      to,
		Ts:      utils.CurrentEpochSecsInInt64(),
	})
}

// flush delivers queued transitions to subscribers in apply order. Returns
// once this caller's transitions have been delivered, by this goroutine or
// by a concurrent flusher.
func (g *Gate) flush() {
	g.notifyMu.Lock()
	defer g.notifyMu.Unlock()
	for {
		g.mu.Lock()
		if len(g.pending) == 0 {
			g.mu.Unlock()
			return
		}
		pending := g.pending
		g.pending = nil
		subscribers := make([]SubscriberFunc, len(g.subscribers))
		copy(subscribers, g.subscribers)
		g.mu.Unlock()

		for _, t := range pending {
			for _, fn := range subscribers {
				fn(t)
			}
		}
	}
}
