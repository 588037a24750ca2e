package model

// EntitlementStatus specifies the gateway's current belief about whether an
// (account, content) pair may view full content. It is derived state only;
// the oracle is the durable source of truth and the status is never
// persisted.
type EntitlementStatus int

const (
	// StatusUnknown is the zero value before any resolution has happened
	StatusUnknown EntitlementStatus = iota

	// StatusUnconnected means no wallet is connected. Not an error, a
	// precondition.
	StatusUnconnected

	// StatusChecking means a resolver query against the oracle is in flight
	StatusChecking

	// StatusLocked means the oracle reported no entitlement for the pair
	StatusLocked

	// StatusUnlocking means a payment attempt is in flight for the pair
	StatusUnlocking

	// StatusUnlocked means the oracle positively confirmed entitlement.
	// Terminal for the session.
	StatusUnlocked

	// StatusFailed means the last resolve or unlock attempt failed; the
	// reason carries the failure category
	StatusFailed
)

var statusNames = map[EntitlementStatus]string{
	StatusUnknown:     "unknown",
	StatusUnconnected: "unconnected",
	StatusChecking:    "checking",
	StatusLocked:      "locked",
	StatusUnlocking:   "unlocking",
	StatusUnlocked:    "unlocked",
	StatusFailed:      "failed",
}

// String returns the name for this status
func (s EntitlementStatus) String() string {
	name, ok := statusNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

// FailureReason is a stable, machine-readable category for a Failed status.
// Renderers key user-facing messages off these values, so they must not
// change between releases.
type FailureReason string

const (
	// ReasonNone is the empty reason for any non-failed status
	ReasonNone FailureReason = ""

	// ReasonNetwork is a transient oracle query failure, retryable
	ReasonNetwork FailureReason = "network"

	// ReasonConfig means the oracle contract address is missing or invalid.
	// Fatal for the session, not retryable without redeployment.
	ReasonConfig FailureReason = "config"

	// ReasonUnknown is an uncategorized failure
	ReasonUnknown FailureReason = "unknown"

	// ReasonUnconnected means an unlock was requested with no wallet connected
	ReasonUnconnected FailureReason = "unconnected"

	// ReasonPriceUnavailable means the price fetch failed before any funds
	// were risked
	ReasonPriceUnavailable FailureReason = "price-unavailable"

	// ReasonPaymentRejected means the user or the ledger declined the
	// payment, retryable
	ReasonPaymentRejected FailureReason = "payment-rejected"

	// ReasonPaymentError is an unexpected payment submission failure,
	// retryable
	ReasonPaymentError FailureReason = "payment-error"

	// ReasonNotGranted means the payment was confirmed but the access
	// predicate still reported no entitlement. Anomalous after repeated
	// occurrence.
	ReasonNotGranted FailureReason = "not-granted"
)

// StatusReport is the status of an (account, content) pair plus the failure
// reason when the status is StatusFailed
type StatusReport struct {
	Status EntitlementStatus
	Reason FailureReason
}

// ReportStatus returns a StatusReport with no failure reason
func ReportStatus(status EntitlementStatus) StatusReport {
	return StatusReport{Status: status}
}

// ReportFailure returns a StatusReport in StatusFailed with the given reason
func ReportFailure(reason FailureReason) StatusReport {
	return StatusReport{Status: StatusFailed, Reason: reason}
}

// Unlocked returns true if this report grants access to full content
func (r StatusReport) Unlocked() bool {
	return r.Status == StatusUnlocked
}
