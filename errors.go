package bankroll

import "errors"

var (
	// ErrNotFound is returned when a wager or withdrawal id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrMalformedFile is returned when an import file cannot be used at all.
	ErrMalformedFile = errors.New("malformed ledger file")
	// ErrInvalidTransition is returned for a status change other than Pending to Won or Lost.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidAmount is returned for negative or non-positive amounts where they are forbidden.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvariant is returned when a mutation would leave the ledger inconsistent.
	ErrInvariant = errors.New("ledger invariant violated")
	// ErrNoClassifier is returned by operations needing a classifier when none is configured.
	ErrNoClassifier = errors.New("no classifier configured")
	// ErrNoAdvisor is returned by Advise when no advisor is configured.
	ErrNoAdvisor = errors.New("no advisor configured")
	// ErrDuplicateID is returned when adding a record whose id already exists.
	ErrDuplicateID = errors.New("duplicate id")
)
