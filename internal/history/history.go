package history

import (
	"context"
	"time"
)

// RetentionSeconds is one week. A record past CheckTime+RetentionSeconds is
// reaped by the storage layer's TTL mechanism; application code never
// deletes records.
const RetentionSeconds = 604800

// Defaults bounding how far back the comparator reads.
const (
	DefaultWindowSeconds = 6000
	DefaultRecentLimit   = 10
)

// OutcomeRecord is the result of one health check. CheckTime and Outcome
// together form the storage key; ExpirationTime only drives expiry.
type OutcomeRecord struct {
	CheckTime      int64
	Outcome        bool
	ExpirationTime int64
}

// Expiry returns the TTL timestamp for a check performed at checkTime.
func Expiry(checkTime int64) int64 {
	return checkTime + RetentionSeconds
}

// NewRecord builds the record for one finalized outcome.
func NewRecord(at time.Time, outcome bool) OutcomeRecord {
	ts := at.Unix()
	return OutcomeRecord{
		CheckTime:      ts,
		Outcome:        outcome,
		ExpirationTime: Expiry(ts),
	}
}

// Store is the port for the monitor history; any DB adapter can back it.
// Recent returns records with CheckTime in [now-windowSeconds, now], at
// most limit of them, in no particular order.
type Store interface {
	Append(ctx context.Context, rec OutcomeRecord) error
	Recent(ctx context.Context, windowSeconds int64, limit int) ([]OutcomeRecord, error)
}
