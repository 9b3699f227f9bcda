package services

import (
	"strconv"
	"strings"
	"time"
)

// Anti-abuse gate for guest submissions. All checks here are pure predicates
// over the request payload and the clock; none touch storage. The gate runs
// honeypot first, then timing, then the rate limiter, so obviously-bot
// traffic never consumes rate-limit quota.

// HoneypotField is a hidden form field legitimate clients never populate.
const HoneypotField = "website"

const (
	minFormAge = 2 * time.Second
	maxFormAge = 60 * time.Minute
)

// IsHoneypotFilled reports whether the hidden field carries a non-whitespace
// value, a cheap bot signal.
func IsHoneypotFilled(value string) bool {
	return strings.TrimSpace(value) != ""
}

// IsFormTimingValid checks the client-captured render timestamp (epoch
// milliseconds). Submissions faster than 2 s are automated, older than 60 min
// are stale or replayed. The comparison happens in whole milliseconds, the
// field's own precision, so both boundaries are exact regardless of the
// sub-millisecond part of now.
func IsFormTimingValid(formTS string, now time.Time) bool {
	ts, err := strconv.ParseInt(strings.TrimSpace(formTS), 10, 64)
	if err != nil {
		return false
	}
	delta := now.UnixMilli() - ts
	return delta >= minFormAge.Milliseconds() && delta <= maxFormAge.Milliseconds()
}

// CheckSpam applies the honeypot and timing checks, returning ErrSpamRejected
// on either failure. The error message is intentionally generic.
func CheckSpam(honeypot, formTS string, now time.Time) error {
	if IsHoneypotFilled(honeypot) {
		return ErrSpamRejected
	}
	if !IsFormTimingValid(formTS, now) {
		return ErrSpamRejected
	}
	return nil
}
