package listing

import (
	"log/slog"
	"time"

	"github.com/openpioneer/marketplace-notify/internal/domain"
)

// Week is the unit of listing time. Duration changes are charged and
// refunded in whole weeks.
const Week = 7 * 24 * time.Hour

// NormalizeDuration coerces a requested duration to the 1-week minimum.
func NormalizeDuration(weeks int) int {
	if weeks < 1 {
		return 1
	}
	return weeks
}

// IsExpired reports whether the item's listing has lapsed. An absent item or
// an item without an expiry is treated as expired.
func IsExpired(item *domain.SellerItem, now time.Time) bool {
	if item == nil || item.ExpiredBy == nil {
		return true
	}
	return now.After(*item.ExpiredBy)
}

// ExpiryCalculator computes week deltas and expiry dates for duration
// changes. All methods take the current time explicitly so callers and tests
// control the clock.
type ExpiryCalculator struct {
	logger *slog.Logger
}

func NewExpiryCalculator(logger *slog.Logger) *ExpiryCalculator {
	return &ExpiryCalculator{logger: logger}
}

// RemainingWeeks returns the whole refundable weeks left on a listing: weeks
// until expiry minus the current partial week, floored at zero and capped at
// the contracted duration. Items without an expiry or duration have nothing
// left to refund.
func (c *ExpiryCalculator) RemainingWeeks(item *domain.SellerItem, now time.Time) int {
	if item == nil || item.ExpiredBy == nil || item.Duration == 0 {
		return 0
	}

	weeksLeft := int(item.ExpiredBy.Sub(now) / Week)

	// The current week is already in use and never refundable.
	remaining := weeksLeft - 1
	if remaining < 0 {
		remaining = 0
	}
	if remaining > item.Duration {
		remaining = item.Duration
	}
	return remaining
}

// ChangeInWeeks returns the signed week delta between the existing and the
// requested duration, both coerced to the 1-week minimum. Shortening beyond
// the remaining refundable weeks is clamped to zero rather than rejected;
// the clamp is a policy choice, not an error.
func (c *ExpiryCalculator) ChangeInWeeks(existing *domain.SellerItem, requestedDuration int, now time.Time) int {
	newDuration := NormalizeDuration(requestedDuration)
	existingDuration := 1
	if existing != nil {
		existingDuration = NormalizeDuration(existing.Duration)
	}

	change := newDuration - existingDuration

	if change < 0 {
		remaining := c.RemainingWeeks(existing, now)
		if -change > remaining {
			c.logger.Warn("duration reduction exceeds remaining weeks, clamping to zero",
				"requested_reduction", -change,
				"remaining_weeks", remaining,
			)
			return 0
		}
	}

	return change
}

// NewExpiry derives the expiry date after a duration change. An already
// expired listing restarts from now with the full requested duration; a live
// listing shifts its existing expiry by the week delta.
func (c *ExpiryCalculator) NewExpiry(existing *domain.SellerItem, requestedDuration int, now time.Time) time.Time {
	if IsExpired(existing, now) {
		return now.Add(time.Duration(NormalizeDuration(requestedDuration)) * Week)
	}

	change := c.ChangeInWeeks(existing, requestedDuration, now)
	return existing.ExpiredBy.Add(time.Duration(change) * Week)
}
