package listing

import (
	"fmt"

	"github.com/openpioneer/marketplace-notify/internal/domain"
)

// StockValidationError reports a structurally impossible stock transition:
// consuming more units than a countable level holds, or consuming from a
// level this machine does not know about. It surfaces to the caller as a
// rejected request and is never silently absorbed.
type StockValidationError struct {
	Level    domain.StockLevel
	Quantity int
	Reason   string
}

func (e *StockValidationError) Error() string {
	return fmt.Sprintf("stock validation failed for level %q (quantity %d): %s", e.Level, e.Quantity, e.Reason)
}

// NextStockOnConsume computes the stock level after consuming quantity units.
// A nil result with a nil error means the level is unlimited and does not
// change. Over-consumption beyond a countable level is a caller bug and
// fails loudly.
func NextStockOnConsume(level domain.StockLevel, quantity int) (*domain.StockLevel, error) {
	switch level {
	case domain.StockAvailable1:
		if quantity == 1 {
			return stockPtr(domain.StockSold), nil
		}
		return nil, &StockValidationError{Level: level, Quantity: quantity, Reason: "only 1 unit available"}

	case domain.StockAvailable2:
		switch quantity {
		case 1:
			return stockPtr(domain.StockAvailable1), nil
		case 2:
			return stockPtr(domain.StockSold), nil
		}
		return nil, &StockValidationError{Level: level, Quantity: quantity, Reason: "only 2 units available"}

	case domain.StockAvailable3:
		switch quantity {
		case 1:
			return stockPtr(domain.StockAvailable2), nil
		case 2:
			return stockPtr(domain.StockAvailable1), nil
		case 3:
			return stockPtr(domain.StockSold), nil
		}
		return nil, &StockValidationError{Level: level, Quantity: quantity, Reason: "only 3 units available"}

	case domain.StockManyAvailable, domain.StockMadeToOrder, domain.StockOngoingService:
		// Unlimited capacity: consumption never changes the level.
		return nil, nil
	}

	return nil, &StockValidationError{Level: level, Quantity: quantity, Reason: "unhandled stock level"}
}

// NextStockOnRollback computes the stock level after returning quantity units
// when an order is cancelled or refunded. A nil result means no change.
// Unlike consumption, rolling back beyond tracked capacity is tolerated as a
// no-op so refund flows are never blocked.
func NextStockOnRollback(level domain.StockLevel, quantity int) *domain.StockLevel {
	switch level {
	case domain.StockSold:
		switch quantity {
		case 1:
			return stockPtr(domain.StockAvailable1)
		case 2:
			return stockPtr(domain.StockAvailable2)
		case 3:
			return stockPtr(domain.StockAvailable3)
		}

	case domain.StockAvailable1:
		switch quantity {
		case 1:
			return stockPtr(domain.StockAvailable2)
		case 2:
			return stockPtr(domain.StockAvailable3)
		}

	case domain.StockAvailable2:
		if quantity == 1 {
			return stockPtr(domain.StockAvailable3)
		}
	}

	return nil
}

func stockPtr(level domain.StockLevel) *domain.StockLevel {
	return &level
}
