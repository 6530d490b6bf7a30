package listing

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/openpioneer/marketplace-notify/internal/domain"
)

func testCalc() *ExpiryCalculator {
	return NewExpiryCalculator(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func itemWithExpiry(duration int, expiredBy time.Time) *domain.SellerItem {
	return &domain.SellerItem{
		ID:        "item-1",
		SellerID:  "seller-1",
		Duration:  duration,
		ExpiredBy: &expiredBy,
	}
}

var frozenNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{-3, 1},
		{1, 1},
		{8, 8},
	}
	for _, tt := range tests {
		if got := NormalizeDuration(tt.in); got != tt.want {
			t.Errorf("NormalizeDuration(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsExpired(t *testing.T) {
	if !IsExpired(nil, frozenNow) {
		t.Error("nil item should be expired")
	}
	if !IsExpired(&domain.SellerItem{}, frozenNow) {
		t.Error("item without expiry should be expired")
	}
	if !IsExpired(itemWithExpiry(2, frozenNow.Add(-time.Hour)), frozenNow) {
		t.Error("past expiry should be expired")
	}
	if IsExpired(itemWithExpiry(2, frozenNow.Add(time.Hour)), frozenNow) {
		t.Error("future expiry should not be expired")
	}
}

func TestRemainingWeeks(t *testing.T) {
	calc := testCalc()

	tests := []struct {
		name string
		item *domain.SellerItem
		want int
	}{
		{"nil item", nil, 0},
		{"no expiry", &domain.SellerItem{Duration: 5}, 0},
		{"no duration", itemWithExpiry(0, frozenNow.Add(3*Week)), 0},
		// 3 whole weeks left minus the current partial week
		{"three weeks left", itemWithExpiry(5, frozenNow.Add(3*Week)), 2},
		{"one week left", itemWithExpiry(5, frozenNow.Add(1*Week)), 0},
		{"already expired", itemWithExpiry(5, frozenNow.Add(-2*Week)), 0},
		// capped at contracted duration
		{"capped at duration", itemWithExpiry(2, frozenNow.Add(10*Week)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.RemainingWeeks(tt.item, frozenNow); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChangeInWeeks(t *testing.T) {
	calc := testCalc()

	t.Run("extension", func(t *testing.T) {
		item := itemWithExpiry(2, frozenNow.Add(2*Week))
		if got := calc.ChangeInWeeks(item, 5, frozenNow); got != 3 {
			t.Errorf("got %d, want 3", got)
		}
	})

	t.Run("no change", func(t *testing.T) {
		item := itemWithExpiry(4, frozenNow.Add(3*Week))
		if got := calc.ChangeInWeeks(item, 4, frozenNow); got != 0 {
			t.Errorf("got %d, want 0", got)
		}
	})

	t.Run("durations coerced to one week minimum", func(t *testing.T) {
		item := &domain.SellerItem{Duration: 0}
		if got := calc.ChangeInWeeks(item, 0, frozenNow); got != 0 {
			t.Errorf("got %d, want 0", got)
		}
	})

	t.Run("reduction within remaining weeks", func(t *testing.T) {
		// 5 whole weeks to expiry: remaining = 5 - 1 = 4
		item := itemWithExpiry(5, frozenNow.Add(5*Week))
		if got := calc.ChangeInWeeks(item, 1, frozenNow); got != -4 {
			t.Errorf("got %d, want -4", got)
		}
	})

	t.Run("reduction beyond remaining weeks clamps to zero", func(t *testing.T) {
		// 2 whole weeks to expiry: remaining = 1, so -4 is clamped
		item := itemWithExpiry(5, frozenNow.Add(2*Week))
		if got := calc.ChangeInWeeks(item, 1, frozenNow); got != 0 {
			t.Errorf("got %d, want 0", got)
		}
	})
}

func TestNewExpiry(t *testing.T) {
	calc := testCalc()

	t.Run("expired item resets from now", func(t *testing.T) {
		item := itemWithExpiry(5, frozenNow.Add(-3*Week))
		got := calc.NewExpiry(item, 4, frozenNow)
		want := frozenNow.Add(4 * Week)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("missing expiry resets from now", func(t *testing.T) {
		item := &domain.SellerItem{Duration: 2}
		got := calc.NewExpiry(item, 3, frozenNow)
		want := frozenNow.Add(3 * Week)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("extension shifts expiry forward", func(t *testing.T) {
		expiry := frozenNow.Add(2 * Week)
		item := itemWithExpiry(2, expiry)
		got := calc.NewExpiry(item, 5, frozenNow)
		want := expiry.Add(3 * Week)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("reduction shifts expiry backward", func(t *testing.T) {
		expiry := frozenNow.Add(5 * Week)
		item := itemWithExpiry(5, expiry)
		got := calc.NewExpiry(item, 3, frozenNow)
		want := expiry.Add(-2 * Week)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("no change keeps expiry", func(t *testing.T) {
		expiry := frozenNow.Add(3 * Week)
		item := itemWithExpiry(3, expiry)
		got := calc.NewExpiry(item, 3, frozenNow)
		if !got.Equal(expiry) {
			t.Errorf("got %v, want %v", got, expiry)
		}
	})
}
