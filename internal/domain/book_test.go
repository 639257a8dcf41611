package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func lv(price, qty string) Level {
	return Level{Price: d(price), Qty: d(qty)}
}

func TestApplyRemoveAbsentLevel(t *testing.T) {
	b := NewBook()
	if err := b.ApplySnapshot([]Level{lv("100.0", "2")}, []Level{lv("101.0", "3")}); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}

	// zero-qty delta for a price the replica never held
	b.Apply(Bid, d("98.5"), d("0"))

	bids := b.Bids()
	if len(bids) != 1 || !bids[0].Price.Equal(d("100")) || !bids[0].Qty.Equal(d("2")) {
		t.Errorf("book changed by removal of absent level: %+v", bids)
	}
}

func TestApplyReplaceSemantics(t *testing.T) {
	b := NewBook()
	b.Apply(Ask, d("101.0"), d("3"))
	b.Apply(Ask, d("101.00"), d("7"))

	asks := b.Asks()
	if len(asks) != 1 {
		t.Fatalf("expected one level at 101, got %d", len(asks))
	}
	if !asks[0].Qty.Equal(d("7")) {
		t.Errorf("expected qty 7 after replace, got %s", asks[0].Qty)
	}
}

func TestApplySnapshotNonEmpty(t *testing.T) {
	b := NewBook()
	b.Apply(Bid, d("100"), d("1"))

	err := b.ApplySnapshot([]Level{lv("99", "1")}, nil)
	if err != ErrBookNotEmpty {
		t.Fatalf("expected ErrBookNotEmpty, got %v", err)
	}
	// original level untouched
	if bids := b.Bids(); len(bids) != 1 || !bids[0].Price.Equal(d("100")) {
		t.Errorf("failed snapshot modified the book: %+v", bids)
	}
}

func TestBestAndSpreadUndefined(t *testing.T) {
	b := NewBook()
	if _, ok := b.BestBid(); ok {
		t.Error("BestBid defined on empty book")
	}
	if _, ok := b.Spread(); ok {
		t.Error("Spread defined on empty book")
	}

	b.Apply(Ask, d("101"), d("1"))
	if _, ok := b.Spread(); ok {
		t.Error("Spread defined with empty bid side")
	}
	if ask, ok := b.BestAsk(); !ok || !ask.Equal(d("101")) {
		t.Errorf("BestAsk = %v, %v", ask, ok)
	}
}

func TestSortedReads(t *testing.T) {
	b := NewBook()
	b.Apply(Bid, d("99.5"), d("1"))
	b.Apply(Bid, d("100"), d("1"))
	b.Apply(Bid, d("98"), d("1"))
	b.Apply(Ask, d("102"), d("1"))
	b.Apply(Ask, d("100.5"), d("1"))

	bids := b.Bids()
	for i := 1; i < len(bids); i++ {
		if bids[i].Price.GreaterThanOrEqual(bids[i-1].Price) {
			t.Fatalf("bids not descending: %+v", bids)
		}
	}
	asks := b.Asks()
	for i := 1; i < len(asks); i++ {
		if asks[i].Price.LessThanOrEqual(asks[i-1].Price) {
			t.Fatalf("asks not ascending: %+v", asks)
		}
	}
	if !bids[0].Price.Equal(d("100")) || !asks[0].Price.Equal(d("100.5")) {
		t.Errorf("best levels wrong: bid %s ask %s", bids[0].Price, asks[0].Price)
	}
}

func TestSnapshotThenDeltaScenario(t *testing.T) {
	b := NewBook()
	if err := b.ApplySnapshot([]Level{lv("100.0", "2")}, []Level{lv("101.0", "3")}); err != nil {
		t.Fatalf("ApplySnapshot failed: %v", err)
	}

	// delta: a=[["101.0","0"],["102.0","1"]], b=[["100.0","0"],["99.5","4"]]
	b.Apply(Ask, d("101.0"), d("0"))
	b.Apply(Ask, d("102.0"), d("1"))
	b.Apply(Bid, d("100.0"), d("0"))
	b.Apply(Bid, d("99.5"), d("4"))

	bids, asks := b.Bids(), b.Asks()
	if len(bids) != 1 || !bids[0].Price.Equal(d("99.5")) || !bids[0].Qty.Equal(d("4")) {
		t.Errorf("bids = %+v, want {99.5: 4}", bids)
	}
	if len(asks) != 1 || !asks[0].Price.Equal(d("102.0")) || !asks[0].Qty.Equal(d("1")) {
		t.Errorf("asks = %+v, want {102.0: 1}", asks)
	}
	sp, ok := b.Spread()
	if !ok || !sp.Equal(d("2.5")) {
		t.Errorf("spread = %v, %v, want 2.5", sp, ok)
	}
}
