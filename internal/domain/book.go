package domain

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrBookNotEmpty is returned when a snapshot is applied to a book that
// already holds levels. The lazy-bootstrap rule guarantees a snapshot is
// loaded at most once per session, so hitting this is an internal bug.
var ErrBookNotEmpty = errors.New("snapshot applied to non-empty book")

// Book is a live replica of one symbol's limit order book. Levels are
// keyed by the normalized decimal string of the price; a missing key
// means no liquidity at that price.
//
// Not safe for concurrent use: each stream session owns exactly one Book.
type Book struct {
	bids map[string]Level
	asks map[string]Level
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{
		bids: make(map[string]Level),
		asks: make(map[string]Level),
	}
}

// Empty reports whether both sides hold no levels. An empty book is the
// trigger for the one-shot snapshot bootstrap.
func (b *Book) Empty() bool {
	return len(b.bids) == 0 && len(b.asks) == 0
}

// ApplySnapshot loads the REST depth snapshot verbatim. Only valid on an
// empty book.
func (b *Book) ApplySnapshot(bids, asks []Level) error {
	if !b.Empty() {
		return ErrBookNotEmpty
	}
	for _, l := range bids {
		b.bids[l.Price.String()] = l
	}
	for _, l := range asks {
		b.asks[l.Price.String()] = l
	}
	return nil
}

// Apply merges one delta. The quantity is absolute: a positive value
// inserts or replaces the level, zero or negative removes it. Removing a
// level the replica never held is normal per the exchange's depth-stream
// contract and is a no-op.
func (b *Book) Apply(side Side, price, qty decimal.Decimal) {
	levels := b.bids
	if side == Ask {
		levels = b.asks
	}
	key := price.String()
	if qty.IsPositive() {
		levels[key] = Level{Price: price, Qty: qty}
		return
	}
	delete(levels, key)
}

// BestBid returns the highest bid price, or false when the side is empty.
func (b *Book) BestBid() (decimal.Decimal, bool) {
	return bestPrice(b.bids, func(p, cur decimal.Decimal) bool { return p.GreaterThan(cur) })
}

// BestAsk returns the lowest ask price, or false when the side is empty.
func (b *Book) BestAsk() (decimal.Decimal, bool) {
	return bestPrice(b.asks, func(p, cur decimal.Decimal) bool { return p.LessThan(cur) })
}

// Spread is best ask minus best bid, defined only while both sides are
// populated.
func (b *Book) Spread() (decimal.Decimal, bool) {
	bid, ok := b.BestBid()
	if !ok {
		return decimal.Decimal{}, false
	}
	ask, ok := b.BestAsk()
	if !ok {
		return decimal.Decimal{}, false
	}
	return ask.Sub(bid), true
}

// Bids returns every bid level ordered best-first (descending price).
func (b *Book) Bids() []Level {
	return sortedLevels(b.bids, true)
}

// Asks returns every ask level ordered best-first (ascending price).
func (b *Book) Asks() []Level {
	return sortedLevels(b.asks, false)
}

func bestPrice(levels map[string]Level, better func(p, cur decimal.Decimal) bool) (decimal.Decimal, bool) {
	var cur decimal.Decimal
	found := false
	for _, l := range levels {
		if !found || better(l.Price, cur) {
			cur = l.Price
			found = true
		}
	}
	return cur, found
}

func sortedLevels(levels map[string]Level, desc bool) []Level {
	out := make([]Level, 0, len(levels))
	for _, l := range levels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].Price.GreaterThan(out[j].Price)
		}
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}
