package binance

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/NumberChiffre/SimpleLOBStream/internal/domain"
)

// ErrMalformedFrame marks a stream frame that cannot be decoded. The
// session treats it as fatal for that stream rather than merging garbage.
var ErrMalformedFrame = errors.New("malformed frame")

// DepthUpdate is one diff-depth event. Bids/Asks entries are
// [priceString, qtyString] pairs carrying absolute quantities.
type DepthUpdate struct {
	Event     string     `json:"e"`
	EventTime int64      `json:"E"`
	Symbol    string     `json:"s"`
	Bids      [][]string `json:"b"`
	Asks      [][]string `json:"a"`
}

// IsDepth reports whether the frame is a depth update (other event types
// pass through the session untouched).
func (u *DepthUpdate) IsDepth() bool {
	return u.Event == "depthUpdate"
}

// combinedFrame mirrors the /stream?streams=... envelope.
type combinedFrame struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// UnwrapFrame strips the combined-stream envelope from perpetual frames
// and returns the inner payload. Spot frames pass through untouched.
func UnwrapFrame(kind MarketKind, raw []byte) ([]byte, error) {
	if kind != Perpetual {
		return raw, nil
	}
	var env combinedFrame
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: combined frame without data", ErrMalformedFrame)
	}
	return env.Data, nil
}

// ParseDepthUpdate decodes a post-unwrap frame.
func ParseDepthUpdate(raw []byte) (*DepthUpdate, error) {
	var u DepthUpdate
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return &u, nil
}

// ParseLevel converts one [price, qty, ...] string entry into a domain
// level with exact decimals.
func ParseLevel(entry []string) (domain.Level, error) {
	if len(entry) < 2 {
		return domain.Level{}, fmt.Errorf("%w: depth entry %v", ErrMalformedFrame, entry)
	}
	price, err := decimal.NewFromString(entry[0])
	if err != nil {
		return domain.Level{}, fmt.Errorf("%w: price %q", ErrMalformedFrame, entry[0])
	}
	qty, err := decimal.NewFromString(entry[1])
	if err != nil {
		return domain.Level{}, fmt.Errorf("%w: qty %q", ErrMalformedFrame, entry[1])
	}
	return domain.Level{Price: price, Qty: qty}, nil
}
