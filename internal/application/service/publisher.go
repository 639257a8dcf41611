package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NumberChiffre/SimpleLOBStream/internal/application/port"
	"github.com/NumberChiffre/SimpleLOBStream/internal/domain"
)

// Bundle is the payload published per applied frame: the event timestamp,
// the spread when both sides are populated, and the price-sorted book.
// Levels are [price, qty] string pairs to keep decimals exact on the wire.
type Bundle struct {
	Symbol    string      `json:"symbol"`
	EventTime time.Time   `json:"event_ts"`
	Spread    string      `json:"spread,omitempty"`
	Bids      [][2]string `json:"bids"`
	Asks      [][2]string `json:"asks"`
}

// frameHead is the part of a depth frame the publisher needs. The event
// tag is declared alongside the timestamp because encoding/json matches
// keys case-insensitively: without an exact home for "e", it would fold
// onto the int64 "E" field and fail to decode every frame.
type frameHead struct {
	Event     string `json:"e"`
	EventTime int64  `json:"E"`
	Symbol    string `json:"s"`
}

// Publisher is the consumer callback wired into every stream session: it
// turns each merged frame into a Bundle on the sink.
type Publisher struct {
	sink port.Sink
}

// NewPublisher creates a publisher on the given sink.
func NewPublisher(sink port.Sink) *Publisher {
	return &Publisher{sink: sink}
}

// Handle runs inline on the session loop for every received frame.
// Frames without a symbol (heartbeats, non-depth events) are skipped.
// Publish failures are logged, not fatal: the replica stays live even
// when the sink is down.
func (p *Publisher) Handle(ctx context.Context, frame []byte, book *domain.Book) {
	var head frameHead
	if err := json.Unmarshal(frame, &head); err != nil {
		log.Debug().Err(err).Msg("frame not publishable")
		return
	}
	if head.Symbol == "" {
		return // heartbeats and acks carry no symbol
	}

	b := Bundle{
		Symbol:    head.Symbol,
		EventTime: time.UnixMilli(head.EventTime),
		Bids:      levelPairs(book.Bids()),
		Asks:      levelPairs(book.Asks()),
	}
	if sp, ok := book.Spread(); ok {
		b.Spread = sp.String()
	}

	payload, err := json.Marshal(b)
	if err != nil {
		log.Error().Err(err).Str("symbol", head.Symbol).Msg("bundle encode failed")
		return
	}
	if err := p.sink.Publish(ctx, head.Symbol, payload); err != nil {
		log.Warn().Err(err).Str("symbol", head.Symbol).Msg("publish failed")
	}
}

func levelPairs(levels []domain.Level) [][2]string {
	out := make([][2]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, [2]string{l.Price.String(), l.Qty.String()})
	}
	return out
}
