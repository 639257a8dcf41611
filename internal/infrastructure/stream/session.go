package stream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NumberChiffre/SimpleLOBStream/internal/domain"
	"github.com/NumberChiffre/SimpleLOBStream/internal/infrastructure/exchange/binance"
)

// Snapshotter is the one-shot REST bootstrap used when the first depth
// update finds the book empty.
type Snapshotter interface {
	Depth(ctx context.Context, symbol string, kind binance.MarketKind, limit int) (bids, asks []domain.Level, err error)
}

// Handler consumes every received frame after it has been merged into the
// book. It runs inline on the session loop, so it must not block
// indefinitely; a slow handler delays only its own session.
type Handler func(ctx context.Context, frame []byte, book *domain.Book)

// DefaultPace is the cooperative yield between processed frames.
const DefaultPace = 100 * time.Millisecond

// SessionID derives the dedup identity for a symbol's depth stream.
func SessionID(kind binance.MarketKind, symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if kind == binance.Perpetual {
		return "depth_perp_" + s
	}
	return "depth_" + s
}

// SessionDeps wires a session; Symbol is required, zero values elsewhere
// fall back to defaults.
type SessionDeps struct {
	Symbol     string
	Endpoints  binance.Endpoints
	Dialer     Dialer
	Snapshots  Snapshotter
	Handler    Handler
	DepthLimit int
	Pace       time.Duration
}

// Session owns one websocket connection, one symbol and one book replica.
// Lifecycle: created here, connecting in run, open while its id is in the
// registry's open set, closed when the loop exits.
type Session struct {
	id         string
	symbol     string
	kind       binance.MarketKind
	url        string
	dialer     Dialer
	snapshots  Snapshotter
	handler    Handler
	book       *domain.Book
	depthLimit int
	pace       time.Duration
}

// NewSession prepares a session for one symbol. The market kind and
// stream URL are derived from the symbol, the book starts empty.
func NewSession(deps SessionDeps) *Session {
	kind := binance.KindOfSymbol(deps.Symbol)
	if deps.Pace <= 0 {
		deps.Pace = DefaultPace
	}
	return &Session{
		id:         SessionID(kind, deps.Symbol),
		symbol:     strings.ToUpper(strings.TrimSpace(deps.Symbol)),
		kind:       kind,
		url:        deps.Endpoints.StreamURL(kind, deps.Symbol),
		dialer:     deps.Dialer,
		snapshots:  deps.Snapshots,
		handler:    deps.Handler,
		book:       domain.NewBook(),
		depthLimit: deps.DepthLimit,
		pace:       deps.Pace,
	}
}

// ID returns the session's dedup identity.
func (s *Session) ID() string { return s.id }

// Book exposes the session's replica (read by the handler inline; never
// shared across sessions).
func (s *Session) Book() *domain.Book { return s.book }

// run drives the session until its id leaves the open set or a fatal
// error occurs. One receive is outstanding at a time; its cancellation is
// recorded in the registry so shutdown can unblock it immediately.
func (s *Session) run(ctx context.Context, reg *Registry) error {
	log.Info().Str("session", s.id).Str("url", s.url).Msg("starting stream")
	conn, err := s.dialer.Dial(ctx, s.url)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	if !reg.register(s.id) {
		_ = conn.Close()
		return ErrDuplicateSession
	}
	defer func() {
		reg.deregister(s.id)
		_ = conn.Close()
	}()

	for reg.IsOpen(s.id) {
		if !reg.armPending(s.id, func() { _ = conn.Close() }) {
			break
		}
		_, frame, err := conn.ReadMessage()
		reg.clearPending(s.id)
		if err != nil {
			// A receive unblocked by shutdown is not a transport failure.
			if !reg.IsOpen(s.id) || ctx.Err() != nil {
				break
			}
			return fmt.Errorf("receive: %w", err)
		}

		if err := s.process(ctx, frame); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.pace):
		}
	}
	log.Info().Str("session", s.id).Msg("stream closed")
	return nil
}

// process unwraps and decodes one frame, merges depth updates into the
// book and hands the frame to the consumer.
func (s *Session) process(ctx context.Context, frame []byte) error {
	payload, err := binance.UnwrapFrame(s.kind, frame)
	if err != nil {
		return err
	}
	update, err := binance.ParseDepthUpdate(payload)
	if err != nil {
		return err
	}
	if update.IsDepth() {
		if err := s.merge(ctx, update); err != nil {
			return err
		}
	}
	if s.handler != nil {
		s.handler(ctx, payload, s.book)
	}
	return nil
}

// merge applies one depth update. An empty book triggers the snapshot
// bootstrap first, then the triggering update is applied on top. No
// update-id reconciliation is done, so the snapshot's point in time is
// not guaranteed to precede the update it is merged with.
func (s *Session) merge(ctx context.Context, u *binance.DepthUpdate) error {
	if s.book.Empty() {
		bids, asks, err := s.snapshots.Depth(ctx, s.symbol, s.kind, s.depthLimit)
		if err != nil {
			return fmt.Errorf("bootstrap %s: %w", s.symbol, err)
		}
		if err := s.book.ApplySnapshot(bids, asks); err != nil {
			return err
		}
		log.Info().Str("session", s.id).
			Int("bids", len(bids)).
			Int("asks", len(asks)).
			Msg("book bootstrapped")
	}

	for _, e := range u.Asks {
		l, err := binance.ParseLevel(e)
		if err != nil {
			return err
		}
		s.book.Apply(domain.Ask, l.Price, l.Qty)
	}
	for _, e := range u.Bids {
		l, err := binance.ParseLevel(e)
		if err != nil {
			return err
		}
		s.book.Apply(domain.Bid, l.Price, l.Qty)
	}
	return nil
}
