package binance

import "strings"

// MarketKind selects the endpoints and frame envelope for a symbol.
type MarketKind int

const (
	Spot MarketKind = iota
	Perpetual
)

func (k MarketKind) String() string {
	if k == Perpetual {
		return "perp"
	}
	return "spot"
}

// KindOfSymbol classifies a trading pair: perpetual symbols carry an
// underscore (e.g. BTCUSD_PERP), spot symbols do not.
func KindOfSymbol(symbol string) MarketKind {
	if strings.Contains(symbol, "_") {
		return Perpetual
	}
	return Spot
}

// Endpoints holds the REST and stream base URLs for both market kinds.
type Endpoints struct {
	SpotRest string
	PerpRest string
	SpotWS   string
	PerpWS   string
}

// DefaultEndpoints are the public Binance hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		SpotRest: "https://api.binance.com",
		PerpRest: "https://dapi.binance.com",
		SpotWS:   "wss://stream.binance.com:9443",
		PerpWS:   "wss://dstream.binance.com",
	}
}

// StreamURL derives the depth-stream endpoint for a symbol. Perpetual
// streams go through the combined-stream path and wrap payloads in an
// extra envelope, spot streams use the raw single-stream path.
func (e Endpoints) StreamURL(kind MarketKind, symbol string) string {
	s := strings.ToLower(strings.TrimSpace(symbol))
	if kind == Perpetual {
		return strings.TrimRight(e.PerpWS, "/") + "/stream?streams=" + s + "@depth"
	}
	return strings.TrimRight(e.SpotWS, "/") + "/ws/" + s + "@depth"
}
