package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NumberChiffre/SimpleLOBStream/internal/domain"
)

// DefaultDepthLimit is the maximum depth the public endpoint serves.
const DefaultDepthLimit = 1000

// SnapshotError reports a failed REST depth fetch and carries the raw
// response body for diagnosis.
type SnapshotError struct {
	Status int
	Body   []byte
}

func (e *SnapshotError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("depth snapshot http %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("depth snapshot malformed body: %s", e.Body)
}

// Client fetches point-in-time depth snapshots over REST.
type Client struct {
	endpoints Endpoints
	http      *http.Client
}

// NewClient creates a snapshot client for the given endpoints.
func NewClient(endpoints Endpoints) *Client {
	return &Client{
		endpoints: endpoints,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type depthResp struct {
	Bids [][]string `json:"bids"`
	Asks [][]string `json:"asks"`
}

// Depth issues one synchronous request against the depth endpoint for the
// symbol's market kind. No retry: failures propagate to the session start
// path as *SnapshotError.
func (c *Client) Depth(ctx context.Context, symbol string, kind MarketKind, limit int) (bids, asks []domain.Level, err error) {
	if limit <= 0 || limit > DefaultDepthLimit {
		limit = DefaultDepthLimit
	}
	base, path := c.endpoints.SpotRest, "/api/v1/depth"
	if kind == Perpetual {
		base, path = c.endpoints.PerpRest, "/dapi/v1/depth"
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := strings.TrimRight(base, "/") + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &SnapshotError{Status: resp.StatusCode, Body: body}
	}

	var dr depthResp
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, nil, &SnapshotError{Body: body}
	}
	if bids, err = snapshotLevels(dr.Bids); err != nil {
		return nil, nil, &SnapshotError{Body: body}
	}
	if asks, err = snapshotLevels(dr.Asks); err != nil {
		return nil, nil, &SnapshotError{Body: body}
	}
	return bids, asks, nil
}

func snapshotLevels(entries [][]string) ([]domain.Level, error) {
	out := make([]domain.Level, 0, len(entries))
	for _, e := range entries {
		l, err := ParseLevel(e)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
