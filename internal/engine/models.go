package engine

import "time"

// Mode selects the report's ordering and which signal columns it carries.
type Mode string

const (
	// ModeViewer lists every candidate alphabetically with prices only.
	ModeViewer Mode = "viewer"
	// ModeFlipFinder ranks scoreable candidates by flip score, descending.
	ModeFlipFinder Mode = "flip-finder"
)

// PricePlaceholder is rendered where no online order exists. It is
// deliberately non-numeric so "no data" can never be confused with zero.
const PricePlaceholder = "—"

// BookSummary is the reduction of one item's order book to its best
// actionable prices among online counterparties.
type BookSummary struct {
	BestAsk       int  // lowest online sell price, valid only when HasAsk
	HasAsk        bool
	BestBid       int  // highest online buy price, valid only when HasBid
	HasBid        bool
	OnlineSellers int // count of online sell orders
}

// MarketSignal is the full per-item derived signal. Computed fresh on every
// query and never mutated in place.
type MarketSignal struct {
	Book           BookSummary
	TrailingVolume int64
	FlipScore      float64
	HasScore       bool // false when no online ask exists
}

// ReportRow is one line of the assembled report.
type ReportRow struct {
	Slug           string   `json:"slug"`
	Name           string   `json:"name"`
	BestAsk        *int     `json:"best_ask"` // nil = no data
	BestBid        *int     `json:"best_bid"` // nil = no data
	BestAskDisplay string   `json:"best_ask_display"`
	BestBidDisplay string   `json:"best_bid_display"`
	OnlineSellers  int      `json:"online_sellers,omitempty"`
	TrailingVolume int64    `json:"trailing_volume,omitempty"`
	FlipScore      *float64 `json:"flip_score,omitempty"` // flip-finder mode only
}

// Report is the assembled, ordered result of one buildReport call.
type Report struct {
	Category    string      `json:"category"`
	Mode        Mode        `json:"mode"`
	Strategy    string      `json:"strategy"`
	Rows        []ReportRow `json:"rows"`
	Candidates  int         `json:"candidates"` // bundle items classified into the category
	Priced      int         `json:"priced"`     // rows with at least one online price
	NoMatches   bool        `json:"no_matches"` // true when the filter produced nothing
	GeneratedAt time.Time   `json:"generated_at"`
}

// Params are the signal-computation settings shared by every scan.
type Params struct {
	TrailingWindow  int
	PreferredPeriod string
	FallbackPeriod  string
	Workers         int
}

// DefaultParams match the marketplace's observed bucket layout: prefer the
// 48-hour series, fall back to the 90-day one, average the last 10 buckets.
func DefaultParams() Params {
	return Params{
		TrailingWindow:  10,
		PreferredPeriod: "48hours",
		FallbackPeriod:  "90days",
		Workers:         4,
	}
}
