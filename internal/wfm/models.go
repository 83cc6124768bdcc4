package wfm

import "strings"

// SetSuffix is the slug naming convention that marks a multi-part set bundle.
const SetSuffix = "_set"

// StatusOnline is the presence state that makes a counterparty actionable.
// The marketplace reports "ingame", "online" and "offline"; only traders who
// are actually in the game respond to offers, so "ingame" is the actionable
// state here.
const StatusOnline = "ingame"

// Item is one catalog entry from the marketplace item index.
type Item struct {
	ID       string `json:"id"`
	URLName  string `json:"url_name"`
	ItemName string `json:"item_name"`
	Thumb    string `json:"thumb"`
}

// IsSet reports whether the item is a multi-part set bundle.
func (i Item) IsSet() bool {
	return strings.HasSuffix(i.URLName, SetSuffix)
}

// ItemDetail is the authoritative per-item record, fetched one item at a time.
type ItemDetail struct {
	ID       string `json:"id"`
	URLName  string `json:"url_name"`
	ItemType string `json:"item_type"`
}

// OrderUser is the counterparty on a standing order.
type OrderUser struct {
	IngameName string `json:"ingame_name"`
	Status     string `json:"status"`
}

// Order is a standing buy or sell offer for one item.
type Order struct {
	OrderType string    `json:"order_type"` // "sell" or "buy"
	Platinum  int       `json:"platinum"`
	Quantity  int       `json:"quantity"`
	Visible   bool      `json:"visible"`
	User      OrderUser `json:"user"`
}

// IsOnline reports whether the order's counterparty is currently actionable.
func (o Order) IsOnline() bool {
	return o.User.Status == StatusOnline
}

// StatisticsPoint is one bucket of an item's closed-trade time series.
type StatisticsPoint struct {
	Datetime string  `json:"datetime"`
	AvgPrice float64 `json:"avg_price"`
	Volume   int64   `json:"volume"`
}

// Payload envelopes. Every v1 endpoint wraps its body in {"payload": {...}}.

type itemsPayload struct {
	Payload struct {
		Items []Item `json:"items"`
	} `json:"payload"`
}

type itemPayload struct {
	Payload struct {
		Item ItemDetail `json:"item"`
	} `json:"payload"`
}

type ordersPayload struct {
	Payload struct {
		Orders []Order `json:"orders"`
	} `json:"payload"`
}

type statisticsPayload struct {
	Payload struct {
		StatisticsClosed map[string][]StatisticsPoint `json:"statistics_closed"`
	} `json:"payload"`
}
