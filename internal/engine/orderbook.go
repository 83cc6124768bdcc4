package engine

import "wfm-flipper/internal/wfm"

// SummarizeOrders reduces one item's order list to its best actionable
// prices. Only orders whose counterparty is currently online count; the
// input may arrive in any order and may be empty.
func SummarizeOrders(orders []wfm.Order) BookSummary {
	var s BookSummary
	for _, o := range orders {
		if !o.IsOnline() {
			continue
		}
		switch o.OrderType {
		case "sell":
			if !s.HasAsk || o.Platinum < s.BestAsk {
				s.BestAsk = o.Platinum
				s.HasAsk = true
			}
			s.OnlineSellers++
		case "buy":
			if !s.HasBid || o.Platinum > s.BestBid {
				s.BestBid = o.Platinum
				s.HasBid = true
			}
		}
	}
	return s
}
