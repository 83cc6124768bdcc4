package wfm

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// FetchCatalog returns the full tradable item index. The result is cached for
// the client's TTL; concurrent callers share a single upstream request.
// A failed fetch is fatal to whatever needs the catalog and is reported as
// ErrSourceUnavailable.
func (c *Client) FetchCatalog(ctx context.Context) ([]Item, error) {
	const key = "catalog"
	if v, ok := c.cache.Get(key); ok {
		cacheRequests.WithLabelValues("catalog", "hit").Inc()
		return v.([]Item), nil
	}
	cacheRequests.WithLabelValues("catalog", "miss").Inc()

	v, err := c.cache.Do(key, func() (any, error) {
		var p itemsPayload
		if err := c.getJSON(ctx, c.baseURL+"/items", &p); err != nil {
			fetchTotal.WithLabelValues("items", "error").Inc()
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		fetchTotal.WithLabelValues("items", "ok").Inc()
		c.log.Debug().Int("items", len(p.Payload.Items)).Msg("catalog fetched")
		return p.Payload.Items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Item), nil
}

// FetchItemDetail returns the authoritative detail record for one item.
// ok=false means the upstream answered with a non-success status for this
// item; that is a local data gap, not an error, and is never cached so a
// later scan can retry. Reads go L1 (memory) -> L2 (persistent store, same
// TTL) -> network.
func (c *Client) FetchItemDetail(ctx context.Context, slug string) (ItemDetail, bool) {
	key := "detail:" + slug
	if v, ok := c.cache.Get(key); ok {
		cacheRequests.WithLabelValues("detail", "hit").Inc()
		return v.(ItemDetail), true
	}
	if c.detailStore != nil {
		if d, fetched, ok := c.detailStore.GetDetail(slug); ok && time.Since(fetched) < c.detailTTL {
			cacheRequests.WithLabelValues("detail", "l2_hit").Inc()
			c.cache.Put(key, d)
			return d, true
		}
	}
	cacheRequests.WithLabelValues("detail", "miss").Inc()

	v, err := c.cache.Do(key, func() (any, error) {
		var p itemPayload
		u := fmt.Sprintf("%s/items/%s/item", c.baseURL, url.PathEscape(slug))
		if err := c.getJSON(ctx, u, &p); err != nil {
			fetchTotal.WithLabelValues("item_detail", "error").Inc()
			return nil, err
		}
		fetchTotal.WithLabelValues("item_detail", "ok").Inc()
		if c.detailStore != nil {
			c.detailStore.SetDetail(slug, p.Payload.Item)
		}
		return p.Payload.Item, nil
	})
	if err != nil {
		c.log.Debug().Str("slug", slug).Err(err).Msg("item detail unavailable")
		return ItemDetail{}, false
	}
	return v.(ItemDetail), true
}

// FetchOrders returns the current order book for one item. A non-success
// status degrades to an empty list so one dead item cannot abort a batch.
// Orders are live data and are not cached.
func (c *Client) FetchOrders(ctx context.Context, slug string) []Order {
	var p ordersPayload
	u := fmt.Sprintf("%s/items/%s/orders", c.baseURL, url.PathEscape(slug))
	if err := c.getJSON(ctx, u, &p); err != nil {
		fetchTotal.WithLabelValues("orders", "error").Inc()
		c.log.Debug().Str("slug", slug).Err(err).Msg("orders unavailable")
		return nil
	}
	fetchTotal.WithLabelValues("orders", "ok").Inc()
	return p.Payload.Orders
}

// FetchStatistics returns the closed-trade time series for one item, keyed by
// period label ("48hours", "90days"). Failures degrade to an empty mapping.
// Series are cached for the client's TTL.
func (c *Client) FetchStatistics(ctx context.Context, slug string) map[string][]StatisticsPoint {
	key := "stats:" + slug
	if v, ok := c.cache.Get(key); ok {
		cacheRequests.WithLabelValues("statistics", "hit").Inc()
		return v.(map[string][]StatisticsPoint)
	}
	cacheRequests.WithLabelValues("statistics", "miss").Inc()

	v, err := c.cache.Do(key, func() (any, error) {
		var p statisticsPayload
		u := fmt.Sprintf("%s/items/%s/statistics", c.baseURL, url.PathEscape(slug))
		if err := c.getJSON(ctx, u, &p); err != nil {
			fetchTotal.WithLabelValues("statistics", "error").Inc()
			return nil, err
		}
		fetchTotal.WithLabelValues("statistics", "ok").Inc()
		if p.Payload.StatisticsClosed == nil {
			return map[string][]StatisticsPoint{}, nil
		}
		return p.Payload.StatisticsClosed, nil
	})
	if err != nil {
		c.log.Debug().Str("slug", slug).Err(err).Msg("statistics unavailable")
		return map[string][]StatisticsPoint{}
	}
	return v.(map[string][]StatisticsPoint)
}
