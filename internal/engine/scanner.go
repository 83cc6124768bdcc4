package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wfm-flipper/internal/logger"
	"wfm-flipper/internal/wfm"
)

// Source is the data-source capability the engine consumes. The engine never
// performs network I/O itself; everything upstream-shaped comes through here.
type Source interface {
	FetchCatalog(ctx context.Context) ([]wfm.Item, error)
	FetchItemDetail(ctx context.Context, slug string) (wfm.ItemDetail, bool)
	FetchOrders(ctx context.Context, slug string) []wfm.Order
	FetchStatistics(ctx context.Context, slug string) map[string][]wfm.StatisticsPoint
}

// Scanner orchestrates catalog filtering, per-item signal computation, and
// report assembly.
type Scanner struct {
	Source Source
	Params Params
	log    zerolog.Logger
}

// NewScanner creates a Scanner over the given data source.
func NewScanner(src Source, params Params) *Scanner {
	if params.TrailingWindow <= 0 {
		params = DefaultParams()
	}
	if params.Workers <= 0 {
		params.Workers = DefaultParams().Workers
	}
	return &Scanner{
		Source: src,
		Params: params,
		log:    logger.Component("scanner"),
	}
}

// StrategyFor resolves a classification strategy by name. The empty name
// selects the type-lookup strategy.
func (s *Scanner) StrategyFor(name string) (Strategy, error) {
	switch name {
	case "", "type":
		return NewTypeLookupStrategy(s.Source), nil
	case "name":
		return NewNameHeuristicStrategy(), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// ListCategories returns the category labels the named strategy can produce,
// in evaluation order.
func (s *Scanner) ListCategories(strategyName string) ([]string, error) {
	strat, err := s.StrategyFor(strategyName)
	if err != nil {
		return nil, err
	}
	return strat.Categories(), nil
}

// Candidates filters the catalog down to the set bundles the strategy places
// in the requested category. Catalog failure propagates; per-item
// classification gaps just drop the item.
func (s *Scanner) Candidates(ctx context.Context, category, strategyName string, progress func(string)) ([]wfm.Item, error) {
	strat, err := s.StrategyFor(strategyName)
	if err != nil {
		return nil, err
	}
	known := false
	for _, label := range strat.Categories() {
		if label == category {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("unknown category %q for strategy %q", category, strat.Name())
	}

	progress("Loading item catalog...")
	catalog, err := s.Source.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	var sets []wfm.Item
	for _, item := range catalog {
		if item.IsSet() {
			sets = append(sets, item)
		}
	}
	s.log.Debug().Int("catalog", len(catalog)).Int("sets", len(sets)).Msg("catalog filtered")

	progress(fmt.Sprintf("Classifying %d set bundles...", len(sets)))

	// Classification may hit the detail endpoint per candidate; run it on the
	// bounded pool but keep catalog order by writing into an indexed slice.
	matched := make([]bool, len(sets))
	sem := make(chan struct{}, s.Params.Workers)
	var wg sync.WaitGroup
	for i := range sets {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			if got, ok := strat.Classify(ctx, sets[i]); ok && got == category {
				matched[i] = true
			}
		}(i)
	}
	wg.Wait()

	var candidates []wfm.Item
	for i, ok := range matched {
		if ok {
			candidates = append(candidates, sets[i])
		}
	}
	return candidates, nil
}

// ComputeSignal derives one item's full market signal from live orders and
// historical statistics. Per-item fetch failures have already been degraded
// to empty inputs by the source, so this never errors.
func (s *Scanner) ComputeSignal(ctx context.Context, slug string) MarketSignal {
	book := SummarizeOrders(s.Source.FetchOrders(ctx, slug))
	volume := TrailingVolume(
		s.Source.FetchStatistics(ctx, slug),
		s.Params.PreferredPeriod, s.Params.FallbackPeriod, s.Params.TrailingWindow,
	)

	sig := MarketSignal{Book: book, TrailingVolume: volume}
	if book.HasAsk {
		sig.FlipScore = FlipScore(book.BestAsk, volume)
		sig.HasScore = true
	}
	return sig
}

// BuildReport produces the ordered report for one category. Catalog failure
// is the only fatal outcome; every per-item failure degrades to placeholder
// values and the batch continues.
func (s *Scanner) BuildReport(ctx context.Context, category string, mode Mode, strategyName string, progress func(string)) (*Report, error) {
	if progress == nil {
		progress = func(string) {}
	}
	switch mode {
	case ModeViewer, ModeFlipFinder:
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	started := time.Now()
	candidates, err := s.Candidates(ctx, category, strategyName, progress)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Category:    category,
		Mode:        mode,
		Strategy:    strategyName,
		GeneratedAt: started,
		Candidates:  len(candidates),
	}
	if len(candidates) == 0 {
		report.NoMatches = true
		progress("No matching items")
		return report, nil
	}

	progress(fmt.Sprintf("Checking live orders for %d items...", len(candidates)))

	// Per-item fetch-and-compute is embarrassingly parallel; the indexed
	// slice keeps results independent of completion order, and the sort
	// below owns the final ordering either way.
	signals := make([]MarketSignal, len(candidates))
	sem := make(chan struct{}, s.Params.Workers)
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			signals[i] = s.ComputeSignal(ctx, candidates[i].URLName)
		}(i)
	}
	wg.Wait()

	for i, item := range candidates {
		sig := signals[i]
		if mode == ModeFlipFinder && !sig.HasScore {
			// No online ask: nothing to buy, so the item carries no flip
			// score and is left out of the ranking entirely.
			continue
		}
		row := ReportRow{
			Slug:           item.URLName,
			Name:           item.ItemName,
			BestAskDisplay: PricePlaceholder,
			BestBidDisplay: PricePlaceholder,
		}
		if sig.Book.HasAsk {
			ask := sig.Book.BestAsk
			row.BestAsk = &ask
			row.BestAskDisplay = fmt.Sprintf("%d", ask)
		}
		if sig.Book.HasBid {
			bid := sig.Book.BestBid
			row.BestBid = &bid
			row.BestBidDisplay = fmt.Sprintf("%d", bid)
		}
		if sig.Book.HasAsk || sig.Book.HasBid {
			report.Priced++
		}
		if mode == ModeFlipFinder {
			row.OnlineSellers = sig.Book.OnlineSellers
			row.TrailingVolume = sig.TrailingVolume
			score := sig.FlipScore
			row.FlipScore = &score
		}
		report.Rows = append(report.Rows, row)
	}

	sortRows(report.Rows, mode)

	if len(report.Rows) == 0 {
		report.NoMatches = true
	}
	s.log.Info().
		Str("category", category).
		Str("mode", string(mode)).
		Int("candidates", report.Candidates).
		Int("rows", len(report.Rows)).
		Dur("elapsed", time.Since(started)).
		Msg("report built")
	progress(fmt.Sprintf("Found %d items (%d priced)", len(report.Rows), report.Priced))
	return report, nil
}

// sortRows applies the mode's ordering: viewer is alphabetical
// (case-insensitive), flip-finder is score-descending. Name breaks ties so
// the order is deterministic across runs.
func sortRows(rows []ReportRow, mode Mode) {
	switch mode {
	case ModeFlipFinder:
		sort.Slice(rows, func(i, j int) bool {
			si, sj := *rows[i].FlipScore, *rows[j].FlipScore
			if si != sj {
				return si > sj
			}
			return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
		})
	default:
		sort.Slice(rows, func(i, j int) bool {
			return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
		})
	}
}

// Coverage cross-checks the two classification rulesets over the current
// catalog's bundles.
func (s *Scanner) Coverage(ctx context.Context) (*CoverageReport, error) {
	catalog, err := s.Source.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	report := CheckCoverage(ctx, catalog, s.Source)
	return &report, nil
}
