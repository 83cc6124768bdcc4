package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wfm-flipper/internal/wfm"
)

// fakeSource is an in-memory data source for scanner tests.
type fakeSource struct {
	catalog    []wfm.Item
	catalogErr error
	details    map[string]wfm.ItemDetail
	orders     map[string][]wfm.Order
	stats      map[string]map[string][]wfm.StatisticsPoint
}

func (f *fakeSource) FetchCatalog(context.Context) ([]wfm.Item, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog, nil
}

func (f *fakeSource) FetchItemDetail(_ context.Context, slug string) (wfm.ItemDetail, bool) {
	d, ok := f.details[slug]
	return d, ok
}

func (f *fakeSource) FetchOrders(_ context.Context, slug string) []wfm.Order {
	return f.orders[slug]
}

func (f *fakeSource) FetchStatistics(_ context.Context, slug string) map[string][]wfm.StatisticsPoint {
	return f.stats[slug]
}

func warframeSource() *fakeSource {
	catalog := []wfm.Item{
		{URLName: "zephyr_prime_set", ItemName: "Zephyr Prime Set"},
		{URLName: "mesa_prime_set", ItemName: "Mesa Prime Set"},
		{URLName: "ash_prime_set", ItemName: "Ash Prime Set"},
		{URLName: "soma_prime_set", ItemName: "Soma Prime Set"},
		{URLName: "ayatan_anasa", ItemName: "Ayatan Anasa Sculpture"}, // not a set
	}
	details := map[string]wfm.ItemDetail{
		"zephyr_prime_set": {ItemType: "warframe"},
		"mesa_prime_set":   {ItemType: "warframe"},
		"ash_prime_set":    {ItemType: "warframe"},
		"soma_prime_set":   {ItemType: "primary"},
	}
	orders := map[string][]wfm.Order{
		"zephyr_prime_set": {
			order("sell", 100, "ingame"),
			order("sell", 90, "ingame"),
			order("buy", 70, "ingame"),
		},
		"mesa_prime_set": {
			order("sell", 40, "ingame"),
			order("buy", 30, "offline"),
		},
		// ash_prime_set: empty order book.
	}
	stats := map[string]map[string][]wfm.StatisticsPoint{
		"zephyr_prime_set": {"48hours": points(10, 20, 30)},
		"mesa_prime_set":   {"48hours": {}, "90days": points(60, 60, 60)},
	}
	return &fakeSource{catalog: catalog, details: details, orders: orders, stats: stats}
}

func newTestScanner(src Source) *Scanner {
	return NewScanner(src, Params{
		TrailingWindow:  10,
		PreferredPeriod: "48hours",
		FallbackPeriod:  "90days",
		Workers:         2,
	})
}

func TestBuildReport_ViewerSortedByName(t *testing.T) {
	s := newTestScanner(warframeSource())
	report, err := s.BuildReport(context.Background(), "Warframe Sets", ModeViewer, "type", nil)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(report.Rows))
	}
	wantOrder := []string{"Ash Prime Set", "Mesa Prime Set", "Zephyr Prime Set"}
	for i, want := range wantOrder {
		if report.Rows[i].Name != want {
			t.Errorf("row %d = %q, want %q", i, report.Rows[i].Name, want)
		}
	}
}

func TestBuildReport_ViewerPlaceholders(t *testing.T) {
	s := newTestScanner(warframeSource())
	report, err := s.BuildReport(context.Background(), "Warframe Sets", ModeViewer, "type", nil)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	rows := make(map[string]ReportRow)
	for _, r := range report.Rows {
		rows[r.Slug] = r
	}

	ash := rows["ash_prime_set"]
	if ash.BestAsk != nil || ash.BestAskDisplay != PricePlaceholder {
		t.Errorf("ash ask = %v/%q, want absent/%q", ash.BestAsk, ash.BestAskDisplay, PricePlaceholder)
	}
	if ash.BestBid != nil || ash.BestBidDisplay != PricePlaceholder {
		t.Errorf("ash bid = %v/%q, want absent/%q", ash.BestBid, ash.BestBidDisplay, PricePlaceholder)
	}

	zephyr := rows["zephyr_prime_set"]
	if zephyr.BestAsk == nil || *zephyr.BestAsk != 90 {
		t.Errorf("zephyr ask = %v, want 90", zephyr.BestAsk)
	}
	if zephyr.BestBid == nil || *zephyr.BestBid != 70 {
		t.Errorf("zephyr bid = %v, want 70", zephyr.BestBid)
	}

	// Mesa's buy order is offline, so the bid stays a placeholder.
	mesa := rows["mesa_prime_set"]
	if mesa.BestAsk == nil || *mesa.BestAsk != 40 {
		t.Errorf("mesa ask = %v, want 40", mesa.BestAsk)
	}
	if mesa.BestBid != nil {
		t.Errorf("mesa bid = %v, want absent", *mesa.BestBid)
	}

	if report.Priced != 2 {
		t.Errorf("Priced = %d, want 2", report.Priced)
	}
	if report.Candidates != 3 {
		t.Errorf("Candidates = %d, want 3", report.Candidates)
	}
}

func TestBuildReport_FlipFinderRanking(t *testing.T) {
	s := newTestScanner(warframeSource())
	report, err := s.BuildReport(context.Background(), "Warframe Sets", ModeFlipFinder, "type", nil)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}

	// Ash has no online ask and must be excluded from the ranking.
	if len(report.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(report.Rows))
	}

	// Mesa: vol 60 (90days fallback), ask 40 -> 60*100/41 = 146.34
	// Zephyr: vol 20, ask 90 -> 20*100/91 = 21.98
	if report.Rows[0].Slug != "mesa_prime_set" {
		t.Errorf("top row = %q, want mesa_prime_set", report.Rows[0].Slug)
	}
	if got := *report.Rows[0].FlipScore; got != 146.34 {
		t.Errorf("mesa score = %v, want 146.34", got)
	}
	if got := *report.Rows[1].FlipScore; got != 21.98 {
		t.Errorf("zephyr score = %v, want 21.98", got)
	}
	if report.Rows[0].OnlineSellers != 1 {
		t.Errorf("mesa online sellers = %d, want 1", report.Rows[0].OnlineSellers)
	}
	if report.Rows[1].TrailingVolume != 20 {
		t.Errorf("zephyr trailing volume = %d, want 20", report.Rows[1].TrailingVolume)
	}
}

func TestBuildReport_DetailFailureSkipsItemOnly(t *testing.T) {
	src := warframeSource()
	// Five set candidates, one of which has no detail record.
	src.catalog = append(src.catalog,
		wfm.Item{URLName: "volt_prime_set", ItemName: "Volt Prime Set"},
		wfm.Item{URLName: "broken_prime_set", ItemName: "Broken Prime Set"},
	)
	src.details["volt_prime_set"] = wfm.ItemDetail{ItemType: "warframe"}

	s := newTestScanner(src)
	report, err := s.BuildReport(context.Background(), "Warframe Sets", ModeViewer, "type", nil)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if len(report.Rows) != 4 {
		t.Fatalf("rows = %d, want 4 (broken item skipped)", len(report.Rows))
	}
	for _, r := range report.Rows {
		if r.Slug == "broken_prime_set" {
			t.Error("item with failed detail lookup made it into the report")
		}
	}
}

func TestBuildReport_CatalogFailurePropagates(t *testing.T) {
	src := &fakeSource{catalogErr: fmt.Errorf("%w: connect refused", wfm.ErrSourceUnavailable)}
	s := newTestScanner(src)
	_, err := s.BuildReport(context.Background(), "Warframe Sets", ModeViewer, "type", nil)
	if err == nil {
		t.Fatal("BuildReport with dead catalog: want error")
	}
	if !errors.Is(err, wfm.ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestBuildReport_NoMatches(t *testing.T) {
	src := warframeSource()
	s := newTestScanner(src)
	report, err := s.BuildReport(context.Background(), "Arcane Sets", ModeViewer, "type", nil)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if !report.NoMatches {
		t.Error("NoMatches = false, want true")
	}
	if len(report.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(report.Rows))
	}
}

func TestBuildReport_UnknownCategory(t *testing.T) {
	s := newTestScanner(warframeSource())
	if _, err := s.BuildReport(context.Background(), "Sentinel Sets", ModeViewer, "type", nil); err == nil {
		t.Error("unknown category: want error")
	}
}

func TestBuildReport_UnknownMode(t *testing.T) {
	s := newTestScanner(warframeSource())
	if _, err := s.BuildReport(context.Background(), "Warframe Sets", Mode("csv"), "type", nil); err == nil {
		t.Error("unknown mode: want error")
	}
}

func TestBuildReport_NameStrategy(t *testing.T) {
	s := newTestScanner(warframeSource())
	report, err := s.BuildReport(context.Background(), "Other Sets", ModeViewer, "name", nil)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	// Only Soma Prime Set falls through the warframe vocabulary.
	if len(report.Rows) != 1 || report.Rows[0].Slug != "soma_prime_set" {
		t.Errorf("rows = %+v, want just soma_prime_set", report.Rows)
	}
}

func TestListCategories(t *testing.T) {
	s := newTestScanner(warframeSource())
	byType, err := s.ListCategories("type")
	if err != nil || len(byType) != 4 {
		t.Errorf("ListCategories(type) = %v (%v), want 4 labels", byType, err)
	}
	byName, err := s.ListCategories("name")
	if err != nil || len(byName) != 2 {
		t.Errorf("ListCategories(name) = %v (%v), want 2 labels", byName, err)
	}
	if _, err := s.ListCategories("hybrid"); err == nil {
		t.Error("ListCategories(hybrid): want error")
	}
}

func TestScannerCoverage(t *testing.T) {
	src := warframeSource()
	src.catalog = append(src.catalog, wfm.Item{URLName: "stealthframe_prime_set", ItemName: "Stealthframe Prime Set"})
	src.details["stealthframe_prime_set"] = wfm.ItemDetail{ItemType: "warframe"}

	s := newTestScanner(src)
	report, err := s.Coverage(context.Background())
	if err != nil {
		t.Fatalf("Coverage: %v", err)
	}
	if len(report.Mismatches) != 1 || report.Mismatches[0].Slug != "stealthframe_prime_set" {
		t.Errorf("Mismatches = %+v, want stealthframe_prime_set only", report.Mismatches)
	}
}
