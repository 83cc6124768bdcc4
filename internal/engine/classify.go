package engine

import (
	"context"
	"strings"

	"wfm-flipper/internal/wfm"
)

// Strategy assigns a set bundle to a category. A strategy owns a fixed,
// ordered list of category labels; Classify evaluates them in that order so
// an item can never land in two categories at once.
type Strategy interface {
	Name() string
	Categories() []string
	// Classify returns the item's category. ok=false means the item cannot
	// be placed under this ruleset: either the data needed to decide is
	// missing, or no category claims it.
	Classify(ctx context.Context, item wfm.Item) (category string, ok bool)
}

// DetailLookup is the injected per-item detail capability consumed by the
// type-lookup strategy.
type DetailLookup interface {
	FetchItemDetail(ctx context.Context, slug string) (wfm.ItemDetail, bool)
}

// typeCategory binds one category label to its accepted item-type tags.
type typeCategory struct {
	label    string
	accepted map[string]bool
}

// TypeLookupStrategy classifies a bundle by its authoritative item-type tag,
// fetched per item through the injected detail capability. An item whose
// detail lookup fails is excluded from every category (insufficient
// information, not an error). Items whose type no category accepts are also
// excluded; this ruleset is not total over bundles.
type TypeLookupStrategy struct {
	Details    DetailLookup
	categories []typeCategory
}

// NewTypeLookupStrategy builds the stock category list: warframes, the three
// weapon slots, arcanes, and mods.
func NewTypeLookupStrategy(details DetailLookup) *TypeLookupStrategy {
	return &TypeLookupStrategy{
		Details: details,
		categories: []typeCategory{
			{"Warframe Sets", map[string]bool{"warframe": true}},
			{"Weapon Sets", map[string]bool{"primary": true, "secondary": true, "melee": true}},
			{"Arcane Sets", map[string]bool{"arcane": true}},
			{"Mod Sets", map[string]bool{"mod": true}},
		},
	}
}

func (s *TypeLookupStrategy) Name() string { return "type" }

func (s *TypeLookupStrategy) Categories() []string {
	labels := make([]string, len(s.categories))
	for i, c := range s.categories {
		labels[i] = c.label
	}
	return labels
}

func (s *TypeLookupStrategy) Classify(ctx context.Context, item wfm.Item) (string, bool) {
	detail, ok := s.Details.FetchItemDetail(ctx, item.URLName)
	if !ok {
		return "", false
	}
	for _, c := range s.categories {
		if c.accepted[detail.ItemType] {
			return c.label, true
		}
	}
	return "", false
}

// FallbackCategory catches every bundle the name vocabulary does not claim.
const FallbackCategory = "Other Sets"

// warframeNames is the heuristic vocabulary of known base-entity names.
// Matching is a case-insensitive substring test against the display name.
var warframeNames = []string{
	"ash", "atlas", "banshee", "baruuk", "caliban", "chroma", "citrine",
	"cyte-09", "dagath", "dante", "ember", "equinox", "excalibur", "frost",
	"gara", "garuda", "gauss", "grendel", "gyre", "harrow", "hildryn",
	"hydroid", "inaros", "ivara", "jade", "khora", "koumei", "kullervo",
	"lavos", "limbo", "loki", "mag", "mesa", "mirage", "nekros", "nezha",
	"nidus", "nova", "nyx", "oberon", "octavia", "protea", "qorvex",
	"revenant", "rhino", "saryn", "sevagoth", "styanax", "temple",
	"titania", "trinity", "valkyr", "vauban", "volt", "voruna", "wisp",
	"wukong", "xaku", "yareli", "zephyr",
}

// NameHeuristicStrategy classifies a bundle by scanning its display name for
// known base-entity names, no network needed. The fallback category makes the
// ruleset total: every bundle resolves to exactly one category.
type NameHeuristicStrategy struct {
	vocabulary []string
}

// NewNameHeuristicStrategy builds the stock name matcher.
func NewNameHeuristicStrategy() *NameHeuristicStrategy {
	return &NameHeuristicStrategy{vocabulary: warframeNames}
}

func (s *NameHeuristicStrategy) Name() string { return "name" }

func (s *NameHeuristicStrategy) Categories() []string {
	return []string{"Warframe Sets", FallbackCategory}
}

func (s *NameHeuristicStrategy) Classify(_ context.Context, item wfm.Item) (string, bool) {
	name := strings.ToLower(item.ItemName)
	for _, token := range s.vocabulary {
		if strings.Contains(name, token) {
			return "Warframe Sets", true
		}
	}
	return FallbackCategory, true
}

// CoverageMismatch is one item on which the two rulesets disagree.
type CoverageMismatch struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	ItemType  string `json:"item_type"`
	Heuristic string `json:"heuristic_category"`
}

// CoverageReport summarizes agreement between the heuristic vocabulary and
// the authoritative item-type data for the categories both can express.
type CoverageReport struct {
	Checked    int                `json:"checked"`
	Skipped    int                `json:"skipped"` // detail lookup failed
	Mismatches []CoverageMismatch `json:"mismatches"`
}

// CheckCoverage cross-validates the name heuristic against type-lookup data
// over a set of bundle items. An incomplete vocabulary shows up as warframes
// that fall through to the fallback category; a too-greedy vocabulary shows
// up as non-warframes claimed by name. Items whose detail lookup fails are
// counted as skipped, not mismatched.
func CheckCoverage(ctx context.Context, items []wfm.Item, details DetailLookup) CoverageReport {
	heuristic := NewNameHeuristicStrategy()
	var report CoverageReport

	for _, item := range items {
		if !item.IsSet() {
			continue
		}
		detail, ok := details.FetchItemDetail(ctx, item.URLName)
		if !ok {
			report.Skipped++
			continue
		}
		report.Checked++

		byName, _ := heuristic.Classify(ctx, item)
		isWarframe := detail.ItemType == "warframe"
		claimedWarframe := byName == "Warframe Sets"
		if isWarframe != claimedWarframe {
			report.Mismatches = append(report.Mismatches, CoverageMismatch{
				Slug:      item.URLName,
				Name:      item.ItemName,
				ItemType:  detail.ItemType,
				Heuristic: byName,
			})
		}
	}
	return report
}
