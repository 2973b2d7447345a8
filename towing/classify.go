/*
classify.go - Raw pickup code -> normalized category

PURPOSE:
  The lot system records free-form pickup codes ("111", "111A", "200P",
  "REL", ""). Reporting wants a small closed set of categories. The
  Classifier owns that mapping plus the size-class split.

RULES (in priority order):
  1. Empty code                          -> nocode
  2. Exact match on the hold allow-list  -> police_hold
  3. Strip non-digits; numeric prefix in
     the category table                  -> that category
  4. Anything else                       -> nocode

  The allow-list outranks the prefix table on purpose: "200P" is a police
  hold even though its prefix 200 reads as stolen_recovered.

TABLES:
  The category table, hold allow-list, and non-standard size classes are
  injected at construction (config can override them); DefaultTables
  returns the production values. No package-level mutable state.
*/
package towing

import (
	"regexp"
	"strconv"
)

// holdCategoryKey is not a real pickup code; it keys the hold category in
// the table so holds stay distinguishable from police_action after
// sub-codes are stripped.
const holdCategoryKey = 1111

var nonDigits = regexp.MustCompile(`[^0-9]`)

// ClassifierTables holds the lookup tables a Classifier runs on.
type ClassifierTables struct {
	// Categories maps a numeric code prefix to its category.
	Categories map[int]Category

	// HoldCodes are exact, case-sensitive raw codes classified as police
	// holds regardless of their numeric prefix.
	HoldCodes []string

	// NonStandardTypes are the size-class tags reported separately from
	// full-size vehicles (the dirtbike flag).
	NonStandardTypes []string
}

// DefaultTables returns the production classification tables.
func DefaultTables() ClassifierTables {
	return ClassifierTables{
		Categories: map[int]Category{
			111:             CategoryPoliceAction,
			holdCategoryKey: CategoryPoliceHold,
			112:             CategoryAccident,
			113:             CategoryAbandoned,
			125:             CategoryScofflaw,
			140:             CategoryImpound,
			200:             CategoryStolenRecovered,
			300:             CategoryCommercialRestriction,
			1000:            CategoryNoCode,
		},
		HoldCodes:        []string{"111B", "111M", "111N", "111P", "111S", "200P"},
		NonStandardTypes: []string{"DB", "SCOT", "ATV"},
	}
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier maps raw pickup codes to categories and size classes to the
// dirtbike flag. It is immutable after construction and safe for
// concurrent reads.
type Classifier struct {
	categories  map[int]Category
	holdCodes   map[string]struct{}
	nonStandard map[string]struct{}
}

// NewClassifier builds a Classifier from the given tables. Zero-valued
// fields fall back to DefaultTables.
func NewClassifier(tables ClassifierTables) *Classifier {
	defaults := DefaultTables()
	if tables.Categories == nil {
		tables.Categories = defaults.Categories
	}
	if tables.HoldCodes == nil {
		tables.HoldCodes = defaults.HoldCodes
	}
	if tables.NonStandardTypes == nil {
		tables.NonStandardTypes = defaults.NonStandardTypes
	}

	c := &Classifier{
		categories:  make(map[int]Category, len(tables.Categories)),
		holdCodes:   make(map[string]struct{}, len(tables.HoldCodes)),
		nonStandard: make(map[string]struct{}, len(tables.NonStandardTypes)),
	}
	for k, v := range tables.Categories {
		c.categories[k] = v
	}
	for _, code := range tables.HoldCodes {
		c.holdCodes[code] = struct{}{}
	}
	for _, t := range tables.NonStandardTypes {
		c.nonStandard[t] = struct{}{}
	}
	return c
}

// Classify maps a raw pickup code to its category. Pure function: same
// input always yields the same output, garbage never errors.
func (c *Classifier) Classify(raw string) Category {
	if raw == "" {
		return CategoryNoCode
	}

	if _, held := c.holdCodes[raw]; held {
		return c.categories[holdCategoryKey]
	}

	// Strip sub-code letters so "111A" folds into the 111 bucket.
	base := nonDigits.ReplaceAllString(raw, "")
	if base == "" {
		// Letters-only codes ("REL") are garbage we bucket, not reject.
		return CategoryNoCode
	}
	n, err := strconv.Atoi(base)
	if err != nil {
		return CategoryNoCode
	}
	if cat, ok := c.categories[n]; ok {
		return cat
	}
	return CategoryNoCode
}

// IsDirtbike reports whether a raw size-class tag is a non-standard
// vehicle (dirtbike, scooter, ATV).
func (c *Classifier) IsDirtbike(sizeClass string) bool {
	_, ok := c.nonStandard[sizeClass]
	return ok
}
