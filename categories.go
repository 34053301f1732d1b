package tracker

import (
	"encoding/json"
	"slices"
	"sort"
)

// CostCategory is one of the two top-level budget groups every cost
// transaction is classified into.
type CostCategory string

const (
	Must  CostCategory = "MUST"
	Wants CostCategory = "WANTS"
)

// IncomeType distinguishes regular salary from one-off income.
type IncomeType string

const (
	Work  IncomeType = "Work"
	Extra IncomeType = "Extra"
)

// predefined taxonomy: sub-categories per group, detail leaves per
// sub-category. User additions layer on top, they never replace it.
var predefined = map[CostCategory]map[string][]string{
	Must: {
		"HOME":     {"ELECTR_POWER", "RENT", "INTERNET", "PHONE", "SUPERMARKET", "WATER", "OTHER"},
		"MOVEMENT": {"GAS", "WASHING", "OTHER"},
		"HEALTH":   {"OTHER"},
		"OTHER":    {"OTHER"},
	},
	Wants: {
		"FUN":           {"FOOD", "DRINKS", "CINEMA", "OPAP", "BOWLING", "OTHER"},
		"SHOPPING":      {"JUMBO", "HAIRCUT", "OTHER"},
		"SUBSCRIPTIONS": {"OTHER"},
		"TRAVEL":        {"OTHER"},
		"GIFTS":         {"OTHER"},
		"HOBBY":         {"OTHER"},
		"OTHER":         {"OTHER"},
	},
}

// CustomCategories holds the user-introduced sub-categories and details,
// layered over the predefined taxonomy. It only ever grows.
type CustomCategories struct {
	groups map[CostCategory]*customGroup
}

type customGroup struct {
	SubCategories []string            `json:"newSubCategories,omitempty"`
	Details       map[string][]string `json:"subCategories,omitempty"`
}

// SubCategories returns the predefined plus custom sub-categories of a group.
func (c *CustomCategories) SubCategories(group CostCategory) []string {
	subs := make([]string, 0, len(predefined[group]))
	for sub := range predefined[group] {
		subs = append(subs, sub)
	}
	sort.Strings(subs)
	if g := c.groups[group]; g != nil {
		for _, sub := range g.SubCategories {
			if !slices.Contains(subs, sub) {
				subs = append(subs, sub)
			}
		}
	}
	return subs
}

// Details returns the predefined plus custom detail leaves of a sub-category.
func (c *CustomCategories) Details(group CostCategory, sub string) []string {
	details := slices.Clone(predefined[group][sub])
	if g := c.groups[group]; g != nil {
		for _, d := range g.Details[sub] {
			if !slices.Contains(details, d) {
				details = append(details, d)
			}
		}
	}
	return details
}

// AddSubCategory records a new custom sub-category under a group.
// Adding an existing one is a no-op, the set grows monotonically.
func (c *CustomCategories) AddSubCategory(group CostCategory, sub string) {
	if sub == "" {
		return
	}
	if _, ok := predefined[group][sub]; ok {
		return
	}
	g := c.group(group)
	if !slices.Contains(g.SubCategories, sub) {
		g.SubCategories = append(g.SubCategories, sub)
	}
}

// AddDetail records a new custom detail under a sub-category (predefined or
// custom). Adding an existing one is a no-op.
func (c *CustomCategories) AddDetail(group CostCategory, sub, detail string) {
	if sub == "" || detail == "" {
		return
	}
	if slices.Contains(predefined[group][sub], detail) {
		return
	}
	g := c.group(group)
	if g.Details == nil {
		g.Details = make(map[string][]string)
	}
	if !slices.Contains(g.Details[sub], detail) {
		g.Details[sub] = append(g.Details[sub], detail)
	}
}

func (c *CustomCategories) group(group CostCategory) *customGroup {
	if c.groups == nil {
		c.groups = make(map[CostCategory]*customGroup)
	}
	g := c.groups[group]
	if g == nil {
		g = &customGroup{}
		c.groups[group] = g
	}
	return g
}

func (c CustomCategories) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	// fixed group order keeps the persisted document byte-stable
	for _, group := range []CostCategory{Must, Wants} {
		if g := c.groups[group]; g != nil {
			w.Append(string(group), g)
		}
	}
	return w.MarshalJSON()
}

func (c *CustomCategories) UnmarshalJSON(b []byte) error {
	var raw map[CostCategory]*customGroup
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.groups = raw
	return nil
}
