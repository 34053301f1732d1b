package tracker

import (
	"slices"
	"testing"
)

func TestCategoriesMergePredefinedAndCustom(t *testing.T) {
	var c CustomCategories

	subs := c.SubCategories(Must)
	if !slices.Contains(subs, "HOME") || !slices.Contains(subs, "MOVEMENT") {
		t.Errorf("predefined sub-categories missing: %v", subs)
	}

	c.AddSubCategory(Must, "INSURANCE")
	c.AddDetail(Must, "INSURANCE", "CAR")
	c.AddDetail(Must, "HOME", "CLEANING")

	if subs := c.SubCategories(Must); !slices.Contains(subs, "INSURANCE") {
		t.Errorf("custom sub-category missing: %v", subs)
	}
	if details := c.Details(Must, "INSURANCE"); !slices.Contains(details, "CAR") {
		t.Errorf("custom detail missing: %v", details)
	}
	// custom detail layers over a predefined sub-category
	details := c.Details(Must, "HOME")
	if !slices.Contains(details, "RENT") || !slices.Contains(details, "CLEANING") {
		t.Errorf("merged details = %v", details)
	}
}

func TestCategoriesOnlyGrow(t *testing.T) {
	var c CustomCategories

	// re-adding predefined or existing entries never duplicates
	c.AddSubCategory(Wants, "FUN")
	c.AddSubCategory(Wants, "GAMING")
	c.AddSubCategory(Wants, "GAMING")
	c.AddDetail(Wants, "FUN", "FOOD")
	c.AddDetail(Wants, "GAMING", "STEAM")
	c.AddDetail(Wants, "GAMING", "STEAM")

	count := 0
	for _, s := range c.SubCategories(Wants) {
		if s == "GAMING" || s == "FUN" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("duplicated sub-categories: %v", c.SubCategories(Wants))
	}
	if got := c.Details(Wants, "GAMING"); len(got) != 1 {
		t.Errorf("details = %v, want exactly [STEAM]", got)
	}
}
