package tracker

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Budget splits the expected monthly income into must/wants/savings shares.
// The three percentages always sum to 100, savings is the residual.
type Budget struct {
	MonthlyIncome Money
	MustPct       Percent
	WantsPct      Percent
	SavingsPct    Percent
}

// DefaultBudget is the 50/30/20 rule.
func DefaultBudget() Budget {
	return Budget{
		MonthlyIncome: M(3000, EUR),
		MustPct:       50,
		WantsPct:      30,
		SavingsPct:    20,
	}
}

// SetIncome updates the expected monthly income.
func (b *Budget) SetIncome(income Money) {
	b.MonthlyIncome = income
}

// SetMust updates the must share, clamped so that must+wants never exceeds
// 100. Savings takes the remainder.
func (b *Budget) SetMust(v Percent) {
	v = clampPct(v)
	if v > 100-b.WantsPct {
		v = 100 - b.WantsPct
	}
	b.MustPct = v
	b.SavingsPct = 100 - b.MustPct - b.WantsPct
}

// SetWants updates the wants share, clamped so that must+wants never exceeds
// 100. Savings takes the remainder.
func (b *Budget) SetWants(v Percent) {
	v = clampPct(v)
	if v > 100-b.MustPct {
		v = 100 - b.MustPct
	}
	b.WantsPct = v
	b.SavingsPct = 100 - b.MustPct - b.WantsPct
}

func clampPct(v Percent) Percent {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// MustAmount returns the must share of the monthly income.
func (b Budget) MustAmount() Money {
	return b.MonthlyIncome.Mul(Q(float64(b.MustPct) / 100))
}

// WantsAmount returns the wants share of the monthly income.
func (b Budget) WantsAmount() Money {
	return b.MonthlyIncome.Mul(Q(float64(b.WantsPct) / 100))
}

// SavingsAmount returns the savings share of the monthly income.
func (b Budget) SavingsAmount() Money {
	return b.MonthlyIncome.Mul(Q(float64(b.SavingsPct) / 100))
}

func (b Budget) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("monthlyIncome", b.MonthlyIncome.value)
	w.Append("mustPercentage", float64(b.MustPct))
	w.Append("wantsPercentage", float64(b.WantsPct))
	w.Append("savingsPercentage", float64(b.SavingsPct))
	return w.MarshalJSON()
}

func (b *Budget) UnmarshalJSON(data []byte) error {
	var raw struct {
		MonthlyIncome decimal.Decimal `json:"monthlyIncome"`
		MustPct       float64         `json:"mustPercentage"`
		WantsPct      float64         `json:"wantsPercentage"`
		SavingsPct    float64         `json:"savingsPercentage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Budget{
		MonthlyIncome: M(raw.MonthlyIncome, EUR),
		MustPct:       Percent(raw.MustPct),
		WantsPct:      Percent(raw.WantsPct),
		SavingsPct:    Percent(raw.SavingsPct),
	}
	return nil
}
