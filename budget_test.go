package tracker

import "testing"

func TestBudgetDefaults(t *testing.T) {
	b := DefaultBudget()
	if !b.MonthlyIncome.Equal(M(3000, EUR)) {
		t.Errorf("default income = %s", b.MonthlyIncome)
	}
	if b.MustPct != 50 || b.WantsPct != 30 || b.SavingsPct != 20 {
		t.Errorf("default split = %v/%v/%v, want 50/30/20", b.MustPct, b.WantsPct, b.SavingsPct)
	}
}

func TestBudgetPercentagesAlwaysSumToHundred(t *testing.T) {
	testCases := []struct {
		name        string
		adjust      func(*Budget)
		must, wants Percent
	}{
		{"simple move", func(b *Budget) { b.SetMust(60) }, 60, 30},
		{"must capped by wants", func(b *Budget) { b.SetMust(90) }, 70, 30},
		{"negative clamps to zero", func(b *Budget) { b.SetWants(-10) }, 50, 0},
		{"over hundred clamps", func(b *Budget) { b.SetWants(150) }, 50, 50},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := DefaultBudget()
			tc.adjust(&b)
			if !b.MustPct.Equal(tc.must) || !b.WantsPct.Equal(tc.wants) {
				t.Errorf("split = %v/%v, want %v/%v", b.MustPct, b.WantsPct, tc.must, tc.wants)
			}
			if total := b.MustPct + b.WantsPct + b.SavingsPct; !total.Equal(100) {
				t.Errorf("split sums to %v, want 100", total)
			}
		})
	}
}

func TestBudgetAmounts(t *testing.T) {
	b := DefaultBudget()
	b.SetIncome(M(2000, EUR))
	if !b.MustAmount().Equal(M(1000, EUR)) {
		t.Errorf("must amount = %s, want 1000 EUR", b.MustAmount())
	}
	if !b.SavingsAmount().Equal(M(400, EUR)) {
		t.Errorf("savings amount = %s, want 400 EUR", b.SavingsAmount())
	}
}
