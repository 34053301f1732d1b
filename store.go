package tracker

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Store persists the tracker state as named documents in a data directory.
// Each named value is loaded whole with a default when absent, and replaced
// whole on save. Saves are atomic: write to a temp file, then rename.
//
// Layout:
//
//	accounts.json               []Account
//	transactions.jsonl          cash ledger, one transaction per line
//	investmentHoldings.json     []Holding
//	investmentTransactions.jsonl
//	budget.json                 Budget
//	customCategories.json       CustomCategories
//	exchangeRate.json           live rate snapshot
//	historicalRates.json        per-date rate cache
//	monthlySummaries.json       []MonthlySummary
//	reports.json                []ReportData
type Store struct {
	dir string
}

// OpenStore opens (creating if needed) a store rooted at dir.
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "cannot create data directory %q", dir)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's data directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

// read returns the file content, or (nil, nil) when the file does not exist.
func (s *Store) read(name string) ([]byte, error) {
	b, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %q", name)
	}
	return b, nil
}

// write atomically replaces the file content.
func (s *Store) write(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "cannot create temp file for %q", name)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "cannot write %q", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "cannot close %q", name)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return errors.Wrapf(err, "cannot replace %q", name)
	}
	log.Debug().Str("file", name).Int("bytes", len(data)).Msg("saved")
	return nil
}

// loadJSON unmarshals a named JSON document into v, leaving v untouched when
// the document does not exist yet.
func (s *Store) loadJSON(name string, v any) error {
	b, err := s.read(name)
	if err != nil || b == nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "corrupted document %q", name)
	}
	return nil
}

func (s *Store) saveJSON(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %q", name)
	}
	return s.write(name, append(b, '\n'))
}

// LoadLedger loads the whole ledger. A missing store yields an empty ledger.
func (s *Store) LoadLedger() (*Ledger, error) {
	ledger := NewLedger()

	if err := s.loadJSON("accounts.json", &ledger.accounts); err != nil {
		return nil, err
	}
	if err := s.loadJSON("investmentHoldings.json", &ledger.holdings); err != nil {
		return nil, err
	}

	if b, err := s.read("transactions.jsonl"); err != nil {
		return nil, err
	} else if b != nil {
		txs, err := DecodeTransactions(bytes.NewReader(b))
		if err != nil {
			return nil, errors.Wrap(err, "corrupted document \"transactions.jsonl\"")
		}
		ledger.transactions = txs
	}

	if b, err := s.read("investmentTransactions.jsonl"); err != nil {
		return nil, err
	} else if b != nil {
		txs, err := DecodeInvestments(bytes.NewReader(b))
		if err != nil {
			return nil, errors.Wrap(err, "corrupted document \"investmentTransactions.jsonl\"")
		}
		ledger.investments = txs
	}

	ledger.stableSort()
	return ledger, nil
}

// SaveLedger replaces all four ledger documents.
func (s *Store) SaveLedger(l *Ledger) error {
	if err := s.saveJSON("accounts.json", l.accounts); err != nil {
		return err
	}
	if err := s.saveJSON("investmentHoldings.json", l.holdings); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodeTransactions(&buf, l.transactions); err != nil {
		return err
	}
	if err := s.write("transactions.jsonl", buf.Bytes()); err != nil {
		return err
	}

	buf.Reset()
	if err := EncodeInvestments(&buf, l.investments); err != nil {
		return err
	}
	return s.write("investmentTransactions.jsonl", buf.Bytes())
}

// LoadBudget loads the budget, defaulting to the 50/30/20 rule.
func (s *Store) LoadBudget() (Budget, error) {
	budget := DefaultBudget()
	err := s.loadJSON("budget.json", &budget)
	return budget, err
}

// SaveBudget replaces the budget document.
func (s *Store) SaveBudget(b Budget) error {
	return s.saveJSON("budget.json", b)
}

// LoadCategories loads the user's custom categories.
func (s *Store) LoadCategories() (CustomCategories, error) {
	var c CustomCategories
	err := s.loadJSON("customCategories.json", &c)
	return c, err
}

// SaveCategories replaces the custom categories document.
func (s *Store) SaveCategories(c CustomCategories) error {
	return s.saveJSON("customCategories.json", c)
}

// LoadSummaries loads the materialized monthly summaries.
func (s *Store) LoadSummaries() ([]MonthlySummary, error) {
	var sums []MonthlySummary
	err := s.loadJSON("monthlySummaries.json", &sums)
	return sums, err
}

// SaveSummaries replaces the monthly summaries document.
func (s *Store) SaveSummaries(sums []MonthlySummary) error {
	return s.saveJSON("monthlySummaries.json", sums)
}

// LoadReports loads the cached reports.
func (s *Store) LoadReports() ([]ReportData, error) {
	var reports []ReportData
	err := s.loadJSON("reports.json", &reports)
	return reports, err
}

// SaveReports replaces the cached reports document.
func (s *Store) SaveReports(reports []ReportData) error {
	return s.saveJSON("reports.json", reports)
}

// LoadRates restores the rate service state: the live rate snapshot and the
// historical per-date cache.
func (s *Store) LoadRates(r *Rates) error {
	var live rateSnapshot
	if err := s.loadJSON("exchangeRate.json", &live); err != nil {
		return err
	}
	hist := make(map[string]float64)
	if err := s.loadJSON("historicalRates.json", &hist); err != nil {
		return err
	}
	r.restore(live, hist)
	return nil
}

// SaveRates persists the rate service state.
func (s *Store) SaveRates(r *Rates) error {
	live, hist := r.state()
	if err := s.saveJSON("exchangeRate.json", live); err != nil {
		return err
	}
	return s.saveJSON("historicalRates.json", hist)
}
