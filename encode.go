package tracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeTransactions decodes cash transactions from a stream of JSONL data,
// one object per line, dispatching on the "type" field.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Type TxType `json:"type"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify transaction type in line %q: %w", string(line), err)
		}

		var decoded Transaction
		var err error
		switch identifier.Type {
		case CmdCost:
			var tx Cost
			err = json.Unmarshal(line, &tx)
			decoded = tx
		case CmdIncome:
			var tx Income
			err = json.Unmarshal(line, &tx)
			decoded = tx
		case CmdTransfer:
			var tx Transfer
			err = json.Unmarshal(line, &tx)
			decoded = tx
		default:
			err = fmt.Errorf("unknown transaction type: %q", identifier.Type)
		}
		if err != nil {
			return nil, err
		}
		txs = append(txs, decoded)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading transactions: %w", err)
	}
	return txs, nil
}

// EncodeTransaction marshals a single transaction and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeTransactions persists cash transactions to an io.Writer in JSONL
// format, in date order, with stable key order within each line.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeInvestments decodes investment transactions from a stream of JSONL
// data, one object per line.
func DecodeInvestments(r io.Reader) ([]InvestmentTx, error) {
	var txs []InvestmentTx
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var tx InvestmentTx
		if err := json.Unmarshal(line, &tx); err != nil {
			return nil, fmt.Errorf("could not decode investment transaction %q: %w", string(line), err)
		}
		txs = append(txs, tx)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading investment transactions: %w", err)
	}
	return txs, nil
}

// EncodeInvestments persists investment transactions to an io.Writer in
// JSONL format.
func EncodeInvestments(w io.Writer, txs []InvestmentTx) error {
	for _, tx := range txs {
		data, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("failed to marshal investment transaction: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write investment transaction: %w", err)
		}
	}
	return nil
}
