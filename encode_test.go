package tracker

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTransactionsRoundTrip(t *testing.T) {
	day := NewDate(2024, time.March, 5)
	txs := []Transaction{
		Cost{baseTx: baseTx{TxID: "c1", Date: day, Memo: "rent"}, Account: "bank", Amount: M(850, EUR), Category: Must, SubCategory: "HOME", Detail: "RENT"},
		Income{baseTx: baseTx{TxID: "i1", Date: day, Memo: "salary"}, Account: "bank", Amount: M(3000, EUR), Type: Work},
		Transfer{baseTx: baseTx{TxID: "t1", Date: day, Memo: "top up"}, From: "bank", To: "broker", Amount: M(100, EUR), ToAmount: M(108.7, USD)},
	}

	var buf bytes.Buffer
	if err := EncodeTransactions(&buf, txs); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != len(txs) {
		t.Errorf("encoded %d lines, want %d", got, len(txs))
	}

	decoded, err := DecodeTransactions(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(txs) {
		t.Fatalf("decoded %d transactions, want %d", len(decoded), len(txs))
	}
	for i, tx := range txs {
		if !tx.Equal(decoded[i]) {
			t.Errorf("transaction %d does not survive the round trip: %v != %v", i, tx, decoded[i])
		}
	}
}

func TestDecodeTransactionsSkipsBlankLines(t *testing.T) {
	in := `{"id":"c1","type":"COST","date":"2024-03-05","accountId":"bank","currency":"EUR","amount":10,"category":"MUST"}

{"id":"i1","type":"INCOME","date":"2024-03-05","accountId":"bank","currency":"EUR","amount":20,"incomeType":"Work"}
`
	txs, err := DecodeTransactions(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].What() != CmdCost || txs[1].What() != CmdIncome {
		t.Errorf("unexpected types %s, %s", txs[0].What(), txs[1].What())
	}
}

func TestDecodeTransactionsUnknownType(t *testing.T) {
	in := `{"id":"x","type":"WIRE","date":"2024-03-05"}`
	if _, err := DecodeTransactions(strings.NewReader(in)); err == nil {
		t.Fatal("expected an error on unknown transaction type")
	}
}

func TestInvestmentsRoundTrip(t *testing.T) {
	day := NewDate(2024, time.March, 8)
	txs := []InvestmentTx{
		{TxID: "b1", Holding: "h1", Account: "broker", Type: CmdBuy, Date: day, Quantity: Q(5), PricePerUnit: M(178.25, USD).exact(), TotalAmount: M(892.25, USD)},
		{TxID: "d1", Holding: "h1", Account: "broker", Type: CmdDividend, Date: day, PricePerUnit: M(0, USD).exact(), TotalAmount: M(3.6, USD)},
	}

	var buf bytes.Buffer
	if err := EncodeInvestments(&buf, txs); err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeInvestments(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(txs) {
		t.Fatalf("decoded %d transactions, want %d", len(decoded), len(txs))
	}
	for i, tx := range txs {
		if !tx.Equal(decoded[i]) {
			t.Errorf("transaction %d does not survive the round trip: %v != %v", i, tx, decoded[i])
		}
	}
}

func TestEncodeTransactionStableOutput(t *testing.T) {
	tx := Cost{baseTx: baseTx{TxID: "c1", Date: NewDate(2024, time.March, 5), Memo: "rent"}, Account: "bank", Amount: M(850, EUR), Category: Must, SubCategory: "HOME"}

	var a, b bytes.Buffer
	if err := EncodeTransaction(&a, tx); err != nil {
		t.Fatal(err)
	}
	if err := EncodeTransaction(&b, tx); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Errorf("encoding is not byte stable:\n%s\n%s", a.String(), b.String())
	}
	want := `{"id":"c1","type":"COST","date":"2024-03-05","description":"rent","accountId":"bank","currency":"EUR","amount":850,"category":"MUST","subCategory":"HOME"}` + "\n"
	if a.String() != want {
		t.Errorf("unexpected encoding:\n got %s\nwant %s", a.String(), want)
	}
}
