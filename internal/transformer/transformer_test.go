package transformer

import (
	"errors"
	"reflect"
	"testing"

	"banksetl/internal/dataset"
	"banksetl/internal/rates"
)

func usdTable(t *testing.T, rows ...[]any) *dataset.Table {
	t.Helper()
	tbl := dataset.MustNew(ColName, ColUSD)
	for _, r := range rows {
		if err := tbl.Append(r...); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return tbl
}

var sampleRates = rates.Table{"GBP": 0.8, "EUR": 0.93, "INR": 82.1}

// TestTransform_HandComputed checks the documented example: 100 USD billion
// becomes 80 GBP, 93 EUR and 8210 INR.
func TestTransform_HandComputed(t *testing.T) {
	t.Parallel()

	in := usdTable(t, []any{"X", 100.0})
	out, err := Transform(in, sampleRates)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	wantCols := []string{ColName, ColUSD, ColGBP, ColEUR, ColINR}
	if got := out.Columns(); !reflect.DeepEqual(got, wantCols) {
		t.Fatalf("Columns() = %v, want %v", got, wantCols)
	}
	if got, want := out.Row(0), []any{"X", 100.0, 80.0, 93.0, 8210.0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Row(0) = %v, want %v", got, want)
	}
}

func TestTransform_RoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	in := usdTable(t,
		[]any{"JPMorgan Chase", 432.92},
		[]any{"Bank of America", 231.52},
		[]any{"Tiny", 0.01},
	)
	r := rates.Table{"GBP": 0.8, "EUR": 0.93, "INR": 82.95}
	out, err := Transform(in, r)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	want := [][]any{
		{"JPMorgan Chase", 432.92, 346.34, 402.62, 35910.71},
		{"Bank of America", 231.52, 185.22, 215.31, 19204.58},
		// 0.0093 -> 0.01, 0.008 -> 0.01, 0.8295 -> 0.83
		{"Tiny", 0.01, 0.01, 0.01, 0.83},
	}
	for i, w := range want {
		if got := out.Row(i); !reflect.DeepEqual(got, w) {
			t.Errorf("Row(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := usdTable(t, []any{"X", 1.0})
	if _, err := Transform(in, sampleRates); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if got := in.Columns(); len(got) != 2 {
		t.Fatalf("input columns mutated: %v", got)
	}
	if got := in.Row(0); !reflect.DeepEqual(got, []any{"X", 1.0}) {
		t.Fatalf("input row mutated: %v", got)
	}
}

func TestTransform_MissingRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rates rates.Table
		want  string
	}{
		{"no GBP", rates.Table{"EUR": 1, "INR": 1}, "GBP"},
		{"no EUR", rates.Table{"GBP": 1, "INR": 1}, "EUR"},
		{"no INR", rates.Table{"GBP": 1, "EUR": 1}, "INR"},
		{"empty", rates.Table{}, "GBP"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Transform(usdTable(t, []any{"X", 1.0}), tt.rates)
			var mre *MissingRateError
			if !errors.As(err, &mre) {
				t.Fatalf("error = %v, want *MissingRateError", err)
			}
			if mre.Currency != tt.want {
				t.Fatalf("Currency = %q, want %q", mre.Currency, tt.want)
			}
		})
	}
}

func TestTransform_MissingSourceColumn(t *testing.T) {
	t.Parallel()

	tbl := dataset.MustNew("Name", "Other")
	if _, err := Transform(tbl, sampleRates); err == nil {
		t.Fatalf("Transform without %s error = nil", ColUSD)
	}
}

func TestTransform_EmptyTable(t *testing.T) {
	t.Parallel()

	out, err := Transform(usdTable(t), sampleRates)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out.Len() != 0 || len(out.Columns()) != 5 {
		t.Fatalf("unexpected shape: len=%d cols=%v", out.Len(), out.Columns())
	}
}

// TestRound2_HalfToEven documents the rounding policy.
func TestRound2_HalfToEven(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want float64 }{
		{1.005, 1.0},
		{1.015, 1.02},
		{1.025, 1.02},
		{2.675, 2.68},
		{80.0, 80.0},
		{-1.125, -1.12},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestChain_SkipsNilAndStopsOnError(t *testing.T) {
	t.Parallel()

	in := usdTable(t, []any{"X", 10.0})
	c := Chain{nil, Convert{Source: ColUSD, Target: "Double", Currency: "X2", Rate: 2}}
	out, err := c.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if v, _ := out.Float(0, "Double"); v != 20 {
		t.Fatalf("Double = %v", v)
	}

	bad := Chain{Convert{Source: "missing", Target: "y"}}
	if _, err := bad.Apply(in); err == nil {
		t.Fatalf("Apply with missing source error = nil")
	}
}
