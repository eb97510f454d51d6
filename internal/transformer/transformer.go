// Package transformer derives new columns from extracted data. The only
// pipeline transform is currency conversion: three columns holding the USD
// market cap converted to GBP, EUR and INR, rounded to two decimals.
//
// Transforms are pure. They read their input table and return a new one;
// nothing is written to any sink.
package transformer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"banksetl/internal/dataset"
	"banksetl/internal/rates"
)

// Column names used by the pipeline.
const (
	ColName   = "Name"
	ColUSD    = "MC_USD_Billion"
	ColGBP    = "MC_GBP_Billion"
	ColEUR    = "MC_EUR_Billion"
	ColINR    = "MC_INR_Billion"
	Precision = 2
)

// Conversions lists the derived columns in the order they are appended.
var Conversions = []Convert{
	{Source: ColUSD, Target: ColGBP, Currency: "GBP"},
	{Source: ColUSD, Target: ColEUR, Currency: "EUR"},
	{Source: ColUSD, Target: ColINR, Currency: "INR"},
}

// MissingRateError reports a currency required by a conversion that is absent
// from the exchange-rate table.
type MissingRateError struct {
	Currency string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("transformer: exchange rate for %s not found", e.Currency)
}

// Transformer maps one table to another.
type Transformer interface {
	Apply(*dataset.Table) (*dataset.Table, error)
}

// Chain is an ordered list of transformers.
type Chain []Transformer

// Apply runs each transformer on the output of the previous one.
func (c Chain) Apply(in *dataset.Table) (*dataset.Table, error) {
	out := in
	for _, t := range c {
		if t == nil {
			continue
		}
		var err error
		if out, err = t.Apply(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Convert appends Target = round(Source * Rate, Precision).
type Convert struct {
	Source   string
	Target   string
	Currency string
	Rate     float64
}

// Apply implements Transformer. The input table is not modified.
func (c Convert) Apply(in *dataset.Table) (*dataset.Table, error) {
	if in.Index(c.Source) < 0 {
		return nil, fmt.Errorf("transformer: source column %q not found", c.Source)
	}
	rate := decimal.NewFromFloat(c.Rate)
	values := make([]any, in.Len())
	for i := range values {
		v, err := in.Float(i, c.Source)
		if err != nil {
			return nil, fmt.Errorf("transformer: %w", err)
		}
		values[i] = mulRound(decimal.NewFromFloat(v), rate)
	}

	out := in.Clone()
	if err := out.AddColumn(c.Target, values); err != nil {
		return nil, fmt.Errorf("transformer: %w", err)
	}
	return out, nil
}

// Transform adds MC_GBP_Billion, MC_EUR_Billion and MC_INR_Billion to a copy
// of t using the given rates.
func Transform(t *dataset.Table, r rates.Table) (*dataset.Table, error) {
	chain, err := NewCurrencyChain(r)
	if err != nil {
		return nil, err
	}
	return chain.Apply(t)
}

// NewCurrencyChain binds Conversions to the rates in r. It fails with
// *MissingRateError for the first required currency r does not contain.
func NewCurrencyChain(r rates.Table) (Chain, error) {
	chain := make(Chain, 0, len(Conversions))
	for _, c := range Conversions {
		rate, ok := r.Rate(c.Currency)
		if !ok {
			return nil, &MissingRateError{Currency: c.Currency}
		}
		c.Rate = rate
		chain = append(chain, c)
	}
	return chain, nil
}

// Round2 rounds v to two decimals, half to even.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(Precision).Float64()
	return f
}

// mulRound multiplies exactly in decimal and rounds half to even.
func mulRound(v, rate decimal.Decimal) float64 {
	f, _ := v.Mul(rate).RoundBank(Precision).Float64()
	return f
}
