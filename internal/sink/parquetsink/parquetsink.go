// Package parquetsink writes the transformed banks table as a SNAPPY
// compressed Parquet file.
package parquetsink

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"banksetl/internal/dataset"
	"banksetl/internal/transformer"
)

// BankRecord is one Parquet row.
type BankRecord struct {
	Name         string  `parquet:"name=Name, type=BYTE_ARRAY, convertedtype=UTF8"`
	MCUSDBillion float64 `parquet:"name=MC_USD_Billion, type=DOUBLE"`
	MCGBPBillion float64 `parquet:"name=MC_GBP_Billion, type=DOUBLE"`
	MCEURBillion float64 `parquet:"name=MC_EUR_Billion, type=DOUBLE"`
	MCINRBillion float64 `parquet:"name=MC_INR_Billion, type=DOUBLE"`
}

// Records converts t into BankRecords. t must hold the Name column and the
// four market-cap columns.
func Records(t *dataset.Table) ([]BankRecord, error) {
	out := make([]BankRecord, t.Len())
	for i := range out {
		name, err := t.Value(i, transformer.ColName)
		if err != nil {
			return nil, fmt.Errorf("parquetsink: %w", err)
		}
		s, ok := name.(string)
		if !ok {
			return nil, fmt.Errorf("parquetsink: row %d: %s holds %T", i, transformer.ColName, name)
		}
		rec := BankRecord{Name: s}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{transformer.ColUSD, &rec.MCUSDBillion},
			{transformer.ColGBP, &rec.MCGBPBillion},
			{transformer.ColEUR, &rec.MCEURBillion},
			{transformer.ColINR, &rec.MCINRBillion},
		} {
			if *f.dst, err = t.Float(i, f.col); err != nil {
				return nil, fmt.Errorf("parquetsink: %w", err)
			}
		}
		out[i] = rec
	}
	return out, nil
}

// Write stores t at path, replacing any existing file.
func Write(t *dataset.Table, path string) error {
	records, err := Records(t)
	if err != nil {
		return err
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("parquetsink: create %s: %w", path, err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(BankRecord), 1)
	if err != nil {
		return fmt.Errorf("parquetsink: new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		if err := pw.Write(rec); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("parquetsink: write record: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("parquetsink: finalize: %w", err)
	}
	return nil
}
