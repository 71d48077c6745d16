package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"freshmarket/internal/pricing"
	promorepo "freshmarket/internal/repository/promo"
)

type PromoWriter interface {
	Upsert(ctx context.Context, rec promorepo.Record) error
}

// CSVImporter reads a promo-code CSV export (code,kind,value,active) and
// inserts/updates catalog entries.
type CSVImporter struct {
	reader    *csv.Reader
	promoRepo PromoWriter
}

func NewCSVImporter(r io.Reader, repo PromoWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:    csvr,
		promoRepo: repo,
	}
}

// Run parses CSV rows and upserts promo codes. It returns the number of
// codes written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		rec, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if rec == nil {
			continue
		}
		if err := i.promoRepo.Upsert(ctx, *rec); err != nil {
			return imported, fmt.Errorf("upsert promo %q: %w", rec.Code, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (*promorepo.Record, error) {
	code := pricing.NormalizeCode(pick(record, index, "code"))
	if code == "" {
		return nil, nil
	}

	kind := pricing.RuleKind(strings.ToLower(pick(record, index, "kind")))
	if kind != pricing.KindFlat && kind != pricing.KindPercent {
		return nil, fmt.Errorf("invalid kind %q for code %s", kind, code)
	}

	value, err := strconv.ParseInt(pick(record, index, "value"), 10, 64)
	if err != nil || value <= 0 {
		return nil, fmt.Errorf("invalid value for code %s", code)
	}
	if kind == pricing.KindPercent && value > 100 {
		return nil, fmt.Errorf("percent value out of range for code %s", code)
	}

	active := true
	if v := pick(record, index, "active"); v != "" {
		active, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid active flag for code %s", code)
		}
	}

	return &promorepo.Record{Code: code, Kind: kind, Value: value, Active: active}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
