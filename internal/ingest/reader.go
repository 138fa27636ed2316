// Package ingest parses normalized transaction exports into engine records.
//
// It expects the canonical tabular contract: a CSV with exactly the columns
// `date`, `description`, and `amount` (any order, case-insensitive), dates as
// YYYY-MM-DD, and amounts as signed decimals. It performs no schema
// inference; anything else is a schema violation, not a best-effort skip.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openledger/bankrecon/internal/domain/engine"
)

const dateLayout = "2006-01-02"

// Required canonical column names.
const (
	columnDate        = "date"
	columnDescription = "description"
	columnAmount      = "amount"
)

// LoadRecords reads a canonical CSV file and tags every record with origin.
func LoadRecords(path string, origin engine.Origin) ([]engine.TransactionRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &engine.ReadError{Source: origin.String(), Err: err}
	}
	defer file.Close()

	return ReadRecords(file, origin)
}

// ReadRecords parses canonical CSV content from r, tagging every record
// with origin. The first row must be the header.
func ReadRecords(r io.Reader, origin engine.Origin) ([]engine.TransactionRecord, error) {
	source := origin.String()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Field-count mismatches are reported as schema violations with a line
	// number, not generic csv errors.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &engine.SchemaError{Source: source, Detail: "missing header row"}
	}
	if err != nil {
		return nil, &engine.ReadError{Source: source, Err: err}
	}

	cols, err := resolveColumns(source, header)
	if err != nil {
		return nil, err
	}

	var records []engine.TransactionRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &engine.ReadError{Source: source, Err: err}
		}

		record, err := parseRow(source, line, row, cols, origin)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// columnIndexes maps the canonical columns to their positions in the header.
type columnIndexes struct {
	date        int
	description int
	amount      int
}

func resolveColumns(source string, header []string) (columnIndexes, error) {
	cols := columnIndexes{date: -1, description: -1, amount: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case columnDate:
			cols.date = i
		case columnDescription:
			cols.description = i
		case columnAmount:
			cols.amount = i
		}
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, columnDate)
	}
	if cols.description < 0 {
		missing = append(missing, columnDescription)
	}
	if cols.amount < 0 {
		missing = append(missing, columnAmount)
	}
	if len(missing) > 0 {
		return cols, &engine.SchemaError{
			Source: source,
			Detail: fmt.Sprintf("missing required column(s): %s", strings.Join(missing, ", ")),
		}
	}

	return cols, nil
}

func parseRow(source string, line int, row []string, cols columnIndexes, origin engine.Origin) (engine.TransactionRecord, error) {
	var record engine.TransactionRecord

	maxIdx := cols.date
	if cols.description > maxIdx {
		maxIdx = cols.description
	}
	if cols.amount > maxIdx {
		maxIdx = cols.amount
	}
	if len(row) <= maxIdx {
		return record, &engine.SchemaError{Source: source, Line: line, Detail: "row has fewer fields than the header"}
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(row[cols.date]))
	if err != nil {
		return record, &engine.SchemaError{
			Source: source,
			Line:   line,
			Detail: fmt.Sprintf("invalid date %q: expected %s", row[cols.date], dateLayout),
		}
	}

	amount, err := parseAmount(row[cols.amount])
	if err != nil {
		return record, &engine.SchemaError{
			Source: source,
			Line:   line,
			Detail: fmt.Sprintf("invalid amount %q", row[cols.amount]),
		}
	}

	record = engine.TransactionRecord{
		Date:         date,
		Description:  strings.TrimSpace(row[cols.description]),
		SignedAmount: amount,
		Origin:       origin,
	}
	return record, nil
}

// parseAmount accepts plain signed decimals plus the currency noise that
// survives upstream normalization: thousands separators and a leading "$".
func parseAmount(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "$")
	if negative {
		cleaned = "-" + cleaned
	}
	return strconv.ParseFloat(cleaned, 64)
}
