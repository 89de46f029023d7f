package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/archmapio/archmap/domain/catalog"
	"github.com/archmapio/archmap/domain/mapping"
	"github.com/archmapio/archmap/domain/tabular"
)

// serialEpoch is day zero of the spreadsheet serial-date encoding.
// Serial 1 is 1899-12-31 and serial 25569 is the Unix epoch.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Record is one validated row: typed values keyed by target field name,
// still carrying its 1-based source row number.
type Record struct {
	row    int
	values map[string]any
}

// NewRecord creates a Record for a source row.
func NewRecord(row int) Record {
	return Record{row: row, values: make(map[string]any)}
}

// Row returns the 1-based source row number.
func (r Record) Row() int { return r.row }

// Value returns the typed value of a target field (nil when the field was
// optional and empty).
func (r Record) Value(target string) any { return r.values[target] }

// String returns the value of a target field as a string ("" when unset).
func (r Record) String(target string) string {
	if v, ok := r.values[target].(string); ok {
		return v
	}
	return ""
}

// Time returns the value of a target field as a time.Time (zero when unset).
func (r Record) Time(target string) time.Time {
	if v, ok := r.values[target].(time.Time); ok {
		return v
	}
	return time.Time{}
}

func (r Record) set(target string, v any) {
	r.values[target] = v
}

// ValidationResult accumulates the outcome of validating one table.
type ValidationResult struct {
	Records  []Record
	Errors   []FieldError
	Warnings []FieldWarning
	// Excluded counts rows dropped because of at least one field error.
	Excluded int
}

// Validator coerces raw rows into typed records per field mappings. Lookup
// fields are checked against live entity collections through the store.
type Validator struct {
	entities      catalog.EntityStore
	strictChoices bool
	logger        *slog.Logger
}

// NewValidator creates a Validator. entities may be nil when no mapping
// uses lookup fields.
func NewValidator(entities catalog.EntityStore, strictChoices bool, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{entities: entities, strictChoices: strictChoices, logger: logger}
}

// ValidateTable validates every row of a table against the field mappings.
// Rows with any field error are excluded from the result records but all of
// their errors are reported; validation never stops at the first bad column.
// A store failure during a lookup check is not a data problem and aborts the
// table with an error instead of surfacing as a row error.
func (v *Validator) ValidateTable(ctx context.Context, table tabular.Table, fields []mapping.FieldMapping) (ValidationResult, error) {
	result := ValidationResult{}

	for _, row := range table.Rows() {
		record := NewRecord(row.Number())
		rowErrs := 0

		for _, field := range fields {
			cell := table.CellByColumn(row, field.Source)

			value, errs, warns, err := v.validateField(ctx, row.Number(), field, cell)
			if err != nil {
				return ValidationResult{}, fmt.Errorf("row %d, field %q: %w", row.Number(), field.Target, err)
			}
			result.Errors = append(result.Errors, errs...)
			result.Warnings = append(result.Warnings, warns...)
			rowErrs += len(errs)

			if len(errs) == 0 && value != nil {
				record.set(field.Target, value)
			}
		}

		if rowErrs > 0 {
			result.Excluded++
			continue
		}
		result.Records = append(result.Records, record)
	}

	v.logger.Debug("table validated",
		"source", table.Source(),
		"rows", table.Len(),
		"valid", len(result.Records),
		"excluded", result.Excluded,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

// validateField coerces one cell. A nil value with no errors means the field
// was optional and empty. The error return is reserved for infrastructure
// failures; data problems are FieldErrors.
func (v *Validator) validateField(ctx context.Context, rowNum int, field mapping.FieldMapping, cell tabular.Cell) (any, []FieldError, []FieldWarning, error) {
	if cell.IsEmpty() {
		if field.Required {
			return nil, []FieldError{{Row: rowNum, Field: field.Target, Code: CodeMissingRequiredField}}, nil, nil
		}
		return nil, nil, nil, nil
	}

	fail := func(code FieldErrorCode) (any, []FieldError, []FieldWarning, error) {
		return nil, []FieldError{{Row: rowNum, Field: field.Target, Code: code, Raw: cell.Raw()}}, nil, nil
	}

	switch field.Type {
	case mapping.FieldText:
		s := coerceText(cell)
		// MaxLength counts runes: truncating by byte could split a multibyte
		// character and store invalid UTF-8.
		if runes := []rune(s); field.MaxLength > 0 && len(runes) > field.MaxLength {
			s = string(runes[:field.MaxLength])
			return s, nil, []FieldWarning{{Row: rowNum, Field: field.Target, Code: WarnTextTruncated, Raw: cell.Raw()}}, nil
		}
		return s, nil, nil, nil

	case mapping.FieldNumber:
		f, ok := coerceNumber(cell)
		if !ok {
			return fail(CodeInvalidNumber)
		}
		return f, nil, nil, nil

	case mapping.FieldDateTime:
		t, ok := coerceDateTime(cell)
		if !ok {
			return fail(CodeInvalidDate)
		}
		return t, nil, nil, nil

	case mapping.FieldBoolean:
		b, ok := coerceBool(cell)
		if !ok {
			return fail(CodeInvalidBoolean)
		}
		return b, nil, nil, nil

	case mapping.FieldChoice:
		s := coerceText(cell)
		if choiceAllowed(s, field.Choices) {
			return s, nil, nil, nil
		}
		if field.StrictChoices || v.strictChoices {
			return fail(CodeUnrecognizedChoice)
		}
		return s, nil, []FieldWarning{{Row: rowNum, Field: field.Target, Code: WarnUnrecognizedChoice, Raw: cell.Raw()}}, nil

	case mapping.FieldLookup:
		return v.validateLookup(ctx, rowNum, field, cell)

	case mapping.FieldUser:
		s := strings.TrimSpace(coerceText(cell))
		if _, err := mail.ParseAddress(s); err != nil {
			return fail(CodeInvalidEmail)
		}
		return s, nil, nil, nil
	}

	// Plan validation rejects unknown types before we get here.
	return fail(CodeMissingRequiredField)
}

// validateLookup checks a business key against a live entity collection.
// Zero matches is an error; more than one match accepts the first and warns
// (stores with a unique key index never produce this, but the contract is
// store-agnostic). A failed store query is an infrastructure error, not a
// row problem the spreadsheet author could fix.
func (v *Validator) validateLookup(ctx context.Context, rowNum int, field mapping.FieldMapping, cell tabular.Cell) (any, []FieldError, []FieldWarning, error) {
	key := catalog.NewBusinessKey(coerceText(cell))

	matches, err := v.entities.Find(ctx,
		catalog.WithEntityType(catalog.EntityType(field.LookupCollection)),
		catalog.WithBusinessKey(key),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("lookup %q in collection %q: %w", key.String(), field.LookupCollection, err)
	}

	switch {
	case len(matches) == 0:
		return nil, []FieldError{{Row: rowNum, Field: field.Target, Code: CodeLookupNotFound, Raw: cell.Raw()}}, nil, nil
	case len(matches) > 1:
		return key.String(), nil, []FieldWarning{{Row: rowNum, Field: field.Target, Code: WarnDuplicateLookupMatch, Raw: cell.Raw()}}, nil
	default:
		return key.String(), nil, nil, nil
	}
}

func coerceText(cell tabular.Cell) string {
	switch cell.Kind() {
	case tabular.KindText:
		return cell.Text()
	default:
		return cell.Raw()
	}
}

func coerceNumber(cell tabular.Cell) (float64, bool) {
	switch cell.Kind() {
	case tabular.KindNumber:
		return cell.Number(), true
	case tabular.KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(cell.Text()), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceDateTime tries, in order: serial-date epoch, generic date strings,
// then MM/DD/YYYY and DD/MM/YYYY.
func coerceDateTime(cell tabular.Cell) (time.Time, bool) {
	switch cell.Kind() {
	case tabular.KindDate:
		return cell.Date(), true
	case tabular.KindNumber:
		return serialToTime(cell.Number()), true
	case tabular.KindText:
		s := strings.TrimSpace(cell.Text())
		if serial, err := strconv.ParseFloat(s, 64); err == nil {
			return serialToTime(serial), true
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02", "01/02/2006", "02/01/2006"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// serialToTime converts a spreadsheet serial date (fractional days since
// 1899-12-30) to a UTC time.
func serialToTime(serial float64) time.Time {
	seconds := math.Round(serial * 86400)
	return serialEpoch.Add(time.Duration(seconds) * time.Second)
}

func coerceBool(cell tabular.Cell) (bool, bool) {
	switch cell.Kind() {
	case tabular.KindBool:
		return cell.Bool(), true
	case tabular.KindNumber:
		if cell.Number() == 1 {
			return true, true
		}
		if cell.Number() == 0 {
			return false, true
		}
		return false, false
	case tabular.KindText:
		switch strings.ToLower(strings.TrimSpace(cell.Text())) {
		case "true", "1", "yes", "y", "on":
			return true, true
		case "false", "0", "no", "n", "off":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

func choiceAllowed(value string, choices []string) bool {
	for _, c := range choices {
		if strings.EqualFold(strings.TrimSpace(value), c) {
			return true
		}
	}
	return false
}

// describeMappings is used in debug logs when a plan is loaded.
func describeMappings(fields []mapping.FieldMapping) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = fmt.Sprintf("%s->%s(%s)", f.Source, f.Target, f.Type)
	}
	return strings.Join(names, ", ")
}
