package buyers

import (
	"fmt"

	"buyer-lead-portal/internal/apierr"
	"buyer-lead-portal/internal/csvio"
	"buyer-lead-portal/internal/models"
	"buyer-lead-portal/internal/validation"
)

// MaxImportRows is the batch ceiling for a CSV import. Larger files are
// rejected outright with no rows processed.
const MaxImportRows = 200

// RowError reports why a single CSV row was rejected. Row numbers are
// 1-based over the data rows (the header does not count).
type RowError struct {
	Row    int                 `json:"row"`
	Data   map[string]string   `json:"data"`
	Errors []apierr.FieldError `json:"errors"`
}

// ImportResult summarizes a finished import.
type ImportResult struct {
	Imported int            `json:"imported"`
	Errors   []RowError     `json:"errors,omitempty"`
	Data     []models.Buyer `json:"data"`
}

// ImportCSV parses raw CSV bytes, validates each row independently and
// persists every valid row plus its create-history entry as one atomic
// transaction. Per-row validation failures are data in the result, not
// errors; only an oversized or wholly-invalid batch fails the call.
func (s *Service) ImportCSV(raw []byte, actorID string) (*ImportResult, error) {
	if err := s.ensureBypassUser(actorID); err != nil {
		return nil, err
	}

	rows, err := csvio.ParseBuffer(raw)
	if err != nil {
		return nil, apierr.BadRequest("Invalid CSV file", nil)
	}
	if len(rows) > MaxImportRows {
		return nil, apierr.BadRequest(fmt.Sprintf("CSV file cannot exceed %d rows", MaxImportRows), nil)
	}

	var (
		toCreate  []models.Buyer
		entries   []models.BuyerHistory
		rowErrors []RowError
	)

	now := s.now()
	for i, rawRow := range rows {
		input, parseErrs := csvio.RowToInput(rawRow)

		validated, fieldErrs := validation.ValidateBuyer(input)
		fieldErrs = append(parseErrs, fieldErrs...)
		if len(fieldErrs) > 0 {
			// record-level rules surface under the synthetic "row" field
			// on the import path
			for j := range fieldErrs {
				if fieldErrs[j].Field == validation.RecordField {
					fieldErrs[j].Field = "row"
				}
			}
			rowErrors = append(rowErrors, RowError{Row: i + 1, Data: rawRow, Errors: fieldErrs})
			continue
		}

		buyer := s.buyerFromInput(validated, actorID, now)
		entry := BuildHistoryEntry(buyer.ID, actorID, nil, buyer, now)
		toCreate = append(toCreate, *buyer)
		entries = append(entries, entry)
	}

	if len(toCreate) == 0 {
		return nil, apierr.BadRequest("No valid data found in CSV", rowErrors)
	}

	if err := s.store.ImportBuyers(toCreate, entries); err != nil {
		return nil, err
	}

	return &ImportResult{
		Imported: len(toCreate),
		Errors:   rowErrors,
		Data:     toCreate,
	}, nil
}

// ExportCSV serializes all buyers matching the filters (unpaginated) in
// human spelling.
func (s *Service) ExportCSV(filters Filters, sortBy, sortOrder string) ([]byte, error) {
	buyers, err := s.exportRecords(filters, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}
	return csvio.Generate(buyers)
}

// ExportXLSX is the spreadsheet variant of ExportCSV.
func (s *Service) ExportXLSX(filters Filters, sortBy, sortOrder string) ([]byte, error) {
	buyers, err := s.exportRecords(filters, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}
	return csvio.GenerateXLSX(buyers)
}

func (s *Service) exportRecords(filters Filters, sortBy, sortOrder string) ([]models.Buyer, error) {
	q := BuildListQuery(filters, 1, DefaultLimit, sortBy, sortOrder)
	return s.store.ListAllBuyers(q)
}
