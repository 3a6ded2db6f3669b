package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/normalize"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "2006/01/02"}

// parsePartyRows turns data rows into party params.
// headerRowNum is the 1-based line of the header row, used in error messages.
func parsePartyRows(p partyProfile, cols colIndex, rows [][]string, headerRowNum int) ([]party.CreateParams, error) {
	nameIdx, phoneIdx := cols.col(p.NameCol), cols.col(p.PhoneCol)
	emailIdx, typeIdx := cols.col(p.EmailCol), cols.col(p.TypeCol)

	var params []party.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		if blank(row) {
			continue
		}

		name := cellValue(row, nameIdx)
		phone := cellValue(row, phoneIdx)

		if name == "" && phone == "" {
			return nil, fmt.Errorf("row %d: missing name and phone", rowNum)
		}

		t := p.DefaultType

		if typeIdx >= 0 {
			var ok bool

			t, ok = typeWords[normalize.Name(cellValue(row, typeIdx))]
			if !ok {
				return nil, fmt.Errorf("row %d: unknown party type %q", rowNum, cellValue(row, typeIdx))
			}
		}

		params = append(params, party.CreateParams{
			Type:  t,
			Name:  name,
			Phone: phone,
			Email: cellValue(row, emailIdx),
		})
	}

	return params, nil
}

// parseInstrumentRows turns data rows into instrument params. Owner name and phone
// are kept exactly as written so matching sees what the clerk entered.
func parseInstrumentRows(p instrumentProfile, cols colIndex, rows [][]string, headerRowNum int) ([]instrument.CreateParams, error) {
	ownerIdx, phoneIdx := cols.col(p.OwnerCol), cols.col(p.PhoneCol)
	amountIdx, dueIdx, statusIdx := cols.col(p.AmountCol), cols.col(p.DueCol), cols.col(p.StatusCol)

	var params []instrument.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		if blank(row) {
			continue
		}

		amount, err := parseAmount(cellValue(row, amountIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		due, err := parseDate(cellValue(row, dueIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		status, err := parseStatus(p.Kind, cellValue(row, statusIdx))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		params = append(params, instrument.CreateParams{
			Kind:          p.Kind,
			Amount:        amount,
			DueDate:       due,
			Status:        status,
			RawOwnerName:  cellValue(row, ownerIdx),
			RawOwnerPhone: cellValue(row, phoneIdx),
		})
	}

	return params, nil
}

// parseAmount reads an amount in either "1,234.56" or "1.234,56" notation, with
// ASCII or Arabic-Indic digits, and returns it in cents.
func parseAmount(s string) (int64, error) {
	clean := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			return r
		}

		return -1
	}, normalize.Digits(s))

	if clean == "" {
		return 0, errors.New("missing amount")
	}

	lastDot, lastComma := strings.LastIndex(clean, "."), strings.LastIndex(clean, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(clean, ",") == 1 && len(clean)-lastComma-1 <= 2 {
			clean = strings.Replace(clean, ",", ".", 1)
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %q", s)
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func parseDate(s string) (time.Time, error) {
	s = normalize.Digits(s)
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid due date %q", s)
}

func parseStatus(kind instrument.Kind, s string) (instrument.Status, error) {
	if s == "" {
		return defaultStatus[kind], nil
	}

	status, ok := statusWords[kind][normalize.Name(s)]
	if !ok {
		return "", fmt.Errorf("unknown %s status %q", kind, s)
	}

	return status, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
