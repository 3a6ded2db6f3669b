// Package importer reads legacy party, check and installment exports.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	enc "github.com/MrJamesThe3rd/partylink/internal/encoding"
	"github.com/MrJamesThe3rd/partylink/internal/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/normalize"
	"github.com/MrJamesThe3rd/partylink/internal/party"
)

// Options tune how a file is read. The zero value detects everything.
type Options struct {
	// Charset forces the source encoding instead of detecting it.
	Charset enc.Charset
	// Comma forces the field delimiter instead of detecting it.
	Comma rune
}

// Meta describes how a file was understood.
type Meta struct {
	Profile string
	Charset enc.Charset
	Comma   rune
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ParseParties reads a party export. The header row may be preceded by free-form lines.
func (s *Service) ParseParties(r io.Reader, opts Options) ([]party.CreateParams, Meta, error) {
	rows, meta, err := readRows(r, opts)
	if err != nil {
		return nil, meta, err
	}

	for rowIdx, row := range rows {
		cols := headerIndex(row)

		for _, p := range partyProfiles {
			if !hasCols(cols, p.requiredCols()) {
				continue
			}

			meta.Profile = p.Name

			params, err := parsePartyRows(p, cols, rows[rowIdx+1:], rowIdx+1)

			return params, meta, err
		}
	}

	return nil, meta, fmt.Errorf("no matching party format found")
}

// ParseInstruments reads a check or installment export.
func (s *Service) ParseInstruments(r io.Reader, opts Options) ([]instrument.CreateParams, Meta, error) {
	rows, meta, err := readRows(r, opts)
	if err != nil {
		return nil, meta, err
	}

	for rowIdx, row := range rows {
		cols := headerIndex(row)

		for _, p := range instrumentProfiles {
			if !hasCols(cols, p.requiredCols()) {
				continue
			}

			meta.Profile = p.Name

			params, err := parseInstrumentRows(p, cols, rows[rowIdx+1:], rowIdx+1)

			return params, meta, err
		}
	}

	return nil, meta, fmt.Errorf("no matching check or installment format found")
}

func readRows(r io.Reader, opts Options) ([][]string, Meta, error) {
	var (
		meta  Meta
		utf8r io.Reader
		err   error
	)

	if opts.Charset != "" {
		utf8r, err = enc.NewReader(r, opts.Charset)
		meta.Charset = opts.Charset
	} else {
		utf8r, meta.Charset, err = enc.NewUTF8Reader(r)
	}

	if err != nil {
		return nil, meta, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, meta, fmt.Errorf("decode: %w", err)
	}

	meta.Comma = opts.Comma
	if meta.Comma == 0 {
		meta.Comma = detectComma(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = meta.Comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, meta, fmt.Errorf("read csv: %w", err)
	}

	return rows, meta, nil
}

// detectComma picks the most frequent of ',', ';' and tab over the first lines.
func detectComma(data []byte) rune {
	const sampleLines = 5

	counts := map[rune]int{}

	lines := bytes.SplitN(data, []byte("\n"), sampleLines+1)
	for i, line := range lines {
		if i == sampleLines {
			break
		}

		counts[','] += bytes.Count(line, []byte(","))
		counts[';'] += bytes.Count(line, []byte(";"))
		counts['\t'] += bytes.Count(line, []byte("\t"))
	}

	best := ','
	for _, c := range []rune{';', '\t'} {
		if counts[c] > counts[best] {
			best = c
		}
	}

	return best
}

// colIndex maps normalized column names to their index in the row.
type colIndex map[string]int

func headerIndex(row []string) colIndex {
	cols := make(colIndex, len(row))

	for i, cell := range row {
		if name := normalize.Name(cell); name != "" {
			cols[name] = i
		}
	}

	return cols
}

func hasCols(cols colIndex, names []string) bool {
	for _, name := range names {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// col returns the index of name, or -1 for optional columns that are absent.
func (c colIndex) col(name string) int {
	if name == "" {
		return -1
	}

	idx, ok := c[name]
	if !ok {
		return -1
	}

	return idx
}
