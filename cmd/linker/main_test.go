package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()

	parties := writeFile(t, dir, "parties.csv", "name,phone,email,type\n"+
		"Ahmed Hassan,,,customer\n"+
		"Sara Ali,+20 101 234 567,,supplier\n")

	checks := writeFile(t, dir, "checks.csv", "drawer,phone,amount,due date,status\n"+
		"Sara Ali,0101234567,400.00,2099-01-01,pending\n"+
		"Zzz Qqq,,1.00,2099-01-01,pending\n")

	installments := writeFile(t, dir, "installments.csv", "customer,phone,installment amount,due date,status\n"+
		"Ahmed Hasan,,1500,2099-01-01,active\n")

	var out bytes.Buffer

	err := run(context.Background(), &out, parties, []string{checks, installments}, "", true)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Processed: 3 | Linked: 2 (high 1, low 1) | Suggested: 0 | Unresolved: 1")
	assert.Contains(t, got, "Instruments: 3 | Linked: 2 | Unlinked: 1")
	assert.Contains(t, got, "* customer | Ahmed Hassan | 1 instruments | 1500.00 | overdue 0 (0.00) | bounced 0 (0.00) | risk low")
	assert.Contains(t, got, "* supplier | Sara Ali | 1 instruments | 400.00 | overdue 0 (0.00) | bounced 0 (0.00) | risk low")
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	parties := writeFile(t, dir, "parties.csv", "name,phone,type\nAhmed,0100,customer\n")

	t.Run("MissingFile", func(t *testing.T) {
		err := run(context.Background(), &bytes.Buffer{}, parties, []string{filepath.Join(dir, "nope.csv")}, "", false)
		assert.ErrorContains(t, err, "opening")
	})

	t.Run("BadCharset", func(t *testing.T) {
		err := run(context.Background(), &bytes.Buffer{}, parties, []string{parties}, "ebcdic", false)
		assert.ErrorContains(t, err, "unsupported charset")
	})

	t.Run("NotAnInstrumentExport", func(t *testing.T) {
		err := run(context.Background(), &bytes.Buffer{}, parties, []string{parties}, "", false)
		assert.ErrorContains(t, err, "no matching check or installment format found")
	})
}
