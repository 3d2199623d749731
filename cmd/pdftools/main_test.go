package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/pdfengine"
	"pdf-toolkit/internal/pdfengine/pdftest"
	"pdf-toolkit/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func writePDF(t *testing.T, dir, name string, widths ...float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, pdftest.Widths(widths...), 0o644))
	return path
}

func pageWidths(t *testing.T, data []byte) []float64 {
	t.Helper()
	engine := pdfengine.New(logger.NewLoggerWithOutput(io.Discard, "error", "text"))
	info, err := engine.Info(t.Context(), data)
	require.NoError(t, err)
	out := make([]float64, len(info.PageSizes))
	for i, s := range info.PageSizes {
		out[i] = s.Width
	}
	return out
}

func TestMerge_InsertAt(t *testing.T) {
	dir := t.TempDir()
	a := writePDF(t, dir, "a.pdf", 100, 110)
	b := writePDF(t, dir, "b.pdf", 200)
	out := filepath.Join(dir, "out.pdf")

	_, err := execute(t, "merge", a, b, "--insert-at", "2=1", "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200, 110}, pageWidths(t, data))
}

func TestMerge_DefaultOutputName(t *testing.T) {
	dir := t.TempDir()
	a := writePDF(t, dir, "a.pdf", 100)
	b := writePDF(t, dir, "b.pdf", 200)
	t.Chdir(dir)

	_, err := execute(t, "merge", a, b)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "merged_*.pdf"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Regexp(t, `^merged_\d{4}-\d{2}-\d{2}\.pdf$`, filepath.Base(matches[0]))

	help, err := execute(t, "merge", "--help")
	require.NoError(t, err)
	assert.Contains(t, help, "merged_<YYYY-MM-DD>.pdf")
}

func TestMerge_RejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	a := writePDF(t, dir, "a.pdf", 100)
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("just text"), 0o644))

	_, err := execute(t, "merge", a, notes, "-o", filepath.Join(dir, "out.pdf"))
	require.ErrorIs(t, err, domain.ErrNotPDF)
}

func TestParseInsertAt(t *testing.T) {
	got, err := parseInsertAt([]string{"1=0", " 3 = 7 "}, 3)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 0, 2: 7}, got)

	for _, bad := range []string{"2", "0=1", "4=1", "x=1", "1=y", "1=-1"} {
		_, err := parseInsertAt([]string{bad}, 3)
		assert.Error(t, err, bad)
	}
}

func TestSplit_Ranges(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir, "report.pdf", 100, 200, 300)
	out := filepath.Join(dir, "parts.zip")

	_, err := execute(t, "split", in, "--mode", "range", "--ranges", "1-2, 3, 9", "-o", out)
	require.NoError(t, err)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"split_1_2.pdf", "split_3_3.pdf"}, names)
}

func TestConvert_TextToStdout(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir, "report.pdf", 100, 200)

	out, err := execute(t, "convert", in, "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1")
	assert.Contains(t, out, "Page 2")

	_, err = execute(t, "convert", in, "--format", "word", "-o", "-")
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestInfo_JSON(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir, "report.pdf", 100, 200, 300)

	out, err := execute(t, "info", "--json", in)
	require.NoError(t, err)

	var got struct {
		File      string `json:"file"`
		PageCount int    `json:"page_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, in, got.File)
	assert.Equal(t, 3, got.PageCount)
}

func TestProtect_RequiresPassword(t *testing.T) {
	dir := t.TempDir()
	in := writePDF(t, dir, "report.pdf", 100)

	_, err := execute(t, "protect", in, "-o", filepath.Join(dir, "out.pdf"))
	require.ErrorIs(t, err, domain.ErrPasswordRequired)

	out := filepath.Join(dir, "locked.pdf")
	_, err = execute(t, "protect", in, "--open-password", "secret", "-o", out)
	require.NoError(t, err)
	_, err = os.Stat(out)
	require.NoError(t, err)
}

func TestDisabledToolFromEnv(t *testing.T) {
	t.Setenv("PDFTOOLS_DISABLED_TOOLS", "compress")
	dir := t.TempDir()
	in := writePDF(t, dir, "report.pdf", 100)

	_, err := execute(t, "compress", in, "-o", filepath.Join(dir, "out.pdf"))
	require.ErrorIs(t, err, domain.ErrToolUnavailable)
}

func TestDisabledToolsFromEnvAreCommaSeparated(t *testing.T) {
	t.Setenv("PDFTOOLS_DISABLED_TOOLS", "merge, split")
	dir := t.TempDir()
	a := writePDF(t, dir, "a.pdf", 100)
	b := writePDF(t, dir, "b.pdf", 200)

	_, err := execute(t, "merge", a, b, "-o", filepath.Join(dir, "out.pdf"))
	require.ErrorIs(t, err, domain.ErrToolUnavailable)

	_, err = execute(t, "split", a, "-o", filepath.Join(dir, "out.zip"))
	require.ErrorIs(t, err, domain.ErrToolUnavailable)

	_, err = execute(t, "compress", a, "-o", filepath.Join(dir, "small.pdf"))
	require.NoError(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "pdftools.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("text-extractor: ocr\n"), 0o644))
	in := writePDF(t, dir, "report.pdf", 100)

	_, err := execute(t, "--config", cfg, "info", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown text extractor")

	_, err = execute(t, "--config", filepath.Join(dir, "missing.yaml"), "info", in)
	require.Error(t, err)
}

func TestTools_Search(t *testing.T) {
	out, err := execute(t, "tools", "password")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[1], "protect"), out)
}
