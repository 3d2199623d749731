package service

import (
	"context"
	"io"
	"testing"
	"time"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/pdfengine"
	"pdf-toolkit/internal/pdfengine/pdftest"
	"pdf-toolkit/internal/repository"
	"pdf-toolkit/pkg/logger"

	"github.com/stretchr/testify/require"
)

func testLogger() domain.Logger {
	return logger.NewLoggerWithOutput(io.Discard, "error", "text")
}

func newTestEngine() *pdfengine.Engine {
	return pdfengine.New(testLogger())
}

func newTestMergeService(t *testing.T, maxFiles int) (*MergeService, *pdfengine.Engine) {
	t.Helper()
	engine := newTestEngine()
	sessions := repository.NewMemorySessionStore(time.Hour, testLogger())
	t.Cleanup(func() { sessions.Close() })
	return NewMergeService(engine, sessions, maxFiles, testLogger()), engine
}

func pdfUpload(name string, widths ...float64) Upload {
	return Upload{Name: name, MIMEType: domain.PDFMIMEType, Content: pdftest.Widths(widths...)}
}

func textUpload(name string) Upload {
	return Upload{Name: name, MIMEType: "text/plain", Content: []byte("just some notes")}
}

func pageWidths(t *testing.T, engine domain.PDFEngine, content []byte) []float64 {
	t.Helper()
	info, err := engine.Info(context.Background(), content)
	require.NoError(t, err)
	out := make([]float64, len(info.PageSizes))
	for i, s := range info.PageSizes {
		out[i] = s.Width
	}
	return out
}

// fakeConverter returns canned output.
type fakeConverter struct {
	text string
	pdf  []byte
	err  error

	gotHTML string
	gotURL  string
}

func (f *fakeConverter) ToText(ctx context.Context, content []byte) (string, error) {
	return f.text, f.err
}

func (f *fakeConverter) HTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	f.gotHTML = html
	return f.pdf, f.err
}

func (f *fakeConverter) URLToPDF(ctx context.Context, rawURL string) ([]byte, error) {
	f.gotURL = rawURL
	return f.pdf, f.err
}

func (f *fakeConverter) Close() error { return nil }
