package pdfengine

import (
	"bytes"
	"context"
	"io"
	"testing"

	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/pdfengine/pdftest"
	"pdf-toolkit/pkg/logger"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return New(logger.NewLoggerWithOutput(io.Discard, "error", "text"))
}

func widths(t *testing.T, e *Engine, content []byte) []float64 {
	t.Helper()
	info, err := e.Info(context.Background(), content)
	require.NoError(t, err)
	out := make([]float64, len(info.PageSizes))
	for i, s := range info.PageSizes {
		out[i] = s.Width
	}
	return out
}

func TestEngine_PageCountAndInfo(t *testing.T) {
	e := newTestEngine()
	doc := pdftest.Widths(100, 200, 300)

	n, err := e.PageCount(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	info, err := e.Info(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 3, info.PageCount)
	assert.Equal(t, "1.4", info.Version)
	assert.False(t, info.Encrypted)
	assert.Equal(t, int64(len(doc)), info.Size)
	assert.Equal(t, []float64{100, 200, 300}, widths(t, e, doc))
}

func TestEngine_PageCountRejectsGarbage(t *testing.T) {
	e := newTestEngine()

	_, err := e.PageCount(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = e.PageCount(context.Background(), []byte("not a pdf at all"))
	assert.Error(t, err)
}

func TestEngine_MergeConcatenatesInOrder(t *testing.T) {
	e := newTestEngine()
	a := pdftest.Widths(100)
	b := pdftest.Widths(200, 210)

	out, err := e.Merge(context.Background(), [][]byte{a, b}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200, 210}, widths(t, e, out))

	out, err = e.Merge(context.Background(), [][]byte{b, a}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{200, 210, 100}, widths(t, e, out))
}

func TestEngine_MergeFollowsPlan(t *testing.T) {
	e := newTestEngine()
	base := pdftest.Widths(100, 110, 120)
	extra := pdftest.Widths(200)

	insertAt := 1
	list := domain.NewOrderingList(
		&domain.SelectedFile{Name: "base.pdf", MIMEType: domain.PDFMIMEType},
		&domain.SelectedFile{Name: "extra.pdf", MIMEType: domain.PDFMIMEType, InsertAt: &insertAt},
	)
	plan, err := list.Plan([]int{3, 1})
	require.NoError(t, err)

	out, err := e.Merge(context.Background(), [][]byte{base, extra}, plan)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200, 110, 120}, widths(t, e, out))
}

func TestEngine_MergeRejectsPlanOutsideDocuments(t *testing.T) {
	e := newTestEngine()
	plan := []domain.PageRef{{File: 0, Page: 1}, {File: 1, Page: 4}}

	_, err := e.Merge(context.Background(), [][]byte{pdftest.Widths(100), pdftest.Widths(200)}, plan)
	assert.ErrorIs(t, err, domain.ErrPageCountMismatch)
}

func TestEngine_MergeHonoursCancellation(t *testing.T) {
	e := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Merge(ctx, [][]byte{pdftest.Widths(100), pdftest.Widths(200)}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Split(t *testing.T) {
	e := newTestEngine()
	doc := pdftest.Widths(100, 200, 300)

	parts, err := e.Split(context.Background(), doc, []domain.PageRange{{Start: 1, End: 1}, {Start: 2, End: 3}})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, []float64{100}, widths(t, e, parts[0]))
	assert.Equal(t, []float64{200, 300}, widths(t, e, parts[1]))

	_, err = e.Split(context.Background(), doc, []domain.PageRange{{Start: 2, End: 5}})
	assert.ErrorIs(t, err, domain.ErrNoValidRanges)
}

func TestEngine_CompressKeepsPages(t *testing.T) {
	e := newTestEngine()
	doc := pdftest.Widths(100, 200)

	for _, level := range []domain.CompressionLevel{domain.CompressionLow, domain.CompressionMedium, domain.CompressionHigh} {
		t.Run(string(level), func(t *testing.T) {
			out, err := e.Compress(context.Background(), doc, level)
			require.NoError(t, err)
			assert.Equal(t, []float64{100, 200}, widths(t, e, out))
		})
	}
}

func TestEngine_WatermarkText(t *testing.T) {
	e := newTestEngine()
	doc := pdftest.Widths(612, 612)

	spec := domain.DefaultWatermarkSpec()
	spec.Text = "CONFIDENTIAL"
	spec.Position = domain.PositionTopRight
	spec.Rotation = 45

	out, err := e.Watermark(context.Background(), doc, spec)
	require.NoError(t, err)
	assert.NotEqual(t, doc, out)

	n, err := e.PageCount(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEngine_WatermarkImage(t *testing.T) {
	e := newTestEngine()

	spec := domain.DefaultWatermarkSpec()
	spec.Type = domain.WatermarkImage
	spec.Image = pdftest.PNG
	spec.ImageSize = 50

	out, err := e.Watermark(context.Background(), pdftest.Widths(612), spec)
	require.NoError(t, err)

	n, err := e.PageCount(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEngine_WatermarkRequiresContent(t *testing.T) {
	e := newTestEngine()
	_, err := e.Watermark(context.Background(), pdftest.Widths(612), domain.DefaultWatermarkSpec())
	assert.ErrorIs(t, err, domain.ErrWatermarkEmpty)
}

func TestWatermarkDescription(t *testing.T) {
	spec := domain.DefaultWatermarkSpec()
	spec.Text = "DRAFT"
	spec.Position = domain.PositionBottomLeft
	spec.Rotation = 30
	spec.Opacity = 80

	assert.Equal(t,
		"font:Helvetica, points:48, scale:1 abs, pos:bl, off:50 50, rot:-30, op:0.80",
		watermarkDescription(spec))

	spec.Type = domain.WatermarkImage
	spec.ImageSize = 25
	spec.Position = domain.PositionCenter
	spec.Rotation = 0
	assert.Equal(t, "scale:0.25 abs, pos:c, off:0 0, rot:0, op:0.80", watermarkDescription(spec))
}

func TestEngine_Protect(t *testing.T) {
	e := newTestEngine()
	doc := pdftest.Widths(100, 200)

	out, err := e.Protect(context.Background(), doc, domain.ProtectOptions{
		OpenPassword: "secret",
		Permissions:  domain.DefaultPermissions(),
	})
	require.NoError(t, err)

	_, err = api.PageCount(bytes.NewReader(out), model.NewDefaultConfiguration())
	assert.Error(t, err, "encrypted output must not open without the password")

	conf := model.NewDefaultConfiguration()
	conf.UserPW = "secret"
	n, err := api.PageCount(bytes.NewReader(out), conf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEngine_ProtectRequiresPassword(t *testing.T) {
	e := newTestEngine()
	_, err := e.Protect(context.Background(), pdftest.Widths(100), domain.ProtectOptions{})
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)
}

func TestPermissionFlags(t *testing.T) {
	none := permissionFlags(domain.Permissions{})
	assert.Equal(t, model.PermissionsNone, none)

	all := permissionFlags(domain.Permissions{Printing: true, Modifying: true, Copying: true, Annotating: true})
	assert.NotZero(t, all&model.PermissionPrintRev3)
	assert.NotZero(t, all&model.PermissionModify)
	assert.NotZero(t, all&model.PermissionExtract)
	assert.NotZero(t, all&model.PermissionModAnnFillForm)
}
