package pdfengine

import (
	"bytes"
	"context"
	"fmt"

	"pdf-toolkit/internal/domain"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Distance from the page edge for corner positions, in points.
const edgeMargin = 50

type anchor struct {
	pos    string
	dx, dy int
}

var anchors = map[domain.WatermarkPosition]anchor{
	domain.PositionCenter:      {"c", 0, 0},
	domain.PositionTopLeft:     {"tl", edgeMargin, -edgeMargin},
	domain.PositionTopRight:    {"tr", -edgeMargin, -edgeMargin},
	domain.PositionBottomLeft:  {"bl", edgeMargin, edgeMargin},
	domain.PositionBottomRight: {"br", -edgeMargin, edgeMargin},
}

// watermarkDescription renders spec in pdfcpu's description syntax.
// WatermarkSpec rotation is clockwise; pdfcpu rotates counter-clockwise.
func watermarkDescription(spec domain.WatermarkSpec) string {
	a, ok := anchors[spec.Position]
	if !ok {
		a = anchors[domain.PositionCenter]
	}

	desc := fmt.Sprintf("pos:%s, off:%d %d, rot:%d, op:%.2f",
		a.pos, a.dx, a.dy, -spec.Rotation, float64(spec.Opacity)/100)

	if spec.Type == domain.WatermarkImage {
		return fmt.Sprintf("scale:%.2f abs, ", float64(spec.ImageSize)/100) + desc
	}
	return fmt.Sprintf("font:Helvetica, points:%d, scale:1 abs, ", spec.FontSize) + desc
}

// Watermark stamps spec on top of every page.
func (e *Engine) Watermark(ctx context.Context, content []byte, spec domain.WatermarkSpec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	desc := watermarkDescription(spec)

	var (
		wm  *model.Watermark
		err error
	)
	if spec.Type == domain.WatermarkImage {
		wm, err = api.ImageWatermarkForReader(bytes.NewReader(spec.Image), desc, true, false, types.POINTS)
	} else {
		wm, err = api.TextWatermark(spec.Text, desc, true, false, types.POINTS)
	}
	if err != nil {
		return nil, fmt.Errorf("building watermark: %w", err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(reader(content), &out, nil, wm, newConf()); err != nil {
		return nil, fmt.Errorf("adding watermark: %w", err)
	}
	return out.Bytes(), nil
}

// Protect encrypts content with AES-256. An empty owner password falls
// back to the open password.
func (e *Engine) Protect(ctx context.Context, content []byte, opts domain.ProtectOptions) ([]byte, error) {
	if opts.OpenPassword == "" {
		return nil, domain.ErrPasswordRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	owner := opts.OwnerPassword
	if owner == "" {
		owner = opts.OpenPassword
	}

	conf := model.NewAESConfiguration(opts.OpenPassword, owner, 256)
	conf.ValidationMode = model.ValidationRelaxed
	conf.Permissions = permissionFlags(opts.Permissions)

	var out bytes.Buffer
	if err := api.Encrypt(reader(content), &out, conf); err != nil {
		return nil, fmt.Errorf("encrypting document: %w", err)
	}
	return out.Bytes(), nil
}

// permissionFlags maps the four user-facing switches onto the PDF
// permission bits for both revision 2 and revision 3+ handlers.
func permissionFlags(p domain.Permissions) model.PermissionFlags {
	flags := model.PermissionsNone
	if p.Printing {
		flags |= model.PermissionPrintRev2 | model.PermissionPrintRev3
	}
	if p.Modifying {
		flags |= model.PermissionModify | model.PermissionAssembleRev3
	}
	if p.Copying {
		flags |= model.PermissionExtract | model.PermissionExtractRev3
	}
	if p.Annotating {
		flags |= model.PermissionModAnnFillForm | model.PermissionFillRev3
	}
	return flags
}
