package printing

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/woodline/shopterm/domain"
)

// Printer dispatches a document to the OS print facility. Success means
// the spooler accepted the job; nothing tracks the paper coming out.
type Printer interface {
	PrintFile(ctx context.Context, path string) error
}

// Config controls temp-file placement and the QR label footprint.
type Config struct {
	TempDir       string
	LabelSizeMM   float64
	LabelMarginMM float64
}

// Pipeline turns manifest pages and order numbers into printed labels.
// Each job is transient: one extracted temp file, one dispatch, no retry.
type Pipeline struct {
	cfg     Config
	printer Printer
	logger  *zap.Logger
}

// New creates the print pipeline.
func New(cfg Config, printer Printer, logger *zap.Logger) *Pipeline {
	if cfg.LabelSizeMM <= 0 {
		cfg.LabelSizeMM = 38
	}
	if cfg.LabelMarginMM <= 0 {
		cfg.LabelMarginMM = 5
	}
	if printer == nil {
		printer = NewSystemPrinter(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, printer: printer, logger: logger}
}

// ExtractPage copies exactly one manifest page into a standalone
// printable document and returns its path.
func (p *Pipeline) ExtractPage(doc *domain.Document, pageIndex int) (string, error) {
	if doc == nil || doc.Path == "" {
		return "", domain.NewError(domain.ErrCodeInvalid, "no manifest loaded")
	}
	if pageIndex < 0 || pageIndex >= doc.PageCount() {
		return "", domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("page %d out of range", pageIndex+1))
	}

	outPath := filepath.Join(p.cfg.TempDir, fmt.Sprintf("label-%s.pdf", uuid.NewString()))
	selected := []string{strconv.Itoa(pageIndex + 1)}
	if err := api.TrimFile(doc.Path, outPath, selected, model.NewDefaultConfiguration()); err != nil {
		return "", domain.WrapError(domain.ErrCodeParse, "extract manifest page", err)
	}
	return outPath, nil
}

// PrintFile sends the document at path to the printer.
func (p *Pipeline) PrintFile(ctx context.Context, path string) error {
	if err := p.printer.PrintFile(ctx, path); err != nil {
		p.logger.Warn("print dispatch failed", zap.String("path", path), zap.Error(err))
		return err
	}
	p.logger.Info("print job accepted", zap.String("path", path))
	return nil
}

// GenerateQRLabel renders text as a QR code on a single-page document
// sized to the physical label footprint, QR centered with a fixed
// margin, and returns the document's path.
func (p *Pipeline) GenerateQRLabel(text string) (string, error) {
	if text == "" {
		return "", domain.ErrEmptyOrder
	}

	png, err := qrcode.Encode(text, qrcode.Medium, 512)
	if err != nil {
		return "", domain.WrapError(domain.ErrCodePrint, "render qr code", err)
	}

	size := p.cfg.LabelSizeMM
	margin := p.cfg.LabelMarginMM
	qrSize := size - 2*margin

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: size, Ht: size},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	doc.ImageOptions("qr", margin, margin, qrSize, qrSize, false, opts, 0, "")

	outPath := filepath.Join(p.cfg.TempDir, "qr_print.pdf")
	if err := doc.OutputFileAndClose(outPath); err != nil {
		return "", domain.WrapError(domain.ErrCodePrint, "write qr label", err)
	}
	return outPath, nil
}
