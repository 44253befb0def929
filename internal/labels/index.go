package labels

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/woodline/shopterm/domain"
)

// Index loads fetched manifests into searchable page/line form. The
// manifest bytes are also written to a temp file so the print pipeline
// can extract pages from it later.
type Index struct {
	logger *zap.Logger
}

// NewIndex creates a manifest indexer.
func NewIndex(logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{logger: logger}
}

// Load writes the manifest to path and decomposes every page into text
// lines. The returned document is immutable; a later fetch replaces it.
func (ix *Index) Load(data []byte, path string) (doc *domain.Document, err error) {
	if len(data) == 0 {
		return nil, domain.NewError(domain.ErrCodeParse, "empty document")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, domain.WrapError(domain.ErrCodeParse, "write manifest file", err)
	}

	// the pdf reader panics on some malformed documents
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = domain.NewError(domain.ErrCodeParse, fmt.Sprintf("malformed document: %v", rec))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeParse, "open document", err)
	}

	pages := make([]domain.Page, 0, reader.NumPage())
	for num := 1; num <= reader.NumPage(); num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			pages = append(pages, domain.Page{})
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeParse,
				fmt.Sprintf("extract text of page %d", num), err)
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			var sb strings.Builder
			for _, word := range row.Content {
				sb.WriteString(word.S)
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, domain.Page{Lines: lines})
	}

	ix.logger.Info("manifest loaded", zap.String("path", path), zap.Int("pages", len(pages)))
	return &domain.Document{Path: path, Pages: pages}, nil
}
