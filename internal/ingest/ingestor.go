package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"quizgram/internal/domain"
	"quizgram/internal/logger"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// paragraphsPerPage approximates page boundaries for Word documents,
// which have no hard page breaks in their XML.
const paragraphsPerPage = 50

// Ingestor extracts plain text from uploaded PDF and Word documents.
// The source file lives in per-request ephemeral storage; the caller is
// responsible for removing it on every exit path.
type Ingestor struct{}

func NewIngestor() *Ingestor {
	return &Ingestor{}
}

// ExtractText reads the document at path and returns its plain text and
// page count. A pageRange restricts extraction to [Start, End] inclusive
// (1-indexed); out-of-range bounds are clamped to the document's actual
// page count rather than failing.
func (in *Ingestor) ExtractText(path string, pageRange *domain.PageRange) (string, int, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return in.extractPDF(path, pageRange)
	case ".doc", ".docx":
		return in.extractWord(path, pageRange)
	default:
		return "", 0, domain.NewUnsupportedFormatError(filepath.Base(path), nil)
	}
}

func (in *Ingestor) extractPDF(path string, pageRange *domain.PageRange) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, domain.NewUnsupportedFormatError(filepath.Base(path), err)
	}
	defer f.Close()

	totalPages := r.NumPage()
	if totalPages == 0 {
		return "", 0, domain.NewEmptyDocumentError()
	}

	window := fullRange(totalPages, pageRange)

	var parts []string
	for pageNum := window.Start; pageNum <= window.End; pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Get().Warn("Failed to extract text from page",
				zap.Int("page", pageNum),
				zap.Error(err),
			)
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, strings.TrimSpace(text))
		}
	}

	if len(parts) == 0 {
		return "", totalPages, domain.NewEmptyDocumentError()
	}
	return strings.Join(parts, "\n\n"), totalPages, nil
}

func (in *Ingestor) extractWord(path string, pageRange *domain.PageRange) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, domain.NewUnsupportedFormatError(filepath.Base(path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", 0, domain.NewUnsupportedFormatError(filepath.Base(path), err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", 0, domain.NewUnsupportedFormatError(filepath.Base(path), err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			if text := strings.TrimSpace(para.String()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
	}

	estimatedPages := max(1, len(paragraphs)/paragraphsPerPage)

	if pageRange != nil {
		start, end := ParagraphWindow(len(paragraphs), estimatedPages, *pageRange)
		paragraphs = paragraphs[start:end]
	}

	text := strings.Join(paragraphs, "\n\n")
	if strings.TrimSpace(text) == "" {
		return "", estimatedPages, domain.NewEmptyDocumentError()
	}
	return text, estimatedPages, nil
}

// ParagraphWindow maps an approximate page range onto paragraph slice
// bounds for Word documents.
func ParagraphWindow(totalParagraphs, estimatedPages int, pr domain.PageRange) (start, end int) {
	if totalParagraphs == 0 {
		return 0, 0
	}
	clamped := pr.Clamp(estimatedPages)
	perPage := max(1, totalParagraphs/estimatedPages)

	start = (clamped.Start - 1) * perPage
	end = clamped.End * perPage
	if start > totalParagraphs {
		start = totalParagraphs
	}
	if end > totalParagraphs {
		end = totalParagraphs
	}
	return start, end
}

func fullRange(totalPages int, pr *domain.PageRange) domain.PageRange {
	if pr == nil {
		return domain.PageRange{Start: 1, End: totalPages}
	}
	return pr.Clamp(totalPages)
}
