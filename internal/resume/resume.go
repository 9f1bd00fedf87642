// Package resume reads resume files from disk before upload.
package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	pdf "github.com/ledongthuc/pdf"

	"github.com/Polqt/aica-bot-sub001/internal/apperr"
	"github.com/Polqt/aica-bot-sub001/internal/validation"
)

const (
	TypePDF  = "application/pdf"
	TypeDOC  = "application/msword"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionTypes = map[string]string{
	".pdf":  TypePDF,
	".doc":  TypeDOC,
	".docx": TypeDOCX,
}

// Containers that Word files are stored in. Detection stops at the container,
// so the extension decides.
var genericTypes = map[string]bool{
	"application/zip":           true,
	"application/x-ole-storage": true,
	"application/octet-stream":  true,
}

// Load stats and sniffs the file at path.
func Load(path string) (validation.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return validation.File{}, apperr.Wrap(apperr.KindFile, "Could not read the selected file.", fmt.Errorf("stat %s: %w", path, err))
	}
	if info.IsDir() {
		return validation.File{}, apperr.New(apperr.KindFile, fmt.Sprintf("%s is a directory.", path))
	}

	f := validation.File{Name: filepath.Base(path), Size: info.Size()}
	if f.Size == 0 {
		f.Type = TypeForExtension(f.Name)
		return f, nil
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return validation.File{}, apperr.Wrap(apperr.KindFile, "Could not read the selected file.", fmt.Errorf("detect type of %s: %w", path, err))
	}
	f.Type = baseType(mt.String())
	if genericTypes[f.Type] {
		if byExt := TypeForExtension(f.Name); byExt != "" {
			f.Type = byExt
		}
	}
	return f, nil
}

// TypeForExtension maps a resume file name to its MIME type, or "".
func TypeForExtension(name string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(name))]
}

func baseType(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// Text is the plain text of a PDF resume.
type Text struct {
	Pages   int
	Content string
}

// Words counts whitespace separated words.
func (t Text) Words() int {
	return len(strings.Fields(t.Content))
}

// Preview returns at most n runes of the text with whitespace collapsed.
func (t Text) Preview(n int) string {
	flat := []rune(strings.Join(strings.Fields(t.Content), " "))
	if len(flat) <= n {
		return string(flat)
	}
	return string(flat[:n]) + "…"
}

// ExtractText pulls plain text out of a PDF.
func ExtractText(path string) (*Text, error) {
	file, reader, err := pdf.Open(path)
	if file != nil {
		defer file.Close()
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFile, "Could not read the PDF.", fmt.Errorf("open pdf %s: %w", path, err))
	}

	var b strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindFile, "Could not read the PDF.", fmt.Errorf("page %d: %w", i, err))
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return &Text{Pages: total, Content: b.String()}, nil
}
