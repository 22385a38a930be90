// Package resume loads resume text from files and picks out known skills.
package resume

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for files that are not text, markdown, PDF or DOCX.
var ErrUnsupportedFormat = errors.New("unsupported resume format: use .txt, .md, .pdf or .docx")

var (
	spacesRe   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlinesRe = regexp.MustCompile(`\n+`)
	xmlTagRe   = regexp.MustCompile(`<[^>]+>`)
)

// LoadText reads the resume at path and returns its plain text.
func LoadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume: %w", err)
	}
	return Parse(filepath.Base(path), data)
}

// Parse extracts plain text from resume file content, picking the format by extension.
func Parse(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", "":
		return normalizeWhitespace(string(data)), nil
	case ".pdf":
		text, err := fromPDF(data)
		if err != nil {
			return "", fmt.Errorf("extracting text from pdf %s: %w", filename, err)
		}
		return text, nil
	case ".docx":
		text, err := fromDocx(data)
		if err != nil {
			return "", fmt.Errorf("extracting text from docx %s: %w", filename, err)
		}
		return text, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func fromPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return normalizeWhitespace(buf.String()), nil
}

func fromDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		doc, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}

		xml := strings.ReplaceAll(string(doc), "</w:p>", "\n")
		xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
		return normalizeWhitespace(html.UnescapeString(xmlTagRe.ReplaceAllString(xml, ""))), nil
	}

	return "", errors.New("no word/document.xml in docx")
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = spacesRe.ReplaceAllString(s, " ")
	s = newlinesRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
