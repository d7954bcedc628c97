package parser

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// FragmentSelector picks the elements of the rendered episodes dialog that hold
// match rows and their captions. The page uses generated styled-component classes.
var FragmentSelector = `span[class*="sc-"]`

// FragmentsFromHTML returns the text of every element matched by FragmentSelector, in document order
func FragmentsFromHTML(htmlContent string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML content: %w", err)
	}

	var fragments []string
	doc.Find(FragmentSelector).Each(func(i int, s *goquery.Selection) {
		fragments = append(fragments, s.Text())
	})

	log.Printf("Collected %d text fragments from HTML", len(fragments))
	return fragments, nil
}

// FragmentsFromText splits plain text into trimmed, non-empty lines
func FragmentsFromText(text string) []string {
	var fragments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			fragments = append(fragments, line)
		}
	}
	return fragments
}

// ReadPDFText reads a PDF file, such as a printout of the episodes dialog, and returns its text content
func ReadPDFText(pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("error extracting text from PDF page %d: %w", i, err)
		}
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			sb.WriteString(strings.Join(words, " "))
			sb.WriteString("\n")
		}
	}

	// Fall back to the whole-document text stream when the layout gave nothing
	if sb.Len() == 0 {
		plainText, err := r.GetPlainText()
		if err != nil {
			return "", fmt.Errorf("error extracting text from PDF: %w", err)
		}
		bytes, err := io.ReadAll(plainText)
		if err != nil {
			return "", fmt.Errorf("error reading plain text from PDF: %w", err)
		}
		return string(bytes), nil
	}

	return sb.String(), nil
}
