// Package render turns an aggregated shopping list into downloadable documents.
package render

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var ErrUnknownFormat = errors.New("unknown shopping list format")

// Line is one product of the shopping list with its summed amount.
type Line struct {
	Name   string
	Unit   string
	Amount int64
}

// Document is a rendered file ready to be sent as an attachment.
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ShoppingList renders lines in the given format: "txt" (default), "csv" or "pdf".
func ShoppingList(format string, lines []Line) (*Document, error) {
	switch strings.ToLower(format) {
	case "", "txt":
		return &Document{Data: ShoppingListText(lines), ContentType: "text/plain; charset=utf-8", Filename: "shopping_list.txt"}, nil
	case "csv":
		data, err := ShoppingListCSV(lines)
		if err != nil {
			return nil, err
		}
		return &Document{Data: data, ContentType: "text/csv; charset=utf-8", Filename: "shopping_list.csv"}, nil
	case "pdf":
		data, err := ShoppingListPDF(lines)
		if err != nil {
			return nil, err
		}
		return &Document{Data: data, ContentType: "application/pdf", Filename: "shopping_list.pdf"}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func ShoppingListText(lines []Line) []byte {
	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	if len(lines) == 0 {
		b.WriteString("Your shopping cart is empty.\n")
	}
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s (%s) — %d\n", l.Name, l.Unit, l.Amount)
	}
	return []byte(b.String())
}

func ShoppingListCSV(lines []Line) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"name", "unit", "amount"}); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if err := w.Write([]string{l.Name, l.Unit, strconv.FormatInt(l.Amount, 10)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfFamily is the embedded Go font. Product names are UTF-8 and often not Latin,
// the core PDF fonts only cover cp1252.
const pdfFamily = "Go"

func ShoppingListPDF(lines []Line) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(pdfFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFamily, "B", gobold.TTF)
	pdf.AddPage()

	// Title
	pdf.SetFont(pdfFamily, "B", 16)
	pdf.CellFormat(0, 10, "Shopping list", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont(pdfFamily, "B", 12)
	pdf.CellFormat(100, 10, "Product", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 10, "Unit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 10, "Amount", "1", 1, "C", false, 0, "")

	pdf.SetFont(pdfFamily, "", 12)
	for _, l := range lines {
		pdf.CellFormat(100, 10, l.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, l.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 10, strconv.FormatInt(l.Amount, 10), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
