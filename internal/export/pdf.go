// Package export renders inventory lists as PDF documents and terminal tables.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mvc-is/portal/internal/inventory"
	"github.com/mvc-is/portal/internal/models"
)

const (
	pageMargin = 10.0
	rowHeight  = 7.0
)

// Document is what gets printed: a category, its rows and the print time.
type Document struct {
	Kind        inventory.Kind
	Records     []models.InventoryRecord
	GeneratedAt time.Time
	Filter      string
}

// FileName is the download name of the PDF, e.g. "computer-parts-inventory.pdf".
func FileName(k inventory.Kind) string {
	return k.Slug + "-inventory.pdf"
}

// PDF writes a landscape A4 table of the records to w.
func PDF(w io.Writer, doc Document) error {
	k := doc.Kind
	headers := k.Headers()
	if len(headers) == 0 {
		return fmt.Errorf("category %q has no columns", k.Category)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetModificationDate(doc.GeneratedAt)
	pdf.SetTitle(fmt.Sprintf("MVC I.S. %s Inventory", k.Category), true)
	pdf.SetAuthor("MVC I.S. Portal", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	colW := (pageW - 2*pageMargin) / float64(len(headers))

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(127, 29, 29)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range headers {
			pdf.CellFormat(colW, rowHeight, tr(fit(pdf, h, colW)), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(15, 23, 42)
		pdf.SetFont("Helvetica", "", 8)
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AliasNbPages("")

	// 1. --- Title block ---
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s Inventory", k.Category)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	meta := fmt.Sprintf("Generated %s  |  %d record(s)", doc.GeneratedAt.Format("2006-01-02 15:04 MST"), len(doc.Records))
	if doc.Filter != "" {
		meta += fmt.Sprintf("  |  filter: %q", doc.Filter)
	}
	pdf.CellFormat(0, 6, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// 2. --- Table ---
	header()
	_, pageH := pdf.GetPageSize()
	for i, rec := range doc.Records {
		if pdf.GetY()+rowHeight > pageH-15 {
			pdf.AddPage()
			header()
		}
		fill := i%2 == 1
		pdf.SetFillColor(248, 250, 252)
		for _, v := range k.Row(rec) {
			pdf.CellFormat(colW, rowHeight, tr(fit(pdf, v, colW)), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(doc.Records) == 0 {
		pdf.CellFormat(colW*float64(len(headers)), rowHeight, "No records found.", "1", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}

// fit shortens s with an ellipsis until it fits in a cell of width w.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
