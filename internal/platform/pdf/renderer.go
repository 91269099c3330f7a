package pdf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// Document is the canonical intermediate form every composer produces.
// Items render as bordered label/body rows; an Item with Rows renders as a
// row-span group whose Label cell spans all sub-rows.
type Document struct {
	Title            string
	ToAddressLines   []string
	FromAddressLines []string
	Preamble         string
	Items            []Item
	Postamble        string
	Watermark        string
}

type Item struct {
	Label string
	Body  string
	Rows  []SubItem
}

type SubItem struct {
	Label string
	Body  string
}

const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 20.0 // 2 cm on all sides
	usableW    = pageWidth - 2*margin

	lineHeight = 5.0
	cellPad    = 1.5

	labelW    = usableW * 0.25
	subLabelW = usableW * 0.20

	watermarkSize   = 60.0
	watermarkStride = 90.0
)

type Renderer struct {
	fontName string
	fontPath string
}

// NewRenderer verifies the Japanese font up front; a missing font is an
// operator problem and must fail at boot, not at first issue.
func NewRenderer(fontName, fontPath string) (*Renderer, error) {
	if _, err := os.Stat(fontPath); err != nil {
		return nil, fmt.Errorf("pdf font %s: %w", fontPath, err)
	}
	return &Renderer{fontName: fontName, fontPath: fontPath}, nil
}

// Render lays the document out twice: the first pass only counts pages, the
// second draws the real output with "n / total" footers.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	probe := r.build(doc, 0)
	if probe.Err() {
		return nil, fmt.Errorf("pdf layout pass: %w", probe.Error())
	}
	total := probe.PageCount()

	final := r.build(doc, total)
	var buf bytes.Buffer
	if err := final.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) build(doc Document, totalPages int) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font(r.fontName, "", r.fontPath)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)

	if doc.Watermark != "" {
		pdf.SetHeaderFunc(func() {
			r.drawWatermark(pdf, doc.Watermark)
		})
	}
	if totalPages > 0 {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont(r.fontName, "", 9)
			pdf.CellFormat(0, 10, fmt.Sprintf("%d / %d", pdf.PageNo(), totalPages), "", 0, "C", false, 0, "")
		})
	}

	pdf.AddPage()

	pdf.SetFont(r.fontName, "", 18)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	if len(doc.ToAddressLines) > 0 || len(doc.FromAddressLines) > 0 {
		pdf.SetFont(r.fontName, "", 11)
		for _, line := range doc.ToAddressLines {
			pdf.CellFormat(0, lineHeight+1, line, "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
		for _, line := range doc.FromAddressLines {
			pdf.CellFormat(0, lineHeight+1, line, "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if doc.Preamble != "" {
		pdf.SetFont(r.fontName, "", 11)
		pdf.MultiCell(usableW, lineHeight+1, doc.Preamble, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont(r.fontName, "", 10)
	for _, item := range doc.Items {
		if len(item.Rows) > 0 {
			r.drawGroup(pdf, item)
		} else {
			r.drawRow(pdf, item.Label, item.Body)
		}
	}

	if doc.Postamble != "" {
		pdf.Ln(4)
		pdf.SetFont(r.fontName, "", 11)
		pdf.MultiCell(usableW, lineHeight+1, doc.Postamble, "", "L", false)
	}

	return pdf
}

func (r *Renderer) drawRow(pdf *gofpdf.Fpdf, label, body string) {
	bodyW := usableW - labelW
	h := r.rowHeight(pdf, label, labelW, body, bodyW)
	r.breakIfNeeded(pdf, h)

	x, y := pdf.GetX(), pdf.GetY()
	pdf.Rect(x, y, labelW, h, "D")
	pdf.Rect(x+labelW, y, bodyW, h, "D")

	pdf.SetXY(x+cellPad, y+cellPad)
	pdf.MultiCell(labelW-2*cellPad, lineHeight, label, "", "L", false)
	pdf.SetXY(x+labelW+cellPad, y+cellPad)
	pdf.MultiCell(bodyW-2*cellPad, lineHeight, body, "", "L", false)

	pdf.SetXY(x, y+h)
}

// drawGroup renders a three-column block: the group label spans every
// sub-row, the inner label/body pair is per row. A group that fits on the
// remaining page is kept together.
func (r *Renderer) drawGroup(pdf *gofpdf.Fpdf, item Item) {
	bodyW := usableW - labelW - subLabelW

	heights := make([]float64, len(item.Rows))
	var totalH float64
	for i, row := range item.Rows {
		heights[i] = r.rowHeight(pdf, row.Label, subLabelW, row.Body, bodyW)
		totalH += heights[i]
	}
	if totalH < pageHeight-2*margin {
		r.breakIfNeeded(pdf, totalH)
	}

	x, top := pdf.GetX(), pdf.GetY()
	y := top
	for i, row := range item.Rows {
		h := heights[i]
		if y+h > pageHeight-margin {
			// Close the spanning cell on this page and reopen on the next.
			pdf.Rect(x, top, labelW, y-top, "D")
			pdf.AddPage()
			top = pdf.GetY()
			y = top
		}
		pdf.Rect(x+labelW, y, subLabelW, h, "D")
		pdf.Rect(x+labelW+subLabelW, y, bodyW, h, "D")
		pdf.SetXY(x+labelW+cellPad, y+cellPad)
		pdf.MultiCell(subLabelW-2*cellPad, lineHeight, row.Label, "", "L", false)
		pdf.SetXY(x+labelW+subLabelW+cellPad, y+cellPad)
		pdf.MultiCell(bodyW-2*cellPad, lineHeight, row.Body, "", "L", false)
		y += h
	}
	pdf.Rect(x, top, labelW, y-top, "D")
	pdf.SetXY(x+cellPad, top+cellPad)
	pdf.MultiCell(labelW-2*cellPad, lineHeight, item.Label, "", "L", false)

	pdf.SetXY(x, y)
}

func (r *Renderer) rowHeight(pdf *gofpdf.Fpdf, label string, lw float64, body string, bw float64) float64 {
	labelLines := len(pdf.SplitText(label, lw-2*cellPad))
	bodyLines := len(pdf.SplitText(body, bw-2*cellPad))
	lines := labelLines
	if bodyLines > lines {
		lines = bodyLines
	}
	if lines < 1 {
		lines = 1
	}
	return float64(lines)*lineHeight + 2*cellPad
}

func (r *Renderer) breakIfNeeded(pdf *gofpdf.Fpdf, h float64) {
	if pdf.GetY()+h > pageHeight-margin {
		pdf.AddPage()
	}
}

func (r *Renderer) drawWatermark(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont(r.fontName, "", watermarkSize)
	pdf.SetTextColor(210, 210, 210)
	for x := -watermarkStride; x < pageWidth+watermarkStride; x += watermarkStride {
		for y := 0.0; y < pageHeight+watermarkStride; y += watermarkStride {
			pdf.TransformBegin()
			pdf.TransformRotate(45, x, y)
			pdf.Text(x, y, text)
			pdf.TransformEnd()
		}
	}
	pdf.SetTextColor(0, 0, 0)
}
