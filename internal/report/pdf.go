package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	pageBreakY   = 265.0
)

// pdfReport обертка над fpdf с перекодировкой строк в cp1252 для португальских символов
type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFReport(title, subtitle string, generated time.Time) *pdfReport {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)

	r := &pdfReport{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	r.pdf.SetTitle(r.tr(title), false)
	r.pdf.SetCreator("mcp-finance-planner", false)
	r.pdf.AliasNbPages("")
	r.pdf.SetFooterFunc(func() {
		r.pdf.SetY(-15)
		r.pdf.SetFont("Arial", "I", 8)
		r.pdf.SetTextColor(128, 128, 128)
		r.pdf.CellFormat(0, 10, fmt.Sprintf("%d/{nb}", r.pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	r.pdf.AddPage()
	r.pdf.SetFont("Arial", "B", 18)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, r.tr(title), "", 1, "L", false, 0, "")
	if subtitle != "" {
		r.pdf.SetFont("Arial", "", 11)
		r.pdf.SetTextColor(80, 80, 80)
		r.pdf.CellFormat(contentWidth, 7, r.tr(subtitle), "", 1, "L", false, 0, "")
	}
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(contentWidth, 6, "Gerado em "+generated.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	r.pdf.Ln(4)
	return r
}

func (r *pdfReport) drawSectionHeader(title string) {
	if r.pdf.GetY() > pageBreakY-20 {
		r.pdf.AddPage()
	}
	r.pdf.Ln(3)
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.CellFormat(contentWidth, 8, r.tr(title), "", 1, "L", true, 0, "")
	r.pdf.Ln(1)
}

func (r *pdfReport) drawKeyValue(label, value string) {
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth*0.55, 6, r.tr(label), "B", 0, "L", false, 0, "")
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.SetTextColor(30, 30, 30)
	r.pdf.CellFormat(contentWidth*0.45, 6, r.tr(value), "B", 1, "R", false, 0, "")
}

// drawCards рисует ряд карточек "подпись / значение"
func (r *pdfReport) drawCards(cards [][2]string) {
	if len(cards) == 0 {
		return
	}
	w := contentWidth / float64(len(cards))
	y := r.pdf.GetY()
	r.pdf.SetFillColor(240, 248, 255)
	r.pdf.SetDrawColor(200, 200, 200)
	for i, c := range cards {
		x := marginLeft + float64(i)*w
		r.pdf.SetXY(x, y)
		r.pdf.SetFont("Arial", "", 8)
		r.pdf.SetTextColor(90, 90, 90)
		r.pdf.CellFormat(w-2, 6, r.tr(c[0]), "LTR", 2, "C", true, 0, "")
		r.pdf.SetFont("Arial", "B", 11)
		r.pdf.SetTextColor(0, 51, 102)
		r.pdf.CellFormat(w-2, 8, r.tr(c[1]), "LBR", 0, "C", true, 0, "")
	}
	r.pdf.SetXY(marginLeft, y+16)
}

func (r *pdfReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(70, 90, 110)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 8)
	for i, h := range headers {
		r.pdf.CellFormat(widths[i], 6, r.tr(h), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) drawTableRow(cells []string, widths []float64, row int, highlight bool) {
	switch {
	case highlight:
		r.pdf.SetFillColor(255, 235, 210)
	case row%2 == 0:
		r.pdf.SetFillColor(250, 250, 250)
	default:
		r.pdf.SetFillColor(255, 255, 255)
	}
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.SetFont("Arial", "", 8)
	for i, c := range cells {
		align := "R"
		if i == 0 {
			align = "C"
		}
		r.pdf.CellFormat(widths[i], 5, r.tr(c), "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

// table рисует таблицу, повторяя заголовок на новой странице
func (r *pdfReport) table(headers []string, widths []float64, rows [][]string, highlight func(int) bool) {
	r.drawTableHeader(headers, widths)
	for i, row := range rows {
		if r.pdf.GetY() > pageBreakY {
			r.pdf.AddPage()
			r.drawTableHeader(headers, widths)
		}
		r.drawTableRow(row, widths, i, highlight != nil && highlight(i))
	}
}

func (r *pdfReport) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
