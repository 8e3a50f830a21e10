package proposal

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

)

const fontFamily = "DejaVu"

// DejaVu covers Cyrillic and the tenge sign, which the core PDF fonts do not.
var (
	//go:embed fonts/DejaVuSans.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSans-Bold.ttf
	fontBold []byte
)

// brand colour of the title block
var brandRGB = [3]int{0x1f, 0x4e, 0x79}

type docLabels struct {
	title      string
	date       string
	object     string
	block      string
	floor      string
	finish     string
	area       string
	areaUnit   string
	pricePerM2 string
	total      string
	client     string
	name       string
	phone      string
	terms      string
	disclaimer string
	manager    string
	signature  string
}

var ruLabels = docLabels{
	title:      "Коммерческое предложение",
	date:       "Дата",
	object:     "Объект",
	block:      "Блок",
	floor:      "Этаж",
	finish:     "Отделка",
	area:       "Площадь",
	areaUnit:   "м²",
	pricePerM2: "Цена за м²",
	total:      "Итоговая стоимость",
	client:     "Клиент",
	name:       "Имя",
	phone:      "Телефон",
	terms: "Оплата производится в соответствии с договором купли-продажи. " +
		"Возможна рассрочка по согласованию с отделом продаж.",
	disclaimer: "Сроки сдачи объекта являются ориентировочными и могут быть изменены застройщиком. " +
		"Предложение не является публичной офертой.",
	manager:   "Менеджер отдела продаж",
	signature: "Подпись",
}

// Generator renders the fixed proposal layout with gofpdf.
type Generator struct {
	LogoPath string
	Currency string
	Now      func() time.Time
}

func NewGenerator(logoPath, currency string) *Generator {
	return &Generator{LogoPath: logoPath, Currency: currency, Now: time.Now}
}

// Render builds the whole document in memory. Nothing is written anywhere
// unless the full byte stream was produced.
func (g *Generator) Render(p *Proposal) ([]byte, error) {
	pdf, err := g.compose(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render proposal %d: %w", p.ID, err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) compose(p *Proposal) (*gofpdf.Fpdf, error) {
	if p.Block == nil || p.Floor == nil {
		return nil, fmt.Errorf("proposal %d is missing block or floor", p.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}
	family, lbl := fontFamily, ruLabels
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// 1. logo
	if g.LogoPath != "" {
		if _, err := os.Stat(g.LogoPath); err == nil {
			pdf.ImageOptions(g.LogoPath, 20, 15, 40, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
			pdf.SetY(45)
		}
	}

	// 2. title
	pdf.SetFont(family, "B", 20)
	pdf.SetTextColor(brandRGB[0], brandRGB[1], brandRGB[2])
	pdf.CellFormat(0, 12, lbl.title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	// 3. date
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", lbl.date, now().Format("02.01.2006")), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// 4. object
	floorLabel, finishLabel := p.Floor.Level.Label(), p.FinishLevel.Label()
	sectionHeading(pdf, family, lbl.object)
	pdf.SetFont(family, "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s: %s", lbl.block, p.Block.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("%s: %s", lbl.floor, floorLabel), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("%s: %s", lbl.finish, finishLabel), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// 5. pricing table
	rows := [][2]string{
		{lbl.area, fmt.Sprintf("%s %s", p.Area.StringFixed(2), lbl.areaUnit)},
		{lbl.pricePerM2, g.money(p.PricePerM2)},
		{lbl.total, g.money(p.TotalPrice)},
	}
	widths := []float64{85, 85}
	for i, row := range rows {
		style := ""
		if i == len(rows)-1 {
			style = "B"
		}
		pdf.SetFont(family, style, 11)
		pdf.CellFormat(widths[0], 9, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 9, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// 6. client, only when a lead is linked
	if p.Application != nil {
		sectionHeading(pdf, family, lbl.client)
		pdf.SetFont(family, "", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("%s: %s", lbl.name, p.Application.Name), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%s: %s", lbl.phone, p.Application.Phone), "", 1, "L", false, 0, "")
		pdf.Ln(6)
	}

	// 7. boilerplate
	pdf.SetFont(family, "", 10)
	pdf.MultiCell(0, 5, lbl.terms, "", "J", false)
	pdf.Ln(3)
	pdf.MultiCell(0, 5, lbl.disclaimer, "", "J", false)
	pdf.Ln(15)

	// 8. signatures
	pdf.SetFont(family, "", 11)
	pdf.CellFormat(85, 7, lbl.manager, "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 7, "______________________", "", 1, "R", false, 0, "")
	pdf.CellFormat(85, 7, lbl.signature, "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 7, "______________________", "", 1, "R", false, 0, "")

	return pdf, nil
}

func (g *Generator) money(d decimal.Decimal) string {
	amount := formatAmount(d)
	if g.Currency == "" {
		return amount
	}
	return amount + " " + g.Currency
}

func sectionHeading(pdf *gofpdf.Fpdf, family, text string) {
	pdf.SetFont(family, "B", 13)
	pdf.CellFormat(0, 8, text, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

// formatAmount renders 7500000 as "7 500 000.00".
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
