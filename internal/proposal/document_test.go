package proposal

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senecapartners/seneca-cms-backend/internal/application"
	"github.com/senecapartners/seneca-cms-backend/internal/inventory"
)

func sampleProposal() *Proposal {
	block := &inventory.Block{ID: 1, Name: "A"}
	return &Proposal{
		ID:          3,
		Block:       block,
		Floor:       &inventory.Floor{ID: 10, BlockID: 1, Level: inventory.LevelMansard, Block: block},
		Area:        decimal.RequireFromString("50.00"),
		FinishLevel: FinishPremium,
		PricePerM2:  decimal.NewFromInt(150000),
		TotalPrice:  decimal.RequireFromString("7500000.00"),
	}
}

// pdfText is how a UTF-8 font cell lands in an uncompressed content stream.
func pdfText(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u>>8), byte(u))
	}
	return out
}

func renderPlain(t *testing.T, g *Generator, p *Proposal) []byte {
	t.Helper()
	pdf, err := g.compose(p)
	require.NoError(t, err)
	pdf.SetCompression(false)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestGeneratorRender(t *testing.T) {
	g := &Generator{
		LogoPath: "does/not/exist.png",
		Currency: "₸",
		Now:      func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	}

	out, err := g.Render(sampleProposal())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	withoutClient := renderPlain(t, g, sampleProposal())
	assert.Contains(t, string(withoutClient), string(pdfText("7 500 000.00 ₸")))
	assert.Contains(t, string(withoutClient), string(pdfText("150 000.00 ₸")))
	assert.Contains(t, string(withoutClient), string(pdfText("Мансарда")))
	assert.NotContains(t, string(withoutClient), string(pdfText("Клиент")))

	p := sampleProposal()
	p.Application = &application.Application{Name: "Айгерим", Phone: "+77010000000"}
	withClient := renderPlain(t, g, p)
	assert.Contains(t, string(withClient), string(pdfText("Клиент")))
	assert.Contains(t, string(withClient), string(pdfText("Айгерим")))
	assert.Contains(t, string(withClient), string(pdfText("+77010000000")))
}

func TestGeneratorRequiresResolvedFloor(t *testing.T) {
	p := sampleProposal()
	p.Floor = nil
	_, err := NewGenerator("", "₸").Render(p)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"999":        "999.00",
		"1000":       "1 000.00",
		"150000":     "150 000.00",
		"7500000":    "7 500 000.00",
		"1234567.5":  "1 234 567.50",
		"-45000.129": "-45 000.13",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatAmount(decimal.RequireFromString(in)), in)
	}
}

func TestPreviewPlaceholders(t *testing.T) {
	p := sampleProposal()
	p.Application = &application.Application{Name: "Айгерим", Phone: "+77010000000"}
	tpl := &Template{Content: "{client_name} ({client_phone}): блок {block}, {floor}, {area} м², {finish_level}, " +
		"{price_per_m2} за м², итого {total_price}, {date} {unknown}"}

	got := Preview(tpl, p, "₸", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Айгерим (+77010000000): блок A, Мансарда, 50.00 м², Премиум, "+
		"150 000.00 ₸ за м², итого 7 500 000.00 ₸, 01.03.2024 {unknown}", got)
}
