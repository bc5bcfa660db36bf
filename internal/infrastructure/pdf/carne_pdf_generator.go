// Package pdf genera el carnê de una venta a plazo: una boleta por cuota con número,
// vencimiento y valor, más el talón que queda en la tienda.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Carnê de pagamento  │  Venda + Data                 │
//	│  CLIENTE: Nome + CPF/CNPJ + Telefone                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BOLETA k/N: Parcela | Vencimento | Valor | QR referência    │
//	│  - - - - - - - - - - - - (recortar) - - - - - - - - - - - -  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/pdv-api/internal/application/ports"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.CarnePDFGenerator = (*MarotoCarneGenerator)(nil)

// MarotoCarneGenerator implementa ports.CarnePDFGenerator usando Maroto v2.
type MarotoCarneGenerator struct {
	storeName string
	printer   *message.Printer
}

// NewMarotoCarneGenerator construye el generador. storeName aparece en la cabecera de cada boleta.
func NewMarotoCarneGenerator(storeName string) *MarotoCarneGenerator {
	return &MarotoCarneGenerator{
		storeName: storeName,
		printer:   message.NewPrinter(language.BrazilianPortuguese),
	}
}

// GenerateCarne genera el PDF y devuelve sus bytes. customer puede ser nil (tarjeta a plazo sin cliente).
func (g *MarotoCarneGenerator) GenerateCarne(_ context.Context, sale *entity.Sale, customer *entity.Customer) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Carnê de pagamento", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, rec := range sale.Receivables {
		m.AddRows(g.slipRows(sale, rec)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar carnê: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoCarneGenerator) headerRow(sale *entity.Sale) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("CARNÊ DE PAGAMENTO", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Venda "+shortID(sale.ID), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
			text.New("Data: "+sale.Date.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
			text.New("Total: "+g.money(sale.Total), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func customerRow(customer *entity.Customer) core.Row {
	name, detail := "Consumidor final", ""
	if customer != nil {
		name = customer.Name
		detail = fmt.Sprintf("CPF/CNPJ: %s   |   Tel: %s", nonEmpty(customer.TaxID, "-"), nonEmpty(customer.Phone, "-"))
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(detail, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

// slipRows boleta de una cuota con su QR de referencia (venta:cuota) y la línea de corte.
func (g *MarotoCarneGenerator) slipRows(sale *entity.Sale, rec entity.Receivable) []core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorGray, Top: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 11, Top: 7})
	}
	ref := fmt.Sprintf("%s:%d", sale.ID, rec.InstallmentNumber)

	return []core.Row{
		row.New(4),
		row.New(28).Add(
			col.New(3).Add(label("PARCELA"), value(fmt.Sprintf("%d/%d", rec.InstallmentNumber, rec.InstallmentCount))),
			col.New(3).Add(label("VENCIMENTO"), value(rec.DueDate.Format("02/01/2006"))),
			col.New(3).Add(label("VALOR"), value(g.money(rec.Amount))),
			col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 90, Center: true})),
		),
		line.NewRow(4, props.Line{Color: colorGray, Style: linestyle.Dashed, Thickness: 0.2}),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea en reales con separadores pt-BR. Ej: 1234.5 → "R$ 1.234,50".
func (g *MarotoCarneGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
