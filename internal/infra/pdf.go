package infra

// pdf.go — receipt PDF generation using go-pdf/fpdf.
// Generates thermal-receipt-style documents with business name header,
// ticket number and timestamp, item table, discount line and bold total.
// Output goes to storagePath/recibo_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vendafacil/internal/dto"
	"vendafacil/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReciboPDF renders the receipt of a completed Venda and returns the
// absolute path of the generated file.
func GenerateReciboPDF(venda *model.Venda, nomeLoja, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%d.pdf", venda.NumeroTicket)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm x 105mm, close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, nomeLoja, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprovante de Venda", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Ticket Nº %d", venda.NumeroTicket), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venda.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venda.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		if len(nome) > 22 {
			nome = nome[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nome, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !venda.Desconto.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Desconto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-R$ "+venda.Desconto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "R$ "+venda.ValorTotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Forma de pagamento:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, venda.FormaPagamento, "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Obrigado pela preferência!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// GenerateRelatorioVendasPDF renders the period sales report as an A4 document
// and returns the absolute path of the generated file.
func GenerateRelatorioVendasPDF(rel *dto.RelatorioVendasResponse, nomeLoja, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("relatorio_vendas_%s_%s.pdf", rel.DataInicio, rel.DataFim)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, nomeLoja, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, "Relatório de Vendas", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6,
		fmt.Sprintf("Período: %s a %s  —  gerado em %s", rel.DataInicio, rel.DataFim,
			time.Now().Format("02/01/2006 15:04")),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Summary ───────────────────────────────────────────────────────────────
	linha := func(rotulo, valor string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW*0.6, 7, rotulo, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW*0.4, 7, valor, "", 1, "R", false, 0, "")
	}
	linha("Vendas concluídas", fmt.Sprintf("%d", rel.TotalVendas))
	linha("Cancelamentos", fmt.Sprintf("%d", rel.Cancelamentos))
	linha("Valor bruto", "R$ "+rel.ValorBruto.StringFixed(2))
	linha("Descontos", "R$ "+rel.Descontos.StringFixed(2))
	linha("Valor líquido", "R$ "+rel.ValorLiquido.StringFixed(2))
	linha("Ticket médio", "R$ "+rel.TicketMedio.StringFixed(2))
	pdf.Ln(4)

	// ── Breakdown by payment method ───────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.5, 7, "Forma de pagamento", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.2, 7, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.3, 7, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range rel.PorPagamento {
		pdf.CellFormat(contentW*0.5, 6, p.FormaPagamento, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.2, 6, fmt.Sprintf("%d", p.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.3, 6, "R$ "+p.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
