package invoice

import (
	"fmt"
	"html/template"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/platewise/platewise/models"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"amount": func(item models.InvoiceItem) float64 {
		return item.Price * float64(item.Quantity)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Invoice.Number}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #ddd; }
td.num, th.num { text-align: right; }
.totals td { border: none; }
</style>
</head>
<body>
<h1>Invoice {{.Invoice.Number}}</h1>
<p>
{{.Invoice.CustomerName}} &lt;{{.Invoice.CustomerEmail}}&gt;<br>
Table {{.Invoice.TableNumber}}<br>
{{.Invoice.CreatedAt.Format "2 Jan 2006 15:04"}}
</p>
<table>
<tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Amount</th></tr>
{{range .Invoice.Items}}
<tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{printf "%.2f" .Price}}</td><td class="num">{{printf "%.2f" (amount .)}}</td></tr>
{{end}}
</table>
<table class="totals">
<tr><td>Subtotal</td><td class="num">{{printf "%.2f" .Invoice.Subtotal}}</td></tr>
<tr><td>Tax</td><td class="num">{{printf "%.2f" .Invoice.Tax}}</td></tr>
<tr><td><strong>Total</strong></td><td class="num"><strong>{{printf "%.2f" .Invoice.Total}}</strong></td></tr>
</table>
<p>Payment status: {{if .Invoice.PaymentStatus}}{{.Invoice.PaymentStatus}}{{else}}not recorded{{end}}</p>
{{if .AutoPrint}}<script>window.print();</script>{{end}}
</body>
</html>`))

type templateData struct {
	Invoice   *models.Invoice
	AutoPrint bool
}

// RenderHTML writes the invoice's HTML representation. When autoPrint is
// set the document triggers the print dialog as soon as it opens.
func RenderHTML(w io.Writer, inv *models.Invoice, autoPrint bool) error {
	return invoiceTmpl.Execute(w, templateData{Invoice: inv, AutoPrint: autoPrint})
}

// RenderPDF writes a PDF rendition of the invoice.
func RenderPDF(w io.Writer, inv *models.Invoice) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, "Invoice "+inv.Number)

	pdf.SetFont("Arial", "", 12)
	pdf.Ln(12)
	pdf.Cell(190, 8, fmt.Sprintf("Customer: %s <%s>", inv.CustomerName, inv.CustomerEmail))
	pdf.Ln(8)
	pdf.Cell(190, 8, "Table: "+inv.TableNumber)
	pdf.Ln(8)
	pdf.Cell(190, 8, "Date: "+inv.CreatedAt.Format("2006-01-02 15:04"))

	pdf.Ln(12)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(90, 8, "Item")
	pdf.Cell(30, 8, "Qty")
	pdf.Cell(35, 8, "Price")
	pdf.Cell(35, 8, "Amount")

	pdf.SetFont("Arial", "", 12)
	for _, item := range inv.Items {
		pdf.Ln(8)
		pdf.Cell(90, 8, item.Name)
		pdf.Cell(30, 8, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(35, 8, fmt.Sprintf("%.2f", item.Price))
		pdf.Cell(35, 8, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)))
	}

	pdf.Ln(12)
	pdf.Cell(155, 8, "Subtotal:")
	pdf.Cell(35, 8, fmt.Sprintf("%.2f", inv.Subtotal))
	pdf.Ln(8)
	pdf.Cell(155, 8, "Tax:")
	pdf.Cell(35, 8, fmt.Sprintf("%.2f", inv.Tax))
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(155, 8, "Total:")
	pdf.Cell(35, 8, fmt.Sprintf("%.2f", inv.Total))

	return pdf.Output(w)
}
