package invoice

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/platewise/models"
)

func sampleInvoice() *models.Invoice {
	return &models.Invoice{
		ID:            uuid.New(),
		OrderID:       uuid.New(),
		Number:        "INV-1A2B3C4D",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		TableNumber:   "7",
		Subtotal:      19.98,
		Tax:           1.0,
		Total:         20.98,
		PaymentStatus: models.PaymentSuccess,
		CreatedAt:     time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC),
		Items: []models.InvoiceItem{
			{Name: "Margherita", Price: 9.99, Quantity: 2},
		},
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleInvoice(), false))

	html := buf.String()
	assert.Contains(t, html, "INV-1A2B3C4D")
	assert.Contains(t, html, "Margherita")
	assert.Contains(t, html, "19.98")
	assert.Contains(t, html, "20.98")
	assert.NotContains(t, html, "window.print()")
}

func TestRenderHTMLAutoPrint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleInvoice(), true))

	assert.Contains(t, buf.String(), "window.print()")
}

func TestRenderHTMLUnsetPaymentStatus(t *testing.T) {
	inv := sampleInvoice()
	inv.PaymentStatus = models.PaymentUnset

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, inv, false))

	assert.Contains(t, buf.String(), "not recorded")
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPDF(&buf, sampleInvoice()))

	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}
