package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPayment(t *testing.T) {
	tests := []struct {
		name        string
		status      PaymentStatus
		wantColor   string
		wantRefresh bool
	}{
		{name: "success", status: PaymentSuccess, wantColor: "green", wantRefresh: false},
		{name: "failed", status: PaymentFailed, wantColor: "red", wantRefresh: true},
		{name: "pending", status: PaymentPending, wantColor: "amber", wantRefresh: true},
		{name: "processing", status: PaymentProcessing, wantColor: "amber", wantRefresh: true},
		{name: "unset", status: PaymentUnset, wantColor: "gray", wantRefresh: false},
		{name: "unknown value falls back to unset", status: PaymentStatus("REFUNDED"), wantColor: "gray", wantRefresh: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			view := ClassifyPayment(testCase.status)
			assert.Equal(t, testCase.wantColor, view.Color)
			assert.Equal(t, testCase.wantRefresh, view.CanRefresh)
			assert.NotEmpty(t, view.Title)
			assert.NotEmpty(t, view.Message)
		})
	}
}

func TestPendingAndProcessingShareAView(t *testing.T) {
	assert.Equal(t, ClassifyPayment(PaymentPending), ClassifyPayment(PaymentProcessing))
}
