package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	assert.True(t, OrderDraft.CanTransition(OrderConfirmed))
	assert.True(t, OrderConfirmed.CanTransition(OrderInProgress))
	assert.True(t, OrderInProgress.CanTransition(OrderCompleted))
	assert.True(t, OrderInProgress.CanTransition(OrderCancelled))
	assert.False(t, OrderCompleted.CanTransition(OrderCancelled))
	assert.False(t, OrderCancelled.CanTransition(OrderDraft))
	assert.False(t, OrderDraft.CanTransition(OrderCompleted))

	assert.True(t, OrderConfirmed.Editable())
	assert.False(t, OrderInProgress.Editable())
	assert.False(t, OrderStatus("shipped").Valid())
}

func TestQuoteTransitions(t *testing.T) {
	assert.True(t, QuoteDraft.CanTransition(QuoteSent))
	assert.True(t, QuoteSent.CanTransition(QuoteAccepted))
	assert.True(t, QuoteAccepted.CanTransition(QuoteConverted))
	assert.False(t, QuoteConverted.CanTransition(QuoteDraft))
	assert.False(t, QuoteConverted.Editable())
	assert.False(t, QuoteAccepted.Editable())
	assert.True(t, QuoteRejected.Editable())
}

func TestCategories(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("jewelry").Valid())
	assert.True(t, LeadWon.Valid())
	assert.False(t, CaseStatus("archived").Valid())
	assert.True(t, InvoiceVoid.Valid())
}
