// internal/services/payment_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v74"

	"github.com/kartify/storefront-backend/internal/models"
)

func TestAmountInSmallestUnitRounds(t *testing.T) {
	assert.Equal(t, int64(199970), amountInSmallestUnit(1999.70))
	assert.Equal(t, int64(4007), amountInSmallestUnit(40.07))
	assert.Equal(t, int64(1699900), amountInSmallestUnit(16999))
	assert.Equal(t, int64(0), amountInSmallestUnit(0))
}

func paidOrder(transactionID string, total float64) *models.Order {
	order := &models.Order{Total: total}
	if transactionID != "" {
		order.TransactionID = &transactionID
	}
	return order
}

func TestVerifyIntentMatchesOrder(t *testing.T) {
	pi := &stripe.PaymentIntent{ID: "pi_123", Amount: 203900}

	assert.NoError(t, verifyIntentMatchesOrder(paidOrder("pi_123", 2039), pi))
}

func TestVerifyIntentRejectsForeignIntent(t *testing.T) {
	// A succeeded intent opened for another order must not settle this one.
	pi := &stripe.PaymentIntent{ID: "pi_cheap", Amount: 203900, Status: stripe.PaymentIntentStatusSucceeded}

	err := verifyIntentMatchesOrder(paidOrder("pi_expensive", 2039), pi)
	assert.True(t, IsKind(err, KindValidationFailed))
}

func TestVerifyIntentRejectsOrderWithoutIntent(t *testing.T) {
	pi := &stripe.PaymentIntent{ID: "pi_123", Amount: 203900, Status: stripe.PaymentIntentStatusSucceeded}

	err := verifyIntentMatchesOrder(paidOrder("", 2039), pi)
	assert.True(t, IsKind(err, KindValidationFailed))
}

func TestVerifyIntentRejectsAmountMismatch(t *testing.T) {
	pi := &stripe.PaymentIntent{ID: "pi_123", Amount: 100}

	err := verifyIntentMatchesOrder(paidOrder("pi_123", 2039), pi)
	assert.True(t, IsKind(err, KindValidationFailed))
}
