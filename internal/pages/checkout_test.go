package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/browser/browsertest"
)

func atCheckout(t *testing.T, names ...string) (*browsertest.Store, *Site) {
	t.Helper()
	st, site := cartWith(t, names...)
	require.NoError(t, site.Cart.ProceedToCheckout())
	return st, site
}

func TestCheckoutPage_Purchase(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		customer CustomerInfo
		wantItem float64
	}{
		{
			name:     "single item",
			items:    []string{"Sauce Labs Backpack"},
			customer: CustomerInfo{FirstName: "John", LastName: "Doe", PostalCode: "12345"},
			wantItem: 29.99,
		},
		{
			name:     "two items",
			items:    []string{"Sauce Labs Bike Light", "Sauce Labs Bolt T-Shirt"},
			customer: CustomerInfo{FirstName: "Jane", LastName: "Smith", PostalCode: "54321"},
			wantItem: 25.98,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a cart at checkout
			st, site := atCheckout(t, tt.items...)

			// WHEN the customer information is submitted
			require.NoError(t, site.Checkout.FillCheckoutInfo(tt.customer))
			require.Equal(t, browsertest.ViewStepTwo, st.View)
			assert.Equal(t, browsertest.Customer(tt.customer), st.Customer)

			// THEN the overview shows consistent amounts
			summary, err := site.Checkout.SummaryInfo()
			require.NoError(t, err)
			for _, label := range []string{summary.ItemTotal, summary.Tax, summary.Total} {
				assert.Contains(t, label, "$")
			}
			itemTotal, err := summary.ItemTotalAmount()
			require.NoError(t, err)
			tax, err := summary.TaxAmount()
			require.NoError(t, err)
			total, err := summary.TotalAmount()
			require.NoError(t, err)
			assert.InDelta(t, tt.wantItem, itemTotal, 0.001)
			assert.InDelta(t, itemTotal+tax, total, 0.001)

			// AND finishing the order confirms it
			require.NoError(t, site.Checkout.CompletePurchase())
			ok, err := site.Checkout.IsPurchaseSuccessful()
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 1, st.Orders)
			assert.Empty(t, st.Cart)
		})
	}
}

func TestCheckoutPage_MissingPostalCodeStaysOnStepOne(t *testing.T) {
	st, site := atCheckout(t, "Sauce Labs Onesie")

	require.NoError(t, site.Checkout.FillCheckoutInfo(CustomerInfo{FirstName: "John", LastName: "Doe"}))

	assert.Equal(t, browsertest.ViewStepOne, st.View)
	assert.Equal(t, "Error: Postal Code is required", st.Error)
}

func TestCheckoutPage_Cancel(t *testing.T) {
	st, site := atCheckout(t, "Sauce Labs Onesie")

	require.NoError(t, site.Checkout.Cancel())

	assert.Equal(t, browsertest.ViewCart, st.View)
	assert.Equal(t, []string{"Sauce Labs Onesie"}, st.CartNames())
}

func TestCheckoutPage_IsPurchaseSuccessfulBeforeFinish(t *testing.T) {
	_, site := atCheckout(t, "Sauce Labs Onesie")

	_, err := site.Checkout.IsPurchaseSuccessful()

	assert.ErrorIs(t, err, browser.ErrNotFound)
}
