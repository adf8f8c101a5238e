package flows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/browser/browsertest"
	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/pages"
)

func newSite(st *browsertest.Store) *pages.Site {
	r := browser.NewResolver(st, browser.WithWait(20*time.Millisecond), browser.WithPollInterval(5*time.Millisecond))
	return pages.NewSite(r, 20*time.Millisecond)
}

func TestSignIn(t *testing.T) {
	tests := []struct {
		name    string
		env     config.Environment
		wantErr string
	}{
		{
			name: "default credentials",
			env:  config.DefaultEnvironments()["dev"],
		},
		{
			name:    "wrong credentials",
			env:     config.DefaultEnvironments()["qa"],
			wantErr: "Epic sadface: Username and password do not match any user in this service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := browsertest.NewStore()

			err := SignIn(newSite(st), tt.env)

			if tt.wantErr != "" {
				assert.ErrorIs(t, err, ErrSignInFailed)
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, browsertest.ViewInventory, st.View)
		})
	}
}

func TestAddItems(t *testing.T) {
	st := browsertest.NewStore()
	st.SignIn("standard_user")
	site := newSite(st)

	require.NoError(t, AddItems(site, []string{"Sauce Labs Backpack", "Sauce Labs Onesie"}))
	assert.Equal(t, 2, site.Inventory.CartCount())

	err := AddItems(site, []string{"Sauce Labs Spaceship"})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPurchase(t *testing.T) {
	st := browsertest.NewStore()
	site := newSite(st)
	require.NoError(t, SignIn(site, config.DefaultEnvironments()["dev"]))

	summary, err := Purchase(site,
		[]string{"Sauce Labs Bike Light", "Sauce Labs Bolt T-Shirt"},
		pages.CustomerInfo{FirstName: "Jane", LastName: "Smith", PostalCode: "54321"},
	)

	require.NoError(t, err)
	assert.Contains(t, summary.Total, "$")
	assert.Equal(t, "Item total: $25.98", summary.ItemTotal)
	assert.Equal(t, browsertest.ViewComplete, st.View)
	assert.Equal(t, 1, st.Orders)
}
