package statusmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{label: "Active", want: "Active"},
		{label: "  Active  ", want: "Active"},
		{label: "Pending Review", want: "Pending_Review"},
		{label: "Pending \t  Review", want: "Pending_Review"},
		{label: "Pending _ Review", want: "Pending_Review"},
		{label: "Pending__Review", want: "Pending_Review"},
		{label: `"Closed" 'Won'`, want: "Closed_Won"},
		{label: "Customer's Hold", want: "Customers_Hold"},
		{label: "Non\u00a0Breaking", want: "Non_Breaking"},
		{label: "Caf\u00e9", want: "Caf\u00e9"},
		{label: "Cafe\u0301 Noir", want: "Cafe\u0301_Noir"},
		{label: "Straße", want: "Straße"},
		{label: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalKey(tt.label))
		})
	}
}

func TestUniqueKey(t *testing.T) {
	taken := map[string]bool{"Active": true, "Active_2": true, "Active_4": true}
	has := func(k string) bool { return taken[k] }

	assert.Equal(t, "Closed", uniqueKey("Closed", has))
	assert.Equal(t, "Active_3", uniqueKey("Active", has))
}
