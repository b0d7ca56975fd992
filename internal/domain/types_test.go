package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
)

func TestIsValidAccountAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		valid   bool
	}{
		{name: "hedera account id", address: "0.0.12345", valid: true},
		{name: "evm alias", address: "0xAbCd000000000000000000000000000000001234", valid: true},
		{name: "empty", address: "", valid: false},
		{name: "missing realm", address: "0.12345", valid: false},
		{name: "evm alias too short", address: "0x1234", valid: false},
		{name: "random text", address: "not-an-address", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, domain.IsValidAccountAddress(tt.address))
		})
	}
}

func TestOwnerKeyValid(t *testing.T) {
	assert.True(t, domain.FarmerGroveKey("0.0.1001", "grove-7").Valid())
	assert.True(t, domain.InvestorKey("0.0.2002").Valid())

	// Farmers need a grove, investors must not carry one
	assert.False(t, domain.FarmerGroveKey("0.0.1001", "").Valid())
	assert.False(t, domain.OwnerKey{Kind: domain.OwnerKindInvestor, Address: "0.0.2002", GroveID: "grove-7"}.Valid())
	assert.False(t, domain.InvestorKey("bogus").Valid())
	assert.False(t, domain.OwnerKey{Kind: "auditor", Address: "0.0.2002"}.Valid())
}

func TestOwnerKeyString(t *testing.T) {
	assert.Equal(t, "farmer:0.0.1001:grove-7", domain.FarmerGroveKey("0.0.1001", "grove-7").String())
	assert.Equal(t, "investor:0.0.2002", domain.InvestorKey("0.0.2002").String())
}

func TestIsValidEarningType(t *testing.T) {
	assert.True(t, domain.IsValidEarningType(domain.EarningTypeHarvestDistribution))
	assert.True(t, domain.IsValidEarningType(domain.EarningTypeLPInterest))
	assert.False(t, domain.IsValidEarningType("dividend"))
}
