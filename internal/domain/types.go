package domain

import (
	"fmt"
	"regexp"
)

// OwnerKind distinguishes the two actor populations whose earnings are tracked.
type OwnerKind string

const (
	OwnerKindFarmer   OwnerKind = "farmer"
	OwnerKindInvestor OwnerKind = "investor"
)

// EarningType represents the revenue source of an earning record
type EarningType string

const (
	EarningTypeHarvestDistribution EarningType = "harvest_distribution"
	EarningTypePrimaryMarket       EarningType = "primary_market"
	EarningTypeSecondaryMarket     EarningType = "secondary_market"
	EarningTypeLPInterest          EarningType = "lp_interest"
)

// IsValidEarningType checks if an earning type is one of the known revenue sources
func IsValidEarningType(t EarningType) bool {
	return t == EarningTypeHarvestDistribution ||
		t == EarningTypePrimaryMarket ||
		t == EarningTypeSecondaryMarket ||
		t == EarningTypeLPInterest
}

// EarningStatus represents the lifecycle state of an earning record.
// Transitions are monotonic: pending -> distributed -> settled. Never reverses.
type EarningStatus string

const (
	EarningStatusPending     EarningStatus = "pending"
	EarningStatusDistributed EarningStatus = "distributed"
	// EarningStatusSettled covers both withdrawn (farmer) and claimed (investor) records
	EarningStatusSettled EarningStatus = "settled"
)

// IntentKind distinguishes withdrawals (farmer pool draws) from claims
// (investor draws against specific earning records).
type IntentKind string

const (
	IntentKindWithdrawal IntentKind = "withdrawal"
	IntentKindClaim      IntentKind = "claim"
)

// IntentStatus represents the lifecycle state of a transfer intent.
// An intent is created pending and transitions to exactly one terminal state.
type IntentStatus string

const (
	IntentStatusPending   IntentStatus = "pending"
	IntentStatusCompleted IntentStatus = "completed"
	IntentStatusFailed    IntentStatus = "failed"
)

// hederaAccountRegex matches native Hedera account IDs (shard.realm.num)
var hederaAccountRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// evmAddressRegex matches 0x-prefixed EVM-style account aliases
var evmAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAccountAddress checks if an address is a valid Hedera account ID
// or an EVM-style alias
func IsValidAccountAddress(address string) bool {
	return hederaAccountRegex.MatchString(address) || evmAddressRegex.MatchString(address)
}

// OwnerKey identifies the owner of a pool of earning records: a farmer+grove
// pair or an investor address. It is the upsert key for balance snapshots.
type OwnerKey struct {
	Kind    OwnerKind
	Address string
	// GroveID is set for farmers only; empty for investors
	GroveID string
}

// FarmerGroveKey builds the owner key for a farmer's grove balance pool
func FarmerGroveKey(address, groveID string) OwnerKey {
	return OwnerKey{Kind: OwnerKindFarmer, Address: address, GroveID: groveID}
}

// InvestorKey builds the owner key for an investor's earning pool
func InvestorKey(address string) OwnerKey {
	return OwnerKey{Kind: OwnerKindInvestor, Address: address}
}

// Valid checks structural validity of the owner key
func (k OwnerKey) Valid() bool {
	if !IsValidAccountAddress(k.Address) {
		return false
	}
	switch k.Kind {
	case OwnerKindFarmer:
		return k.GroveID != ""
	case OwnerKindInvestor:
		return k.GroveID == ""
	default:
		return false
	}
}

// String returns a stable textual form used for lock keying and logging
func (k OwnerKey) String() string {
	if k.GroveID != "" {
		return fmt.Sprintf("%s:%s:%s", k.Kind, k.Address, k.GroveID)
	}
	return fmt.Sprintf("%s:%s", k.Kind, k.Address)
}
