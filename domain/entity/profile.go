package entity

import "fmt"

// PackageTier is the subscription tier of an organization account.
type PackageTier string

const (
	PackageTierFree  PackageTier = "free"
	PackageTierBasic PackageTier = "basic"
	PackageTierPro   PackageTier = "pro"
)

func (t PackageTier) Valid() bool {
	return t == PackageTierFree || t == PackageTierBasic || t == PackageTierPro
}

func ParsePackageTier(s string) (PackageTier, error) {
	tier := PackageTier(s)
	if !tier.Valid() {
		return "", fmt.Errorf("unknown package tier: %q", s)
	}
	return tier, nil
}

// IndividualProfile is the one-to-one profile of an individual account.
type IndividualProfile struct {
	AccountID int64  `json:"account_id"`
	FullName  string `json:"full_name"`
}

// OrganizationProfile is the one-to-one profile of an organization account.
type OrganizationProfile struct {
	AccountID   int64       `json:"account_id"`
	Name        string      `json:"name"`
	PackageTier PackageTier `json:"package_tier"`
}
