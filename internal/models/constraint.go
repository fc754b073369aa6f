// internal/models/constraint.go
package models

type ConstraintKind string

const (
	ConstraintRestrictive ConstraintKind = "restrictive"
	ConstraintExclusion   ConstraintKind = "exclusion"
	ConstraintIdentifier  ConstraintKind = "specific_identifier"
)

type Tier string

const (
	TierStandard   Tier = "standard"
	TierEnterprise Tier = "enterprise"
)

type LicensingModel string

const (
	LicensingBYOL            LicensingModel = "byol"
	LicensingLicenseIncluded LicensingModel = "license_included"
)

type Optimization string

const (
	OptimizeCost        Optimization = "cost"
	OptimizePerformance Optimization = "performance"
)

// KeywordConstraint is a restrictive or exclusion clause reduced to keywords.
// Keywords are lower-case, unique and sorted.
type KeywordConstraint struct {
	RawPhrase string   `json:"rawPhrase"`
	Keywords  []string `json:"keywords"`
}

type IdentifierPin struct {
	RawPhrase  string `json:"rawPhrase"`
	Identifier string `json:"identifier"`
}

type BusinessPreferences struct {
	Tier      Tier           `json:"tier,omitempty"`
	Optimize  Optimization   `json:"optimize,omitempty"`
	Licensing LicensingModel `json:"licensing,omitempty"`
	UserCount int            `json:"userCount,omitempty"`
}

type ConstraintSet struct {
	Restrictive         []KeywordConstraint `json:"restrictive"`
	Exclusions          []KeywordConstraint `json:"exclusions"`
	SpecificIdentifiers []IdentifierPin     `json:"specificIdentifiers"`
	BusinessPreferences BusinessPreferences `json:"businessPreferences"`
}

// HasHardConstraints reports whether any rule can reject a service.
// A set without hard constraints is a pass-through.
func (c ConstraintSet) HasHardConstraints() bool {
	return len(c.Restrictive) > 0 || len(c.Exclusions) > 0 || len(c.SpecificIdentifiers) > 0
}

// PinnedIdentifiers returns the upper-cased identifier pin set.
func (c ConstraintSet) PinnedIdentifiers() map[string]struct{} {
	if len(c.SpecificIdentifiers) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(c.SpecificIdentifiers))
	for _, pin := range c.SpecificIdentifiers {
		out[pin.Identifier] = struct{}{}
	}
	return out
}

// ConstraintSummary is the human-readable digest returned with a generated BOM.
type ConstraintSummary struct {
	Requirements           []string `json:"requirements"`
	Exclusions             []string `json:"exclusions"`
	PinnedIdentifiers      []string `json:"pinnedIdentifiers"`
	PreferenceImplications []string `json:"preferenceImplications"`
}
