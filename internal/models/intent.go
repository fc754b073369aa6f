// internal/models/intent.go
package models

type SizingProfile string

const (
	SizingSmall           SizingProfile = "small"
	SizingMedium          SizingProfile = "medium"
	SizingLarge           SizingProfile = "large"
	SizingEnterpriseSmall SizingProfile = "enterprise_small"
	SizingEnterpriseLarge SizingProfile = "enterprise_large"
)

// BusinessIntent is the requirement text mapped onto the closed taxonomy.
// Categories and Products hold taxonomy keys, sorted.
type BusinessIntent struct {
	Categories          []string       `json:"categories"`
	Products            []string       `json:"products"`
	TierPreference      Tier           `json:"tierPreference,omitempty"`
	LicensingPreference LicensingModel `json:"licensingPreference,omitempty"`
	Optimize            Optimization   `json:"optimize,omitempty"`
	UserCount           int            `json:"userCount,omitempty"`
	Sizing              SizingProfile  `json:"sizing,omitempty"`
	Constraints         ConstraintSet  `json:"constraints"`
}

func (b BusinessIntent) HasCategory(key string) bool {
	for _, c := range b.Categories {
		if c == key {
			return true
		}
	}
	return false
}

func (b BusinessIntent) HasProduct(key string) bool {
	for _, p := range b.Products {
		if p == key {
			return true
		}
	}
	return false
}

type FollowUpQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Category string `json:"category"`
	Critical bool   `json:"critical"`
}

type RequirementAnalysis struct {
	NeedsFollowUp bool               `json:"needsFollowUp"`
	Questions     []FollowUpQuestion `json:"questions,omitempty"`
	Missing       []string           `json:"missing,omitempty"`
}
