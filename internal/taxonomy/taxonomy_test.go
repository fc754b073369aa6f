package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oci-bom-generator/internal/models"
)

func TestDefault_IsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.Equal(t, []string{"compute", "database", "networking", "storage"}, Default().CategoryKeys())
}

func TestCategoryFor(t *testing.T) {
	tax := Default()
	tests := map[string]string{
		"Database":      "database",
		"Compute":       "compute",
		"Storage":       "storage",
		"Block Storage": "storage",
		"Networking":    "networking",
		"Network":       "networking",
		"Analytics":     "",
		"":              "",
	}
	for label, want := range tests {
		assert.Equal(t, want, tax.CategoryFor(label), label)
	}
}

func TestProductFor(t *testing.T) {
	tax := Default()
	assert.Equal(t, "base_database", tax.ProductFor("database", "Database - Base Database Service - BYOL"))
	assert.Equal(t, "autonomous_database", tax.ProductFor("database", "Database - Autonomous Database - OCPU Hour"))
	assert.Equal(t, "high_performance", tax.ProductFor("compute", "Compute - High Performance - HPC - OCPU Hour"))
	assert.Equal(t, "load_balancer", tax.ProductFor("networking", "Load Balancer - Flexible - 10 Mbps"))
	assert.Equal(t, "", tax.ProductFor("storage", "Archive Tier"))
}

func TestMatchProducts_WordBoundaries(t *testing.T) {
	tax := Default()

	hits := tax.MatchProducts("We need two app servers and an autonomous database")
	products := map[string]bool{}
	for _, h := range hits {
		products[h.Product] = true
	}
	assert.True(t, products["standard_compute"])
	assert.True(t, products["autonomous_database"])

	// "lb" must not match inside other words
	assert.Empty(t, tax.MatchProducts("bulb album"))
}

func TestMatchCategoryTerms(t *testing.T) {
	tax := Default()
	assert.Equal(t, []string{"compute", "database"}, tax.MatchCategoryTerms("a db and three VMs"))
	assert.Empty(t, tax.MatchCategoryTerms("a nice website"))
}

func TestLicensingFor(t *testing.T) {
	tax := Default()
	assert.Equal(t, models.LicensingBYOL, tax.LicensingFor("Database - Base Database Service - BYOL"))
	assert.Equal(t, models.LicensingLicenseIncluded, tax.LicensingFor("Base Database Service - License Included"))
	assert.Equal(t, models.LicensingModel(""), tax.LicensingFor("Compute - Standard - E4"))
}

func TestSizingFor(t *testing.T) {
	tax := Default()
	assert.Equal(t, models.SizingSmall, tax.SizingFor(10))
	assert.Equal(t, models.SizingMedium, tax.SizingFor(100))
	assert.Equal(t, models.SizingLarge, tax.SizingFor(500))
	assert.Equal(t, models.SizingEnterpriseSmall, tax.SizingFor(501))
	assert.Equal(t, models.SizingEnterpriseLarge, tax.SizingFor(5000))
	assert.Equal(t, models.SizingProfile(""), tax.SizingFor(0))
	assert.Equal(t, models.SizingProfile(""), tax.SizingFor(10000))
}

func TestTokenizeAndStem(t *testing.T) {
	assert.Equal(t, []string{"compute", "standard", "e4", "ocpu", "hour"}, Tokenize("Compute - Standard - E4 - OCPU Hour"))
	assert.Equal(t, "server", Stem("servers"))
	assert.Equal(t, "policy", Stem("policies"))
	assert.Equal(t, "access", Stem("access"))
	assert.Equal(t, "db", Stem("db"))
}

func TestResolvePreferences(t *testing.T) {
	tax := Default()
	tests := []struct {
		text string
		want models.BusinessPreferences
	}{
		{
			text: "We have 500 users and are budget-conscious",
			want: models.BusinessPreferences{Tier: models.TierStandard, Optimize: models.OptimizeCost, UserCount: 500},
		},
		{
			text: "Premium setup for 1,200 employees using our existing Oracle licenses",
			want: models.BusinessPreferences{Tier: models.TierEnterprise, Optimize: models.OptimizePerformance, Licensing: models.LicensingBYOL, UserCount: 1200},
		},
		{
			text: "We have no licenses today",
			want: models.BusinessPreferences{Licensing: models.LicensingLicenseIncluded},
		},
		{
			text: "A plain web app",
			want: models.BusinessPreferences{},
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tax.ResolvePreferences(tt.text), tt.text)
	}
}
