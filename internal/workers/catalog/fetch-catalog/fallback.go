// internal/workers/catalog/fetch-catalog/fallback.go
package fetchcatalog

import (
	"github.com/shopspring/decimal"

	"oci-bom-generator/internal/models"
)

type fallbackEntry struct {
	id, name, category, sku, family string
	tier                            models.Tier
	licensing                       models.LicensingModel
	description, useCase            string
	price, unit, metric             string
}

var fallbackTable = []fallbackEntry{
	{"B89728", "Database - Base Database Service - BYOL", "Database", "DATABASE_BYOL", "base_database", models.TierStandard, models.LicensingBYOL,
		"Oracle Database with your existing licenses", "General purpose database workloads with existing Oracle licenses", "0.255", "OCPU_HOUR", "OCPU Hour"},
	{"B89730", "Database - Base Database Service - License Included", "Database", "DATABASE_LI", "base_database", models.TierStandard, models.LicensingLicenseIncluded,
		"Oracle Database with license included in pricing", "General purpose database workloads without existing Oracle licenses", "0.755", "OCPU_HOUR", "OCPU Hour"},
	{"B89729", "Database - Autonomous Database - OCPU Hour", "Database", "DATABASE_AUTO", "autonomous_database", models.TierEnterprise, models.LicensingLicenseIncluded,
		"Self-managing Oracle Database with AI optimization", "High-performance database with automated management", "0.72", "OCPU_HOUR", "OCPU Hour"},
	{"B91500", "Database - MySQL Database Service", "Database", "MYSQL", "mysql", models.TierStandard, models.LicensingLicenseIncluded,
		"Fully managed MySQL database service", "Open source MySQL applications and development", "0.25", "OCPU_HOUR", "OCPU Hour"},
	{"B92000", "Database - Exadata Database Service", "Database", "EXADATA", "exadata", models.TierEnterprise, models.LicensingBYOL,
		"High-performance engineered system for mission-critical databases", "Mission-critical, high-performance database workloads", "1.85", "OCPU_HOUR", "OCPU Hour"},
	{"B88317", "Compute - Standard - E4 - OCPU Hour", "Compute", "OCPU", "standard_compute", models.TierStandard, "",
		"Standard virtual machine compute capacity", "General purpose applications and web servers", "0.0255", "OCPU_HOUR", "OCPU Hour"},
	{"B88318", "Compute - Standard - E4 - Memory GB Hour", "Compute", "MEMORY", "standard_compute", models.TierStandard, "",
		"Standard virtual machine memory", "Memory for standard compute instances", "0.00255", "GB_HOUR", "GB Hour"},
	{"B88319", "Compute - Standard - E3 - OCPU Hour", "Compute", "OCPU", "standard_compute", models.TierStandard, "",
		"Previous generation standard compute", "Cost-effective compute for non-critical workloads", "0.0306", "OCPU_HOUR", "OCPU Hour"},
	{"B90100", "Compute - High Performance - HPC - OCPU Hour", "Compute", "HPC", "high_performance", models.TierEnterprise, "",
		"High-performance compute for intensive workloads", "Scientific computing, simulation, and HPC applications", "0.065", "OCPU_HOUR", "OCPU Hour"},
	{"B88514", "Block Storage - Performance", "Storage", "BLOCK_STORAGE", "block_storage", models.TierStandard, "",
		"High-performance block storage for databases", "Database storage requiring high IOPS", "0.0255", "GB_MONTH", "GB per Month"},
	{"B88515", "Block Storage - Balanced", "Storage", "BLOCK_STORAGE", "block_storage", models.TierStandard, "",
		"Balanced performance and cost block storage", "General purpose storage for most applications", "0.0425", "GB_MONTH", "GB per Month"},
	{"B91235", "Object Storage - Standard", "Storage", "OBJECT_STORAGE", "object_storage", models.TierStandard, "",
		"Scalable object storage for backups and archives", "Backup, archive, and content distribution", "0.0255", "GB_MONTH", "GB per Month"},
	{"B91236", "File Storage - Standard", "Storage", "FILE_STORAGE", "file_storage", models.TierStandard, "",
		"Shared file system storage", "Shared storage across multiple compute instances", "0.085", "GB_MONTH", "GB per Month"},
	{"B91969", "Load Balancer - Flexible - 10 Mbps", "Networking", "LOAD_BALANCER", "load_balancer", models.TierStandard, "",
		"Basic load balancer for web applications", "Distribute traffic across multiple web servers", "0.025", "HOUR", "Hour"},
	{"B91968", "Load Balancer - Flexible - 100 Mbps", "Networking", "LOAD_BALANCER", "load_balancer", models.TierStandard, "",
		"Higher capacity load balancer", "High-traffic web applications and APIs", "0.25", "HOUR", "Hour"},
	{"B91234", "Virtual Cloud Network - NAT Gateway", "Networking", "NAT_GATEWAY", "vcn", models.TierStandard, "",
		"Secure outbound internet access for private resources", "Allow private instances to access internet securely", "0.045", "HOUR", "Hour"},
}

// FallbackServices returns a fresh copy of the embedded catalog.
func FallbackServices() []models.CatalogService {
	out := make([]models.CatalogService, 0, len(fallbackTable))
	for _, e := range fallbackTable {
		out = append(out, models.CatalogService{
			Identifier:          e.id,
			DisplayName:         e.name,
			Category:            e.category,
			SKUType:             e.sku,
			ProductFamily:       e.family,
			Tier:                e.tier,
			LicensingModel:      e.licensing,
			BusinessDescription: e.description,
			UseCase:             e.useCase,
			Pricing: models.Pricing{
				Currency:    "USD",
				UnitPrice:   decimal.RequireFromString(e.price),
				BillingUnit: e.unit,
				MetricName:  e.metric,
				Model:       "PAYG",
			},
		})
	}
	return out
}
