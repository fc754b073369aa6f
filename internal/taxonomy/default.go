// internal/taxonomy/default.go
package taxonomy

import "oci-bom-generator/internal/models"

var defaultCategories = []Category{
	{
		Key:          "database",
		CatalogNames: []string{"database"},
		Terms:        []string{"database", "db", "data"},
		Products: []Product{
			{Key: "base_database", Patterns: []string{"base database", "base db", "database service"}, SKUTypes: []string{"DATABASE_BYOL", "DATABASE_LI"}, Value: "Standard Oracle Database for general workloads"},
			{Key: "autonomous_database", Patterns: []string{"autonomous", "adb"}, SKUTypes: []string{"DATABASE_AUTO"}, Value: "Self-managing database with built-in AI optimization"},
			{Key: "exadata", Patterns: []string{"exadata"}, SKUTypes: []string{"EXADATA"}, Value: "High-performance engineered system for mission-critical workloads"},
			{Key: "mysql", Patterns: []string{"mysql"}, SKUTypes: []string{"MYSQL"}, Value: "Fully managed MySQL service"},
		},
	},
	{
		Key:          "compute",
		CatalogNames: []string{"compute"},
		Terms:        []string{"compute", "server", "instance", "vm"},
		Products: []Product{
			{Key: "standard_compute", Patterns: []string{"compute", "server", "instance", "vm", "virtual machine"}, SKUTypes: []string{"OCPU", "MEMORY"}, Value: "Flexible virtual machines for general workloads"},
			{Key: "high_performance", Patterns: []string{"hpc", "high performance", "performance compute"}, SKUTypes: []string{"HPC"}, Value: "Optimized for compute-intensive applications"},
			{Key: "gpu_instances", Patterns: []string{"gpu", "graphics", "ai compute", "machine learning"}, SKUTypes: []string{"GPU"}, Value: "GPU-accelerated compute for AI/ML workloads"},
		},
	},
	{
		Key:          "storage",
		CatalogNames: []string{"storage"},
		Terms:        []string{"storage", "disk", "backup", "file"},
		Products: []Product{
			{Key: "block_storage", Patterns: []string{"block storage", "block volume", "disk storage", "disk"}, SKUTypes: []string{"BLOCK_STORAGE"}, Value: "High-performance persistent storage for instances"},
			{Key: "object_storage", Patterns: []string{"object storage", "bucket storage", "backup"}, SKUTypes: []string{"OBJECT_STORAGE"}, Value: "Scalable storage for unstructured data and backups"},
			{Key: "file_storage", Patterns: []string{"file storage", "nfs", "shared storage"}, SKUTypes: []string{"FILE_STORAGE"}, Value: "Shared file system storage"},
		},
	},
	{
		Key:          "networking",
		CatalogNames: []string{"networking", "network"},
		Terms:        []string{"load balancer", "network", "networking", "vcn"},
		Products: []Product{
			{Key: "load_balancer", Patterns: []string{"load balancer", "lb", "load balancing"}, SKUTypes: []string{"LOAD_BALANCER"}, Value: "Distribute traffic across multiple servers"},
			{Key: "vcn", Patterns: []string{"vcn", "virtual network", "cloud network", "nat gateway"}, SKUTypes: []string{"NAT_GATEWAY"}, Value: "Private network infrastructure in the cloud"},
		},
	},
}

var defaultPreferences = []PreferenceRule{
	{
		Phrases:  []string{"budget-conscious", "budget conscious", "cost-effective", "cost effective", "basic", "cheap"},
		Tier:     models.TierStandard,
		Optimize: models.OptimizeCost,
	},
	{
		Phrases:  []string{"enterprise", "premium", "high-performance", "high performance", "fast"},
		Tier:     models.TierEnterprise,
		Optimize: models.OptimizePerformance,
	},
	{
		Phrases:   []string{"byol", "bring your own", "existing oracle license", "existing license", "own license"},
		Licensing: models.LicensingBYOL,
	},
	{
		Phrases:   []string{"license included", "new license", "no license"},
		Licensing: models.LicensingLicenseIncluded,
	},
}

var defaultLicensing = map[models.LicensingModel][]string{
	models.LicensingBYOL:            {"byol", "bring your own", "existing license", "own license"},
	models.LicensingLicenseIncluded: {"license included", "new license", "no license"},
}

// defaultTerminology maps customer words onto the words catalog entries use.
var defaultTerminology = map[string][]string{
	"server":   {"compute", "instance"},
	"vm":       {"compute"},
	"instance": {"compute"},
	"db":       {"database"},
	"lb":       {"load", "balancer"},
	"disk":     {"block"},
	"backup":   {"object"},
	"network":  {"networking", "vcn"},
	"nfs":      {"file"},
}

var defaultSizing = []SizingRange{
	{Min: 1, Max: 25, Profile: models.SizingSmall},
	{Min: 26, Max: 100, Profile: models.SizingMedium},
	{Min: 101, Max: 500, Profile: models.SizingLarge},
	{Min: 501, Max: 1000, Profile: models.SizingEnterpriseSmall},
	{Min: 1001, Max: 5000, Profile: models.SizingEnterpriseLarge},
}
