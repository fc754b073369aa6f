// internal/workers/bom/render-workbook/config.go
package renderworkbook

type Config struct {
	Title           string
	BOMSheet        string
	SummarySheet    string
	AssumptionSheet string
	DefaultCurrency string
	FilenamePrefix  string
}

func LoadConfig() *Config {
	return &Config{
		Title:           "ORACLE CLOUD INFRASTRUCTURE BILL OF MATERIALS",
		BOMSheet:        "OCI Bill of Materials",
		SummarySheet:    "Compliance Summary",
		AssumptionSheet: "Assumptions & Notes",
		DefaultCurrency: "USD",
		FilenamePrefix:  "OCI-BOM-",
	}
}
