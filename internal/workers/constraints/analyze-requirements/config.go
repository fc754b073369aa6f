// internal/workers/constraints/analyze-requirements/config.go
package analyzerequirements

type Config struct {
	// AskOptional adds the sizing and availability questions whenever a
	// critical question is asked.
	AskOptional       bool
	AvailabilityTerms []string
}

func LoadConfig() *Config {
	return &Config{
		AskOptional: true,
		AvailabilityTerms: []string{
			"availability", "available", "uptime", "disaster", "failover", "redundan", "backup", "sla", "ha ",
		},
	}
}
