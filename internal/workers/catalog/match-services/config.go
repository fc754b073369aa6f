// internal/workers/catalog/match-services/config.go
package matchservices

type Config struct {
	MaxResults int
	// MinScore is the normalized score a service needs to be listed
	// beyond the per-category coverage picks.
	MinScore          float64
	MaxRawScore       float64
	EnterprisePenalty float64

	CategoryWeight  float64
	ProductWeight   float64
	TierWeight      float64
	LicensingWeight float64
	PinWeight       float64
}

func LoadConfig() *Config {
	return &Config{
		MaxResults:        20,
		MinScore:          0.1,
		MaxRawScore:       2.0,
		EnterprisePenalty: 0.7,
		CategoryWeight:    0.5,
		ProductWeight:     0.8,
		TierWeight:        0.3,
		LicensingWeight:   0.4,
		PinWeight:         0.5,
	}
}
