// internal/workers/documents/parse-document/config.go
package parsedocument

type Config struct {
	MaxBytes int64
	MaxChars int
	// VisionProvider reads PDFs and images. It must accept attachments.
	VisionProvider string
}

func LoadConfig() *Config {
	return &Config{
		MaxBytes:       10 * 1024 * 1024,
		MaxChars:       50000,
		VisionProvider: "gemini",
	}
}
