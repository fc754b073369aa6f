// internal/workers/documents/parse-document/models.go
package parsedocument

type DocumentType string

const (
	DocumentText  DocumentType = "text"
	DocumentExcel DocumentType = "excel"
	DocumentWord  DocumentType = "word"
	DocumentPDF   DocumentType = "pdf"
	DocumentImage DocumentType = "image"
)

type Input struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"-"`
}

type Output struct {
	Content      string       `json:"content"`
	Filename     string       `json:"filename"`
	DocumentType DocumentType `json:"documentType"`
	Truncated    bool         `json:"truncated,omitempty"`
}
