// internal/workers/bid/extract-document/models.go
package extractdocument

import "rfp-bid-engine/internal/models"

// Input optionally carries an inline document. When DocumentText is empty the
// handler selects a listing and reads its document from disk instead.
type Input struct {
	RFPID        string `json:"rfp_id,omitempty"`
	Title        string `json:"title,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
	DocumentText string `json:"document_text,omitempty"`
}

type Output struct {
	RFPID    string                   `json:"rfp_id"`
	Title    string                   `json:"title"`
	DueDate  string                   `json:"due_date"`
	Sections models.ExtractedSections `json:"sections"`
}
