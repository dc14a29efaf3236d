package types

import "time"

// OwnerRecord is one owner found in a delivery protocol.
type OwnerRecord struct {
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"` // digits only
}

type Page struct {
	Number int
	Text   string
	Blocks []string // nil when the extractor did not segment the page
}

type Document struct {
	Name  string
	Pages []Page
}

// Extraction is what gets stored under an extraction id.
type Extraction struct {
	ID        string        `json:"id"`
	Provider  string        `json:"provider"`
	Filename  string        `json:"filename"`
	Pages     int           `json:"pages"`
	Records   []OwnerRecord `json:"records"`
	CreatedAt time.Time     `json:"created_at"`
}
