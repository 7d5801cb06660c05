package models

// Spreadsheet is one entry of the file listing.
type Spreadsheet struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
