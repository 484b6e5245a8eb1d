package models

// Tag represents a tag in the catalog
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
