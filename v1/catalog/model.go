package catalog

import "time"

// ImageRecord is the catalog row for one indexed image. The raw bytes live
// in the image store under ObjectKey; the embedding lives in the vector
// database under the same ID.
type ImageRecord struct {
	// ID is the point ID shared with the vector database (a UUID).
	ID string `gorm:"primaryKey;type:uuid"`

	// ObjectKey locates the image bytes in the object store.
	ObjectKey string `gorm:"uniqueIndex;not null"`

	// Caption is the natural-language description used for text-side
	// embedding, when one was supplied.
	Caption string

	// Label is an optional class label, e.g. "cat".
	Label string `gorm:"index"`

	// Width, Height and Format describe the stored image.
	Width  int
	Height int
	Format string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the table name stable regardless of gorm pluralization
// settings.
func (ImageRecord) TableName() string {
	return "image_records"
}
