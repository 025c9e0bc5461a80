package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course represents a published course in the catalog.
type Course struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstructorID primitive.ObjectID `bson:"instructorId" json:"instructorId"` // Link to the Instructor who owns this course
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`

	Category     string  `bson:"category,omitempty" json:"category,omitempty"`     // e.g., "Programming", "Design"
	Difficulty   string  `bson:"difficulty,omitempty" json:"difficulty,omitempty"` // e.g., "Beginner", "Intermediate", "Advanced"
	Price        float64 `bson:"price" json:"price"`
	ThumbnailURL string  `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"` // Populated after a media upload
	PreviewURL   string  `bson:"previewUrl,omitempty" json:"previewUrl,omitempty"`     // Optional promo video

	Published bool      `bson:"published" json:"published"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
