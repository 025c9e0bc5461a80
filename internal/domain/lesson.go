package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lesson represents a single lesson within a Course.
type Lesson struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID     primitive.ObjectID `bson:"courseId" json:"courseId"`         // Link back to the course
	InstructorID primitive.ObjectID `bson:"instructorId" json:"instructorId"` // Denormalized for easier query/ownership checks
	Title        string             `bson:"title" json:"title"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Sequence     int                `bson:"sequence" json:"sequence"` // Order within the course
	Duration     int                `bson:"duration,omitempty" json:"duration,omitempty"` // Seconds, from the uploaded video
	VideoURL     string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
