package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StorageProvider identifies which backend ended up serving an upload.
type StorageProvider string

const (
	ProviderCDN   StorageProvider = "cdn"
	ProviderLocal StorageProvider = "local"
)

// UploadResult is the uniform outcome of the upload fallback chain.
// Key is always a flat filename (no path separators); folder placement
// is encoded in the URL only. URL is directly fetchable by any HTTP
// client regardless of which provider served the upload.
type UploadResult struct {
	Success  bool            `json:"success"`
	Key      string          `json:"key"`
	URL      string          `json:"url"`
	Provider StorageProvider `json:"provider"`
	Message  string          `json:"message,omitempty"`
}

// MediaAsset stores metadata about an uploaded file. The bytes live on
// the CDN (or the local fallback directory), never in the database.
type MediaAsset struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstructorID primitive.ObjectID `bson:"instructorId" json:"instructorId"` // Link to the uploading instructor
	CourseID     primitive.ObjectID `bson:"courseId,omitempty" json:"courseId,omitempty"`
	LessonID     primitive.ObjectID `bson:"lessonId,omitempty" json:"lessonId,omitempty"`
	ObjectKey    string             `bson:"objectKey" json:"-"` // Flat filename used as the storage key - internal use
	Folder       string             `bson:"folder" json:"folder"`
	FileName     string             `bson:"fileName" json:"fileName"` // Original filename provided by the client
	ContentType  string             `bson:"contentType" json:"contentType"`
	Size         int64              `bson:"size" json:"size"`
	Provider     StorageProvider    `bson:"provider" json:"provider"`
	URL          string             `bson:"url" json:"url"`
	UploadedAt   time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
