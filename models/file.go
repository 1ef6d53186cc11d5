package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File holds binary content together with its metadata. Data is owned
// exclusively by the record and is never serialized to JSON; listing
// queries must use projections that leave it out entirely.
type File struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	OriginalName string              `bson:"original_name" json:"original_name"`
	MimeType     string              `bson:"mime_type" json:"mime_type"`
	Size         int64               `bson:"size" json:"size"`
	Data         []byte              `bson:"data,omitempty" json:"-"`
	FolderID     *primitive.ObjectID `bson:"folder_id,omitempty" json:"folder_id,omitempty"`
	UserID       primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Path         string              `bson:"path,omitempty" json:"path,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
}
