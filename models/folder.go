package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder is a node in the tree. ParentID is nil for root folders and is
// assigned only at creation, never reassigned afterwards.
type Folder struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name      string              `bson:"name" json:"name"`
	ParentID  *primitive.ObjectID `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
