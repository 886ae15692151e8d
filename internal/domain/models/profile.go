// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds the user-editable extras for a user. ID equals users._id.
type Profile struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Biography string             `bson:"biography" json:"biography"`

	AvatarSkin        string `bson:"avatar_skin,omitempty" json:"avatar_skin,omitempty"`
	AvatarClothing    string `bson:"avatar_clothing,omitempty" json:"avatar_clothing,omitempty"`
	AvatarBackground  string `bson:"avatar_background,omitempty" json:"avatar_background,omitempty"`
	AvatarGender      string `bson:"avatar_gender,omitempty" json:"avatar_gender,omitempty"`
	AvatarHair        string `bson:"avatar_hair,omitempty" json:"avatar_hair,omitempty"`
	AvatarAccessories string `bson:"avatar_accessories,omitempty" json:"avatar_accessories,omitempty"`
	AvatarFacialHair  string `bson:"avatar_facial_hair,omitempty" json:"avatar_facial_hair,omitempty"`
	AvatarEyebrows    string `bson:"avatar_eyebrows,omitempty" json:"avatar_eyebrows,omitempty"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
