// internal/domain/models/user.go
package models

import "time"

// User is a profile record in the user directory. This service only
// reads users (for share-code resolution and notification text); account
// creation and authentication live upstream.
type User struct {
	ID          string `bson:"_id" json:"id"`
	DisplayName string `bson:"display_name" json:"displayName"`
	Email       string `bson:"email" json:"email"`

	// ShareCode is the user's personal invite code. It shares a namespace
	// with group share codes for uniqueness checks at generation time.
	ShareCode string `bson:"share_code" json:"shareCode"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
