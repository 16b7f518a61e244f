// internal/domain/models/notification.go
package models

import "time"

// NotificationKind identifies the membership event a notification describes.
type NotificationKind string

const (
	NotifyMemberJoined  NotificationKind = "member_joined"
	NotifyMemberAdded   NotificationKind = "member_added"
	NotifyMemberRemoved NotificationKind = "member_removed"
	NotifyMemberLeft    NotificationKind = "member_left"
	NotifyAdminPromoted NotificationKind = "admin_promoted"
	NotifyGroupDeleted  NotificationKind = "group_deleted"
)

// Notification is an in-app notification addressed to one user. It is
// created as a best-effort side effect of a successful membership change;
// delivery never feeds back into the membership operation's result.
type Notification struct {
	ID        string           `bson:"_id" json:"id"`
	UserID    string           `bson:"user_id" json:"userId"`
	GroupID   string           `bson:"group_id" json:"groupId"`
	GroupName string           `bson:"group_name" json:"groupName"`
	Kind      NotificationKind `bson:"kind" json:"kind"`
	Message   string           `bson:"message" json:"message"`
	ActorID   string           `bson:"actor_id" json:"actorId"`
	Read      bool             `bson:"read" json:"read"`
	CreatedAt time.Time        `bson:"created_at" json:"createdAt"`
}
