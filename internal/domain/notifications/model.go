package notifications

import (
	"strings"
	"time"
)

// Notification is an in-app notification item, stored under
// notifications/{uid}/items. Delivery to the device is out of scope
// here; clients subscribe to the subcollection.
type Notification struct {
	ID        string                 `firestore:"id" json:"id"`
	Title     string                 `firestore:"title" json:"title"`
	Body      string                 `firestore:"body" json:"body"`
	Type      string                 `firestore:"type" json:"type"`
	Data      map[string]interface{} `firestore:"data,omitempty" json:"data,omitempty"`
	ClubID    string                 `firestore:"clubId,omitempty" json:"clubId,omitempty"`
	Read      bool                   `firestore:"read" json:"read"`
	ReadAt    *time.Time             `firestore:"readAt,omitempty" json:"readAt,omitempty"`
	SenderUID string                 `firestore:"senderUid,omitempty" json:"senderUid,omitempty"`
	CreatedAt time.Time              `firestore:"createdAt" json:"createdAt"`
}

type CreateNotificationInput struct {
	TargetUID string                 `json:"targetUid"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body,omitempty"`
	Type      string                 `json:"type,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	ClubID    string                 `json:"clubId,omitempty"`
}

func (in *CreateNotificationInput) Trim() {
	in.TargetUID = strings.TrimSpace(in.TargetUID)
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	in.Type = strings.TrimSpace(in.Type)
	in.ClubID = strings.TrimSpace(in.ClubID)
}

type MarkReadInput struct {
	IDs     []string `json:"ids,omitempty"`
	MarkAll bool     `json:"markAll,omitempty"`
}

func (in *MarkReadInput) Trim() {
	out := in.IDs[:0]
	for _, id := range in.IDs {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}
	in.IDs = out
}

type NotificationsListResult struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
}
