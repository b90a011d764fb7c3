package channel

import (
	"strings"
	"time"
)

// Channel is a community chat stream scoped to one club.
type Channel struct {
	ID        string    `firestore:"id" json:"id"`
	ClubID    string    `firestore:"clubId" json:"clubId"`
	Name      string    `firestore:"name" json:"name"`
	Members   []string  `firestore:"members" json:"members"`
	CreatedBy string    `firestore:"createdBy" json:"createdBy"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

// Message lives in the channel's messages subcollection. Messages are
// append-only: they are never edited in place, only deleted.
type Message struct {
	ID        string    `firestore:"id" json:"id"`
	SenderID  string    `firestore:"senderId" json:"senderId"`
	Text      string    `firestore:"text" json:"text"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

type CreateChannelInput struct {
	ClubID string `json:"clubId"`
	Name   string `json:"name"`
}

func (in *CreateChannelInput) Trim() {
	in.ClubID = strings.TrimSpace(in.ClubID)
	in.Name = strings.TrimSpace(in.Name)
}

type PostMessageInput struct {
	ChannelID string `json:"channelId"`
	Text      string `json:"text"`
}

func (in *PostMessageInput) Trim() {
	in.ChannelID = strings.TrimSpace(in.ChannelID)
	in.Text = strings.TrimSpace(in.Text)
}
