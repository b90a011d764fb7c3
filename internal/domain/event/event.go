package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"pawclub/backend/internal/utils"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

func IsErrNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsErrBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }

// Event is a club event (open training, competition, workshop).
type Event struct {
	ID          string    `firestore:"id" json:"id"`
	ClubID      string    `firestore:"clubId" json:"clubId"`
	Title       string    `firestore:"title" json:"title"`
	Description string    `firestore:"description,omitempty" json:"description,omitempty"`
	StartAt     time.Time `firestore:"startAt" json:"startAt"`
	EndAt       time.Time `firestore:"endAt,omitempty" json:"endAt,omitempty"`
	Capacity    int       `firestore:"capacity,omitempty" json:"capacity,omitempty"`
	CreatedBy   string    `firestore:"createdBy" json:"createdBy"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}

type CreateEventInput struct {
	ClubID      string `json:"clubId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartAt     string `json:"startAt"`
	EndAt       string `json:"endAt,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`
}

func (in *CreateEventInput) Trim() {
	in.ClubID = strings.TrimSpace(in.ClubID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.StartAt = strings.TrimSpace(in.StartAt)
	in.EndAt = strings.TrimSpace(in.EndAt)
}

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) col() *firestore.CollectionRef {
	return s.client.Collection("events")
}

func (s *Service) CreateEvent(ctx context.Context, creatorUID string, in CreateEventInput) (*Event, error) {
	in.Trim()
	if in.ClubID == "" || in.Title == "" {
		return nil, fmt.Errorf("%w: clubId and title are required", ErrBadRequest)
	}

	startAt, err := utils.ParseTime(in.StartAt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startAt", ErrBadRequest)
	}
	var endAt time.Time
	if in.EndAt != "" {
		endAt, err = utils.ParseTime(in.EndAt)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid endAt", ErrBadRequest)
		}
	}

	now := time.Now().UTC()
	ref := s.col().NewDoc()
	ev := Event{
		ID:          ref.ID,
		ClubID:      in.ClubID,
		Title:       in.Title,
		Description: utils.TrimMax(in.Description, 2000),
		StartAt:     startAt,
		EndAt:       endAt,
		Capacity:    in.Capacity,
		CreatedBy:   strings.TrimSpace(creatorUID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := ref.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &ev, nil
}

// ListEvents returns upcoming events for a club, soonest first.
func (s *Service) ListEvents(ctx context.Context, clubID string, includePast bool, limit int) ([]Event, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := s.col().Where("clubId", "==", clubID)
	if !includePast {
		query = query.Where("startAt", ">=", time.Now().UTC())
	}
	it := query.OrderBy("startAt", firestore.Asc).Limit(limit).Documents(ctx)

	out := []Event{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
		var ev Event
		if err := doc.DataTo(&ev); err != nil {
			continue
		}
		if ev.ID == "" {
			ev.ID = doc.Ref.ID
		}
		out = append(out, ev)
	}
	return out, nil
}
