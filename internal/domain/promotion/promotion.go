package promotion

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

// Promotion is a time-boxed offer published by a club.
type Promotion struct {
	ID        string    `firestore:"id" json:"id"`
	ClubID    string    `firestore:"clubId" json:"clubId"`
	Title     string    `firestore:"title" json:"title"`
	Body      string    `firestore:"body,omitempty" json:"body,omitempty"`
	StartsAt  time.Time `firestore:"startsAt" json:"startsAt"`
	ExpiresAt time.Time `firestore:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

func (p *Promotion) ActiveAt(t time.Time) bool {
	return !t.Before(p.StartsAt) && t.Before(p.ExpiresAt)
}

type CreatePromotionInput struct {
	ClubID    string `json:"clubId"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	StartsAt  string `json:"startsAt"`
	ExpiresAt string `json:"expiresAt"`
}

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) col() *firestore.CollectionRef {
	return s.client.Collection("promotions")
}

func (s *Service) CreatePromotion(ctx context.Context, in CreatePromotionInput) (*Promotion, error) {
	in.ClubID = strings.TrimSpace(in.ClubID)
	in.Title = strings.TrimSpace(in.Title)
	if in.ClubID == "" || in.Title == "" {
		return nil, fmt.Errorf("%w: clubId and title are required", ErrBadRequest)
	}

	startsAt, err := utils.ParseTime(strings.TrimSpace(in.StartsAt))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startsAt", ErrBadRequest)
	}
	expiresAt, err := utils.ParseTime(strings.TrimSpace(in.ExpiresAt))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid expiresAt", ErrBadRequest)
	}
	if !expiresAt.After(startsAt) {
		return nil, fmt.Errorf("%w: expiresAt must be after startsAt", ErrBadRequest)
	}

	ref := s.col().NewDoc()
	p := Promotion{
		ID:        ref.ID,
		ClubID:    in.ClubID,
		Title:     in.Title,
		Body:      strings.TrimSpace(in.Body),
		StartsAt:  startsAt,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := ref.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}
	return &p, nil
}

// ListPromotions returns a club's promotions; activeOnly filters on the
// client side after a single range query, the way the mobile hooks did.
func (s *Service) ListPromotions(ctx context.Context, clubID string, activeOnly bool) ([]Promotion, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}

	it := s.col().Where("clubId", "==", clubID).Documents(ctx)
	now := time.Now().UTC()
	out := []Promotion{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list promotions: %w", err)
		}
		var p Promotion
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		if p.ID == "" {
			p.ID = doc.Ref.ID
		}
		if activeOnly && !p.ActiveAt(now) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
