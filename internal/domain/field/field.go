package field

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

func IsErrNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsErrBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }

// Field is a training ground belonging to a club.
type Field struct {
	ID        string    `firestore:"id" json:"id"`
	ClubID    string    `firestore:"clubId" json:"clubId"`
	Name      string    `firestore:"name" json:"name"`
	Address   string    `firestore:"address,omitempty" json:"address,omitempty"`
	Surface   string    `firestore:"surface,omitempty" json:"surface,omitempty"` // grass / sand / indoor
	Indoor    bool      `firestore:"indoor" json:"indoor"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

type CreateFieldInput struct {
	ClubID  string `json:"clubId"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Surface string `json:"surface,omitempty"`
	Indoor  bool   `json:"indoor,omitempty"`
}

func (in *CreateFieldInput) Trim() {
	in.ClubID = strings.TrimSpace(in.ClubID)
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Surface = strings.ToLower(strings.TrimSpace(in.Surface))
}

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) col() *firestore.CollectionRef {
	return s.client.Collection("fields")
}

func (s *Service) CreateField(ctx context.Context, in CreateFieldInput) (*Field, error) {
	in.Trim()
	if in.ClubID == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: clubId and name are required", ErrBadRequest)
	}

	now := time.Now().UTC()
	ref := s.col().NewDoc()
	f := Field{
		ID:        ref.ID,
		ClubID:    in.ClubID,
		Name:      in.Name,
		Address:   in.Address,
		Surface:   in.Surface,
		Indoor:    in.Indoor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := ref.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create field: %w", err)
	}
	return &f, nil
}

func (s *Service) ListFields(ctx context.Context, clubID string) ([]Field, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}

	it := s.col().Where("clubId", "==", clubID).Documents(ctx)
	out := []Field{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list fields: %w", err)
		}
		var f Field
		if err := doc.DataTo(&f); err != nil {
			continue
		}
		if f.ID == "" {
			f.ID = doc.Ref.ID
		}
		out = append(out, f)
	}
	return out, nil
}
