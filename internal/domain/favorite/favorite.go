package favorite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

var ErrBadRequest = errors.New("bad request")

func IsErrBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }

// favorites are stored per user and per kind:
// favorites/{uid}/{type}/{targetId}, where type is "clubs" or "educators".
type Favorite struct {
	TargetID string    `firestore:"targetId" json:"targetId"`
	AddedAt  time.Time `firestore:"addedAt" json:"addedAt"`
}

const (
	TypeClubs     = "clubs"
	TypeEducators = "educators"
)

func validType(t string) bool {
	return t == TypeClubs || t == TypeEducators
}

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) col(uid, favType string) *firestore.CollectionRef {
	return s.client.Collection("favorites").Doc(uid).Collection(favType)
}

func (s *Service) Add(ctx context.Context, uid, favType, targetID string) error {
	uid = strings.TrimSpace(uid)
	favType = strings.ToLower(strings.TrimSpace(favType))
	targetID = strings.TrimSpace(targetID)

	if uid == "" || targetID == "" {
		return fmt.Errorf("%w: uid and targetId are required", ErrBadRequest)
	}
	if !validType(favType) {
		return fmt.Errorf("%w: type must be clubs or educators", ErrBadRequest)
	}

	_, err := s.col(uid, favType).Doc(targetID).Set(ctx, Favorite{
		TargetID: targetID,
		AddedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, uid, favType, targetID string) error {
	uid = strings.TrimSpace(uid)
	favType = strings.ToLower(strings.TrimSpace(favType))
	targetID = strings.TrimSpace(targetID)

	if uid == "" || targetID == "" {
		return fmt.Errorf("%w: uid and targetId are required", ErrBadRequest)
	}
	if !validType(favType) {
		return fmt.Errorf("%w: type must be clubs or educators", ErrBadRequest)
	}

	if _, err := s.col(uid, favType).Doc(targetID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, uid, favType string) ([]Favorite, error) {
	uid = strings.TrimSpace(uid)
	favType = strings.ToLower(strings.TrimSpace(favType))
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	if !validType(favType) {
		return nil, fmt.Errorf("%w: type must be clubs or educators", ErrBadRequest)
	}

	it := s.col(uid, favType).OrderBy("addedAt", firestore.Desc).Documents(ctx)
	out := []Favorite{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list favorites: %w", err)
		}
		var f Favorite
		if err := doc.DataTo(&f); err != nil {
			continue
		}
		if f.TargetID == "" {
			f.TargetID = doc.Ref.ID
		}
		out = append(out, f)
	}
	return out, nil
}
