package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"pawclub/backend/internal/utils"
)

// Collection keeps the historical capitalized name.
const Collection = "Bookings"

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) col() *firestore.CollectionRef {
	return s.client.Collection(Collection)
}

func (s *Service) CreateBooking(ctx context.Context, uid string, in CreateBookingInput) (*Booking, error) {
	in.Trim()
	uid = strings.TrimSpace(uid)

	if in.ClubID == "" {
		return nil, fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: missing uid", ErrUnauthorized)
	}

	startAt, err := utils.ParseTime(in.StartAt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startAt", ErrBadRequest)
	}
	endAt, err := utils.ParseTime(in.EndAt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endAt", ErrBadRequest)
	}
	if !endAt.After(startAt) {
		return nil, fmt.Errorf("%w: endAt must be after startAt", ErrBadRequest)
	}

	now := time.Now().UTC()
	ref := s.col().NewDoc()
	b := Booking{
		ID:         ref.ID,
		ClubID:     in.ClubID,
		EducatorID: in.EducatorID,
		UserID:     uid,
		FieldID:    in.FieldID,
		StartAt:    startAt,
		EndAt:      endAt,
		Status:     StatusPending,
		Price:      in.Price,
		Currency:   in.Currency,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := ref.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	return &b, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID string) (*Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrBadRequest)
	}

	doc, err := s.col().Doc(bookingID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: booking not found", ErrNotFound)
	}
	var b Booking
	if err := doc.DataTo(&b); err != nil {
		return nil, fmt.Errorf("failed to decode booking: %w", err)
	}
	if b.ID == "" {
		b.ID = bookingID
	}
	return &b, nil
}

func (s *Service) ListBookings(ctx context.Context, in ListBookingsInput) ([]Booking, error) {
	if in.ClubID == "" && in.UserID == "" && in.EducatorID == "" {
		return nil, fmt.Errorf("%w: clubId, userId or educatorId is required", ErrBadRequest)
	}

	query := s.col().Query
	if in.ClubID != "" {
		query = query.Where("clubId", "==", in.ClubID)
	}
	if in.UserID != "" {
		query = query.Where("userId", "==", in.UserID)
	}
	if in.EducatorID != "" {
		query = query.Where("educatorId", "==", in.EducatorID)
	}
	if in.Status != "" {
		query = query.Where("status", "==", strings.ToLower(in.Status))
	}

	limit := in.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	query = query.OrderBy("startAt", firestore.Desc).Limit(limit)

	it := query.Documents(ctx)
	out := []Booking{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bookings: %w", err)
		}
		var b Booking
		if err := doc.DataTo(&b); err != nil {
			continue
		}
		if b.ID == "" {
			b.ID = doc.Ref.ID
		}
		out = append(out, b)
	}
	return out, nil
}

// UpdateStatus overwrites the booking status. The status value must be
// a known one; transitions themselves are not guarded.
func (s *Service) UpdateStatus(ctx context.Context, bookingID, newStatus string) (*Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	newStatus = strings.ToLower(strings.TrimSpace(newStatus))

	if bookingID == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrBadRequest)
	}
	if !IsValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: status must be one of: pending, confirmed, paid, completed, cancelled", ErrBadRequest)
	}

	if _, err := s.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}

	_, err := s.col().Doc(bookingID).Set(ctx, map[string]interface{}{
		"status":    newStatus,
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return s.GetBooking(ctx, bookingID)
}
