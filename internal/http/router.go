package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pawclub/backend/internal/config"
	"pawclub/backend/internal/domain/affiliation"
	"pawclub/backend/internal/domain/booking"
	"pawclub/backend/internal/domain/channel"
	"pawclub/backend/internal/domain/club"
	"pawclub/backend/internal/domain/educator"
	"pawclub/backend/internal/domain/event"
	"pawclub/backend/internal/domain/favorite"
	"pawclub/backend/internal/domain/field"
	"pawclub/backend/internal/domain/notifications"
	"pawclub/backend/internal/domain/payment"
	"pawclub/backend/internal/domain/promotion"
	"pawclub/backend/internal/domain/rating"
	"pawclub/backend/internal/domain/user"
	"pawclub/backend/internal/handlers"
	"pawclub/backend/internal/httpjson"
	"pawclub/backend/internal/middleware"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	Cfg              config.Config
	AuthClient       *auth.Client
	UserRepo         *user.Repo
	EducatorRepo     *educator.Repo
	ClubSvc          *club.Service
	AffiliationSvc   *affiliation.Service
	ChannelSvc       *channel.Service
	BookingSvc       *booking.Service
	NotificationsSvc *notifications.Service
	EventSvc         *event.Service
	FieldSvc         *field.Service
	PromotionSvc     *promotion.Service
	FavoriteSvc      *favorite.Service
	RatingSvc        *rating.Service
	PaymentSvc       *payment.Service
	Uploads          *handlers.Uploads
}

// actorRole maps the caller's claims onto the invite direction: an
// educator acts as "educator", everyone else acts for their club.
func actorRole(claims map[string]any) string {
	if middleware.IsEducator(claims) {
		return affiliation.RoleEducator
	}
	return affiliation.RoleClub
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Write(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// ===== Stripe Webhook (no auth required) =====
	if d.PaymentSvc != nil {
		r.Post("/v1/stripe/webhook", d.PaymentSvc.HandleWebhook)
	}

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.AuthClient))

		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			httpjson.Write(w, 200, map[string]any{
				"uid":    au.UID,
				"email":  au.Email,
				"claims": au.Claims,
			})
		})

		// ===== User profile bootstrap =====
		pr.Post("/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			if err := d.UserRepo.UpsertMinimal(r.Context(), au.UID, au.Email); err != nil {
				httpjson.Error(w, 500, "failed to save profile")
				return
			}
			httpjson.Write(w, 200, map[string]any{"success": true})
		})

		// ===== Club routes =====
		pr.Post("/v1/clubs", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in club.CreateClubInput
			if err := httpjson.Read(r, &in); err != nil {
				httpjson.Error(w, 400, "invalid json")
				return
			}
			if in.OwnerEmail == "" {
				in.OwnerEmail = au.Email
			}

			out, err := d.ClubSvc.CreateClub(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapClubError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 201, out)
		})

		pr.Get("/v1/clubs/search", func(w http.ResponseWriter, r *http.Request) {
			q := strings.TrimSpace(r.URL.Query().Get("q"))
			limit := 20
			if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
				if l, err := strconv.Atoi(limitStr); err == nil {
					limit = l
				}
			}
			out, err := d.ClubSvc.SearchClubs(r.Context(), q, limit)
			if err != nil {
				status, msg := mapClubError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 200, map[string]any{"clubs": out})
		})

		pr.Get("/v1/clubs/{clubId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ClubSvc.GetClub(r.Context(), chi.URLParam(r, "clubId"))
			if err != nil {
				status, msg := mapClubError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 200, out)
		})

		pr.Put("/v1/clubs/{clubId}", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			clubId := chi.URLParam(r, "clubId")

			var updates map[string]interface{}
			if err := httpjson.Read(r, &updates); err != nil {
				httpjson.Error(w, 400, "invalid json")
				return
			}

			if err := d.ClubSvc.UpdateClub(r.Context(), au.UID, clubId, updates); err != nil {
				status, msg := mapClubError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 200, map[string]any{"success": true})
		})

		pr.Post("/v1/clubs/{clubId}/joinRequests", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in club.RequestJoinInput
			if err := httpjson.Read(r, &in); err != nil {
				httpjson.Error(w, 400, "invalid json")
				return
			}
			in.ClubID = chi.URLParam(r, "clubId")
			if in.Email == "" {
				in.Email = au.Email
			}

			out, err := d.ClubSvc.RequestJoin(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapClubError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 201, out)
		})

		// approve / reject consume the pending entry; a second call for
		// the same user 404s
		pr.Post("/v1/clubs/{clubId}/joinRequests/{userId}/{action}", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in club.ApproveRejectInput
			if r.ContentLength > 0 {
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}
			}
			in.ClubID = chi.URLParam(r, "clubId")
			in.UserID = chi.URLParam(r, "userId")
			in.Action = chi.URLParam(r, "action")

			out, err := d.ClubSvc.ApproveOrRejectMember(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapClubError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 200, out)
		})

		pr.Get("/v1/clubs/{clubId}/members", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.ClubSvc.ListMembers(r.Context(), chi.URLParam(r, "clubId"))
			if err != nil {
				status, msg := mapClubError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 200, map[string]any{"members": out})
		})

		pr.Delete("/v1/clubs/{clubId}/members/{userId}", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			err := d.ClubSvc.RemoveMember(r.Context(), au.UID, chi.URLParam(r, "clubId"), chi.URLParam(r, "userId"))
			if err != nil {
				status, msg := mapClubError(err)
				httpjson.Error(w, status, msg)
				return
			}
			httpjson.Write(w, 200, map[string]any{"success": true})
		})

		// ===== Educator routes =====
		pr.Put("/v1/educators/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			if !middleware.IsEducator(au.Claims) {
				httpjson.Error(w, 403, "educator claim required")
				return
			}

			var in educator.UpsertEducatorInput
			if err := httpjson.Read(r, &in); err != nil {
				httpjson.Error(w, 400, "invalid json")
				return
			}
			if in.Email == "" {
				in.Email = au.Email
			}

			out, err := d.EducatorRepo.Upsert(r.Context(), au.UID, in)
			if err != nil {
				httpjson.Error(w, 400, err.Error())
				return
			}
			httpjson.Write(w, 200, out)
		})

		pr.Get("/v1/educators/{educatorId}", func(w http.ResponseWriter, r *http.Request) {
			out, err := d.EducatorRepo.Get(r.Context(), chi.URLParam(r, "educatorId"))
			if err != nil {
				httpjson.Error(w, 404, "educator not found")
				return
			}
			httpjson.Write(w, 200, out)
		})

		pr.Get("/v1/clubs/{clubId}/educators", func(w http.ResponseWriter, r *http.Request) {
			limit := 50
			if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
				if l, err := strconv.Atoi(limitStr); err == nil {
					limit = l
				}
			}
			out, err := d.EducatorRepo.ListByClub(r.Context(), chi.URLParam(r, "clubId"), limit)
			if err != nil {
				httpjson.Error(w, 500, "failed to list educators")
				return
			}
			httpjson.Write(w, 200, map[string]any{"educators": out})
		})

		// ===== Affiliation routes =====
		if d.AffiliationSvc != nil {
			pr.Post("/v1/affiliations/invites", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in affiliation.CreateInviteInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				out, err := d.AffiliationSvc.CreateInviteOrRequest(r.Context(), actorRole(au.Claims), in)
				if err != nil {
					status, msg := mapAffiliationError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 201, out)
			})

			pr.Post("/v1/affiliations/invites/{clubId}/{educatorId}/accept", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				out, err := d.AffiliationSvc.AcceptInviteOrRequest(r.Context(), actorRole(au.Claims),
					chi.URLParam(r, "clubId"), chi.URLParam(r, "educatorId"))
				if err != nil {
					status, msg := mapAffiliationError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, out)
			})

			pr.Post("/v1/affiliations/invites/{clubId}/{educatorId}/reject", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				out, err := d.AffiliationSvc.RejectInviteOrRequest(r.Context(), actorRole(au.Claims),
					chi.URLParam(r, "clubId"), chi.URLParam(r, "educatorId"))
				if err != nil {
					status, msg := mapAffiliationError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, out)
			})

			pr.Post("/v1/affiliations/invites/{clubId}/{educatorId}/cancel", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				out, err := d.AffiliationSvc.CancelInviteOrRequest(r.Context(), actorRole(au.Claims),
					chi.URLParam(r, "clubId"), chi.URLParam(r, "educatorId"))
				if err != nil {
					status, msg := mapAffiliationError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, out)
			})

			pr.Delete("/v1/affiliations/{clubId}/{educatorId}", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				clubId := chi.URLParam(r, "clubId")
				educatorId := chi.URLParam(r, "educatorId")

				// the educator may leave on their own; otherwise owner or admin
				if au.UID != educatorId && !middleware.IsAdmin(au.Claims) {
					c, err := d.ClubSvc.GetClub(r.Context(), clubId)
					if err != nil || !c.IsOwner(au.UID) {
						httpjson.Error(w, 403, "only the club owner or the educator can remove the affiliation")
						return
					}
				}

				if err := d.AffiliationSvc.RemoveAffiliation(r.Context(), clubId, educatorId); err != nil {
					status, msg := mapAffiliationError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"success": true})
			})

			pr.Get("/v1/clubs/{clubId}/invites", func(w http.ResponseWriter, r *http.Request) {
				onlyPending := r.URL.Query().Get("pending") == "true"
				out, err := d.AffiliationSvc.ListInvitesForClub(r.Context(), chi.URLParam(r, "clubId"), onlyPending)
				if err != nil {
					status, msg := mapAffiliationError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"invites": out})
			})

			pr.Get("/v1/educators/{educatorId}/invites", func(w http.ResponseWriter, r *http.Request) {
				onlyPending := r.URL.Query().Get("pending") == "true"
				out, err := d.AffiliationSvc.ListInvitesForEducator(r.Context(), chi.URLParam(r, "educatorId"), onlyPending)
				if err != nil {
					status, msg := mapAffiliationError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"invites": out})
			})

			pr.Get("/v1/clubs/{clubId}/affiliations", func(w http.ResponseWriter, r *http.Request) {
				out, err := d.AffiliationSvc.ListAffiliationsForClub(r.Context(), chi.URLParam(r, "clubId"))
				if err != nil {
					status, msg := mapAffiliationError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"affiliations": out})
			})
		}

		// ===== Channel routes =====
		if d.ChannelSvc != nil {
			pr.Post("/v1/channels", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in channel.CreateChannelInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				out, err := d.ChannelSvc.CreateChannel(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapChannelError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 201, out)
			})

			pr.Get("/v1/clubs/{clubId}/channels", func(w http.ResponseWriter, r *http.Request) {
				out, err := d.ChannelSvc.ListChannels(r.Context(), chi.URLParam(r, "clubId"))
				if err != nil {
					status, msg := mapChannelError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"channels": out})
			})

			pr.Post("/v1/channels/{channelId}/join", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				if err := d.ChannelSvc.JoinChannel(r.Context(), au.UID, chi.URLParam(r, "channelId")); err != nil {
					status, msg := mapChannelError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"success": true})
			})

			pr.Post("/v1/channels/{channelId}/messages", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in channel.PostMessageInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}
				in.ChannelID = chi.URLParam(r, "channelId")

				out, err := d.ChannelSvc.PostMessage(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapChannelError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 201, out)
			})

			pr.Get("/v1/channels/{channelId}/messages", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				limit := 100
				if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
					if l, err := strconv.Atoi(limitStr); err == nil {
						limit = l
					}
				}
				out, err := d.ChannelSvc.ListMessages(r.Context(), au.UID, chi.URLParam(r, "channelId"), limit)
				if err != nil {
					status, msg := mapChannelError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"messages": out})
			})

			pr.Delete("/v1/channels/{channelId}/messages/{messageId}", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				err := d.ChannelSvc.DeleteMessage(r.Context(), au.UID,
					chi.URLParam(r, "channelId"), chi.URLParam(r, "messageId"))
				if err != nil {
					status, msg := mapChannelError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"success": true})
			})
		}

		// ===== Booking routes =====
		if d.BookingSvc != nil {
			pr.Post("/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in booking.CreateBookingInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				out, err := d.BookingSvc.CreateBooking(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapBookingError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 201, out)
			})

			pr.Get("/v1/bookings", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				in := booking.ListBookingsInput{
					ClubID:     r.URL.Query().Get("clubId"),
					UserID:     r.URL.Query().Get("userId"),
					EducatorID: r.URL.Query().Get("educatorId"),
					Status:     r.URL.Query().Get("status"),
				}
				if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
					if l, err := strconv.Atoi(limitStr); err == nil {
						in.Limit = l
					}
				}
				// default to the caller's own bookings
				if in.ClubID == "" && in.UserID == "" && in.EducatorID == "" {
					in.UserID = au.UID
				}

				out, err := d.BookingSvc.ListBookings(r.Context(), in)
				if err != nil {
					status, msg := mapBookingError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"bookings": out})
			})

			pr.Get("/v1/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
				out, err := d.BookingSvc.GetBooking(r.Context(), chi.URLParam(r, "bookingId"))
				if err != nil {
					status, msg := mapBookingError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, out)
			})

			pr.Post("/v1/bookings/{bookingId}/status", func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					Status string `json:"status"`
				}
				if err := httpjson.Read(r, &body); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				out, err := d.BookingSvc.UpdateStatus(r.Context(), chi.URLParam(r, "bookingId"), body.Status)
				if err != nil {
					status, msg := mapBookingError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, out)
			})
		}

		// ===== Notifications routes =====
		if d.NotificationsSvc != nil {
			pr.Get("/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				unreadOnly := r.URL.Query().Get("unreadOnly") == "true"
				limit := 50
				if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
					if l, err := strconv.Atoi(limitStr); err == nil {
						limit = l
					}
				}

				out, err := d.NotificationsSvc.List(r.Context(), au.UID, unreadOnly, limit)
				if err != nil {
					status, msg := mapNotificationsError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, out)
			})

			pr.Post("/v1/notifications/markRead", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in notifications.MarkReadInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				count, err := d.NotificationsSvc.MarkRead(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapNotificationsError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"success": true, "marked": count})
			})

			// Create notification (admin or educator only)
			pr.Post("/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				if !middleware.IsAdmin(au.Claims) && !middleware.IsEducator(au.Claims) {
					httpjson.Error(w, 403, "admin or educator permission required")
					return
				}

				var in notifications.CreateNotificationInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				out, err := d.NotificationsSvc.Create(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapNotificationsError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 201, out)
			})

			pr.Delete("/v1/notifications/{notificationId}", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				err := d.NotificationsSvc.Delete(r.Context(), au.UID, chi.URLParam(r, "notificationId"))
				if err != nil {
					status, msg := mapNotificationsError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"success": true})
			})
		}

		// ===== Event routes =====
		if d.EventSvc != nil {
			pr.Post("/v1/events", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in event.CreateEventInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				out, err := d.EventSvc.CreateEvent(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapEventError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 201, out)
			})

			pr.Get("/v1/clubs/{clubId}/events", func(w http.ResponseWriter, r *http.Request) {
				includePast := r.URL.Query().Get("includePast") == "true"
				limit := 50
				if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
					if l, err := strconv.Atoi(limitStr); err == nil {
						limit = l
					}
				}
				out, err := d.EventSvc.ListEvents(r.Context(), chi.URLParam(r, "clubId"), includePast, limit)
				if err != nil {
					status, msg := mapEventError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"events": out})
			})
		}

		// ===== Field routes =====
		if d.FieldSvc != nil {
			pr.Post("/v1/fields", func(w http.ResponseWriter, r *http.Request) {
				var in field.CreateFieldInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				out, err := d.FieldSvc.CreateField(r.Context(), in)
				if err != nil {
					status, msg := mapFieldError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 201, out)
			})

			pr.Get("/v1/clubs/{clubId}/fields", func(w http.ResponseWriter, r *http.Request) {
				out, err := d.FieldSvc.ListFields(r.Context(), chi.URLParam(r, "clubId"))
				if err != nil {
					status, msg := mapFieldError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"fields": out})
			})
		}

		// ===== Promotion routes =====
		if d.PromotionSvc != nil {
			pr.Post("/v1/promotions", func(w http.ResponseWriter, r *http.Request) {
				var in promotion.CreatePromotionInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				out, err := d.PromotionSvc.CreatePromotion(r.Context(), in)
				if err != nil {
					status, msg := mapPromotionError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 201, out)
			})

			pr.Get("/v1/clubs/{clubId}/promotions", func(w http.ResponseWriter, r *http.Request) {
				activeOnly := r.URL.Query().Get("activeOnly") == "true"
				out, err := d.PromotionSvc.ListPromotions(r.Context(), chi.URLParam(r, "clubId"), activeOnly)
				if err != nil {
					status, msg := mapPromotionError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"promotions": out})
			})
		}

		// ===== Favorites routes =====
		if d.FavoriteSvc != nil {
			pr.Put("/v1/favorites/{type}/{targetId}", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				err := d.FavoriteSvc.Add(r.Context(), au.UID, chi.URLParam(r, "type"), chi.URLParam(r, "targetId"))
				if err != nil {
					httpjson.Error(w, 400, err.Error())
					return
				}
				httpjson.Write(w, 200, map[string]any{"success": true})
			})

			pr.Delete("/v1/favorites/{type}/{targetId}", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				err := d.FavoriteSvc.Remove(r.Context(), au.UID, chi.URLParam(r, "type"), chi.URLParam(r, "targetId"))
				if err != nil {
					httpjson.Error(w, 400, err.Error())
					return
				}
				httpjson.Write(w, 200, map[string]any{"success": true})
			})

			pr.Get("/v1/favorites/{type}", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				out, err := d.FavoriteSvc.List(r.Context(), au.UID, chi.URLParam(r, "type"))
				if err != nil {
					httpjson.Error(w, 400, err.Error())
					return
				}
				httpjson.Write(w, 200, map[string]any{"favorites": out})
			})
		}

		// ===== Rating routes =====
		if d.RatingSvc != nil {
			// Issue an invitation off a completed booking (admin or educator)
			pr.Post("/v1/ratings/invitations", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				if !middleware.IsAdmin(au.Claims) && !middleware.IsEducator(au.Claims) {
					httpjson.Error(w, 403, "admin or educator permission required")
					return
				}

				var body struct {
					BookingID string `json:"bookingId"`
				}
				if err := httpjson.Read(r, &body); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				b, err := d.BookingSvc.GetBooking(r.Context(), body.BookingID)
				if err != nil {
					status, msg := mapBookingError(err)
					httpjson.Error(w, status, msg)
					return
				}

				out, err := d.RatingSvc.CreateForBooking(r.Context(), b.ID, b.UserID, b.ClubID, b.EducatorID)
				if err != nil {
					status, msg := mapRatingError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 201, out)
			})

			pr.Get("/v1/ratings/invitations", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				pendingOnly := r.URL.Query().Get("pendingOnly") == "true"
				out, err := d.RatingSvc.ListForUser(r.Context(), au.UID, pendingOnly)
				if err != nil {
					status, msg := mapRatingError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"invitations": out})
			})

			pr.Post("/v1/ratings/invitations/{invitationId}/respond", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var body struct {
					Score   int    `json:"score"`
					Comment string `json:"comment,omitempty"`
				}
				if err := httpjson.Read(r, &body); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				out, err := d.RatingSvc.Respond(r.Context(), au.UID, chi.URLParam(r, "invitationId"), body.Score, body.Comment)
				if err != nil {
					status, msg := mapRatingError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, out)
			})
		}

		// ===== Payment routes (protected) =====
		if d.PaymentSvc != nil {
			pr.Post("/v1/payments/subscription-checkout", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in payment.CreateSubscriptionCheckoutInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				url, err := d.PaymentSvc.CreateSubscriptionCheckout(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapPaymentError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"url": url})
			})

			pr.Post("/v1/payments/billing-portal", func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					ClubID    string `json:"clubId"`
					ReturnURL string `json:"returnUrl"`
				}
				if err := httpjson.Read(r, &body); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				url, err := d.PaymentSvc.CreateBillingPortal(r.Context(), body.ClubID, body.ReturnURL)
				if err != nil {
					status, msg := mapPaymentError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"url": url})
			})

			pr.Post("/v1/payments/booking-checkout", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())

				var in payment.CreateBookingCheckoutInput
				if err := httpjson.Read(r, &in); err != nil {
					httpjson.Error(w, 400, "invalid json")
					return
				}

				url, err := d.PaymentSvc.CreateBookingCheckout(r.Context(), au.UID, in)
				if err != nil {
					status, msg := mapPaymentError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"url": url})
			})

			pr.Post("/v1/payments/{paymentId}/refund", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				if !middleware.IsAdmin(au.Claims) {
					httpjson.Error(w, 403, "admin privileges required")
					return
				}

				var body struct {
					Reason string `json:"reason,omitempty"`
				}
				if r.ContentLength > 0 {
					if err := httpjson.Read(r, &body); err != nil {
						httpjson.Error(w, 400, "invalid json")
						return
					}
				}

				if err := d.PaymentSvc.IssueRefund(r.Context(), chi.URLParam(r, "paymentId"), body.Reason); err != nil {
					status, msg := mapPaymentError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"success": true})
			})

			pr.Get("/v1/payments", func(w http.ResponseWriter, r *http.Request) {
				au, _ := middleware.GetAuthUser(r.Context())
				userID := r.URL.Query().Get("userId")
				clubID := r.URL.Query().Get("clubId")
				if userID == "" && clubID == "" {
					userID = au.UID
				}
				limit := 100
				if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
					if l, err := strconv.Atoi(limitStr); err == nil {
						limit = l
					}
				}

				out, err := d.PaymentSvc.ListPayments(r.Context(), userID, clubID, limit)
				if err != nil {
					status, msg := mapPaymentError(err)
					httpjson.Error(w, status, msg)
					return
				}
				httpjson.Write(w, 200, map[string]any{"payments": out})
			})
		}

		// ===== Upload routes =====
		if d.Uploads != nil {
			pr.Post("/v1/uploads/signed-url", d.Uploads.CreateSignedUploadURL)
			pr.Post("/v1/uploads/signed-urls", d.Uploads.CreateSignedUploadURLs)
		}
	})

	return r
}

func mapClubError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case club.IsErrUnauthorized(err):
		return 403, err.Error()
	case club.IsErrNotFound(err):
		return 404, err.Error()
	case club.IsErrBadRequest(err):
		return 400, err.Error()
	case club.IsErrConflict(err):
		return 409, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapAffiliationError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case affiliation.IsErrForbidden(err):
		return 403, err.Error()
	case affiliation.IsErrNotFound(err):
		return 404, err.Error()
	case affiliation.IsErrBadRequest(err):
		return 400, err.Error()
	case affiliation.IsErrConflict(err):
		return 409, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapChannelError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case channel.IsErrUnauthorized(err):
		return 401, err.Error()
	case channel.IsErrForbidden(err):
		return 403, err.Error()
	case channel.IsErrNotFound(err):
		return 404, err.Error()
	case channel.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapBookingError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case booking.IsErrUnauthorized(err):
		return 401, err.Error()
	case booking.IsErrNotFound(err):
		return 404, err.Error()
	case booking.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapNotificationsError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case notifications.IsErrNotFound(err):
		return 404, err.Error()
	case notifications.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapEventError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case event.IsErrNotFound(err):
		return 404, err.Error()
	case event.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapFieldError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case field.IsErrNotFound(err):
		return 404, err.Error()
	case field.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapPromotionError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case promotion.IsErrNotFound(err):
		return 404, err.Error()
	case promotion.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapRatingError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case rating.IsErrNotFound(err):
		return 404, err.Error()
	case rating.IsErrBadRequest(err):
		return 400, err.Error()
	case rating.IsErrConflict(err):
		return 409, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapPaymentError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case payment.IsErrNotFound(err):
		return 404, err.Error()
	case payment.IsErrBadRequest(err):
		return 400, err.Error()
	case payment.IsErrUpstream(err):
		return 502, err.Error()
	default:
		return 500, err.Error()
	}
}
