package http_handlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/identity-service/internal/application/identity"
	"github.com/baechuer/identity-service/internal/audit"
	"github.com/baechuer/identity-service/internal/domain"
	"github.com/baechuer/identity-service/internal/logger"
	"github.com/baechuer/identity-service/internal/transport/http/dto"
	"github.com/baechuer/identity-service/internal/transport/http/middleware"
	"github.com/baechuer/identity-service/internal/transport/http/response"
)

// IdentityService is the slice of identity.Service the HTTP surface uses.
type IdentityService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (domain.Account, error)
	Lookup(ctx context.Context, id string) (domain.Account, error)
	LookupByEmail(ctx context.Context, email string) (domain.Account, error)
	UpdateProfile(ctx context.Context, id string, upd identity.ProfileUpdate) error
}

// EventPublisher announces committed changes to other services.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, evt domain.AccountRegistered) error
	PublishProfileUpdated(ctx context.Context, evt domain.ProfileUpdated) error
}

type AccountHandler struct {
	svc   IdentityService
	pub   EventPublisher
	audit *audit.Logger
	now   func() time.Time
}

func NewAccountHandler(svc IdentityService, pub EventPublisher, al *audit.Logger) *AccountHandler {
	return &AccountHandler{
		svc:   svc,
		pub:   pub,
		audit: al,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// POST /identity/v1/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		middleware.RegistrationsTotal.WithLabelValues("invalid").Inc()
		response.WriteError(w, r, err)
		return
	}

	id, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RegistrationsTotal.WithLabelValues(statusLabel(err)).Inc()
		if domain.Is(err, domain.CodeEmailTaken) {
			h.audit.RegistrationRejected(r.Context(), req.Email, clientIP(r), domain.CodeEmailTaken)
		}
		response.WriteError(w, r, err)
		return
	}
	middleware.RegistrationsTotal.WithLabelValues("success").Inc()
	h.audit.AccountRegistered(r.Context(), id, req.Email, clientIP(r))

	h.publish(r.Context(), "account_registered", func(ctx context.Context) error {
		return h.pub.PublishAccountRegistered(ctx, domain.AccountRegistered{
			AccountID:  id,
			Email:      req.Email,
			OccurredAt: h.now(),
		})
	})

	response.Created(w, dto.RegisteredView{ID: id})
}

// POST /identity/v1/authenticate
func (h *AccountHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthenticateRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	acc, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.AuthenticationsTotal.WithLabelValues(statusLabel(err)).Inc()
		if domain.Is(err, domain.CodeInvalidCredentials) {
			h.audit.AuthenticateFailed(r.Context(), req.Email, clientIP(r))
		}
		response.WriteError(w, r, err)
		return
	}
	middleware.AuthenticationsTotal.WithLabelValues("success").Inc()
	h.audit.AuthenticateSuccess(r.Context(), acc.ID, acc.Email, clientIP(r))

	response.OK(w, dto.NewAccountView(acc))
}

// GET /identity/v1/accounts/{id}
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	acc, err := h.svc.Lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAccountView(acc))
}

// GET /identity/v1/accounts?email=
func (h *AccountHandler) FindByEmail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("email") {
		response.WriteError(w, r, domain.ErrMissingField("email"))
		return
	}

	acc, err := h.svc.LookupByEmail(r.Context(), q.Get("email"))
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.NewAccountView(acc))
}

// PATCH /identity/v1/accounts/{id}
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		middleware.ProfileUpdatesTotal.WithLabelValues("invalid").Inc()
		response.WriteError(w, r, err)
		return
	}

	upd := identity.ProfileUpdate{Email: req.Email, Password: req.Password}
	if err := h.svc.UpdateProfile(r.Context(), id, upd); err != nil {
		middleware.ProfileUpdatesTotal.WithLabelValues(statusLabel(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.ProfileUpdatesTotal.WithLabelValues("success").Inc()

	emailChanged, passwordChanged := req.Email != nil, req.Password != nil
	if emailChanged || passwordChanged {
		h.audit.ProfileUpdated(r.Context(), id, emailChanged, passwordChanged)
		h.publish(r.Context(), "profile_updated", func(ctx context.Context) error {
			return h.pub.PublishProfileUpdated(ctx, domain.ProfileUpdated{
				AccountID:       id,
				EmailChanged:    emailChanged,
				PasswordChanged: passwordChanged,
				OccurredAt:      h.now(),
			})
		})
	}

	response.NoContent(w)
}

// publish runs after the write has committed, so a failure is logged and
// counted but never turned into an error response.
func (h *AccountHandler) publish(reqCtx context.Context, event string, fn func(context.Context) error) {
	if h.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), 2*time.Second)
	defer cancel()

	if err := fn(ctx); err != nil {
		middleware.EventPublishFailuresTotal.WithLabelValues(event).Inc()
		logger.WithCtx(reqCtx).Warn().Err(err).Str("event", event).Msg("event publish failed")
	}
}

func statusLabel(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "error"
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
