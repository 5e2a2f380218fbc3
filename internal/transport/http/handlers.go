// @title Quarters API
// @version 1.0.0
// @description Building management platform for property operators
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@quarters.dev

// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name session_id

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quartershq/quarters/internal/audit"
	"github.com/quartershq/quarters/internal/billing"
	"github.com/quartershq/quarters/internal/building"
	"github.com/quartershq/quarters/internal/frontdesk"
	"github.com/quartershq/quarters/internal/identity"
	"github.com/quartershq/quarters/internal/lease"
	"github.com/quartershq/quarters/internal/observability/logger"
	"github.com/quartershq/quarters/internal/org"
	"github.com/quartershq/quarters/internal/rbac"
	"github.com/quartershq/quarters/internal/resident"
	"github.com/quartershq/quarters/internal/session"
	"github.com/quartershq/quarters/internal/settings"
	"github.com/quartershq/quarters/internal/subscription"
	"github.com/quartershq/quarters/internal/token"
	"github.com/quartershq/quarters/internal/workorder"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Role sets for route groups. Platform admins bypass all of them.
var (
	manageRoles    = []string{rbac.RoleOrgAdmin, rbac.RoleOrgStaff, rbac.RoleBuildingManager}
	billingRoles   = []string{rbac.RoleOrgAdmin, rbac.RoleOrgStaff}
	frontdeskRoles = []string{rbac.RoleOrgAdmin, rbac.RoleOrgStaff, rbac.RoleBuildingManager, rbac.RoleSecurity}
	maintRoles     = []string{rbac.RoleOrgAdmin, rbac.RoleOrgStaff, rbac.RoleBuildingManager, rbac.RoleTechnician}
	complainRoles  = []string{rbac.RoleOrgAdmin, rbac.RoleOrgStaff, rbac.RoleBuildingManager, rbac.RoleResident}
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	identityService     *identity.Service
	sessionService      *session.Service
	tokenService        *token.Service
	orgService          *org.Service
	buildingService     *building.Service
	residentService     *resident.Service
	leaseService        *lease.Service
	billingService      *billing.Service
	subscriptionService *subscription.Service
	workOrderService    *workorder.Service
	frontDeskService    *frontdesk.Service
	settingsService     *settings.Service
	auditLogger         audit.Logger
	sessionConfig       SessionConfig
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
	Lifetime       time.Duration
}

// NewHandler creates a new HTTP handler
func NewHandler(
	identityService *identity.Service,
	sessionService *session.Service,
	tokenService *token.Service,
	orgService *org.Service,
	buildingService *building.Service,
	residentService *resident.Service,
	leaseService *lease.Service,
	billingService *billing.Service,
	subscriptionService *subscription.Service,
	workOrderService *workorder.Service,
	frontDeskService *frontdesk.Service,
	settingsService *settings.Service,
	auditLogger audit.Logger,
	sessionConfig SessionConfig,
) *Handler {
	return &Handler{
		identityService:     identityService,
		sessionService:      sessionService,
		tokenService:        tokenService,
		orgService:          orgService,
		buildingService:     buildingService,
		residentService:     residentService,
		leaseService:        leaseService,
		billingService:      billingService,
		subscriptionService: subscriptionService,
		workOrderService:    workOrderService,
		frontDeskService:    frontDeskService,
		settingsService:     settingsService,
		auditLogger:         auditLogger,
		sessionConfig:       sessionConfig,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	// Provider callbacks authenticate with an HMAC signature, not a session.
	r.Post("/webhooks/{orgID}/{provider}", h.PaymentWebhook)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.GetCurrentUser)
			r.Post("/auth/token", h.IssueToken)

			// User profile
			r.Get("/user/profile", h.GetProfile)
			r.Put("/user/profile", h.UpdateProfile)
			r.Post("/user/change-password", h.ChangePassword)

			// Founding an organization is open to any org-less user.
			r.Post("/orgs", h.CreateOrg)

			// Platform administration
			r.Route("/admin", func(r chi.Router) {
				r.Use(h.RequirePlatformAdmin)
				r.Get("/orgs", h.ListOrgs)
				r.Post("/orgs/{orgID}/suspend", h.SuspendOrg)
				r.Post("/plans", h.CreatePlan)
				r.Post("/plans/{planID}/retire", h.RetirePlan)
				r.Get("/revenue", h.RevenueSummary)
			})

			// Organization-scoped routes
			r.Group(func(r chi.Router) {
				r.Use(RequireOrg)

				r.Route("/org", func(r chi.Router) {
					r.Get("/", h.GetOrg)
					r.Group(func(r chi.Router) {
						r.Use(h.RequireRole(rbac.RoleOrgAdmin))
						r.Get("/members", h.ListOrgMembers)
						r.Post("/users", h.ProvisionOrgUser)
						r.Post("/users/{userID}/roles", h.GrantRole)
						r.Delete("/users/{userID}/roles/{role}", h.RevokeRole)
					})
				})

				r.Route("/buildings", func(r chi.Router) {
					r.Use(h.RequireRole(manageRoles...))
					r.Post("/", h.CreateBuilding)
					r.Get("/", h.ListBuildings)
					r.Get("/{buildingID}", h.GetBuilding)
					r.Put("/{buildingID}", h.UpdateBuilding)
					r.Get("/{buildingID}/occupancy", h.BuildingOccupancy)
					r.Post("/{buildingID}/units", h.CreateUnit)
					r.Get("/{buildingID}/units", h.ListUnits)
				})

				r.Route("/units", func(r chi.Router) {
					r.Use(h.RequireRole(manageRoles...))
					r.Get("/{unitID}", h.GetUnit)
					r.Put("/{unitID}", h.UpdateUnit)
					r.Post("/{unitID}/status", h.SetUnitStatus)
				})

				r.Route("/residents", func(r chi.Router) {
					r.Use(h.RequireRole(manageRoles...))
					r.Post("/", h.CreateResident)
					r.Get("/", h.ListResidents)
					r.Get("/{residentID}", h.GetResident)
					r.Put("/{residentID}", h.UpdateResident)
					r.Delete("/{residentID}", h.DeleteResident)
					r.Post("/{residentID}/link-user", h.LinkResidentUser)
					r.Get("/{residentID}/leases", h.ListResidentLeases)
					r.Get("/{residentID}/vehicles", h.ListResidentVehicles)
				})

				r.Route("/leases", func(r chi.Router) {
					r.Use(h.RequireRole(manageRoles...))
					r.Post("/", h.CreateLease)
					r.Get("/", h.ListLeases)
					r.Get("/{leaseID}", h.GetLease)
					r.Post("/{leaseID}/accept-terms", h.AcceptLeaseTerms)
					r.Post("/{leaseID}/activate", h.ActivateLease)
					r.Post("/{leaseID}/terminate", h.TerminateLease)
					r.Post("/{leaseID}/renew", h.RenewLease)
					r.Get("/{leaseID}/invoices", h.ListLeaseInvoices)
				})

				r.Route("/invoices", func(r chi.Router) {
					r.Use(h.RequireRole(billingRoles...))
					r.Get("/", h.ListInvoices)
					r.Get("/{invoiceID}", h.GetInvoice)
					r.Post("/{invoiceID}/void", h.VoidInvoice)
				})

				r.Route("/payments", func(r chi.Router) {
					r.Use(h.RequireRole(billingRoles...))
					r.Post("/", h.RecordPayment)
					r.Get("/", h.ListPayments)
					r.Get("/{paymentID}", h.GetPayment)
					r.Post("/{paymentID}/reconcile", h.ReconcilePayment)
				})

				r.Get("/plans", h.ListPlans)
				r.Route("/subscription", func(r chi.Router) {
					r.Use(h.RequireRole(rbac.RoleOrgAdmin))
					r.Get("/", h.CurrentSubscription)
					r.Post("/", h.Subscribe)
					r.Put("/", h.ChangeSubscriptionPlan)
					r.Delete("/", h.CancelSubscription)
				})

				r.Route("/workorders", func(r chi.Router) {
					r.Use(h.RequireRole(maintRoles...))
					r.Post("/", h.CreateWorkOrder)
					r.Get("/", h.ListWorkOrders)
					r.Get("/assigned", h.ListAssignedWorkOrders)
					r.Get("/{workOrderID}", h.GetWorkOrder)
					r.Post("/{workOrderID}/assign", h.AssignWorkOrder)
					r.Post("/{workOrderID}/start", h.StartWorkOrder)
					r.Post("/{workOrderID}/complete", h.CompleteWorkOrder)
					r.Post("/{workOrderID}/cancel", h.CancelWorkOrder)
				})

				r.Route("/complaints", func(r chi.Router) {
					r.With(h.RequireRole(complainRoles...)).Post("/", h.FileComplaint)
					r.Group(func(r chi.Router) {
						r.Use(h.RequireRole(manageRoles...))
						r.Get("/", h.ListComplaints)
						r.Get("/{complaintID}", h.GetComplaint)
						r.Post("/{complaintID}/review", h.ReviewComplaint)
						r.Post("/{complaintID}/resolve", h.ResolveComplaint)
						r.Post("/{complaintID}/dismiss", h.DismissComplaint)
						r.Post("/{complaintID}/escalate", h.EscalateComplaint)
					})
				})

				r.Route("/visits", func(r chi.Router) {
					r.Use(h.RequireRole(frontdeskRoles...))
					r.Post("/", h.CheckInVisitor)
					r.Get("/", h.ListVisits)
					r.Post("/{visitID}/checkout", h.CheckOutVisitor)
				})

				r.Route("/vehicles", func(r chi.Router) {
					r.Use(h.RequireRole(frontdeskRoles...))
					r.Post("/", h.RegisterVehicle)
					r.Delete("/{vehicleID}", h.DeregisterVehicle)
				})

				r.Route("/violations", func(r chi.Router) {
					r.Use(h.RequireRole(frontdeskRoles...))
					r.Post("/", h.IssueViolation)
					r.Get("/", h.ListViolations)
					r.Post("/{violationID}/settle", h.SettleViolation)
					r.Post("/{violationID}/waive", h.WaiveViolation)
				})

				r.Route("/settings", func(r chi.Router) {
					r.Use(h.RequireRole(rbac.RoleOrgAdmin))
					r.Get("/", h.GetSettings)
					r.Put("/", h.UpdateSettings)
				})
			})
		})
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "quarters",
	})
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Email      string `json:"email" binding:"required" example:"user@example.com"`
	Password   string `json:"password" binding:"required" example:"secret123"`
	GivenName  string `json:"given_name" example:"Abebe"`
	FamilyName string `json:"family_name" example:"Bekele"`
	Phone      string `json:"phone" example:"+251911234567"`
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a new user account. The account carries no org until the user founds or is provisioned into one.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration Data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := identity.Profile{
		GivenName:  req.GivenName,
		FamilyName: req.FamilyName,
		FullName:   req.GivenName + " " + req.FamilyName,
		Phone:      req.Phone,
	}

	user, err := h.identityService.ProvisionIdentity(r.Context(), "", req.Email, profile)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to provision user",
			logger.Error(err),
			logger.Email(req.Email),
		)

		switch err {
		case identity.ErrUserAlreadyExists:
			respondError(w, http.StatusConflict, "user already exists")
		case identity.ErrInvalidEmail:
			respondError(w, http.StatusBadRequest, "invalid email address")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	if err := h.identityService.AddPassword(r.Context(), user.ID, req.Password); err != nil {
		slog.ErrorContext(r.Context(), "failed to set password",
			logger.Error(err),
			logger.UserID(user.ID),
		)
		respondError(w, http.StatusBadRequest, "failed to set password: "+err.Error())
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeUserCreated,
		ActorID:   user.ID, // Self-registration
		Resource:  "user",
		IPAddress: clientIP(r),
		Metadata:  map[string]any{"email": user.Email},
	})

	respondJSON(w, http.StatusCreated, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// Login handles user login
// @Summary Login
// @Description Authenticate user and create a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Emails are unique platform-wide, so no org hint is needed.
	user, err := h.identityService.Authenticate(r.Context(), "", req.Email, req.Password)
	if err != nil {
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeLoginFailed,
			Resource:  req.Email,
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
			Metadata:  map[string]any{audit.AttrReason: "invalid_credentials"},
		})
		if err == identity.ErrAccountLocked {
			respondError(w, http.StatusForbidden, "account is locked")
			return
		}
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	var sessionOrg *string
	if user.OrgID != "" {
		sessionOrg = &user.OrgID
	}

	sess, err := h.sessionService.Create(
		r.Context(),
		sessionOrg,
		user.ID,
		clientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.setSessionCookie(w, sess.ID)

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeLoginSuccess,
		OrgID:     user.OrgID,
		ActorID:   user.ID,
		Resource:  "session",
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
		Metadata:  map[string]any{"session_id": sess.ID},
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
		"org_id":  user.OrgID,
	})
}

// Logout handles user logout
// @Summary Logout
// @Description Destroy the current session
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionID(r.Context())
	if sessionID != "" {
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeLogout,
			OrgID:     GetOrgID(r.Context()),
			ActorID:   GetUserID(r.Context()),
			Resource:  "session",
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
			Metadata:  map[string]any{"session_id": sessionID},
		})
		h.sessionService.Destroy(r.Context(), sessionID)
	}

	h.clearSessionCookie(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// IssueToken mints a bearer token for API and mobile clients
// @Summary Issue API Token
// @Description Issue a short-lived bearer token scoped like the current session
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /auth/token [post]
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var scope *string
	if orgID := GetOrgID(r.Context()); orgID != "" {
		scope = &orgID
	}

	raw, expiresAt, err := h.tokenService.Issue(userID, scope)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue token", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"access_token": raw,
		"token_type":   "Bearer",
		"expires_at":   expiresAt,
	})
}

// GetCurrentUser returns the current authenticated user identity
// @Summary Get Current User
// @Description Retrieve details of the currently logged-in user
// @Tags User
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /auth/me [get]
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.identityService.GetUser(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	roles, err := h.orgService.UserRoles(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load user roles", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to load roles")
		return
	}

	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, role.Role)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":        user.ID,
		"org_id":         user.OrgID,
		"email":          user.Email,
		"email_verified": user.EmailVerified,
		"profile":        user.Profile,
		"roles":          roleNames,
	})
}

// GetProfile returns the user profile
// @Summary Get User Profile
// @Description Retrieve the profile of the current user
// @Tags User
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /user/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.identityService.GetUser(r.Context(), GetUserID(r.Context()))
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id":        user.ID,
		"email":          user.Email,
		"email_verified": user.EmailVerified,
		"profile":        user.Profile,
	})
}

// UpdateProfile updates the user profile
// @Summary Update Profile
// @Description Update the profile information
// @Tags User
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body identity.Profile true "New Profile"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /user/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile identity.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.identityService.UpdateProfile(r.Context(), GetUserID(r.Context()), profile); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "profile updated successfully",
	})
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword changes the user password
// @Summary Change Password
// @Description Update the password for the current user
// @Tags User
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ChangePasswordRequest true "Password Change Data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /user/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req ChangePasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.identityService.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch err {
		case identity.ErrInvalidCredentials:
			respondError(w, http.StatusUnauthorized, "invalid old password")
		case identity.ErrWeakPassword:
			respondError(w, http.StatusBadRequest, "new password does not meet security requirements")
		default:
			respondError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypePasswordChanged,
		OrgID:     GetOrgID(r.Context()),
		ActorID:   userID,
		Resource:  "user_credentials",
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}

// Helper functions
func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,

		// The cookie dies with the session's absolute lifetime.
		MaxAge: int(h.sessionConfig.Lifetime.Seconds()),
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// parsePagination reads limit and offset query parameters with sane caps.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
