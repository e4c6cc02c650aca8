// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/hushnote/internal/platform/apperr"
	"github.com/taibuivan/hushnote/internal/platform/constants"
	"github.com/taibuivan/hushnote/internal/platform/middleware"
	requestutil "github.com/taibuivan/hushnote/internal/platform/request"
	"github.com/taibuivan/hushnote/internal/platform/respond"
	"github.com/taibuivan/hushnote/internal/platform/validate"
)

// # Definitions & Constructors

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	// Secure restricts the cookie to HTTPS. Disabled only for local development.
	Secure bool
}

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// Credentials sign-in, session read, sign-out and provider discovery.
type Handler struct {
	authService *Service
	cookie      CookieOptions
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, cookie CookieOptions) *Handler {
	return &Handler{authService: service, cookie: cookie}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - GET  /providers            : Lists the sign-in providers.
//   - POST /callback/credentials : Verifies credentials and sets the session cookie.
//   - GET  /session              : Returns the current session view.
//   - POST /signout              : Clears the session cookie.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/providers", handler.providers)
	router.Post("/callback/"+constants.CredentialsProviderID, handler.signIn)
	router.Get("/session", handler.session)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/signout", handler.signOut)
	})

	return router
}

// # Request Payloads

type credentialsRequest struct {
	Identifier  string `json:"identifier"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

type providerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	SignInURL   string `json:"signinUrl"`
	CallbackURL string `json:"callbackUrl"`
}

/*
Providers lists the configured sign-in providers.

GET /api/auth/providers

Response:
  - 200: map of provider id to provider descriptor
*/
func (handler *Handler) providers(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]providerResponse{
		constants.CredentialsProviderID: {
			ID:          constants.CredentialsProviderID,
			Name:        "Credentials",
			Type:        constants.CredentialsProviderID,
			SignInURL:   constants.PathSignIn,
			CallbackURL: constants.AuthBasePath + "/callback/" + constants.CredentialsProviderID,
		},
	})
}

/*
SignIn authenticates a member and establishes a session.

POST /api/auth/callback/credentials

Description: Accepts a JSON body or an HTML form post. JSON callers receive the
session view; form posts are redirected to the callback URL (default /dashboard)
on success, or back to /sign-in with an error query parameter on failure.

Request:
  - Body: credentialsRequest (Identifier, Password, CallbackURL)

Response:
  - 200: Session: url and session view, session cookie set
  - 303: Form posts
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 401: ErrUnauthorized: Rejected credentials (message text only)
  - 429: ErrRateLimited: Too many failed attempts for this identifier
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	isForm := requestutil.IsForm(request)

	var input credentialsRequest
	if isForm {
		if err := requestutil.ParseForm(request, MaxFormMemory); err != nil {
			respond.Error(writer, request, apperr.ValidationError("Invalid form payload"))
			return
		}
		input.Identifier = request.PostForm.Get(FieldIdentifier)
		input.Password = request.PostForm.Get(FieldPassword)
		input.CallbackURL = request.PostForm.Get(FieldCallbackURL)
	} else if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Presence and an upper size bound only. Values are passed on exactly as
	// typed; rejection reasons come from the authenticator.
	validator := &validate.Validator{}
	validator.NotEmpty(FieldIdentifier, input.Identifier).
		MaxBytes(FieldIdentifier, input.Identifier, MaxCredentialBytes).
		NotEmpty(FieldPassword, input.Password).
		MaxBytes(FieldPassword, input.Password, MaxCredentialBytes)

	if err := validator.Err(); err != nil {
		handler.fail(writer, request, isForm, err)
		return
	}

	signed, err := handler.authService.SignIn(request.Context(), SignInInput{
		Identifier: input.Identifier,
		Password:   input.Password,
		IPAddress:  middleware.RealIP(request),
	})
	if err != nil {
		handler.fail(writer, request, isForm, err)
		return
	}

	handler.setSessionCookie(writer, signed.Token, signed.ExpiresAt)

	target := safeCallbackURL(input.CallbackURL)
	if isForm {
		http.Redirect(writer, request, target, http.StatusSeeOther)
		return
	}

	respond.OK(writer, map[string]any{
		FieldURL:  target,
		"session": signed.Session,
	})
}

/*
Session returns the session view of the current request.

GET /api/auth/session

Description: Anonymous requests receive an empty object. Tokens older than the
update age are re-issued with a fresh expiry.

Response:
  - 200: Session (or empty object)
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	session, reissued, err := handler.authService.Resume(request.Context(), requestutil.Claims(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if session == nil {
		respond.OK(writer, struct{}{})
		return
	}

	if reissued != nil && isCookieSession(request) {
		handler.setSessionCookie(writer, reissued.Token, reissued.ExpiresAt)
	}

	respond.OK(writer, session)
}

/*
SignOut terminates the current session.

POST /api/auth/signout

Description: Session tokens are stateless; signing out expires the cookie.

Response:
  - 204: No Content: Cookie cleared
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.NoContent(writer)
}

// # Helpers

// fail reports a sign-in failure as JSON, or as a redirect back to the sign-in page for forms.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, isForm bool, err error) {
	appError := apperr.As(err)
	if !isForm || appError == nil || appError.HTTPStatus >= http.StatusInternalServerError {
		respond.Error(writer, request, err)
		return
	}

	query := url.Values{FieldError: []string{appError.Message}}
	http.Redirect(writer, request, constants.PathSignIn+"?"+query.Encode(), http.StatusSeeOther)
}

// setSessionCookie writes the signed token cookie.
func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   handler.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// isCookieSession reports whether the request authenticated through the session cookie.
func isCookieSession(request *http.Request) bool {
	if request.Header.Get(constants.HeaderAuthorization) != "" {
		return false
	}
	cookie, err := request.Cookie(constants.SessionCookieName)
	return err == nil && cookie.Value != ""
}

// safeCallbackURL only allows same-site relative paths, defaulting to the dashboard.
func safeCallbackURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return constants.PathDashboard
	}
	return raw
}
