// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pages serves the page payloads rendered by the web client.

Every route here sits behind [middleware.RouteGuard], so handlers can rely on
the guard having already redirected visitors who do not belong on the page.
*/
package pages

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/hushnote/internal/platform/constants"
	requestutil "github.com/taibuivan/hushnote/internal/platform/request"
	"github.com/taibuivan/hushnote/internal/platform/respond"
	"github.com/taibuivan/hushnote/internal/users/auth"
)

// # Definitions & Constructors

// Page is the JSON payload returned for a page request.
type Page struct {
	Name    string            `json:"page"`
	Path    string            `json:"path"`
	Error   string            `json:"error,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
	Session *auth.Session     `json:"session,omitempty"`
}

// Handler implements the page endpoints.
type Handler struct{}

// NewHandler constructs a new [Handler].
func NewHandler() *Handler {
	return &Handler{}
}

// Routes returns a [chi.Router] configured with the page routes.
//
// # Endpoints
//   - GET /                  : Landing page.
//   - GET /sign-in           : Sign-in form, echoes the ?error= message.
//   - GET /sign-up           : Registration page.
//   - GET /verify/{username} : Account verification page.
//   - GET /dashboard/*       : Member area, carries the session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get(constants.PathHome, handler.home)
	router.Get(constants.PathSignIn, handler.signIn)
	router.Get(constants.PathSignUp, handler.signUp)
	router.Get(constants.PathVerify+"/{username}", handler.verify)
	router.Get(constants.PathDashboard, handler.dashboard)
	router.Get(constants.PathDashboard+"/*", handler.dashboard)

	return router
}

func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, Page{Name: "home", Path: request.URL.Path})
}

func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, Page{
		Name:  "sign-in",
		Path:  request.URL.Path,
		Error: request.URL.Query().Get(auth.FieldError),
	})
}

func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, Page{Name: "sign-up", Path: request.URL.Path})
}

func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, Page{
		Name:   "verify",
		Path:   request.URL.Path,
		Params: map[string]string{"username": requestutil.Param(request, "username")},
	})
}

/*
Dashboard returns the member area payload.

GET /dashboard/*

Description: The session is rebuilt from the verified token claims on every
request; nothing is read from the directory.

Response:
  - 200: Page with session
  - 401: ErrUnauthorized: Only reachable when the guard is not mounted
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session := auth.ProjectIntoSession(&auth.Session{}, claims)

	section := strings.TrimPrefix(strings.TrimPrefix(request.URL.Path, constants.PathDashboard), "/")
	var params map[string]string
	if section != "" {
		params = map[string]string{"section": section}
	}

	respond.OK(writer, Page{
		Name:    "dashboard",
		Path:    request.URL.Path,
		Params:  params,
		Session: session,
	})
}
