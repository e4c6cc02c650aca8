// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/hushnote/internal/platform/constants"
	"github.com/taibuivan/hushnote/internal/platform/middleware"
	"github.com/taibuivan/hushnote/internal/users/auth"
)

// newAuthRouter mounts the auth routes behind the Authenticate middleware.
func newAuthRouter(t *testing.T) http.Handler {
	t.Helper()

	tokens := newTokenService(t)
	service := auth.NewService(auth.NewAuthenticator(newDirectory(t)), tokens, nil, nil, auth.SessionConfig{
		MaxAge:    time.Hour,
		UpdateAge: 10 * time.Minute,
	})

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount(constants.AuthBasePath, auth.NewHandler(service, auth.CookieOptions{}).Routes())
	return router
}

func sessionCookie(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	return nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestHandler_SignIn_JSON verifies the JSON sign-in and the follow-up session read.
*/
func TestHandler_SignIn_JSON(t *testing.T) {
	router := newAuthRouter(t)

	request := httptest.NewRequest(http.MethodPost, "/api/auth/callback/credentials",
		strings.NewReader(`{"identifier":"tai","password":"`+testPassword+`"}`))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	cookie := sessionCookie(recorder)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	var payload struct {
		URL     string       `json:"url"`
		Session auth.Session `json:"session"`
	}
	require.NoError(t, json.Unmarshal(decode(t, recorder).Data, &payload))
	assert.Equal(t, "/dashboard", payload.URL)
	assert.Equal(t, "tai", payload.Session.User.Username)
	assert.NotContains(t, recorder.Body.String(), "$2a$")

	// The cookie alone is enough to read the session back.
	request = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	request.AddCookie(cookie)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var session auth.Session
	require.NoError(t, json.Unmarshal(decode(t, recorder).Data, &session))
	assert.Equal(t, auth.SessionUser{
		ID:                  "665f1c2e9b1d4a0012345678",
		IsVerified:          true,
		IsAcceptingMessages: true,
		Username:            "tai",
	}, session.User)
}

/*
TestHandler_SignIn_Rejected verifies failures return 401 with the message text and no cookie.
*/
func TestHandler_SignIn_Rejected(t *testing.T) {
	router := newAuthRouter(t)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{"not_verified", `{"identifier":"ghost","password":"` + testPassword + `"}`, http.StatusUnauthorized, "Please verify your account before logging in"},
		{"wrong_password", `{"identifier":"tai","password":"nope"}`, http.StatusUnauthorized, "Incorrect password"},
		{"unknown", `{"identifier":"nobody","password":"nope"}`, http.StatusUnauthorized, "No user found with this email"},
		{"long_password_unknown", `{"identifier":"nobody","password":"` + strings.Repeat("x", 73) + `"}`, http.StatusUnauthorized, "No user found with this email"},
		{"long_password_wrong", `{"identifier":"tai","password":"` + strings.Repeat("x", 73) + `"}`, http.StatusUnauthorized, "Incorrect password"},
		{"long_password_unverified", `{"identifier":"ghost","password":"` + strings.Repeat("x", 73) + `"}`, http.StatusUnauthorized, "Please verify your account before logging in"},
		{"whitespace_password", `{"identifier":"tai","password":"   "}`, http.StatusUnauthorized, "Incorrect password"},
		{"whitespace_identifier", `{"identifier":"   ","password":"nope"}`, http.StatusUnauthorized, "No user found with this email"},
		{"missing_password", `{"identifier":"tai"}`, http.StatusBadRequest, "Validation failed"},
		{"oversized_identifier", `{"identifier":"` + strings.Repeat("t", auth.MaxCredentialBytes+1) + `","password":"nope"}`, http.StatusBadRequest, "Validation failed"},
		{"bad_json", `{`, http.StatusBadRequest, "Invalid JSON payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/auth/callback/credentials", strings.NewReader(tt.body))
			request.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantMessage, decode(t, recorder).Error)
			assert.Nil(t, sessionCookie(recorder))
		})
	}
}

/*
TestHandler_SignIn_Form verifies browser form posts are answered with redirects.
*/
func TestHandler_SignIn_Form(t *testing.T) {
	router := newAuthRouter(t)

	post := func(values url.Values) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, "/api/auth/callback/credentials", strings.NewReader(values.Encode()))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	t.Run("success_default_target", func(t *testing.T) {
		recorder := post(url.Values{"identifier": {"tai"}, "password": {testPassword}})
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, "/dashboard", recorder.Header().Get("Location"))
		assert.NotNil(t, sessionCookie(recorder))
	})

	t.Run("success_callback", func(t *testing.T) {
		recorder := post(url.Values{"identifier": {"tai"}, "password": {testPassword}, "callbackUrl": {"/dashboard/settings"}})
		assert.Equal(t, "/dashboard/settings", recorder.Header().Get("Location"))
	})

	t.Run("offsite_callback_ignored", func(t *testing.T) {
		recorder := post(url.Values{"identifier": {"tai"}, "password": {testPassword}, "callbackUrl": {"//evil.example"}})
		assert.Equal(t, "/dashboard", recorder.Header().Get("Location"))
	})

	t.Run("multipart", func(t *testing.T) {
		var body bytes.Buffer
		form := multipart.NewWriter(&body)
		require.NoError(t, form.WriteField("identifier", "tai"))
		require.NoError(t, form.WriteField("password", testPassword))
		require.NoError(t, form.Close())

		request := httptest.NewRequest(http.MethodPost, "/api/auth/callback/credentials", &body)
		request.Header.Set("Content-Type", form.FormDataContentType())
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, "/dashboard", recorder.Header().Get("Location"))
		assert.NotNil(t, sessionCookie(recorder))
	})

	t.Run("failure", func(t *testing.T) {
		recorder := post(url.Values{"identifier": {"tai"}, "password": {"nope"}})
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, "/sign-in?error=Incorrect+password", recorder.Header().Get("Location"))
		assert.Nil(t, sessionCookie(recorder))
	})
}

/*
TestHandler_Session_Anonymous verifies anonymous reads return an empty object.
*/
func TestHandler_Session_Anonymous(t *testing.T) {
	router := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{}`, string(decode(t, recorder).Data))
}

/*
TestHandler_SignOut verifies the cookie is expired and anonymous sign-out is refused.
*/
func TestHandler_SignOut(t *testing.T) {
	router := newAuthRouter(t)

	// Anonymous
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Signed in
	request := httptest.NewRequest(http.MethodPost, "/api/auth/callback/credentials",
		strings.NewReader(`{"identifier":"tai","password":"`+testPassword+`"}`))
	request.Header.Set("Content-Type", "application/json")
	signIn := httptest.NewRecorder()
	router.ServeHTTP(signIn, request)
	cookie := sessionCookie(signIn)
	require.NotNil(t, cookie)

	request = httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	request.AddCookie(cookie)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	cleared := sessionCookie(recorder)
	require.NotNil(t, cleared)
	assert.Equal(t, "", cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

/*
TestHandler_Providers verifies the credentials provider is advertised.
*/
func TestHandler_Providers(t *testing.T) {
	router := newAuthRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/auth/providers", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"credentials":{"id":"credentials","name":"Credentials","type":"credentials","signinUrl":"/sign-in","callbackUrl":"/api/auth/callback/credentials"}}`,
		string(decode(t, recorder).Data))
}
