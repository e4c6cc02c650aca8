// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/hushnote/internal/platform/apperr"
	"github.com/taibuivan/hushnote/internal/platform/ctxutil"
	"github.com/taibuivan/hushnote/internal/platform/sec"
	"github.com/taibuivan/hushnote/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
IsForm reports whether the request body is a classic HTML form post.
*/
func IsForm(request *http.Request) bool {
	mediaType := mediaTypeOf(request)
	return mediaType == mediaTypeURLEncoded || mediaType == mediaTypeMultipart
}

/*
ParseForm populates request.PostForm for either form encoding.

Multipart bodies are read with maxMemory bytes held in memory; url-encoded
bodies go through [http.Request.ParseForm].

Parameters:
  - request: *http.Request
  - maxMemory: int64

Returns:
  - error: Malformed body
*/
func ParseForm(request *http.Request, maxMemory int64) error {
	if mediaTypeOf(request) == mediaTypeMultipart {
		return request.ParseMultipartForm(maxMemory)
	}
	return request.ParseForm()
}

const (
	mediaTypeURLEncoded = "application/x-www-form-urlencoded"
	mediaTypeMultipart  = "multipart/form-data"
)

// mediaTypeOf returns the Content-Type without parameters, or "" if malformed.
func mediaTypeOf(request *http.Request) string {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mediaType
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the session claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.SessionClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the session claims.

Returns:
  - *sec.SessionClaims: The authenticated member's claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.SessionClaims, error) {

	// Get session claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}
