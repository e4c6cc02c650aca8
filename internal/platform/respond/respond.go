// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes the JSON envelopes used by every Hushnote endpoint.
//
// Success bodies are {"data": ...}. Errors are {"error", "code", "details"},
// where "error" is the client-facing message; sign-in failures put the
// rejection text there verbatim.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/hushnote/internal/platform/apperr"
	"github.com/taibuivan/hushnote/internal/platform/ctxutil"
)

const contentTypeJSON = "application/json; charset=utf-8"

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

func write(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", contentTypeJSON)
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

// Data writes data inside the success envelope with the given status.
func Data(writer http.ResponseWriter, status int, data any) {
	write(writer, status, dataEnvelope{Data: data})
}

// OK writes data inside the success envelope with status 200.
func OK(writer http.ResponseWriter, data any) {
	Data(writer, http.StatusOK, data)
}

// NoContent writes a bare 204.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error writes err as an error envelope.

Description: An [apperr.AppError] anywhere in the chain decides the status and
message. Any other error becomes a generic 500 so internal details never reach
the client. Every 5xx is logged with its cause on the request logger.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	write(writer, appError.HTTPStatus, errorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
