package server

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/storyboard/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidTemplate,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidPayload, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeTemplateNotFound, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUpload, errors.ErrCodeFetch, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the JSON error envelope. Server-side failures are
// logged with their cause and reported to the client without it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: errorDetail{
			Code:      errors.ErrCodeInvalidPayload,
			Message:   "request body too large",
			RequestID: middleware.GetReqID(r.Context()),
		}})
		return
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)

	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
		msg = "internal error"
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: middleware.GetReqID(r.Context()),
	}})
}
