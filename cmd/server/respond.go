package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/Simplici0/glassquote/internal/pricing"
)

// maxRequestBytes bounds JSON and form bodies.
const maxRequestBytes = 1 << 20

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// requestError is a malformed or invalid quotation payload.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeQuoteRequest parses raw as a quotation request and checks its field constraints.
func (s *server) decodeQuoteRequest(raw []byte) (pricing.Request, error) {
	var req pricing.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return pricing.Request{}, &requestError{msg: "некорректный JSON: " + err.Error()}
	}
	if err := s.validate.Struct(req); err != nil {
		return pricing.Request{}, &requestError{msg: describeValidation(err)}
	}
	return req, nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: нарушено правило %s", field, rule))
	}
	return "некорректный запрос: " + strings.Join(parts, "; ")
}

// writeQuoteError maps a decode or calculation failure onto an API response.
func (s *server) writeQuoteError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		writeError(w, http.StatusBadRequest, "invalid_request", reqErr.Error())
	case pricing.IsValidation(err):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	default:
		s.logger.Error().Err(err).Msg("quote_failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Не удалось выполнить расчёт")
	}
}
