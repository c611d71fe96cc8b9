package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bitfaber/preventivo/internal/domain/quote"
	"github.com/bitfaber/preventivo/internal/infra/storage"
)

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

type errorResponse struct {
	Error  string             `json:"error"`
	Fields []quote.FieldError `json:"fields,omitempty"`
}

func (h *Handlers) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error().Err(err).Msg("encode response")
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respond(w, status, errorResponse{Error: msg})
}

func (h *Handlers) respondFields(w http.ResponseWriter, fields []quote.FieldError) {
	h.respond(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
}

// respondStorageError maps a failed storage call. The collaborator owns
// not-found semantics; its 404 passes through, anything else is reported
// as a bad gateway.
func (h *Handlers) respondStorageError(w http.ResponseWriter, err error) {
	var serr *storage.StatusError
	if errors.As(err, &serr) && serr.Status == http.StatusNotFound {
		h.respondError(w, http.StatusNotFound, "not found")
		return
	}
	h.Log.Error().Err(err).Msg("storage call failed")
	h.respondError(w, http.StatusBadGateway, "storage unavailable")
}

// validatorFields flattens validator errors into the positional field
// shape the client renders inline.
func validatorFields(err error) []quote.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]quote.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, quote.FieldError{Field: jsonName(fe.Field()), Message: ruleMessage(fe)})
	}
	return fields
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return string(field[0]|0x20) + field[1:]
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "required_without":
		return "either taxCode or vatNumber is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
