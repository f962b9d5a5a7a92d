package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

// maxBodyBytes caps request bodies for ranking and ingestion
const maxBodyBytes = 8 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{Error: message})
}

// respondWithAppError maps an error onto a status code. Internal details are
// logged and never sent to the client.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := errorResponse{Error: appErr.Message, Code: string(appErr.Type), Field: appErr.Field}
	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithJSON(w, http.StatusNotFound, resp)
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidConstraint:
		respondWithJSON(w, http.StatusBadRequest, resp)
	case apperrors.ErrorTypeExternal:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("upstream failure")
		respondWithJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream service unavailable", Code: string(appErr.Type)})
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		respondWithJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: string(apperrors.ErrorTypeInternal)})
	}
}
