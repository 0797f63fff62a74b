package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope of every JSON body the API writes.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
}

// ResponseError writes a failed envelope with no payload.
func ResponseError(w http.ResponseWriter, code int, message string) {
	if message == "" {
		message = http.StatusText(code)
	}
	ResponseJSON(w, code, false, message, nil, nil)
}

func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

// ResponseBadRequest carries field errors when validation failed.
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	if message == "" {
		message = http.StatusText(http.StatusBadRequest)
	}
	ResponseJSON(w, http.StatusBadRequest, false, message, nil, errors)
}

func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, message)
}

func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusForbidden, message)
}

func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, message)
}

func ResponseConflict(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusConflict, message)
}

func ResponseUnprocessable(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnprocessableEntity, message)
}

// ResponseInternalError never exposes the underlying error.
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, message)
}
