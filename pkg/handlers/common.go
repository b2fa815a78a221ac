package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"forumhub/pkg/moderation"

	"go.uber.org/zap"
)

type Response struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CustomError struct {
	Location string `json:"location"`
	Param    string `json:"param"`
	Value    string `json:"value"`
	Msg      string `json:"msg"`
}

type ErrorsResponse struct {
	Errors []*CustomError `json:"errors"`
}

func WriteResponse(w http.ResponseWriter, msg string, status int) {
	resp := &Response{Message: msg}
	res, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(res)
}

func WriteJSON(w http.ResponseWriter, v interface{}, status int) {
	res, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(res)
}

func WriteSuccess(w http.ResponseWriter, msg string, status int) {
	WriteJSON(w, &SuccessResponse{Success: true, Message: msg}, status)
}

func writeErrorsResponse(w http.ResponseWriter, errs []*CustomError, status int) {
	errorsJSON, err := json.Marshal(&ErrorsResponse{Errors: errs})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(errorsJSON)
}

// writeModerationError maps the orchestrator's failure taxonomy onto HTTP.
// Policy denials and client mistakes are not system faults and are not
// logged as errors.
func writeModerationError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, moderation.ErrUnauthorized):
		WriteResponse(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, moderation.ErrForbidden):
		WriteJSON(w, &SuccessResponse{Success: false, Message: "forbidden"}, http.StatusForbidden)
	case errors.Is(err, moderation.ErrNotFound):
		WriteJSON(w, &SuccessResponse{Success: false, Message: "not found"}, http.StatusNotFound)
	case errors.Is(err, moderation.ErrRedundantRole):
		WriteJSON(w, &SuccessResponse{Success: false, Message: "role unchanged"}, http.StatusBadRequest)
	case errors.Is(err, moderation.ErrUnknownVoteType):
		WriteResponse(w, "unknown vote type", http.StatusBadRequest)
	default:
		logger.Error(err.Error())
		WriteResponse(w, "internal error", http.StatusInternalServerError)
	}
}
