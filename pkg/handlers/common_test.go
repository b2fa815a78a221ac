package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"forumhub/pkg/moderation"

	"go.uber.org/zap"
)

func TestWriteModerationError(t *testing.T) {
	cases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"Unauthorized", moderation.ErrUnauthorized, http.StatusUnauthorized},
		{"Forbidden", moderation.ErrForbidden, http.StatusForbidden},
		{"NotFound", moderation.ErrNotFound, http.StatusNotFound},
		{"RedundantRole", moderation.ErrRedundantRole, http.StatusBadRequest},
		{"UnknownVoteType", moderation.ErrUnknownVoteType, http.StatusBadRequest},
		{"StoreFailure", &moderation.StoreError{Op: "posts.delete", Err: errors.New("timeout")}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeModerationError(w, zap.NewNop().Sugar(), tc.err)
			if w.Result().StatusCode != tc.expectedStatus {
				t.Fatalf("wrong status code: %d, but expected %d", w.Result().StatusCode, tc.expectedStatus)
			}
		})
	}
}

func TestWriteResponse(t *testing.T) {
	w := httptest.NewRecorder()
	WriteResponse(w, "not found", http.StatusNotFound)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("wrong status code: %d", w.Result().StatusCode)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("wrong content type: %s", got)
	}
	if w.Body.String() != `{"message":"not found"}` {
		t.Fatalf("wrong body: %s", w.Body.String())
	}
}
