package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"forumhub/pkg/session"

	"go.uber.org/zap"
)

// Auth verifies the bearer token when one is present and attaches the
// session to the request context. Requests without a token pass through
// untouched; every protected operation checks for the session itself, so
// anonymous reads stay cheap and a forged token fails fast here.
func Auth(logger *zap.SugaredLogger, sm session.SessionManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sess, err := sm.Check(ctx, r)
		if err != nil {
			logger.Error(err.Error())
			w.Header().Set("Content-type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			errorBody, _ := json.Marshal(map[string]string{"message": "unauthorized"})
			w.Write(errorBody)

			return
		}

		reqCtx := context.WithValue(r.Context(), session.SessionKey, sess)

		next.ServeHTTP(w, r.WithContext(reqCtx))
	})
}
