package handlers

import (
	"context"
	"net/http"
	"time"

	"forumhub/pkg/tags"

	"go.uber.org/zap"
)

type TagsHandler struct {
	Repo   TagsRepo
	Logger *zap.SugaredLogger
}

type TagsRepo interface {
	GetAll(ctx context.Context) ([]*tags.Tag, error)
}

type TagResponse struct {
	ID   interface{} `json:"id"`
	Name string      `json:"name"`
}

func (h *TagsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	items, err := h.Repo.GetAll(ctx)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := make([]*TagResponse, 0, len(items))
	for _, t := range items {
		resp = append(resp, &TagResponse{ID: t.ID, Name: t.Name})
	}

	WriteJSON(w, resp, http.StatusOK)
}
