package handlers

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"forumhub/pkg/announcements"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AnnouncementsHandler struct {
	Repo   AnnouncementsRepo
	Mod    Moderator
	Logger *zap.SugaredLogger
}

type AnnouncementsRepo interface {
	GetAll(ctx context.Context) ([]*announcements.Announcement, error)
	Count(ctx context.Context) (int64, error)
	ParseID(in string) (interface{}, error)
}

type AnnouncementResponse struct {
	ID       interface{}         `json:"id"`
	Title    string              `json:"title"`
	Message  string              `json:"message"`
	PostedAt time.Time           `json:"postedAt"`
	Author   announcements.Author `json:"author"`
}

type AnnouncementListResponse struct {
	Count         int64                   `json:"count"`
	Announcements []*AnnouncementResponse `json:"announcements"`
}

type CreateAnnouncementReq struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
}

type CreateAnnouncementResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	InsertedID interface{} `json:"insertedId"`
}

func (req *CreateAnnouncementReq) validate() []*CustomError {
	title := &Validator{value: req.Title, location: "body", field: "title"}
	titleErr := func() *CustomError {
		if err := title.Required(); err != nil {
			return err
		}
		if err := title.Empty(); err != nil {
			return err
		}
		return title.MaxLength(200)
	}()

	message := &Validator{value: req.Message, location: "body", field: "message"}
	messageErr := func() *CustomError {
		if err := message.Required(); err != nil {
			return err
		}
		return message.Empty()
	}()

	return mergeErrors(titleErr, messageErr)
}

func (h *AnnouncementsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	items, err := h.Repo.GetAll(ctx)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	count, err := h.Repo.Count(ctx)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := &AnnouncementListResponse{
		Count:         count,
		Announcements: make([]*AnnouncementResponse, 0, len(items)),
	}
	for _, a := range items {
		resp.Announcements = append(resp.Announcements, &AnnouncementResponse{
			ID:       a.ID,
			Title:    a.Title,
			Message:  a.Message,
			PostedAt: a.PostedAt,
			Author:   a.Author,
		})
	}

	WriteJSON(w, resp, http.StatusOK)
}

func (h *AnnouncementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req CreateAnnouncementReq
	err = json.Unmarshal(body, &req)
	if err != nil {
		WriteResponse(w, "bad request", http.StatusBadRequest)
		return
	}

	validationErrors := req.validate()
	if len(validationErrors) > 0 {
		writeErrorsResponse(w, validationErrors, http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	insertedID, err := h.Mod.CreateAnnouncement(ctx, *req.Title, *req.Message)
	if err != nil {
		writeModerationError(w, h.Logger, err)
		return
	}

	WriteJSON(w, &CreateAnnouncementResponse{
		Success:    true,
		Message:    "announcement posted",
		InsertedID: insertedID,
	}, http.StatusCreated)
}

func (h *AnnouncementsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.Repo.ParseID(mux.Vars(r)["id"])
	if err != nil {
		WriteResponse(w, "invalid announcement id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err = h.Mod.DeleteAnnouncement(ctx, id)
	if err != nil {
		writeModerationError(w, h.Logger, err)
		return
	}

	WriteSuccess(w, "announcement deleted", http.StatusOK)
}
