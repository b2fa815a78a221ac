package handlers

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"forumhub/pkg/comments"
	"forumhub/pkg/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CommentsHandler struct {
	Repo   CommentsRepo
	Posts  PostsRepo
	Users  UsersRepo
	Mod    Moderator
	Logger *zap.SugaredLogger
}

type CommentsRepo interface {
	GetByPostID(ctx context.Context, id interface{}) ([]*comments.Comment, error)
	GetReported(ctx context.Context) ([]*comments.Comment, error)
	Add(ctx context.Context, comment *comments.Comment) (interface{}, error)
	Report(ctx context.Context, id interface{}, feedback string) (bool, error)
	ParseID(in string) (interface{}, error)
}

type CommentResponse struct {
	ID       interface{} `json:"id"`
	PostID   interface{} `json:"postID"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Message  string      `json:"message"`
	Feedback string      `json:"feedback,omitempty"`
	Created  time.Time   `json:"created"`
}

type AddCommentReq struct {
	Message *string `json:"message"`
}

type ReportCommentReq struct {
	Feedback *string `json:"feedback"`
}

func newCommentResponse(c *comments.Comment) *CommentResponse {
	return &CommentResponse{
		ID:       c.ID,
		PostID:   c.PostID,
		Email:    c.Email,
		Name:     c.Name,
		Message:  c.Message,
		Feedback: c.Feedback,
		Created:  c.Created,
	}
}

func (h *CommentsHandler) GetByPost(w http.ResponseWriter, r *http.Request) {
	id, err := h.Posts.ParseID(mux.Vars(r)["post_id"])
	if err != nil {
		WriteResponse(w, "invalid post id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	items, err := h.Repo.GetByPostID(ctx, id)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := make([]*CommentResponse, 0, len(items))
	for _, c := range items {
		resp = append(resp, newCommentResponse(c))
	}

	WriteJSON(w, resp, http.StatusOK)
}

func (h *CommentsHandler) Add(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		WriteResponse(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := h.Posts.ParseID(mux.Vars(r)["post_id"])
	if err != nil {
		WriteResponse(w, "invalid post id", http.StatusBadRequest)
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req AddCommentReq
	err = json.Unmarshal(body, &req)
	if err != nil {
		WriteResponse(w, "bad request", http.StatusBadRequest)
		return
	}

	messageErr := func() *CustomError {
		v := &Validator{value: req.Message, location: "body", field: "message"}
		if err := v.Required(); err != nil {
			return err
		}
		if err := v.Empty(); err != nil {
			return err
		}
		return v.MaxLength(2000)
	}()
	if messageErr != nil {
		writeErrorsResponse(w, []*CustomError{messageErr}, http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if post == nil {
		WriteResponse(w, "post not found", http.StatusNotFound)
		return
	}

	comment := &comments.Comment{
		PostID:  id,
		Email:   sess.Identity.Email,
		Name:    sess.Identity.Name,
		Message: *req.Message,
		Created: time.Now(),
	}

	insertedID, err := h.Repo.Add(ctx, comment)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	comment.ID = insertedID
	WriteJSON(w, newCommentResponse(comment), http.StatusCreated)
}

// Report attaches moderation feedback to a comment so admins can review it.
func (h *CommentsHandler) Report(w http.ResponseWriter, r *http.Request) {
	_, err := session.SessionFromContext(r.Context())
	if err != nil {
		WriteResponse(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := h.Repo.ParseID(mux.Vars(r)["id"])
	if err != nil {
		WriteResponse(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req ReportCommentReq
	err = json.Unmarshal(body, &req)
	if err != nil {
		WriteResponse(w, "bad request", http.StatusBadRequest)
		return
	}

	feedbackErr := func() *CustomError {
		v := &Validator{value: req.Feedback, location: "body", field: "feedback"}
		if err := v.Required(); err != nil {
			return err
		}
		if err := v.Empty(); err != nil {
			return err
		}
		return v.MaxLength(500)
	}()
	if feedbackErr != nil {
		writeErrorsResponse(w, []*CustomError{feedbackErr}, http.StatusUnprocessableEntity)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	matched, err := h.Repo.Report(ctx, id, *req.Feedback)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !matched {
		WriteResponse(w, "comment not found", http.StatusNotFound)
		return
	}

	WriteSuccess(w, "comment reported", http.StatusOK)
}

// GetReported lists every reported comment. Admin only.
func (h *CommentsHandler) GetReported(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r, h.Users); err != nil {
		writeModerationError(w, h.Logger, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	items, err := h.Repo.GetReported(ctx)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := make([]*CommentResponse, 0, len(items))
	for _, c := range items {
		resp = append(resp, newCommentResponse(c))
	}

	WriteJSON(w, resp, http.StatusOK)
}

func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.Repo.ParseID(mux.Vars(r)["id"])
	if err != nil {
		WriteResponse(w, "invalid comment id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err = h.Mod.DeleteComment(ctx, id)
	if err != nil {
		writeModerationError(w, h.Logger, err)
		return
	}

	WriteSuccess(w, "comment deleted", http.StatusOK)
}
