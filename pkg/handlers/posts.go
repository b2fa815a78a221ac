package handlers

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"forumhub/pkg/moderation"
	"forumhub/pkg/posts"
	"forumhub/pkg/session"
	"forumhub/pkg/user"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PostsHandler struct {
	Repo     PostsRepo
	Comments CommentsRepo
	Mod      Moderator
	Logger   *zap.SugaredLogger
}

type PostsRepo interface {
	GetAll(ctx context.Context) ([]*posts.Post, error)
	GetByTag(ctx context.Context, tag string) ([]*posts.Post, error)
	GetByAuthor(ctx context.Context, email string) ([]*posts.Post, error)
	Search(ctx context.Context, query string) ([]*posts.Post, error)
	GetByID(ctx context.Context, id interface{}) (*posts.Post, error)
	Add(ctx context.Context, p *posts.Post) (interface{}, error)
	ParseID(in string) (interface{}, error)
}

// Moderator gates every write that needs an authorization decision.
type Moderator interface {
	CastVote(ctx context.Context, postID interface{}, vote posts.VoteType) (*moderation.VoteResult, error)
	DeletePost(ctx context.Context, postID interface{}) error
	DeleteComment(ctx context.Context, commentID interface{}) error
	ChangeRole(ctx context.Context, targetEmail string, newRole user.Role) error
	CreateAnnouncement(ctx context.Context, title, message string) (interface{}, error)
	DeleteAnnouncement(ctx context.Context, id interface{}) error
}

type AuthorResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type PostResponse struct {
	ID            interface{}        `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Tag           string             `json:"tag"`
	Author        AuthorResponse     `json:"author"`
	TimeOfPost    time.Time          `json:"timeOfPost"`
	UpVoteCount   int                `json:"upVoteCount"`
	DownVoteCount int                `json:"downVoteCount"`
	Comments      []*CommentResponse `json:"comments,omitempty"`
}

type VoteCountResponse struct {
	UpVoteCount   int `json:"upVoteCount"`
	DownVoteCount int `json:"downVoteCount"`
}

type CreatePostReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tag         *string `json:"tag"`
}

type VoteReq struct {
	VoteType *string `json:"voteType"`
}

func newPostResponse(p *posts.Post) *PostResponse {
	return &PostResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Tag:         p.Tag,
		Author: AuthorResponse{
			Email: p.AuthorEmail,
			Name:  p.AuthorName,
			Photo: p.AuthorPhoto,
		},
		TimeOfPost:    p.TimeOfPost,
		UpVoteCount:   len(p.UpVote),
		DownVoteCount: len(p.DownVote),
	}
}

func (req *CreatePostReq) validate() []*CustomError {
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

	description := &Validator{value: req.Description, location: "body", field: "description"}
	descriptionErr := func() *CustomError {
		if err := description.Required(); err != nil {
			return err
		}
		return description.Empty()
	}()

	tag := &Validator{value: req.Tag, location: "body", field: "tag"}
	tagErr := func() *CustomError {
		if err := tag.Required(); err != nil {
			return err
		}
		return tag.Empty()
	}()

	return mergeErrors(titleErr, descriptionErr, tagErr)
}

func (h *PostsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	h.writePostList(w, func() ([]*posts.Post, error) {
		return h.Repo.GetAll(ctx)
	})
}

func (h *PostsHandler) GetByTag(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	tag := mux.Vars(r)["tag"]
	h.writePostList(w, func() ([]*posts.Post, error) {
		return h.Repo.GetByTag(ctx, tag)
	})
}

func (h *PostsHandler) GetByAuthor(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	email := mux.Vars(r)["email"]
	h.writePostList(w, func() ([]*posts.Post, error) {
		return h.Repo.GetByAuthor(ctx, email)
	})
}

func (h *PostsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		WriteResponse(w, "query is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	h.writePostList(w, func() ([]*posts.Post, error) {
		return h.Repo.Search(ctx, query)
	})
}

// GetByID returns a single post with its comments embedded.
func (h *PostsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := h.Repo.ParseID(mux.Vars(r)["id"])
	if err != nil {
		WriteResponse(w, "invalid post id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	post, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if post == nil {
		WriteResponse(w, "post not found", http.StatusNotFound)
		return
	}

	postComments, err := h.Comments.GetByPostID(ctx, id)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := newPostResponse(post)
	resp.Comments = make([]*CommentResponse, 0, len(postComments))
	for _, c := range postComments {
		resp.Comments = append(resp.Comments, newCommentResponse(c))
	}

	WriteJSON(w, resp, http.StatusOK)
}

func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		WriteResponse(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req CreatePostReq
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

	post := &posts.Post{
		Title:       *req.Title,
		Description: *req.Description,
		Tag:         *req.Tag,
		AuthorEmail: sess.Identity.Email,
		AuthorName:  sess.Identity.Name,
		AuthorPhoto: sess.Identity.Picture,
		TimeOfPost:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	id, err := h.Repo.Add(ctx, post)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	post.ID = id
	WriteJSON(w, newPostResponse(post), http.StatusCreated)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.Repo.ParseID(mux.Vars(r)["id"])
	if err != nil {
		WriteResponse(w, "invalid post id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err = h.Mod.DeletePost(ctx, id)
	if err != nil {
		writeModerationError(w, h.Logger, err)
		return
	}

	WriteSuccess(w, "post deleted", http.StatusOK)
}

// Vote toggles the caller's vote on a post and returns the fresh tallies.
func (h *PostsHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := h.Repo.ParseID(mux.Vars(r)["id"])
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

	var req VoteReq
	err = json.Unmarshal(body, &req)
	if err != nil {
		WriteResponse(w, "bad request", http.StatusBadRequest)
		return
	}

	voteErr := func() *CustomError {
		v := &Validator{value: req.VoteType, location: "body", field: "voteType"}
		if err := v.Required(); err != nil {
			return err
		}
		return v.OneOf(string(posts.Upvote), string(posts.Downvote))
	}()
	if voteErr != nil {
		writeErrorsResponse(w, []*CustomError{voteErr}, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := h.Mod.CastVote(ctx, id, posts.VoteType(*req.VoteType))
	if err != nil {
		writeModerationError(w, h.Logger, err)
		return
	}

	WriteJSON(w, &VoteCountResponse{
		UpVoteCount:   result.UpVoteCount,
		DownVoteCount: result.DownVoteCount,
	}, http.StatusOK)
}

func (h *PostsHandler) writePostList(w http.ResponseWriter, load func() ([]*posts.Post, error)) {
	items, err := load()
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := make([]*PostResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, newPostResponse(p))
	}

	WriteJSON(w, resp, http.StatusOK)
}
