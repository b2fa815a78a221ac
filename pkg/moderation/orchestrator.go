// Package moderation sequences every authorization-gated write: resolve the
// verified identity, fetch the target resource, evaluate policy, apply the
// domain transition, persist. The first failing step wins; later steps never
// run.
package moderation

import (
	"context"
	"time"

	"forumhub/pkg/announcements"
	"forumhub/pkg/authz"
	"forumhub/pkg/comments"
	"forumhub/pkg/posts"
	"forumhub/pkg/session"
	"forumhub/pkg/user"

	"go.uber.org/zap"
)

// voteRetries bounds the compare-and-swap loop for concurrent vote toggles.
const voteRetries = 3

type PostsRepo interface {
	GetByID(ctx context.Context, id interface{}) (*posts.Post, error)
	Delete(ctx context.Context, id interface{}) (bool, error)
	UpdateVotes(ctx context.Context, id interface{}, prev, next posts.VoteSets) (bool, error)
}

type CommentsRepo interface {
	GetByID(ctx context.Context, id interface{}) (*comments.Comment, error)
	Delete(ctx context.Context, id interface{}) (bool, error)
}

type AnnouncementsRepo interface {
	Add(ctx context.Context, a *announcements.Announcement) (interface{}, error)
	Delete(ctx context.Context, id interface{}) (bool, error)
}

// RoleStore looks up the actor's current role and payment status by email.
type RoleStore interface {
	GetByEmail(email string) (*user.User, error)
	UpdateRole(email string, role user.Role) (bool, error)
}

type Orchestrator struct {
	Posts         PostsRepo
	Comments      CommentsRepo
	Announcements AnnouncementsRepo
	Roles         RoleStore
	Logger        *zap.SugaredLogger
}

// VoteResult is the projection returned to the caller after a toggle.
type VoteResult struct {
	UpVoteCount   int
	DownVoteCount int
}

// CastVote toggles the actor's vote on a post. The actor's email comes from
// the verified session only. The write is a guarded single-document update:
// when a concurrent toggle moves the sets first, the read-toggle-write cycle
// is retried against fresh state.
func (o *Orchestrator) CastVote(ctx context.Context, postID interface{}, vote posts.VoteType) (*VoteResult, error) {
	sess, err := session.SessionFromContext(ctx)
	if err != nil {
		return nil, ErrUnauthorized
	}

	if !vote.Valid() {
		return nil, ErrUnknownVoteType
	}

	for i := 0; i < voteRetries; i++ {
		post, err := o.Posts.GetByID(ctx, postID)
		if err != nil {
			return nil, storeErr("get post", err)
		}
		if post == nil {
			return nil, ErrNotFound
		}

		next := post.Votes().Toggle(sess.Identity.Email, vote)

		ok, err := o.Posts.UpdateVotes(ctx, postID, post.Votes(), next)
		if err != nil {
			return nil, storeErr("update votes", err)
		}
		if ok {
			up, down := next.Counts()
			return &VoteResult{UpVoteCount: up, DownVoteCount: down}, nil
		}

		o.Logger.Infow("vote update conflicted, retrying",
			"postID", postID, "actor", sess.Identity.Email, "attempt", i+1)
	}

	return nil, ErrVoteConflict
}

// DeletePost removes a post. Owner or admin only.
func (o *Orchestrator) DeletePost(ctx context.Context, postID interface{}) error {
	actor, role, err := o.resolveActor(ctx)
	if err != nil {
		return err
	}

	post, err := o.Posts.GetByID(ctx, postID)
	if err != nil {
		return storeErr("get post", err)
	}
	if post == nil {
		return ErrNotFound
	}

	if d := authz.Decide(actor, role, post.AuthorEmail, authz.DeleteOwnResource); !d.Allowed {
		return ErrForbidden
	}

	ok, err := o.Posts.Delete(ctx, postID)
	if err != nil {
		return storeErr("delete post", err)
	}
	if !ok {
		return ErrNotFound
	}

	return nil
}

// DeleteComment removes a comment. Owner or admin only.
func (o *Orchestrator) DeleteComment(ctx context.Context, commentID interface{}) error {
	actor, role, err := o.resolveActor(ctx)
	if err != nil {
		return err
	}

	comment, err := o.Comments.GetByID(ctx, commentID)
	if err != nil {
		return storeErr("get comment", err)
	}
	if comment == nil {
		return ErrNotFound
	}

	if d := authz.Decide(actor, role, comment.Email, authz.DeleteOwnResource); !d.Allowed {
		return ErrForbidden
	}

	ok, err := o.Comments.Delete(ctx, commentID)
	if err != nil {
		return storeErr("delete comment", err)
	}
	if !ok {
		return ErrNotFound
	}

	return nil
}

// ChangeRole sets a user's role. The redundant-update guard runs before the
// admin check, so a no-op request is rejected even for admins.
func (o *Orchestrator) ChangeRole(ctx context.Context, targetEmail string, newRole user.Role) error {
	actor, role, err := o.resolveActor(ctx)
	if err != nil {
		return err
	}

	target, err := o.Roles.GetByEmail(targetEmail)
	if err != nil {
		return storeErr("get user", err)
	}
	if target == nil {
		return ErrNotFound
	}

	if target.Role == newRole {
		return ErrRedundantRole
	}

	if d := authz.Decide(actor, role, targetEmail, authz.AdminOnly); !d.Allowed {
		return ErrForbidden
	}

	ok, err := o.Roles.UpdateRole(targetEmail, newRole)
	if err != nil {
		return storeErr("update role", err)
	}
	if !ok {
		return ErrNotFound
	}

	o.Logger.Infow("role changed", "target", targetEmail, "role", newRole, "actor", actor)

	return nil
}

// CreateAnnouncement inserts an announcement with an author snapshot taken
// from the actor's current profile. Admin only.
func (o *Orchestrator) CreateAnnouncement(ctx context.Context, title, message string) (interface{}, error) {
	actor, role, err := o.resolveActor(ctx)
	if err != nil {
		return nil, err
	}

	if d := authz.Decide(actor, role, "", authz.AdminOnly); !d.Allowed {
		return nil, ErrForbidden
	}

	// resolveActor already proved the row exists
	u, err := o.Roles.GetByEmail(actor)
	if err != nil {
		return nil, storeErr("get user", err)
	}

	a := &announcements.Announcement{
		Title:    title,
		Message:  message,
		PostedAt: time.Now(),
		Author: announcements.Author{
			Name:  u.Name,
			Image: u.PhotoURL,
			Role:  string(u.Role),
		},
	}

	id, err := o.Announcements.Add(ctx, a)
	if err != nil {
		return nil, storeErr("insert announcement", err)
	}

	return id, nil
}

// DeleteAnnouncement removes an announcement. Admin only.
func (o *Orchestrator) DeleteAnnouncement(ctx context.Context, id interface{}) error {
	actor, role, err := o.resolveActor(ctx)
	if err != nil {
		return err
	}

	if d := authz.Decide(actor, role, "", authz.AdminOnly); !d.Allowed {
		return ErrForbidden
	}

	ok, err := o.Announcements.Delete(ctx, id)
	if err != nil {
		return storeErr("delete announcement", err)
	}
	if !ok {
		return ErrNotFound
	}

	return nil
}

// resolveActor pulls the verified identity from the request context and looks
// up its current role. An identity the role store has never seen is treated
// as unauthenticated; registration always runs first.
func (o *Orchestrator) resolveActor(ctx context.Context) (string, user.Role, error) {
	sess, err := session.SessionFromContext(ctx)
	if err != nil {
		return "", "", ErrUnauthorized
	}

	u, err := o.Roles.GetByEmail(sess.Identity.Email)
	if err != nil {
		return "", "", storeErr("get actor", err)
	}
	if u == nil {
		return "", "", ErrUnauthorized
	}

	return u.Email, u.Role, nil
}
