package posts

import (
	"time"
)

type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

func (v VoteType) Valid() bool {
	return v == Upvote || v == Downvote
}

type Post struct {
	ID          interface{} `bson:"_id,omitempty"`
	Title       string      `bson:"title"`
	Description string      `bson:"description"`
	Tag         string      `bson:"tag"`
	AuthorEmail string      `bson:"authorEmail"`
	AuthorName  string      `bson:"authorName"`
	AuthorPhoto string      `bson:"authorPhoto"`
	TimeOfPost  time.Time   `bson:"timeOfPost"`
	UpVote      []string    `bson:"upVote"`
	DownVote    []string    `bson:"downVote"`
}

func (p *Post) Votes() VoteSets {
	return VoteSets{Up: p.UpVote, Down: p.DownVote}
}
