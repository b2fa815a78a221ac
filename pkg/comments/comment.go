package comments

import "time"

// A non-empty Feedback value marks the comment as reported for moderation.
type Comment struct {
	ID       interface{} `bson:"_id,omitempty"`
	PostID   interface{} `bson:"postID"`
	Email    string      `bson:"email"`
	Name     string      `bson:"name"`
	Message  string      `bson:"message"`
	Feedback string      `bson:"feedback"`
	Created  time.Time   `bson:"created"`
}
