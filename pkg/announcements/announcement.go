package announcements

import "time"

// Author is a snapshot taken at posting time; later profile or role changes
// do not rewrite history.
type Author struct {
	Name  string `bson:"name"`
	Image string `bson:"image"`
	Role  string `bson:"role"`
}

type Announcement struct {
	ID       interface{} `bson:"_id,omitempty"`
	Title    string      `bson:"title"`
	Message  string      `bson:"message"`
	PostedAt time.Time   `bson:"postedAt"`
	Author   Author      `bson:"author"`
}
