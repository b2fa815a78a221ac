package user

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type PaymentStatus string

const (
	Unpaid PaymentStatus = "unpaid"
	Paid   PaymentStatus = "paid"
)

// User is keyed by email. Role and PaymentStatus change only through the
// moderation and payment endpoints, never through registration.
type User struct {
	Email         string
	Name          string
	PhotoURL      string
	Password      []byte
	Role          Role
	PaymentStatus PaymentStatus
	Created       time.Time
}
