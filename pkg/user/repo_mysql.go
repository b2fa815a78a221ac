package user

import (
	"database/sql"
	"time"
)

type UserRepoSQL struct {
	db *sql.DB
}

func NewUserRepoSQL(db *sql.DB) *UserRepoSQL {
	return &UserRepoSQL{db: db}
}

const selectUser = "SELECT `email`, `name`, `photo_url`, `password`, `role`, `payment_status`, `created` FROM users"

func (repo *UserRepoSQL) GetByEmail(email string) (*User, error) {
	query := selectUser + " WHERE email = ?"
	r := repo.db.QueryRow(query, email)

	u := User{}
	err := r.Scan(&u.Email, &u.Name, &u.PhotoURL, &u.Password, &u.Role, &u.PaymentStatus, &u.Created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (repo *UserRepoSQL) GetAll() ([]*User, error) {
	rows, err := repo.db.Query(selectUser + " ORDER BY created DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*User, 0, 10)
	for rows.Next() {
		u := User{}
		err = rows.Scan(&u.Email, &u.Name, &u.PhotoURL, &u.Password, &u.Role, &u.PaymentStatus, &u.Created)
		if err != nil {
			return nil, err
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

// Upsert creates the user on first sight of the email and refreshes the
// profile fields on every later sight. Role and payment status are left
// untouched for existing rows.
func (repo *UserRepoSQL) Upsert(u *User) error {
	query := "INSERT INTO users (`email`, `name`, `photo_url`, `password`, `role`, `payment_status`, `created`) " +
		"VALUES (?, ?, ?, ?, ?, ?, ?) " +
		"ON DUPLICATE KEY UPDATE `name` = VALUES(`name`), `photo_url` = VALUES(`photo_url`)"
	if u.Created.IsZero() {
		u.Created = time.Now()
	}
	_, err := repo.db.Exec(query, u.Email, u.Name, u.PhotoURL, u.Password, u.Role, u.PaymentStatus, u.Created)

	return err
}

// UpdateRole reports false when no row matched the email.
func (repo *UserRepoSQL) UpdateRole(email string, role Role) (bool, error) {
	r, err := repo.db.Exec("UPDATE users SET `role` = ? WHERE email = ?", role, email)
	if err != nil {
		return false, err
	}

	affected, err := r.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (repo *UserRepoSQL) UpdatePaymentStatus(email string, status PaymentStatus) (bool, error) {
	r, err := repo.db.Exec("UPDATE users SET `payment_status` = ? WHERE email = ?", status, email)
	if err != nil {
		return false, err
	}

	affected, err := r.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
