package user

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var created = time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)
var u = &User{
	Email:         "vectoreal@example.com",
	Name:          "vectoreal",
	PhotoURL:      "https://cdn.example.com/p/34.png",
	Password:      []byte("secretPASSW0rd"),
	Role:          RoleUser,
	PaymentStatus: Unpaid,
	Created:       created,
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"email", "name", "photo_url", "password", "role", "payment_status", "created"}).
		AddRow(u.Email, u.Name, u.PhotoURL, u.Password, string(u.Role), string(u.PaymentStatus), u.Created)
}

func TestGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserRepoSQL(db)

	mock.
		ExpectQuery("SELECT `email`, `name`, `photo_url`, `password`, `role`, `payment_status`, `created` FROM users WHERE").
		WithArgs(u.Email).
		WillReturnRows(userRows())

	res, err := repo.GetByEmail(u.Email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}

	if !reflect.DeepEqual(u, res) {
		t.Fatalf("expected %v, but was %v", u, res)
	}

	// missing row maps to nil, nil
	mock.
		ExpectQuery("SELECT `email`, `name`, `photo_url`, `password`, `role`, `payment_status`, `created` FROM users WHERE").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "name", "photo_url", "password", "role", "payment_status", "created"}))

	res, err = repo.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if res != nil {
		t.Fatalf("unexpected result: %v", res)
	}

	// error
	mock.
		ExpectQuery("SELECT `email`, `name`, `photo_url`, `password`, `role`, `payment_status`, `created` FROM users WHERE").
		WithArgs(u.Email).
		WillReturnError(errors.New("db_error"))

	res, err = repo.GetByEmail(u.Email)
	if res != nil {
		t.Fatalf("unexpected result: %v", res)
	}
	if err == nil {
		t.Fatal("expected error, but was nil")
	}
}

func TestGetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserRepoSQL(db)

	mock.
		ExpectQuery("SELECT `email`, `name`, `photo_url`, `password`, `role`, `payment_status`, `created` FROM users ORDER BY").
		WillReturnRows(userRows())

	res, err := repo.GetAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}

	if len(res) != 1 || !reflect.DeepEqual(u, res[0]) {
		t.Fatalf("expected [%v], but was %v", u, res)
	}
}

func TestUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserRepoSQL(db)

	mock.
		ExpectExec("INSERT INTO users").
		WithArgs(u.Email, u.Name, u.PhotoURL, u.Password, string(u.Role), string(u.PaymentStatus), u.Created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}

	mock.
		ExpectExec("INSERT INTO users").
		WithArgs(u.Email, u.Name, u.PhotoURL, u.Password, string(u.Role), string(u.PaymentStatus), u.Created).
		WillReturnError(errors.New("db_error"))

	err = repo.Upsert(u)
	if err == nil {
		t.Fatal("expected error, but was nil")
	}
}

func TestUpdateRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserRepoSQL(db)

	mock.
		ExpectExec("UPDATE users SET `role`").
		WithArgs(string(RoleAdmin), u.Email).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.UpdateRole(u.Email, RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if !ok {
		t.Fatal("expected update to match a row")
	}

	mock.
		ExpectExec("UPDATE users SET `role`").
		WithArgs(string(RoleAdmin), "nobody@example.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = repo.UpdateRole("nobody@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if ok {
		t.Fatal("expected no row to match")
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserRepoSQL(db)

	mock.
		ExpectExec("UPDATE users SET `payment_status`").
		WithArgs(string(Paid), u.Email).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.UpdatePaymentStatus(u.Email, Paid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err.Error())
	}
	if !ok {
		t.Fatal("expected update to match a row")
	}
}
