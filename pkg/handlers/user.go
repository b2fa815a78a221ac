package handlers

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"forumhub/pkg/authz"
	"forumhub/pkg/moderation"
	"forumhub/pkg/session"
	"forumhub/pkg/user"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
)

type UserHandler struct {
	Sm     session.SessionManager
	Repo   UsersRepo
	Mod    Moderator
	Logger *zap.SugaredLogger
}

type UsersRepo interface {
	GetByEmail(email string) (*user.User, error)
	GetAll() ([]*user.User, error)
	Upsert(u *user.User) error
	UpdatePaymentStatus(email string, status user.PaymentStatus) (bool, error)
}

type RegisterReq struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	PhotoURL *string `json:"photoURL"`
	Password *string `json:"password"`
}

type LoginReq struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type RoleResponse struct {
	Role          user.Role          `json:"role"`
	PaymentStatus user.PaymentStatus `json:"paymentStatus"`
}

type UserResponse struct {
	Email         string             `json:"email"`
	Name          string             `json:"name"`
	PhotoURL      string             `json:"photoURL"`
	Role          user.Role          `json:"role"`
	PaymentStatus user.PaymentStatus `json:"paymentStatus"`
	Created       time.Time          `json:"created"`
}

type ChangeRoleReq struct {
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

func validateEmail(email *string) *CustomError {
	v := &Validator{value: email, location: "body", field: "email"}
	if err := v.Required(); err != nil {
		return err
	}
	if err := v.Empty(); err != nil {
		return err
	}
	return v.Matches(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
}

func validatePassword(password *string) *CustomError {
	v := &Validator{value: password, location: "body", field: "password"}
	if err := v.Required(); err != nil {
		return err
	}
	if err := v.Empty(); err != nil {
		return err
	}
	if err := v.MinLength(8); err != nil {
		return err
	}
	return v.MaxLength(72)
}

func (r *RegisterReq) validate() []*CustomError {
	name := &Validator{value: r.Name, location: "body", field: "name"}
	nameErr := func() *CustomError {
		err := name.Required()
		if err != nil {
			return err
		}
		err = name.Empty()
		if err != nil {
			return err
		}
		err = name.MaxLength(100)
		if err != nil {
			return err
		}
		return name.Custom(func(value string) bool {
			return strings.TrimSpace(value) == value
		}, "cannot start or end with whitespace")
	}()

	return mergeErrors(validateEmail(r.Email), nameErr, validatePassword(r.Password))
}

func (u *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req RegisterReq
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

	existing, err := u.Repo.GetByEmail(*req.Email)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if existing != nil {
		validationError := &CustomError{Location: "body", Param: "email", Value: *req.Email, Msg: "already exists"}
		writeErrorsResponse(w, []*CustomError{validationError}, http.StatusUnprocessableEntity)
		return
	}

	salt := make([]byte, 8)
	rand.Read(salt)

	photoURL := ""
	if req.PhotoURL != nil {
		photoURL = *req.PhotoURL
	}

	newUser := &user.User{
		Email:         *req.Email,
		Name:          *req.Name,
		PhotoURL:      photoURL,
		Password:      HashPass(salt, *req.Password),
		Role:          user.RoleUser,
		PaymentStatus: user.Unpaid,
		Created:       time.Now(),
	}

	err = u.Repo.Upsert(newUser)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	u.writeAuthResponse(w, newUser, http.StatusCreated)
}

func (u *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req LoginReq
	err = json.Unmarshal(body, &req)
	if err != nil {
		WriteResponse(w, "bad request", http.StatusBadRequest)
		return
	}

	validationErrors := mergeErrors(validateEmail(req.Email), validatePassword(req.Password))
	if len(validationErrors) > 0 {
		writeErrorsResponse(w, validationErrors, http.StatusUnprocessableEntity)
		return
	}

	account, err := u.Repo.GetByEmail(*req.Email)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if account == nil {
		WriteResponse(w, "user not found", http.StatusUnauthorized)
		return
	}

	if !checkPass(account.Password, *req.Password) {
		WriteResponse(w, "invalid password", http.StatusUnauthorized)
		return
	}

	u.writeAuthResponse(w, account, http.StatusOK)
}

func (u *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := u.Sm.Destroy(ctx, w, r)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, "logged out", http.StatusOK)
}

// GetAll lists every user. Admin only.
func (u *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if err := requireAdmin(r, u.Repo); err != nil {
		writeModerationError(w, u.Logger, err)
		return
	}

	users, err := u.Repo.GetAll()
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	resp := make([]*UserResponse, 0, len(users))
	for _, usr := range users {
		resp = append(resp, &UserResponse{
			Email:         usr.Email,
			Name:          usr.Name,
			PhotoURL:      usr.PhotoURL,
			Role:          usr.Role,
			PaymentStatus: usr.PaymentStatus,
			Created:       usr.Created,
		})
	}

	WriteJSON(w, resp, http.StatusOK)
}

// GetRole returns the role and payment status for an email.
func (u *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	usr, err := u.Repo.GetByEmail(email)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if usr == nil {
		WriteResponse(w, "user not found", http.StatusNotFound)
		return
	}

	WriteJSON(w, &RoleResponse{Role: usr.Role, PaymentStatus: usr.PaymentStatus}, http.StatusOK)
}

// ChangeRole promotes or demotes a user. The orchestrator enforces the
// admin gate and the redundant-update guard.
func (u *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var req ChangeRoleReq
	err = json.Unmarshal(body, &req)
	if err != nil {
		WriteResponse(w, "bad request", http.StatusBadRequest)
		return
	}

	roleErr := func() *CustomError {
		v := &Validator{value: req.Role, location: "body", field: "role"}
		if err := v.Required(); err != nil {
			return err
		}
		return v.OneOf(string(user.RoleUser), string(user.RoleAdmin))
	}()

	validationErrors := mergeErrors(validateEmail(req.Email), roleErr)
	if len(validationErrors) > 0 {
		writeErrorsResponse(w, validationErrors, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = u.Mod.ChangeRole(ctx, *req.Email, user.Role(*req.Role))
	if err != nil {
		writeModerationError(w, u.Logger, err)
		return
	}

	WriteSuccess(w, "role updated", http.StatusOK)
}

// requireAdmin guards read endpoints that are not routed through the
// orchestrator. It reuses the moderation sentinels so the response
// mapping stays in one place.
func requireAdmin(r *http.Request, users UsersRepo) error {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		return moderation.ErrUnauthorized
	}

	actor, err := users.GetByEmail(sess.Identity.Email)
	if err != nil {
		return err
	}
	if actor == nil {
		return moderation.ErrUnauthorized
	}

	if d := authz.Decide(actor.Email, actor.Role, "", authz.AdminOnly); !d.Allowed {
		return moderation.ErrForbidden
	}

	return nil
}

func HashPass(salt []byte, plainPassword string) []byte {
	hashedPass := argon2.IDKey([]byte(plainPassword), salt, 1, 64*1024, 4, 32)
	return append(salt, hashedPass...)
}

func checkPass(passHash []byte, plainPassword string) bool {
	if len(passHash) < 8 {
		return false
	}
	salt := passHash[0:8]
	newSalt := make([]byte, len(salt))
	copy(newSalt, salt)
	usersPassHash := HashPass(newSalt, plainPassword)
	return bytes.Equal(usersPassHash, passHash)
}

func (u *UserHandler) writeAuthResponse(w http.ResponseWriter, account *user.User, status int) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	sessID := uuid.New().String()
	expiresAt := time.Now().Add(2 * time.Hour).Unix()
	id := &session.Identity{Email: account.Email, Name: account.Name, Picture: account.PhotoURL}
	token, err := u.Sm.Create(ctx, w, id, sessID, expiresAt)
	if err != nil {
		u.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	WriteJSON(w, &AuthResponse{Token: token}, status)
}
