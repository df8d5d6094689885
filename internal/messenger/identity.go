package messenger

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dpetrov/go-messenger/internal/database"
	"github.com/dpetrov/go-messenger/internal/types"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 4

// Register creates a new account. Username and phone are both unique; a
// violation on either is reported as the single ErrUsernameTaken so the
// response does not reveal which one collided.
func (s *Service) Register(username, phone, password, confirm string) (types.User, error) {
	if username == "" || phone == "" || password == "" || confirm == "" {
		return types.User{}, newValidationError(MissingField)
	}
	if password != confirm {
		return types.User{}, newValidationError(PasswordMismatch)
	}
	if len(password) < minPasswordLen {
		return types.User{}, newValidationError(PasswordTooShort)
	}

	pwdHash, err := hashPassword(password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.db.CreateAccount(database.CreateAccountParams{
		Username:     username,
		Phone:        phone,
		PasswordHash: pwdHash,
	})
	if err != nil {
		if database.IsDuplicate(err) {
			return types.User{}, ErrUsernameTaken
		}
		return types.User{}, fmt.Errorf("create account: %w", err)
	}

	return toUser(user), nil
}

// VerifyCredentials resolves a login attempt to a user identity. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *Service) VerifyCredentials(username, password string) (types.User, error) {
	if username == "" || password == "" {
		return types.User{}, newValidationError(MissingField)
	}

	user, err := s.db.GetAccountByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, fmt.Errorf("get account: %w", err)
	}

	if !verifyPassword(user.PasswordHash, password) {
		return types.User{}, ErrInvalidCredentials
	}

	return toUser(user), nil
}

// GetUser resolves a user id, e.g. for session restoration.
func (s *Service) GetUser(id int) (types.User, error) {
	user, err := s.db.GetAccountById(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, fmt.Errorf("get account: %w", err)
	}

	return toUser(user), nil
}

func hashPassword(passwd string) (string, error) {
	passwdHash, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.DefaultCost)
	return string(passwdHash), err
}

func verifyPassword(passwdHash, passwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(passwdHash), []byte(passwd))
	return err == nil
}

func toUser(u database.User) types.User {
	return types.User{
		Id:        u.Id,
		Username:  u.Username,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}
