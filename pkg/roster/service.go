// Package roster implements the student-record and account operations
// exposed by the API. Every operation returns a typed *apperr.Error on
// failure; results are never silently empty.
package roster

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/Alarion239/studentrecords/internal/logger"
	"github.com/Alarion239/studentrecords/models/common"
	"github.com/Alarion239/studentrecords/models/records"
	"github.com/Alarion239/studentrecords/pkg/apperr"
	"github.com/Alarion239/studentrecords/pkg/credential"
	"github.com/Alarion239/studentrecords/pkg/store"
	"github.com/Alarion239/studentrecords/pkg/token"
)

// Operation names, used as error prefixes.
const (
	OpStudents  = "fetch students"
	OpAddNewRow = "create row"
	OpUpdateRow = "update row"
	OpDeleteRow = "delete row"
	OpSignup    = "sign up"
	OpSignIn    = "sign in"
	OpUser      = "get user"
)

const DeletedMessage = "Student deleted successfully"

var (
	ErrStudentNotFound    = errors.New("Student not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("email, name, and password are required")
	ErrInvalidRole        = errors.New("role must be STUDENT or TEACHER")
	ErrEmailTaken         = errors.New("email already registered")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns credential.ErrMismatch when password does not match hash.
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(claims token.Claims) (string, error)
}

type Service struct {
	students store.StudentStore
	accounts store.AccountStore
	hasher   PasswordHasher
	issuer   TokenIssuer
	validate *validator.Validate
}

func NewService(students store.StudentStore, accounts store.AccountStore, hasher PasswordHasher, issuer TokenIssuer) *Service {
	return &Service{
		students: students,
		accounts: accounts,
		hasher:   hasher,
		issuer:   issuer,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type SignupInput struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Role     common.Role `json:"role" validate:"required,oneof=STUDENT TEACHER"`
}

// AuthResult is returned by Signup and SignIn. Name is only set on signup.
type AuthResult struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name,omitempty"`
	Email string      `json:"email"`
	Role  common.Role `json:"role"`
	Token string      `json:"token"`
}

type DeleteResult struct {
	Message string `json:"message"`
}

func (s *Service) Students(ctx context.Context) ([]records.Student, error) {
	students, err := s.students.ListStudents(ctx)
	if err != nil {
		logger.LogError("Failed to fetch students", err)
		return nil, apperr.E(OpStudents, apperr.Store, err)
	}
	return students, nil
}

func (s *Service) AddNewRow(ctx context.Context, fields records.StudentFields) (records.Student, error) {
	student, err := s.students.CreateStudent(ctx, fields)
	if err != nil {
		logger.LogError("Failed to create student", err, "roll_no", fields.RollNo)
		return records.Student{}, apperr.E(OpAddNewRow, apperr.Store, err)
	}
	logger.LogInfo("Student created", "id", student.ID)
	return student, nil
}

// UpdateRow writes the non-nil fields of patch over the row with id.
func (s *Service) UpdateRow(ctx context.Context, id int64, patch records.StudentPatch) (records.Student, error) {
	student, err := s.getStudent(ctx, OpUpdateRow, id)
	if err != nil {
		return records.Student{}, err
	}

	saved, err := s.students.SaveStudent(ctx, patch.Apply(student))
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Deleted between lookup and save.
		return records.Student{}, apperr.E(OpUpdateRow, apperr.NotFound, ErrStudentNotFound)
	case err != nil:
		logger.LogError("Failed to save student", err, "id", id)
		return records.Student{}, apperr.E(OpUpdateRow, apperr.Store, err)
	}
	return saved, nil
}

func (s *Service) DeleteRow(ctx context.Context, id int64) (DeleteResult, error) {
	if _, err := s.getStudent(ctx, OpDeleteRow, id); err != nil {
		return DeleteResult{}, err
	}

	err := s.students.DeleteStudent(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return DeleteResult{}, apperr.E(OpDeleteRow, apperr.NotFound, ErrStudentNotFound)
	case err != nil:
		logger.LogError("Failed to delete student", err, "id", id)
		return DeleteResult{}, apperr.E(OpDeleteRow, apperr.Store, err)
	}
	logger.LogInfo("Student deleted", "id", id)
	return DeleteResult{Message: DeletedMessage}, nil
}

func (s *Service) getStudent(ctx context.Context, op string, id int64) (records.Student, error) {
	student, err := s.students.GetStudent(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return records.Student{}, apperr.E(op, apperr.NotFound, ErrStudentNotFound)
	case err != nil:
		logger.LogError("Failed to get student", err, "id", id)
		return records.Student{}, apperr.E(op, apperr.Store, err)
	}
	return student, nil
}

// Signup validates in, stores a new account with a bcrypt hash of the
// password and returns a token for it.
func (s *Service) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	if err := s.validateSignup(in); err != nil {
		return AuthResult{}, apperr.E(OpSignup, apperr.Validation, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return AuthResult{}, apperr.E(OpSignup, apperr.Unknown, err)
	}

	account, err := s.accounts.CreateAccount(ctx, common.NewAccount{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		return AuthResult{}, apperr.E(OpSignup, apperr.Conflict, ErrEmailTaken)
	case err != nil:
		logger.LogError("Failed to create account", err)
		return AuthResult{}, apperr.E(OpSignup, apperr.Store, err)
	}

	signed, err := s.issuer.Issue(token.Claims{
		UserID: account.ID,
		Name:   account.Name,
		Email:  account.Email,
		Role:   string(account.Role),
	})
	if err != nil {
		return AuthResult{}, apperr.E(OpSignup, apperr.Unknown, err)
	}

	logger.LogInfo("Account created", "id", account.ID, "role", account.Role)
	return AuthResult{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Role:  account.Role,
		Token: signed,
	}, nil
}

func (s *Service) validateSignup(in SignupInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Field() != "Role" {
			return ErrMissingFields
		}
	}
	return ErrInvalidRole
}

func (s *Service) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return AuthResult{}, apperr.E(OpSignIn, apperr.NotFound, ErrUserNotFound)
	case err != nil:
		logger.LogError("Failed to get account", err)
		return AuthResult{}, apperr.E(OpSignIn, apperr.Store, err)
	}

	err = s.hasher.Compare(account.PasswordHash, password)
	switch {
	case errors.Is(err, credential.ErrMismatch):
		logger.LogWarn("Sign in rejected", "id", account.ID)
		return AuthResult{}, apperr.E(OpSignIn, apperr.Credentials, ErrInvalidCredentials)
	case err != nil:
		logger.LogError("Failed to verify password", err, "id", account.ID)
		return AuthResult{}, apperr.E(OpSignIn, apperr.Unknown, err)
	}

	signed, err := s.issuer.Issue(token.Claims{
		UserID: account.ID,
		Email:  account.Email,
		Role:   string(account.Role),
	})
	if err != nil {
		return AuthResult{}, apperr.E(OpSignIn, apperr.Unknown, err)
	}

	return AuthResult{
		ID:    account.ID,
		Email: account.Email,
		Role:  account.Role,
		Token: signed,
	}, nil
}

// User looks up an account by email.
func (s *Service) User(ctx context.Context, email string) (common.Account, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return common.Account{}, apperr.E(OpUser, apperr.NotFound, ErrUserNotFound)
	case err != nil:
		logger.LogError("Failed to get account", err)
		return common.Account{}, apperr.E(OpUser, apperr.Store, err)
	}
	return account, nil
}
