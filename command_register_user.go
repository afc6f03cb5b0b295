package portal

import (
	"context"
	"fmt"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries an unauthenticated signup request. Role
// is accepted from the caller, including "admin": the deployment uses
// self-assigned roles as its bootstrap mechanism.
type RegisterUserMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required, validation.By(StrongPassword)),
		validation.Field(&e.Role, validation.Required, validation.In(string(RoleUser), string(RoleAdmin))),
	)
}

// StrongPassword enforces the signup strength policy: at least 8
// characters mixing lower, upper, digit, and symbol classes.
func StrongPassword(value any) error {
	s, _ := value.(string)
	if len(s) < 8 {
		return fmt.Errorf("must be at least 8 characters")
	}

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	if !lower || !upper || !digit || !symbol {
		return fmt.Errorf("must contain lower, upper, digit, and symbol characters")
	}

	return nil
}

type RegisterUserHandler struct {
	repo RepositoryManager
	cost int
}

// NewRegisterUserHandler builds the signup handler with the default
// bcrypt work factor.
func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, cost: passwordHashCost()}
}

// WithBcryptCost overrides the hashing work factor.
func (h *RegisterUserHandler) WithBcryptCost(cost int) *RegisterUserHandler {
	h.cost = cost
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid signup payload").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"fields": err})
	}

	role, _ := ParseRole(event.Role)

	hash, err := HashPasswordWithCost(event.Password, h.cost)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Email:        event.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if id, err := hashid.NewUUID(event.Email); err == nil {
		user.ID = id
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Single insert: the unique email column turns a concurrent
		// duplicate into a constraint error instead of a second row.
		var err error
		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			if IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
		}
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}
