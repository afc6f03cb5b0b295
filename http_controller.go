package portal

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// AuthController serves the credential endpoints: signup and login.
type AuthController struct {
	Logger     Logger
	Repo       RepositoryManager
	Auther     Authenticator
	BcryptCost int
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerBcryptCost(cost int) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.BcryptCost = cost
		return c
	}
}

// SignupRequest payload
type SignupRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

func (a *AuthController) Signup(c *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	req := RegisterUserMessage{
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	if a.BcryptCost > 0 {
		registerUser = registerUser.WithBcryptCost(a.BcryptCost)
	}

	user, err := registerUser.Execute(c.UserContext(), req)
	if err != nil {
		a.Logger.Error("signup execute", "error", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":    user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Role, validation.Required),
	)
}

// Login verifies credentials and returns a session token. Every
// failure mode that involves the credentials themselves renders as the
// same invalid credentials response.
func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Warn("login validate payload", "error", err)
		return respondError(c, ErrInvalidCredentials)
	}

	role, ok := ParseRole(payload.Role)
	if !ok {
		a.Logger.Warn("login unknown role", "role", payload.Role)
		return respondError(c, ErrInvalidCredentials)
	}

	token, identity, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password, role)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"id":    identity.ID(),
		"email": identity.Email(),
		"role":  string(identity.Role()),
	})
}

var categoryStatus = map[goerrors.Category]int{
	goerrors.CategoryAuth:       fiber.StatusUnauthorized,
	goerrors.CategoryAuthz:      fiber.StatusForbidden,
	goerrors.CategoryValidation: fiber.StatusBadRequest,
	goerrors.CategoryBadInput:   fiber.StatusBadRequest,
	goerrors.CategoryConflict:   fiber.StatusConflict,
	goerrors.CategoryNotFound:   fiber.StatusNotFound,
}

// respondError renders any error through the shared vocabulary. Rich
// errors carry their own status; internal details never leave the
// process.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"
	textCode := ""
	var fields any

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if s, ok := categoryStatus[richErr.Category]; ok {
			status = s
			message = richErr.Message
		}
		textCode = richErr.TextCode
		if f, ok := richErr.Metadata["fields"]; ok {
			fields = f
		}
	}

	body := fiber.Map{"error": message}
	if textCode != "" {
		body["text_code"] = textCode
	}
	if fields != nil {
		body["fields"] = fields
	}

	return c.Status(status).JSON(body)
}
