package portal

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// NotificationsController serves the announcement feed. Reading is
// open to any authenticated session, publishing and deleting are
// admin only.
type NotificationsController struct {
	Logger Logger
	Repo   RepositoryManager
}

func NewNotificationsController(repo RepositoryManager) *NotificationsController {
	if repo == nil {
		panic("Missing RepositoryManager in notifications controller...")
	}
	return &NotificationsController{
		Logger: defLogger{},
		Repo:   repo,
	}
}

func (nc *NotificationsController) WithLogger(logger Logger) *NotificationsController {
	nc.Logger = logger
	return nc
}

// NotificationCreatePayload is the announcement form
type NotificationCreatePayload struct {
	Title   string `form:"title" json:"title"`
	Message string `form:"message" json:"message"`
}

// Validate will validate the payload
func (r NotificationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Message, validation.Required),
	)
}

func (nc *NotificationsController) List(c *fiber.Ctx) error {
	rows, err := nc.Repo.Notifications().ListAll(c.UserContext())
	if err != nil {
		nc.Logger.Error("notifications list", "error", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": presentNotifications(rows)})
}

func (nc *NotificationsController) Create(c *fiber.Ctx) error {
	payload := new(NotificationCreatePayload)
	if err := c.BodyParser(payload); err != nil {
		nc.Logger.Error("notification create parse payload", "error", err)
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		nc.Logger.Warn("notification create validate payload", "error", err)
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid notification").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"fields": err}))
	}

	created, err := nc.Repo.Notifications().Publish(c.UserContext(), &Notification{
		Title:   payload.Title,
		Message: payload.Message,
	})
	if err != nil {
		nc.Logger.Error("notification create", "error", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": presentNotification(created)})
}

func (nc *NotificationsController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, ErrNotificationNotFound)
	}

	deleted, err := nc.Repo.Notifications().Remove(c.UserContext(), id)
	if err != nil {
		nc.Logger.Error("notification delete", "error", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": presentNotification(deleted)})
}

func presentNotifications(rows []*Notification) []fiber.Map {
	out := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		out = append(out, presentNotification(row))
	}
	return out
}

func presentNotification(n *Notification) fiber.Map {
	return fiber.Map{
		"id":         n.ID.String(),
		"title":      n.Title,
		"message":    n.Message,
		"created_at": presentTime(n.CreatedAt),
	}
}
