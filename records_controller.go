package portal

import (
	"fmt"
	"math"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RecordsController serves the placement record endpoints. Listing is
// scoped by role, creation stamps the caller as owner, deletion is
// open to any authenticated session.
type RecordsController struct {
	Logger     Logger
	Repo       RepositoryManager
	ContextKey string
}

func NewRecordsController(repo RepositoryManager, contextKey string) *RecordsController {
	if repo == nil {
		panic("Missing RepositoryManager in records controller...")
	}
	if contextKey == "" {
		contextKey = "user"
	}
	return &RecordsController{
		Logger:     defLogger{},
		Repo:       repo,
		ContextKey: contextKey,
	}
}

func (rc *RecordsController) WithLogger(logger Logger) *RecordsController {
	rc.Logger = logger
	return rc
}

// RecordCreatePayload is the placement record form
type RecordCreatePayload struct {
	FullName       string  `form:"full_name" json:"full_name"`
	RollNo         string  `form:"roll_no" json:"roll_no"`
	Branch         string  `form:"branch" json:"branch"`
	BatchYear      int     `form:"batch_year" json:"batch_year"`
	ResumeLink     string  `form:"resume_link" json:"resume_link"`
	CGPA           float64 `form:"cgpa" json:"cgpa"`
	ActiveBacklogs int     `form:"active_backlogs" json:"active_backlogs"`
}

// Validate will validate the payload. Every field is required; only
// the grade and the backlog count carry rules beyond presence.
func (r RecordCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required),
		validation.Field(&r.RollNo, validation.Required),
		validation.Field(&r.Branch, validation.Required),
		validation.Field(&r.BatchYear, validation.Required),
		validation.Field(&r.ResumeLink, validation.Required),
		validation.Field(&r.CGPA, validation.Required, validation.By(validCGPA)),
		validation.Field(&r.ActiveBacklogs, validation.Min(0)),
	)
}

// validCGPA accepts grades strictly between 0 and 10 that carry a
// fractional part. A bare integer is treated as a data entry mistake.
func validCGPA(value any) error {
	v, _ := value.(float64)
	if v <= 0 || v >= 10 {
		return fmt.Errorf("must be between 0 and 10 exclusive")
	}
	if math.Trunc(v) == v {
		return fmt.Errorf("must not be a whole number")
	}
	return nil
}

func (rc *RecordsController) List(c *fiber.Ctx) error {
	claims, ok := ClaimsFromFiber(c, rc.ContextKey)
	if !ok {
		return respondError(c, ErrTokenMalformed)
	}

	rows, err := rc.Repo.Records().ListForClaims(c.UserContext(), claims)
	if err != nil {
		rc.Logger.Error("records list", "error", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": presentRecords(rows, claims.IsAdmin())})
}

func (rc *RecordsController) Create(c *fiber.Ctx) error {
	claims, ok := ClaimsFromFiber(c, rc.ContextKey)
	if !ok {
		return respondError(c, ErrTokenMalformed)
	}

	payload := new(RecordCreatePayload)
	if err := c.BodyParser(payload); err != nil {
		rc.Logger.Error("record create parse payload", "error", err)
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		rc.Logger.Warn("record create validate payload", "error", err)
		return respondError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid placement record").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"fields": err}))
	}

	record := &PlacementRecord{
		FullName:       payload.FullName,
		RollNo:         payload.RollNo,
		Branch:         payload.Branch,
		BatchYear:      payload.BatchYear,
		ResumeLink:     payload.ResumeLink,
		CGPA:           payload.CGPA,
		ActiveBacklogs: payload.ActiveBacklogs,
	}

	created, err := rc.Repo.Records().CreateOwned(c.UserContext(), record, claims)
	if err != nil {
		rc.Logger.Error("record create", "error", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": presentRecord(created, false)})
}

func (rc *RecordsController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondError(c, ErrRecordNotFound)
	}

	deleted, err := rc.Repo.Records().Remove(c.UserContext(), id)
	if err != nil {
		rc.Logger.Error("record delete", "error", err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": presentRecord(deleted, false)})
}

func presentRecords(rows []*PlacementRecord, withOwner bool) []fiber.Map {
	out := make([]fiber.Map, 0, len(rows))
	for _, row := range rows {
		out = append(out, presentRecord(row, withOwner))
	}
	return out
}

func presentRecord(r *PlacementRecord, withOwner bool) fiber.Map {
	m := fiber.Map{
		"id":              r.ID.String(),
		"full_name":       r.FullName,
		"roll_no":         r.RollNo,
		"branch":          r.Branch,
		"batch_year":      r.BatchYear,
		"resume_link":     r.ResumeLink,
		"cgpa":            r.CGPA,
		"active_backlogs": r.ActiveBacklogs,
		"owner_id":        r.OwnerID.String(),
		"created_at":      presentTime(r.CreatedAt),
	}

	if withOwner && r.Owner != nil {
		m["owner"] = fiber.Map{
			"id":    r.Owner.ID.String(),
			"email": r.Owner.Email,
			"role":  string(r.Owner.Role),
		}
	}

	return m
}

func presentTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
