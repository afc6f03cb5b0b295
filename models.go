package portal

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. The password hash never leaves the server
// and is only ever checked through ComparePasswordAndHash.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          Role       `bun:"user_role,notnull" json:"role,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Identity adapts the stored account to the Identity interface used by
// the authenticator and token service.
func (u *User) Identity() Identity {
	return accountIdentity{
		id:    u.ID.String(),
		email: u.Email,
		role:  u.Role,
	}
}

type accountIdentity struct {
	id    string
	email string
	role  Role
}

func (a accountIdentity) ID() string    { return a.id }
func (a accountIdentity) Email() string { return a.email }
func (a accountIdentity) Role() Role    { return a.role }

// PlacementRecord is a student placement submission. OwnerID always
// holds the account id of the submitter; it is stamped from the
// resolved session claims, never from client input.
type PlacementRecord struct {
	bun.BaseModel  `bun:"table:placement_records,alias:rec"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	FullName       string     `bun:"full_name,notnull" json:"full_name"`
	RollNo         string     `bun:"roll_no,notnull" json:"roll_no"`
	Branch         string     `bun:"branch,notnull" json:"branch"`
	BatchYear      int        `bun:"batch_year,notnull" json:"batch_year"`
	ResumeLink     string     `bun:"resume_link,notnull" json:"resume_link"`
	CGPA           float64    `bun:"cgpa,notnull" json:"cgpa"`
	ActiveBacklogs int        `bun:"active_backlogs,notnull" json:"active_backlogs"`
	OwnerID        uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	Owner          *User      `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Notification is a shared announcement visible to every authenticated
// account. Only admins create or delete them.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:ntf"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	Message       string     `bun:"message,notnull" json:"message"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
