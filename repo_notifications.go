package portal

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Notifications interface {
	repository.Repository[*Notification]

	ListAll(ctx context.Context) ([]*Notification, error)
	Publish(ctx context.Context, notification *Notification) (*Notification, error)
	Remove(ctx context.Context, id uuid.UUID) (*Notification, error)
}

type notifications struct {
	repository.Repository[*Notification]
	db *bun.DB
}

var (
	_ Notifications                        = (*notifications)(nil)
	_ repository.Repository[*Notification] = (*notifications)(nil)
)

func NewNotificationsRepository(db *bun.DB) Notifications {
	repo := repository.NewRepository[*Notification](db, repository.ModelHandlers[*Notification]{
		NewRecord: func() *Notification { return &Notification{} },
		GetID: func(n *Notification) uuid.UUID {
			if n == nil {
				return uuid.Nil
			}
			return n.ID
		},
		SetID: func(n *Notification, id uuid.UUID) {
			if n != nil {
				n.ID = id
			}
		},
	})

	return &notifications{
		Repository: repo,
		db:         db,
	}
}

// ListAll returns every notification, newest first. All authenticated
// callers share the same feed.
func (a *notifications) ListAll(ctx context.Context) ([]*Notification, error) {
	var rows []*Notification
	err := a.db.NewSelect().
		Model(&rows).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		if err == sql.ErrNoRows {
			return []*Notification{}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list notifications")
	}

	if rows == nil {
		rows = []*Notification{}
	}

	return rows, nil
}

func (a *notifications) Publish(ctx context.Context, notification *Notification) (*Notification, error) {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}

	created, err := a.Repository.CreateTx(ctx, a.db, notification)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create notification")
	}

	return created, nil
}

// Remove deletes a notification and returns the deleted row.
func (a *notifications) Remove(ctx context.Context, id uuid.UUID) (*Notification, error) {
	notification := &Notification{}
	err := a.db.NewSelect().
		Model(notification).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, ErrNotificationNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load notification")
	}

	res, err := a.db.NewDelete().
		Model((*Notification)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete notification")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrNotificationNotFound
	}

	return notification, nil
}
