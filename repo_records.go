package portal

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Records interface {
	repository.Repository[*PlacementRecord]

	ListForClaims(ctx context.Context, claims AuthClaims) ([]*PlacementRecord, error)
	CreateOwned(ctx context.Context, record *PlacementRecord, owner AuthClaims) (*PlacementRecord, error)
	Remove(ctx context.Context, id uuid.UUID) (*PlacementRecord, error)
}

type records struct {
	repository.Repository[*PlacementRecord]
	db *bun.DB
}

var (
	_ Records                                 = (*records)(nil)
	_ repository.Repository[*PlacementRecord] = (*records)(nil)
)

func NewRecordsRepository(db *bun.DB) Records {
	repo := repository.NewRepository[*PlacementRecord](db, repository.ModelHandlers[*PlacementRecord]{
		NewRecord: func() *PlacementRecord { return &PlacementRecord{} },
		GetID: func(r *PlacementRecord) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *PlacementRecord, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	return &records{
		Repository: repo,
		db:         db,
	}
}

// ListForClaims scopes the listing to the caller. Admins see every
// record with the owning account attached, regular users only their
// own rows, newest first in both cases.
func (a *records) ListForClaims(ctx context.Context, claims AuthClaims) ([]*PlacementRecord, error) {
	if claims == nil {
		return nil, goerrors.New("missing session claims", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	var rows []*PlacementRecord
	q := a.db.NewSelect().Model(&rows)

	if claims.IsAdmin() {
		q = q.Relation("Owner")
	} else {
		ownerID, err := uuid.Parse(claims.UserID())
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "session subject is not a valid account id").
				WithCode(goerrors.CodeUnauthorized)
		}
		q = q.Where("?TableAlias.owner_id = ?", ownerID)
	}

	// The Owner join brings in a second created_at column, so the
	// ordering has to name the record alias explicitly.
	if err := q.OrderExpr("?TableAlias.created_at DESC").Scan(ctx); err != nil {
		if err == sql.ErrNoRows {
			return []*PlacementRecord{}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list placement records")
	}

	if rows == nil {
		rows = []*PlacementRecord{}
	}

	return rows, nil
}

// CreateOwned stamps the owner from the session before inserting. Any
// owner the payload carried is discarded.
func (a *records) CreateOwned(ctx context.Context, record *PlacementRecord, owner AuthClaims) (*PlacementRecord, error) {
	if owner == nil {
		return nil, goerrors.New("missing session claims", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	ownerID, err := uuid.Parse(owner.UserID())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryAuth, "session subject is not a valid account id").
			WithCode(goerrors.CodeUnauthorized)
	}

	record.OwnerID = ownerID
	record.Owner = nil

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	created, err := a.Repository.CreateTx(ctx, a.db, record)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create placement record")
	}

	return created, nil
}

// Remove deletes a record and returns the deleted row.
func (a *records) Remove(ctx context.Context, id uuid.UUID) (*PlacementRecord, error) {
	record := &PlacementRecord{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load placement record")
	}

	res, err := a.db.NewDelete().
		Model((*PlacementRecord)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete placement record")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrRecordNotFound
	}

	return record, nil
}
