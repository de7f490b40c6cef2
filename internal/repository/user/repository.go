package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/tableside/internal/database"
	"github.com/Additional-Code/tableside/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/tableside/repository/user")

// ErrNotFound is returned when a staff member is missing.
var ErrNotFound = errors.New("user not found")

// Repository is the read side of the staff directory.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a directory backed by the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// FindByID fetches a staff member by id.
func (r *Repository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.FindByID", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	u := new(entity.User)
	err := r.reader.NewSelect().Model(u).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return u, nil
}
