package order

import (
	"go.uber.org/fx"

	menurepo "github.com/Additional-Code/tableside/internal/repository/menu"
	repo "github.com/Additional-Code/tableside/internal/repository/order"
	eventrepo "github.com/Additional-Code/tableside/internal/repository/orderevent"
	tablerepo "github.com/Additional-Code/tableside/internal/repository/table"
	userrepo "github.com/Additional-Code/tableside/internal/repository/user"
)

// Module provides the order service and binds the repositories it depends on.
var Module = fx.Options(
	fx.Provide(
		func(r *repo.Repository) OrderStore { return r },
		func(r *menurepo.Repository) MenuCatalog { return r },
		func(r *tablerepo.Repository) TableRegistry { return r },
		func(r *userrepo.Repository) StaffDirectory { return r },
		func(r *eventrepo.Repository) EventLog { return r },
	),
	fx.Provide(NewService),
)
