package components

import (
	"coupon-drop/internal/infra/readstore"
	"coupon-drop/internal/infra/repository"
	"coupon-drop/internal/infra/uow"
	"coupon-drop/internal/usecase/commands"
	"coupon-drop/internal/usecase/queries"
	"coupon-drop/internal/usecase/shared"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			repository.NewCouponRepository,
			fx.As(new(commands.CouponRepository)),
		),
		fx.Annotate(
			repository.NewCooldownRepository,
			fx.As(new(commands.CooldownRepository)),
		),
		// Read-side store for queries
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(queries.CouponReadStore)),
		),
	),
)
