package components

import (
	"coupon-drop/internal/handler"
	"coupon-drop/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCouponHandler,
	),
	fx.Invoke(handler.NewRouter),
)
