package shared

import (
	"context"

	"coupon-drop/internal/infra/db"
)

// UnitOfWork runs fn inside a single database transaction. The claim flow
// depends on this being one transaction: the cooldown row lock, the
// conditional coupon update and the cooldown write must commit or roll back
// together.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
}
