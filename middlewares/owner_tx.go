package middlewares

import (
	"ledger-backend/database"

	"github.com/gofiber/fiber/v2"
)

// OwnerTx opens a per-request DB transaction for authenticated requests.
// Order: run AFTER Authenticate() and AFTER Idempotency() so idempotency
// records are not tied to the handler TX. Any handler error rolls back.
func OwnerTx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		if OwnerID(c) == "" {
			return c.Next()
		}

		tx := database.DB.WithContext(c.UserContext()).Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r)
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				httpLog().Error().Err(e).Str("path", c.Path()).Msg("tx commit failed")
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		c.Locals("tx", tx)
		err = c.Next()
		return err
	}
}
