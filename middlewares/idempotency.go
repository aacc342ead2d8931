package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"ledger-backend/database"
	"ledger-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Idempotency replays the stored response for a repeated Idempotency-Key on
// mutating methods. Keys are scoped per owner and use their own short
// transactions, outside the request TX.
func Idempotency() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Idempotency-Key too long"})
		}

		ownerID := OwnerID(c)
		if ownerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "auth context missing"})
		}

		path := c.OriginalURL()
		reqHash := requestHash(method, path, c.Body(), ownerID)

		// ---- Phase 1: read or create the pending record
		var existing models.IdempotencyKey
		replayed := false
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			lookup := func() error {
				return tx.Where(&models.IdempotencyKey{OwnerID: ownerID, Key: key}).First(&existing).Error
			}
			if err := lookup(); err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
				}
				rec := models.IdempotencyKey{
					OwnerID:     ownerID,
					Key:         key,
					RequestHash: reqHash,
					Method:      method,
					Path:        path,
				}
				if e2 := tx.Create(&rec).Error; e2 != nil {
					// unique race: read again
					if e3 := lookup(); e3 != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
					}
				} else {
					existing = rec
				}
			}

			if existing.RequestHash != reqHash {
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
			}
			if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
				replayed = true
			}
			return nil
		})
		if err != nil {
			return err
		}
		if replayed {
			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(existing.ResponseStatus).Send(existing.ResponseBody)
		}

		if err := c.Next(); err != nil {
			// Drop the pending record so the client can retry with the same key.
			database.DB.Where(&models.IdempotencyKey{OwnerID: ownerID, Key: key}).
				Where("response_status = ?", 0).
				Delete(&models.IdempotencyKey{})
			return err
		}

		// ---- Phase 2: store the response (best effort)
		now := time.Now().UTC()
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		database.DB.Model(&models.IdempotencyKey{}).
			Where(&models.IdempotencyKey{OwnerID: ownerID, Key: key}).
			Updates(map[string]any{
				"response_status": c.Response().StatusCode(),
				"response_body":   blob,
				"completed_at":    &now,
			})
		return nil
	}
}

// requestHash is sha256 over method|path|body|owner.
func requestHash(method, path string, body []byte, ownerID string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	h.Write([]byte{'\n'})
	h.Write([]byte(ownerID))
	return hex.EncodeToString(h.Sum(nil))
}
