package middlewares

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"ledger-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerStatusCodes(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}
	validationErr := ValidateStruct(payload{})
	require.Error(t, validationErr)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"fiber error keeps its code", fiber.NewError(fiber.StatusTeapot, "short and stout"), fiber.StatusTeapot},
		{"struct tags", validationErr, fiber.StatusUnprocessableEntity},
		{"field error", models.NewValidationError("due_date", "x", "invalid"), fiber.StatusBadRequest},
		{"not found", fmt.Errorf("load bill: %w", models.ErrNotFound), fiber.StatusNotFound},
		{"non-positive amount", models.ErrInvalidAmount, fiber.StatusBadRequest},
		{"overpayment", models.ErrOverpayment, fiber.StatusBadRequest},
		{"bill paid twice", models.ErrAlreadyPaid, fiber.StatusConflict},
		{"receivable settled", models.ErrAlreadyFullyPaid, fiber.StatusConflict},
		{"anything else", errors.New("connection reset"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(c *fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequestHashDependsOnOwner(t *testing.T) {
	a := requestHash("POST", "/api/bills", []byte(`{"title":"x"}`), "owner-a")
	b := requestHash("POST", "/api/bills", []byte(`{"title":"x"}`), "owner-b")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, requestHash("POST", "/api/bills", []byte(`{"title":"x"}`), "owner-a"))
	assert.Len(t, a, 64)
}
