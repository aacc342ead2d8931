package middlewares

import (
	"encoding/base64"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"ledger-backend/database"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
	basicPrefix  = "Basic "

	ownerKey = "ownerID"
)

// Claims is our JWT payload; the subject is the user id.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var (
	secretOnce sync.Once
	jwtSecret  []byte
	secretErr  error
)

func loadJWTSecret() error {
	secretOnce.Do(func() {
		// Prefer JWT_SECRET_KEY, fallback to JWT_SECRET
		sec := os.Getenv("JWT_SECRET_KEY")
		if strings.TrimSpace(sec) == "" {
			sec = os.Getenv("JWT_SECRET")
		}
		if strings.TrimSpace(sec) == "" {
			secretErr = errors.New("JWT secret not configured (set JWT_SECRET_KEY or JWT_SECRET)")
			return
		}
		jwtSecret = []byte(sec)
	})
	return secretErr
}

// OwnerID returns the authenticated user id set by Authenticate.
func OwnerID(c *fiber.Ctx) string {
	id, _ := c.Locals(ownerKey).(string)
	return id
}

// Authenticate accepts either an HS256 Bearer token or HTTP Basic
// credentials (username or email) and populates c.Locals("ownerID").
func Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := strings.TrimSpace(c.Get(authHeader))
		lower := strings.ToLower(h)
		switch {
		case strings.HasPrefix(lower, strings.ToLower(bearerPrefix)):
			return bearer(c, strings.TrimSpace(h[len(bearerPrefix):]))
		case strings.HasPrefix(lower, strings.ToLower(basicPrefix)):
			return basic(c, strings.TrimSpace(h[len(basicPrefix):]))
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "missing/invalid Authorization header"})
	}
}

func bearer(c *fiber.Ctx, raw string) error {
	if err := loadJWTSecret(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "server auth not configured",
		})
	}
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid bearer token"})
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "token missing subject"})
	}

	c.Locals(ownerKey, claims.Subject)
	return c.Next()
}

func basic(c *fiber.Ctx, encoded string) error {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid basic credentials"})
	}
	login, password, ok := strings.Cut(string(decoded), ":")
	if !ok || login == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid basic credentials"})
	}

	db, err := database.GetDB(c)
	if err != nil {
		return err
	}
	user, err := database.FindUserByLogin(db, login)
	if err != nil || !user.IsActive || user.ComparePassword(password) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}

	c.Locals(ownerKey, user.ID)
	return c.Next()
}

// GenerateJWT signs a new HS256 token for the given user, expiring in 24h.
func GenerateJWT(userID, username string) (string, error) {
	if err := loadJWTSecret(); err != nil {
		return "", err
	}
	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
