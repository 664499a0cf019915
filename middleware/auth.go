// middleware/auth.go
package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload issued by the auth service.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for the user.
func GenerateToken(secret string, userID uuid.UUID, username string, isAdmin bool, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:   userID.String(),
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func parseToken(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, errors.New("invalid user id claim")
	}
	return claims, nil
}

// bearerToken returns the token or the client-facing reason it is missing.
func bearerToken(c *fiber.Ctx) (token, problem string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", "Missing authorization header"
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization header format"
	}
	return parts[1], ""
}

func setLocals(c *fiber.Ctx, claims *Claims) {
	c.Locals("userId", claims.UserID)
	c.Locals("username", claims.Username)
	c.Locals("isAdmin", claims.IsAdmin)
}

func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, problem := bearerToken(c)
		if problem != "" {
			return c.Status(401).JSON(fiber.Map{"error": problem})
		}
		claims, err := parseToken(secret, tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		setLocals(c, claims)
		return c.Next()
	}
}

func AdminAuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, problem := bearerToken(c)
		if problem != "" {
			return c.Status(401).JSON(fiber.Map{"error": problem})
		}
		claims, err := parseToken(secret, tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		if !claims.IsAdmin {
			return c.Status(403).JSON(fiber.Map{"error": "Access denied. Admin privileges required."})
		}
		setLocals(c, claims)
		return c.Next()
	}
}

// WebSocketAuthMiddleware accepts the token from the Authorization header,
// the "token" cookie or the "token" query parameter. Browsers cannot set
// headers on websocket upgrades. Unauthenticated upgrades are rejected.
func WebSocketAuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, _ := bearerToken(c)
		if tokenString == "" {
			tokenString = c.Cookies("token")
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing token"})
		}
		claims, err := parseToken(secret, tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		setLocals(c, claims)
		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("userId").(string)
	if !ok || raw == "" {
		return uuid.Nil, fiber.NewError(401, "User not authenticated")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(401, "Invalid user ID format")
	}
	return id, nil
}

func GetUsername(c *fiber.Ctx) (string, error) {
	name, ok := c.Locals("username").(string)
	if !ok {
		return "", fiber.NewError(401, "User not authenticated")
	}
	return name, nil
}
