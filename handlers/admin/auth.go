package admin

import (
	"time"

	"hadithhub/middleware"
	"hadithhub/models"
	"hadithhub/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 24 * time.Hour

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
}

// Login authenticates an admin user
// POST /api/admin/login
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, 400, "Invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return utils.JSONError(c, 400, "Username and password are required")
	}

	var user models.User
	if err := db.WithContext(c.UserContext()).
		Where("username = ? AND is_admin = ?", req.Username, true).
		First(&user).Error; err != nil {
		return utils.JSONError(c, 401, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.JSONError(c, 401, "Invalid credentials")
	}

	db.WithContext(c.UserContext()).Model(&user).Update("last_login", time.Now())

	token, expiresAt, err := middleware.GenerateToken(jwtSecret, user.ID, user.Username, true, adminTokenTTL)
	if err != nil {
		log.Error("sign admin token failed", "error", err)
		return utils.JSONError(c, 500, "Failed to generate token")
	}

	return c.JSON(LoginResponse{
		Token:     token,
		Username:  user.Username,
		ExpiresAt: expiresAt.Unix(),
	})
}

// VerifyToken echoes the claims the admin middleware accepted
// GET /api/admin/verify
func VerifyToken(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	username, err := middleware.GetUsername(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"valid":    true,
		"user_id":  userID,
		"username": username,
		"is_admin": c.Locals("isAdmin"),
	})
}
