// utils/http.go - Response helpers shared by the fiber handlers
package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// JSONError sends {"success": false, "error": message}.
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// JSONSuccess sends {"success": true} merged with data. Non-map data is
// placed under "data".
func JSONSuccess(c *fiber.Ctx, status int, data interface{}) error {
	response := fiber.Map{"success": true}
	switch v := data.(type) {
	case nil:
	case fiber.Map:
		for k, val := range v {
			response[k] = val
		}
	case map[string]interface{}:
		for k, val := range v {
			response[k] = val
		}
	default:
		response["data"] = v
	}
	return c.Status(status).JSON(response)
}

// ParamUint parses a positive integer route parameter.
func ParamUint(c *fiber.Ctx, key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Params(key), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
