package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/workbench-api/internal/application/dto"
	"github.com/jhoicas/workbench-api/pkg/jwt"
)

// LocalSender clave en c.Locals del emisor autenticado.
const LocalSender = "hid_sender"

// HIDAuth valida el Bearer Token del demonio de lectores y que el emisor del token
// coincida con el endpoint. Con secret vacío los endpoints HID quedan abiertos.
func HIDAuth(secret string, workbench int, sender string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(secret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if claims.Sender != sender {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el token no corresponde a " + sender})
		}
		// 0 => token válido para cualquier estación
		if claims.Workbench != 0 && claims.Workbench != workbench {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el token es de otra estación"})
		}
		c.Locals(LocalSender, claims.Sender)
		return c.Next()
	}
}

// GetSender emisor autenticado (vacío sin HIDAuth o con endpoints abiertos).
func GetSender(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSender).(string)
	return s
}
