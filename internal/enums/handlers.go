package enums

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(All())
	})
}
