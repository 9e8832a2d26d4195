package ticket

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateRequest
		if err := c.BodyParser(&req); err != nil || req.Subject == "" || req.Description == "" {
			return fiber.NewError(fiber.StatusBadRequest, "subject and description required")
		}

		uid, _ := c.Locals("user_id").(string)
		t, err := svc.Create(c.Context(), uid, req)
		if err != nil {
			if errors.Is(err, ErrSessionExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		tickets, err := svc.ListByOwner(c.Context(), uid)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if tickets == nil {
			tickets = []Ticket{}
		}
		return c.JSON(tickets)
	})

	r.Post("/:id/close", authMiddleware, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		t, err := svc.Close(c.Context(), c.Params("id"), uid)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(t)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		err := svc.Delete(c.Context(), c.Params("id"), uid)
		if err != nil {
			if errors.Is(err, ErrNotOwner) {
				return fiber.NewError(fiber.StatusForbidden, err.Error())
			}
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
