package chat

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/:peerID/messages", authMiddleware, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		messages, err := svc.History(c.Context(), uid, c.Params("peerID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if messages == nil {
			messages = []Message{}
		}
		return c.JSON(messages)
	})

	r.Post("/:peerID/messages", authMiddleware, func(c *fiber.Ctx) error {
		var req SendRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		uid, _ := c.Locals("user_id").(string)
		m, err := svc.SendMessage(c.Context(), uid, c.Params("peerID"), req.Text)
		if err != nil {
			if errors.Is(err, ErrEmptyMessage) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	})
}
