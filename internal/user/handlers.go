package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		p, err := svc.Profile(c.Context(), uid)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return c.JSON(p)
	})

	r.Get("/me/session", authMiddleware, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		snap := svc.Session(c.Context(), uid)
		if snap == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "session expired, please log in again")
		}
		return c.JSON(snap)
	})

	r.Put("/me/location", authMiddleware, func(c *fiber.Ctx) error {
		var req LocationUpdate
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		uid, _ := c.Locals("user_id").(string)
		p, err := svc.UpdateLocation(c.Context(), uid, req)
		if err != nil {
			if errors.Is(err, ErrInvalidCoordinates) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(p)
	})

	r.Put("/me/picture", authMiddleware, func(c *fiber.Ctx) error {
		var req PictureUpdate
		if err := c.BodyParser(&req); err != nil || req.Image64 == "" {
			return fiber.NewError(fiber.StatusBadRequest, "image64 required")
		}
		uid, _ := c.Locals("user_id").(string)
		p, err := svc.UpdatePicture(c.Context(), uid, req)
		if err != nil {
			if errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrNotDataURL) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(p)
	})

	r.Delete("/me", authMiddleware, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if err := svc.DeleteAccount(c.Context(), uid); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
