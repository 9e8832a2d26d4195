package driver

import (
	"github.com/EthanLeRoux/kryvervoer/internal/enums"
	"github.com/EthanLeRoux/kryvervoer/internal/session"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Put("/profile", authMiddleware, func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != session.RoleDriver {
			return fiber.NewError(fiber.StatusForbidden, "only drivers can publish a listing")
		}

		var req Record
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		if req.VehicleType == "" || req.Race == "" || len(req.SupportedSchools) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "vehicle type, race and supported schools required")
		}
		if req.VehicleCapacity < 1 || req.AvailableSeats < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid seat counts")
		}
		if !enums.Valid(enums.VehicleTypes, req.VehicleType) || !enums.Valid(enums.Races, req.Race) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown vehicle type or race")
		}

		uid, _ := c.Locals("user_id").(string)
		rec, err := svc.SaveProfile(c.Context(), uid, req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(rec)
	})

	r.Get("/directory", authMiddleware, func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)

		criteria := Criteria{
			"name":            ScalarFilter(c.Query("name")),
			"vehicle":         ScalarFilter(c.Query("vehicle")),
			"race":            ScalarFilter(c.Query("race")),
			"price":           ScalarFilter(c.Query("price")),
			"max_passengers":  ScalarFilter(c.Query("max_passengers")),
			"available_seats": ScalarFilter(c.Query("available_seats")),
			"schools":         MultiSelectFilter(queryValues(c, "schools")),
			"languages":       MultiSelectFilter(queryValues(c, "languages")),
		}

		points, err := svc.Directory(c.Context(), uid, criteria)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(points)
	})
}

func queryValues(c *fiber.Ctx, key string) []string {
	raw := c.Context().QueryArgs().PeekMulti(key)
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if len(v) > 0 {
			values = append(values, string(v))
		}
	}
	return values
}
