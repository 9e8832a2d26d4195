package server

import (
	"github.com/EthanLeRoux/kryvervoer/internal/auth"
	"github.com/EthanLeRoux/kryvervoer/internal/chat"
	"github.com/EthanLeRoux/kryvervoer/internal/config"
	"github.com/EthanLeRoux/kryvervoer/internal/driver"
	"github.com/EthanLeRoux/kryvervoer/internal/enums"
	"github.com/EthanLeRoux/kryvervoer/internal/mq"
	"github.com/EthanLeRoux/kryvervoer/internal/session"
	"github.com/EthanLeRoux/kryvervoer/internal/stream"
	"github.com/EthanLeRoux/kryvervoer/internal/ticket"
	"github.com/EthanLeRoux/kryvervoer/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App       *fiber.App
	Cfg       config.Config
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Sessions  *session.Store
	Stream    *stream.Hub
	Publisher *mq.Publisher
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, publisher *mq.Publisher) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:       app,
		Cfg:       cfg,
		DB:        db,
		Redis:     redisClient,
		Sessions:  session.NewStore(redisClient, cfg.SessionTTL),
		Stream:    stream.NewHub(redisClient),
		Publisher: publisher,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB, s.Sessions), jwtMiddleware)
	user.RegisterRoutes(s.App.Group("/users"), user.NewService(s.DB, s.Sessions), jwtMiddleware)
	driver.RegisterRoutes(s.App.Group("/drivers"), driver.NewService(s.DB, s.Sessions), jwtMiddleware)
	ticket.RegisterRoutes(s.App.Group("/tickets"), ticket.NewService(s.DB, s.Sessions, s.Publisher), jwtMiddleware)
	chat.RegisterRoutes(s.App.Group("/chats"), chat.NewService(s.DB, s.Stream), jwtMiddleware)
	enums.RegisterRoutes(s.App.Group("/enums"))
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
