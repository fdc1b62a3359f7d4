package main

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/bascore/appointment-app/config"
	"github.com/bascore/appointment-app/controllers"
	"github.com/bascore/appointment-app/cron"
	"github.com/bascore/appointment-app/models"
	"github.com/bascore/appointment-app/redis"
	"github.com/bascore/appointment-app/routes"
	"github.com/bascore/appointment-app/services"
	"github.com/bascore/appointment-app/store"
	"github.com/bascore/appointment-app/store/postgres"
	"github.com/bascore/appointment-app/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	cfg := config.Load()

	st, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := st.AutoMigrate(); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	log.Println("✅ Database connection established successfully!")

	if err := redis.InitRedis(cfg.RedisAddr); err != nil {
		log.Fatal(err)
	}
	log.Println("✅ Connected to Redis")

	worker.InitClient(cfg.RedisAddr)
	defer worker.CloseClient()
	dispatcher := worker.Dispatcher{}

	appointments := services.NewAppointmentService(st, dispatcher)
	users := services.NewUserService(st, dispatcher)
	search := services.NewSearchService(st)
	notifications := services.NewNotificationService(st)

	if cfg.AdminPassword != "" {
		if err := seedAdmin(st, cfg.AdminPassword); err != nil {
			log.Fatal("Failed to seed admin user: ", err)
		}
	}

	stopWorker, err := worker.Start(cfg.RedisAddr, st, appointments)
	if err != nil {
		log.Fatal(err)
	}
	defer stopWorker()

	if _, err := cron.StartCronJobs(st, dispatcher); err != nil {
		log.Fatal(err)
	}

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Appointment service is running")
	})

	authController := controllers.NewAuthController(users, cfg.JWTSecret)
	userController := controllers.NewUserController(users, search)
	appointmentController := controllers.NewAppointmentController(appointments, search)
	notificationController := controllers.NewNotificationController(notifications)

	routes.SetupAuthRoutes(app, authController, userController, cfg.JWTSecret)
	routes.SetupProviderRoutes(app, userController, cfg.JWTSecret)
	routes.SetupAppointmentRoutes(app, appointmentController, cfg.JWTSecret)
	routes.SetupNotificationRoutes(app, notificationController, cfg.JWTSecret)

	log.Fatal(app.Listen(":" + cfg.Port))
}

// seedAdmin creates the bootstrap administrator account, which cannot be
// registered through the public path.
func seedAdmin(st store.Store, password string) error {
	ctx := context.Background()
	_, err := st.Users().GetByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     "admin",
		Role:         models.RoleAdmin,
		FirstName:    "System",
		LastName:     "Administrator",
		Email:        "admin@localhost",
		PasswordHash: string(hash),
		Enabled:      true,
	}
	if err := st.Users().Create(ctx, &admin); err != nil {
		return err
	}
	log.Println("Seeded admin user")
	return nil
}
