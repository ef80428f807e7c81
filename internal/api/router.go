package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskdesk/taskdesk/internal/api/handler"
	"github.com/taskdesk/taskdesk/internal/api/middleware"
	"github.com/taskdesk/taskdesk/internal/metrics"
	"github.com/taskdesk/taskdesk/internal/service"
	"github.com/taskdesk/taskdesk/internal/store"
	"github.com/taskdesk/taskdesk/internal/store/sqlite"
)

// Options holds what the router needs to serve requests.
type Options struct {
	DB     *store.DB
	Repos  *sqlite.Repositories
	Logger *slog.Logger
	// BcryptCost is the password hashing cost. Zero uses the bcrypt default.
	BcryptCost int
	// AuthRatePerMinute limits register and login requests per client
	// address. Zero disables the limit.
	AuthRatePerMinute int
	AuthBurst         int
}

// NewRouter creates and configures the HTTP router.
func NewRouter(opts Options) *chi.Mux {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	// Global middleware chain
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.RealIP)

	// Initialize handlers
	taskService := service.NewTaskService(opts.Repos.Tasks, opts.Repos.Tags)
	systemHandler := handler.NewSystemHandler(opts.DB)
	taskHandler := handler.NewTaskHandler(taskService)
	replyHandler := handler.NewReplyHandler(service.NewReplyService(opts.Repos.Replies, opts.Repos.Tasks))
	tagHandler := handler.NewTagHandler(service.NewTagService(opts.Repos.Tags))
	userHandler := handler.NewUserHandler(service.NewUserService(opts.Repos.Users, opts.BcryptCost))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", systemHandler.Health)

		// Task CRUD
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Patch("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)
		r.Get("/board", taskHandler.Board)

		// Tags of a task
		r.Get("/tasks/{id}/tags", taskHandler.ListTags)
		r.Post("/tasks/{id}/tags", taskHandler.AttachTag)
		r.Delete("/tasks/{id}/tags/{tagID}", taskHandler.DetachTag)

		// Replies
		r.Get("/tasks/{id}/replies", replyHandler.ListReplies)
		r.Post("/tasks/{id}/replies", replyHandler.CreateReply)

		// Tags
		r.Get("/tags", tagHandler.ListTags)
		r.Post("/tags", tagHandler.CreateTags)
		r.Get("/tags/popular", tagHandler.Popular)
		r.Get("/tags/{id}", tagHandler.GetTag)

		// Users
		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/{id}", userHandler.GetUser)
		r.Patch("/users/{id}", userHandler.UpdateUser)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.AuthRatePerMinute, opts.AuthBurst))
			r.Post("/users", userHandler.Register)
			r.Post("/login", userHandler.Login)
		})
	})

	return r
}
