package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/ess-hr/ess-backend-go/internal/domain/user"
	"github.com/ess-hr/ess-backend-go/internal/handler/http/middleware"
	"github.com/ess-hr/ess-backend-go/internal/pkg/jwt"
)

func NewRouter(jwtService jwt.Service, leaveHandler LeaveHandler, loanHandler LoanHandler, paymentHandler PaymentHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ess-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Gateway callback, authenticated by signature only
		r.Post("/payments/webhook", paymentHandler.Webhook)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", leaveHandler.Create)
				r.Get("/", leaveHandler.List)
				r.Get("/for-logged-in-user", leaveHandler.ListMine)
				r.Get("/balance", leaveHandler.GetBalance)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleManager, user.RoleHR))
					r.Get("/for-hr-manager", leaveHandler.ListForApprover)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.Get)
					r.Put("/", leaveHandler.Update)
					r.Delete("/", leaveHandler.Delete)
					r.Post("/cancel", leaveHandler.Cancel)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRole(user.RoleManager, user.RoleHR))
						r.Post("/approve-reject", leaveHandler.ApproveReject)
					})
				})
			})

			r.Route("/loans", func(r chi.Router) {
				r.Post("/", loanHandler.Create)
				r.Get("/", loanHandler.List)
				r.Get("/for-logged-in-user", loanHandler.ListMine)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleManager, user.RoleHR, user.RoleAccountant))
					r.Get("/for-hr-manager", loanHandler.ListForApprover)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", loanHandler.Get)
					r.Put("/", loanHandler.Update)
					r.Delete("/", loanHandler.Delete)
					r.Post("/cancel", loanHandler.Cancel)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRole(user.RoleManager, user.RoleHR, user.RoleAccountant))
						r.Post("/approve-reject", loanHandler.ApproveReject)
					})
				})
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/create-recipient", paymentHandler.CreateRecipient)
				r.Post("/accept", paymentHandler.Accept)
				r.Get("/{id}", paymentHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAccountant))
					r.Get("/", paymentHandler.List)
					r.Post("/disburse/{loanId}", paymentHandler.Disburse)
					r.Post("/{id}/reconcile", paymentHandler.Reconcile)
				})
			})
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}
