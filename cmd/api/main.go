package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/ess-hr/ess-backend-go/internal/config"
	appHTTP "github.com/ess-hr/ess-backend-go/internal/handler/http"
	"github.com/ess-hr/ess-backend-go/internal/pkg/cron"
	"github.com/ess-hr/ess-backend-go/internal/pkg/database"
	"github.com/ess-hr/ess-backend-go/internal/pkg/email"
	"github.com/ess-hr/ess-backend-go/internal/pkg/jwt"
	"github.com/ess-hr/ess-backend-go/internal/pkg/paystack"
	"github.com/ess-hr/ess-backend-go/internal/repository/postgresql"
	balanceService "github.com/ess-hr/ess-backend-go/internal/service/balance"
	leaveService "github.com/ess-hr/ess-backend-go/internal/service/leave"
	loanService "github.com/ess-hr/ess-backend-go/internal/service/loan"
	notificationService "github.com/ess-hr/ess-backend-go/internal/service/notification"
	paymentService "github.com/ess-hr/ess-backend-go/internal/service/payment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "ess-backend"),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service:", err)
	}
	notifier := notificationService.NewEmailNotifier(userRepo, emailService, logger)

	gateway := paystack.NewClient(cfg.Paystack)
	verifier := paystack.NewWebhookVerifier(cfg.Paystack.SecretKey)

	ledger := balanceService.NewLedger(leaveBalanceRepo, logger)
	leaveSvc := leaveService.NewLeaveService(tx, leaveRequestRepo, userRepo, ledger, notifier, logger)
	paymentSvc := paymentService.NewPaymentService(tx, paymentRepo, loanRepo, userRepo, gateway, verifier, logger)
	loanSvc := loanService.NewLoanService(paymentSvc, loanRepo, userRepo, notifier, logger)

	scheduler := cron.NewScheduler(logger)
	cron.NewAccrualJobs(ledger).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	loanHandler := appHTTP.NewLoanHandler(loanSvc)
	paymentHandler := appHTTP.NewPaymentHandler(paymentSvc)

	router := appHTTP.NewRouter(jwtService, leaveHandler, loanHandler, paymentHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
