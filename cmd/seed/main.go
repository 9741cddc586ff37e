// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fatturo/internal/core/types"
	"fatturo/internal/domain/auth"
	"fatturo/internal/domain/invoice"
	"fatturo/internal/domain/opportunity"
	"fatturo/internal/domain/target"
	"fatturo/internal/infrastructure/storage/postgres"
	"fatturo/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@fatturo.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	userRepo := postgres.NewUserRepo(txManager)

	if existing, err := userRepo.FindByEmail(ctx, adminEmail); err == nil && existing != nil {
		log.Infow("admin user already exists", "email", adminEmail)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := auth.NewUser(adminEmail, "Administrator")
	admin.PasswordHash = string(hash)
	admin.IsAdmin = true

	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return userRepo.Create(ctx, admin)
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	log.Infow("admin user created", "email", adminEmail)
	return nil
}

func seedDemoData(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	oppRepo := postgres.NewOpportunityRepo(txManager)
	invRepo := postgres.NewInvoiceRepo(txManager)
	targetRepo := postgres.NewTargetRepo(txManager)

	now := time.Now().UTC()
	year := now.Year()

	return txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// A spread of pipeline stages plus one closed-won deal with
		// forecast dates and a linked invoice chain.
		open := opportunity.New("Sito web Rossi SRL", "Rossi SRL", "Mario", types.NewMoneyFromInt(4500), now.AddDate(0, -2, 0))

		contacted := opportunity.New("Consulenza SEO Bianchi", "Bianchi & Co", "Mario", types.NewMoneyFromInt(2000), now.AddDate(0, -1, -10))
		contacted.Stage = opportunity.StageInContatto
		contacted.Probability = 20

		won := opportunity.New("E-commerce Verdi", "Verdi SpA", "Mario", types.NewMoneyFromInt(12000), now.AddDate(0, -4, 0))
		closeDate := now.AddDate(0, -1, 0)
		invoiceDate := now.AddDate(0, 0, -20)
		paymentDate := now.AddDate(0, 1, 0)
		won.Stage = opportunity.StageWon
		won.Probability = 100
		won.CloseDate = &closeDate
		won.ExpectedInvoiceDate = &invoiceDate
		won.ExpectedPaymentDate = &paymentDate
		status := opportunity.ProjectInLavorazione
		won.ProjectStatus = &status

		for _, opp := range []*opportunity.Opportunity{open, contacted, won} {
			if err := oppRepo.Create(ctx, opp); err != nil {
				return fmt.Errorf("seed opportunity %q: %w", opp.Title, err)
			}
		}

		// Paid invoice for the won deal plus one issued, still unpaid.
		paid := invoice.New("FT-001 Verdi SpA acconto", types.NewMoneyFromInt(6000), &won.ID)
		issueDate := now.AddDate(0, -1, -5)
		paidDate := now.AddDate(0, -1, 0)
		paid.Status = invoice.StatusPagata
		paid.IssueDate = &issueDate
		paid.PaidDate = &paidDate

		pending := invoice.New("FT-002 Verdi SpA saldo", types.NewMoneyFromInt(6000), &won.ID)
		pendingIssue := now.AddDate(0, 0, -10)
		pendingDue := now.AddDate(0, 0, 20)
		pending.Status = invoice.StatusEmessa
		pending.IssueDate = &pendingIssue
		pending.DueDate = &pendingDue

		for _, inv := range []*invoice.Invoice{paid, pending} {
			if err := invRepo.Create(ctx, inv); err != nil {
				return fmt.Errorf("seed invoice %q: %w", inv.InvoiceNumber, err)
			}
		}

		// Flat monthly target for the current year.
		for month := 0; month < 12; month++ {
			t := target.New(year, month, types.NewMoneyFromInt(5000))
			if err := targetRepo.Upsert(ctx, t); err != nil {
				return fmt.Errorf("seed target %d/%d: %w", year, month, err)
			}
		}

		log.Infow("demo data seeded", "year", year, "won_opportunity", won.ID.String())
		return nil
	})
}
