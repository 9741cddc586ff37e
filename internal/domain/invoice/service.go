package invoice

import (
	"context"
	"encoding/json"
	"time"

	appctx "fatturo/internal/core/context"
	"fatturo/internal/core/id"
	"fatturo/internal/core/tx"
	"fatturo/internal/domain/audit"
	"fatturo/pkg/logger"
	"fatturo/pkg/numerator"
)

// Service provides business operations for invoices.
type Service struct {
	repo      Repository
	txManager tx.Manager
	recorder  audit.Recorder
	numbers   *numerator.Service
	now       func() time.Time
}

// NewService creates a new invoice service.
// The recorder may be nil (audit disabled, e.g. in tests).
func NewService(repo Repository, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		recorder:  recorder,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithNumerator enables invoice number auto-assignment for invoices
// created without one.
func (s *Service) WithNumerator(numbers *numerator.Service) *Service {
	s.numbers = numbers
	return s
}

// Create validates and persists a new invoice.
// Direct creation in any state is allowed (backfilled data); the date
// invariants are checked by Validate for whatever state is requested.
func (s *Service) Create(ctx context.Context, inv *Invoice) error {
	if inv.Status == "" {
		inv.Status = StatusDaEmettere
	}

	// The number is reserved outside the business transaction; a
	// rolled-back create leaves a gap in the sequence.
	if inv.InvoiceNumber == "" && s.numbers != nil {
		number, err := s.numbers.GetNextNumber(ctx, numerator.DefaultConfig("FT"), s.now())
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
	}

	if err := inv.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, inv)
	})
	if err != nil {
		return err
	}

	s.record(ctx, inv.ID, audit.ActionCreated, map[string]any{
		"status": inv.Status,
		"amount": inv.Amount.String(),
	})

	logger.Info(ctx, "invoice created",
		"id", inv.ID,
		"number", inv.InvoiceNumber,
		"status", inv.Status)

	return nil
}

// GetByID retrieves an invoice.
func (s *Service) GetByID(ctx context.Context, invID id.ID) (*Invoice, error) {
	return s.repo.GetByID(ctx, invID)
}

// List returns a filtered page of invoices.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

// Update validates and persists changes to an invoice.
// An edit that also changes the status is routed through the same
// transition logic as SetStatus, so the date stamping rules hold.
func (s *Service) Update(ctx context.Context, inv *Invoice) error {
	existing, err := s.repo.GetByID(ctx, inv.ID)
	if err != nil {
		return err
	}

	// The transition runs on the loaded record so the machine compares
	// against the stored status; the stamped dates then overwrite whatever
	// the edit carried.
	if inv.Status != existing.Status {
		if err := existing.SetStatus(StatusTransition{
			NewStatus: inv.Status,
			IssueDate: inv.IssueDate,
			PaidDate:  inv.PaidDate,
		}, s.now()); err != nil {
			return err
		}
		inv.IssueDate = existing.IssueDate
		inv.PaidDate = existing.PaidDate
	}

	if err := inv.Validate(ctx); err != nil {
		return err
	}

	inv.Touch()
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, inv)
	})
	if err != nil {
		return err
	}

	s.record(ctx, inv.ID, audit.ActionUpdated, nil)
	return nil
}

// SetStatus moves an invoice to a new lifecycle state and persists it.
func (s *Service) SetStatus(ctx context.Context, invID id.ID, transition StatusTransition) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invID)
	if err != nil {
		return nil, err
	}

	oldStatus := inv.Status
	if err := inv.SetStatus(transition, s.now()); err != nil {
		return nil, err
	}

	// No-op transition: nothing to persist.
	if inv.Status == oldStatus {
		return inv, nil
	}

	inv.Touch()
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, inv.ID, audit.ActionStatusTransition, map[string]any{
		"old_status": oldStatus,
		"new_status": inv.Status,
	})

	logger.Info(ctx, "invoice status changed",
		"id", inv.ID,
		"old_status", oldStatus,
		"new_status", inv.Status)

	return inv, nil
}

// Delete removes an invoice.
func (s *Service) Delete(ctx context.Context, invID id.ID) error {
	if _, err := s.repo.GetByID(ctx, invID); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, invID)
	})
	if err != nil {
		return err
	}

	s.record(ctx, invID, audit.ActionDeleted, nil)
	return nil
}

// record writes an audit entry, best effort.
func (s *Service) record(ctx context.Context, invID id.ID, action audit.Action, changes map[string]any) {
	if s.recorder == nil {
		return
	}

	var payload []byte
	if changes != nil {
		payload, _ = json.Marshal(changes)
	}

	entry := audit.NewEntry("invoice", invID, action, appctx.GetUserID(ctx), payload, s.now())
	if err := s.recorder.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit record failed", "entity_id", invID, "error", err)
	}
}
