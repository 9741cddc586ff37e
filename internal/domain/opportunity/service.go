package opportunity

import (
	"context"
	"encoding/json"
	"time"

	appctx "fatturo/internal/core/context"
	"fatturo/internal/core/id"
	"fatturo/internal/core/tx"
	"fatturo/internal/domain/audit"
	"fatturo/pkg/logger"
)

// Service provides business operations for opportunities.
type Service struct {
	repo      Repository
	txManager tx.Manager
	recorder  audit.Recorder
	now       func() time.Time
}

// NewService creates a new opportunity service.
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

// Create validates and persists a new opportunity.
func (s *Service) Create(ctx context.Context, opp *Opportunity) error {
	if opp.OpenDate.IsZero() {
		opp.OpenDate = s.now()
	}
	if opp.Stage == "" {
		opp.Stage = StageLead
		opp.Probability = DefaultProbability(StageLead)
	}

	if err := opp.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, opp)
	})
	if err != nil {
		return err
	}

	s.record(ctx, opp.ID, audit.ActionCreated, map[string]any{
		"stage": opp.Stage,
		"value": opp.Value.String(),
	})

	logger.Info(ctx, "opportunity created",
		"id", opp.ID,
		"title", opp.Title,
		"stage", opp.Stage)

	return nil
}

// GetByID retrieves an opportunity.
func (s *Service) GetByID(ctx context.Context, oppID id.ID) (*Opportunity, error) {
	return s.repo.GetByID(ctx, oppID)
}

// List returns a filtered page of opportunities.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

// Update validates and persists changes to an opportunity.
// An edit that also changes the stage is routed through the same transition
// logic as TransitionStage, so the won-gate cannot be bypassed.
func (s *Service) Update(ctx context.Context, opp *Opportunity) error {
	existing, err := s.repo.GetByID(ctx, opp.ID)
	if err != nil {
		return err
	}

	// The transition runs on the loaded record: its stage still holds the
	// stored value, so the machine sees a real change instead of hitting
	// the no-op guard. The machine's results then overwrite whatever the
	// edit carried for the transition-owned fields.
	if opp.Stage != existing.Stage {
		if err := existing.TransitionStage(StageTransition{
			NewStage:            opp.Stage,
			ExpectedInvoiceDate: opp.ExpectedInvoiceDate,
			ExpectedPaymentDate: opp.ExpectedPaymentDate,
		}, s.now()); err != nil {
			return err
		}
		opp.Probability = existing.Probability
		opp.CloseDate = existing.CloseDate
		opp.ExpectedInvoiceDate = existing.ExpectedInvoiceDate
		opp.ExpectedPaymentDate = existing.ExpectedPaymentDate
		opp.ProjectStatus = existing.ProjectStatus
	}

	if err := opp.Validate(ctx); err != nil {
		return err
	}

	opp.Touch()
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, opp)
	})
	if err != nil {
		return err
	}

	s.record(ctx, opp.ID, audit.ActionUpdated, nil)
	return nil
}

// TransitionStage moves an opportunity to a new stage and persists it.
func (s *Service) TransitionStage(ctx context.Context, oppID id.ID, transition StageTransition) (*Opportunity, error) {
	opp, err := s.repo.GetByID(ctx, oppID)
	if err != nil {
		return nil, err
	}

	oldStage := opp.Stage
	if err := opp.TransitionStage(transition, s.now()); err != nil {
		return nil, err
	}

	// No-op transition: nothing to persist.
	if opp.Stage == oldStage && transition.NewStage == oldStage {
		return opp, nil
	}

	opp.Touch()
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, opp)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, opp.ID, audit.ActionStageTransition, map[string]any{
		"old_stage":   oldStage,
		"new_stage":   opp.Stage,
		"probability": opp.Probability,
	})

	logger.Info(ctx, "opportunity stage changed",
		"id", opp.ID,
		"old_stage", oldStage,
		"new_stage", opp.Stage)

	return opp, nil
}

// Delete removes an opportunity.
func (s *Service) Delete(ctx context.Context, oppID id.ID) error {
	if _, err := s.repo.GetByID(ctx, oppID); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, oppID)
	})
	if err != nil {
		return err
	}

	s.record(ctx, oppID, audit.ActionDeleted, nil)
	return nil
}

// record writes an audit entry, best effort.
func (s *Service) record(ctx context.Context, oppID id.ID, action audit.Action, changes map[string]any) {
	if s.recorder == nil {
		return
	}

	var payload []byte
	if changes != nil {
		payload, _ = json.Marshal(changes)
	}

	entry := audit.NewEntry("opportunity", oppID, action, appctx.GetUserID(ctx), payload, s.now())
	if err := s.recorder.Record(ctx, entry); err != nil {
		logger.Warn(ctx, "audit record failed", "entity_id", oppID, "error", err)
	}
}
