package opportunity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatturo/internal/core/apperror"
	"fatturo/internal/core/id"
	"fatturo/internal/core/types"
	"fatturo/internal/domain/audit"
)

// noopTxManager runs fn directly; persistence is faked anyway.
type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	byID map[id.ID]*Opportunity
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[id.ID]*Opportunity)}
}

func (r *fakeRepo) Create(_ context.Context, opp *Opportunity) error {
	r.byID[opp.ID] = opp
	return nil
}

func (r *fakeRepo) Update(_ context.Context, opp *Opportunity) error {
	if _, ok := r.byID[opp.ID]; !ok {
		return apperror.NewNotFound("opportunity", opp.ID.String())
	}
	r.byID[opp.ID] = opp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, oppID id.ID) error {
	delete(r.byID, oppID)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, oppID id.ID) (*Opportunity, error) {
	opp, ok := r.byID[oppID]
	if !ok {
		return nil, apperror.NewNotFound("opportunity", oppID.String())
	}
	// Return a copy so service mutations go through Update.
	clone := *opp
	return &clone, nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) (ListResult, error) {
	var items []*Opportunity
	for _, opp := range r.byID {
		items = append(items, opp)
	}
	return ListResult{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeRepo) ListWon(ctx context.Context) ([]*Opportunity, error) {
	var won []*Opportunity
	for _, opp := range r.byID {
		if opp.IsWon() {
			won = append(won, opp)
		}
	}
	return won, nil
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]*Opportunity, error) {
	var items []*Opportunity
	for _, opp := range r.byID {
		items = append(items, opp)
	}
	return items, nil
}

type fakeRecorder struct {
	entries []*audit.Entry
}

func (r *fakeRecorder) Record(_ context.Context, entry *audit.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeRecorder) ListByEntity(context.Context, string, id.ID, int) ([]*audit.Entry, error) {
	return r.entries, nil
}

func newServiceForTest() (*Service, *fakeRepo, *fakeRecorder) {
	repo := newFakeRepo()
	recorder := &fakeRecorder{}
	svc := NewService(repo, noopTxManager{}, recorder).
		WithClock(func() time.Time { return testNow })
	return svc, repo, recorder
}

func TestServiceCreate_DefaultsToLead(t *testing.T) {
	svc, repo, recorder := newServiceForTest()
	ctx := context.Background()

	opp := New("Nuovo progetto", "ACME", "Mario", types.NewMoneyFromInt(3000), testNow)
	require.NoError(t, svc.Create(ctx, opp))

	stored := repo.byID[opp.ID]
	require.NotNil(t, stored)
	assert.Equal(t, StageLead, stored.Stage)
	assert.Equal(t, 10, stored.Probability)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, audit.ActionCreated, recorder.entries[0].Action)
}

func TestServiceTransitionStage_PersistsAndAudits(t *testing.T) {
	svc, repo, recorder := newServiceForTest()
	ctx := context.Background()

	opp := New("Deal", "ACME", "Mario", types.NewMoneyFromInt(3000), testNow)
	require.NoError(t, svc.Create(ctx, opp))

	updated, err := svc.TransitionStage(ctx, opp.ID, StageTransition{
		NewStage:            StageWon,
		ExpectedInvoiceDate: datePtr(2025, 7, 1),
		ExpectedPaymentDate: datePtr(2025, 8, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, StageWon, updated.Stage)

	stored := repo.byID[opp.ID]
	assert.Equal(t, StageWon, stored.Stage)
	require.NotNil(t, stored.CloseDate)

	require.Len(t, recorder.entries, 2)
	assert.Equal(t, audit.ActionStageTransition, recorder.entries[1].Action)
}

func TestServiceTransitionStage_WonGateFailsWithoutDates(t *testing.T) {
	svc, repo, _ := newServiceForTest()
	ctx := context.Background()

	opp := New("Deal", "ACME", "Mario", types.NewMoneyFromInt(3000), testNow)
	require.NoError(t, svc.Create(ctx, opp))

	_, err := svc.TransitionStage(ctx, opp.ID, StageTransition{NewStage: StageWon})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMissingForecastDates, appErr.Code)

	// Nothing persisted.
	assert.Equal(t, StageLead, repo.byID[opp.ID].Stage)
}

func TestServiceTransitionStage_NoOpDoesNotPersist(t *testing.T) {
	svc, repo, recorder := newServiceForTest()
	ctx := context.Background()

	opp := New("Deal", "ACME", "Mario", types.NewMoneyFromInt(3000), testNow)
	require.NoError(t, svc.Create(ctx, opp))
	versionBefore := repo.byID[opp.ID].Version
	auditsBefore := len(recorder.entries)

	_, err := svc.TransitionStage(ctx, opp.ID, StageTransition{NewStage: StageLead})
	require.NoError(t, err)
	assert.Equal(t, versionBefore, repo.byID[opp.ID].Version)
	assert.Len(t, recorder.entries, auditsBefore)
}

func TestServiceUpdate_StageChangeGoesThroughMachine(t *testing.T) {
	svc, repo, _ := newServiceForTest()
	ctx := context.Background()

	opp := New("Deal", "ACME", "Mario", types.NewMoneyFromInt(3000), testNow)
	require.NoError(t, svc.Create(ctx, opp))

	// A plain edit that flips the stage to won without forecast dates
	// must hit the same gate as the transition endpoint, even when it
	// smuggles in its own close date.
	edited := *opp
	edited.Stage = StageWon
	edited.CloseDate = datePtr(2025, 6, 1)
	err := svc.Update(ctx, &edited)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMissingForecastDates, appErr.Code)

	// Nothing persisted.
	stored := repo.byID[opp.ID]
	assert.Equal(t, StageLead, stored.Stage)
	assert.Equal(t, 10, stored.Probability)
	assert.Nil(t, stored.CloseDate)
}

func TestServiceUpdate_StageChangeAppliesMachineResults(t *testing.T) {
	svc, repo, _ := newServiceForTest()
	ctx := context.Background()

	opp := New("Deal", "ACME", "Mario", types.NewMoneyFromInt(3000), testNow)
	require.NoError(t, svc.Create(ctx, opp))

	edited := *opp
	edited.Stage = StageWon
	edited.ExpectedInvoiceDate = datePtr(2025, 7, 1)
	edited.ExpectedPaymentDate = datePtr(2025, 8, 1)
	edited.CloseDate = datePtr(2020, 1, 1) // machine stamp wins over this
	require.NoError(t, svc.Update(ctx, &edited))

	stored := repo.byID[opp.ID]
	assert.Equal(t, StageWon, stored.Stage)
	assert.Equal(t, 100, stored.Probability)
	require.NotNil(t, stored.CloseDate)
	assert.Equal(t, testNow, *stored.CloseDate)
	require.NotNil(t, stored.ProjectStatus)
	assert.Equal(t, ProjectInLavorazione, *stored.ProjectStatus)
}

func TestServiceDelete_MissingRecord(t *testing.T) {
	svc, _, _ := newServiceForTest()
	err := svc.Delete(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
