package opportunity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatturo/internal/core/apperror"
	"fatturo/internal/core/types"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestOpportunity() *Opportunity {
	return New("Sito web", "Rossi SRL", "Mario", types.NewMoneyFromInt(5000), testNow.AddDate(0, -1, 0))
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDefaultProbability(t *testing.T) {
	cases := []struct {
		stage Stage
		want  int
	}{
		{StageLead, 10},
		{StageInContatto, 20},
		{StageFollowUp, 40},
		{StageRevisione, 60},
		{StageWon, 100},
		{StageLost, 0},
		{Stage("Trattativa speciale"), 30}, // custom stage
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, DefaultProbability(tc.stage), "stage %q", tc.stage)
	}
}

func TestTransitionStage_ProbabilityFollowsStage(t *testing.T) {
	opp := newTestOpportunity()
	require.Equal(t, StageLead, opp.Stage)
	require.Equal(t, 10, opp.Probability)

	err := opp.TransitionStage(StageTransition{NewStage: StageFollowUp}, testNow)
	require.NoError(t, err)
	assert.Equal(t, StageFollowUp, opp.Stage)
	assert.Equal(t, 40, opp.Probability)
}

func TestTransitionStage_ProbabilityOverride(t *testing.T) {
	opp := newTestOpportunity()
	p := 55

	err := opp.TransitionStage(StageTransition{NewStage: StageRevisione, Probability: &p}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 55, opp.Probability)
}

func TestTransitionStage_SameStageIsNoOp(t *testing.T) {
	opp := newTestOpportunity()
	opp.Probability = 99 // would be reset if the transition ran

	err := opp.TransitionStage(StageTransition{NewStage: StageLead}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 99, opp.Probability)
	assert.Nil(t, opp.CloseDate)
}

func TestTransitionStage_WonRequiresBothForecastDates(t *testing.T) {
	cases := []struct {
		name       string
		invoiceDay *time.Time
		paymentDay *time.Time
	}{
		{"neither date", nil, nil},
		{"only invoice date", datePtr(2025, 7, 1), nil},
		{"only payment date", nil, datePtr(2025, 8, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opp := newTestOpportunity()
			err := opp.TransitionStage(StageTransition{
				NewStage:            StageWon,
				ExpectedInvoiceDate: tc.invoiceDay,
				ExpectedPaymentDate: tc.paymentDay,
			}, testNow)

			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeMissingForecastDates, appErr.Code)

			// Nothing was mutated.
			assert.Equal(t, StageLead, opp.Stage)
			assert.Nil(t, opp.ExpectedInvoiceDate)
			assert.Nil(t, opp.ExpectedPaymentDate)
		})
	}
}

func TestTransitionStage_WinStampsEverything(t *testing.T) {
	opp := newTestOpportunity()

	err := opp.TransitionStage(StageTransition{
		NewStage:            StageWon,
		ExpectedInvoiceDate: datePtr(2025, 7, 1),
		ExpectedPaymentDate: datePtr(2025, 8, 1),
	}, testNow)
	require.NoError(t, err)

	assert.Equal(t, StageWon, opp.Stage)
	assert.Equal(t, 100, opp.Probability)
	require.NotNil(t, opp.CloseDate)
	assert.Equal(t, testNow, *opp.CloseDate)
	assert.Equal(t, datePtr(2025, 7, 1), opp.ExpectedInvoiceDate)
	assert.Equal(t, datePtr(2025, 8, 1), opp.ExpectedPaymentDate)
	require.NotNil(t, opp.ProjectStatus)
	assert.Equal(t, ProjectInLavorazione, *opp.ProjectStatus)
}

func TestTransitionStage_LostStampsCloseDate(t *testing.T) {
	opp := newTestOpportunity()

	err := opp.TransitionStage(StageTransition{NewStage: StageLost}, testNow)
	require.NoError(t, err)

	assert.Equal(t, StageLost, opp.Stage)
	assert.Equal(t, 0, opp.Probability)
	require.NotNil(t, opp.CloseDate)
	assert.Equal(t, testNow, *opp.CloseDate)
}

func TestTransitionStage_ExistingCloseDateIsKept(t *testing.T) {
	opp := newTestOpportunity()
	existing := testNow.AddDate(0, 0, -3)
	opp.CloseDate = &existing

	err := opp.TransitionStage(StageTransition{NewStage: StageLost}, testNow)
	require.NoError(t, err)
	assert.Equal(t, existing, *opp.CloseDate)
}

func TestTransitionStage_ReopeningClearsCloseDate(t *testing.T) {
	opp := newTestOpportunity()
	require.NoError(t, opp.TransitionStage(StageTransition{NewStage: StageLost}, testNow))
	require.NotNil(t, opp.CloseDate)

	err := opp.TransitionStage(StageTransition{NewStage: StageInContatto}, testNow)
	require.NoError(t, err)

	assert.Equal(t, StageInContatto, opp.Stage)
	assert.Equal(t, 20, opp.Probability)
	assert.Nil(t, opp.CloseDate)
}

func TestTransitionStage_RewinRequiresDatesAgain(t *testing.T) {
	opp := newTestOpportunity()
	require.NoError(t, opp.TransitionStage(StageTransition{
		NewStage:            StageWon,
		ExpectedInvoiceDate: datePtr(2025, 7, 1),
		ExpectedPaymentDate: datePtr(2025, 8, 1),
	}, testNow))
	require.NoError(t, opp.TransitionStage(StageTransition{NewStage: StageFollowUp}, testNow))

	// Stored dates from the first win do not satisfy the gate.
	err := opp.TransitionStage(StageTransition{NewStage: StageWon}, testNow)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMissingForecastDates, appErr.Code)

	// Fresh dates win again and replace the stored ones; the project
	// status from the first win is kept.
	require.NoError(t, opp.TransitionStage(StageTransition{
		NewStage:            StageWon,
		ExpectedInvoiceDate: datePtr(2025, 9, 1),
		ExpectedPaymentDate: datePtr(2025, 10, 1),
	}, testNow))
	assert.Equal(t, datePtr(2025, 9, 1), opp.ExpectedInvoiceDate)
	assert.Equal(t, datePtr(2025, 10, 1), opp.ExpectedPaymentDate)
	require.NotNil(t, opp.ProjectStatus)
	assert.Equal(t, ProjectInLavorazione, *opp.ProjectStatus)
}

func TestTransitionStage_CustomStageGetsDefaultProbability(t *testing.T) {
	opp := newTestOpportunity()

	err := opp.TransitionStage(StageTransition{NewStage: Stage("Demo fissata")}, testNow)
	require.NoError(t, err)
	assert.Equal(t, 30, opp.Probability)
}

func TestTransitionStage_EmptyStageRejected(t *testing.T) {
	opp := newTestOpportunity()
	err := opp.TransitionStage(StageTransition{}, testNow)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestValidate_ClosedRequiresCloseDate(t *testing.T) {
	opp := newTestOpportunity()
	opp.Stage = StageLost

	err := opp.Validate(context.Background())
	require.Error(t, err)

	closeDate := testNow
	opp.CloseDate = &closeDate
	assert.NoError(t, opp.Validate(context.Background()))
}

func TestValidate_Bounds(t *testing.T) {
	opp := newTestOpportunity()
	opp.Probability = 101
	assert.Error(t, opp.Validate(context.Background()))

	opp.Probability = 50
	opp.Value = types.NewMoneyFromInt(-1)
	assert.Error(t, opp.Validate(context.Background()))
}
