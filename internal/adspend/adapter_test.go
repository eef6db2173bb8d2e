package adspend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jekabolt/woometrics/internal/dependency/mocks"
	"github.com/jekabolt/woometrics/internal/entity"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	from = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
)

func sampleRows() []entity.AdCostRow {
	return []entity.AdCostRow{
		{Date: from, Campaign: "spring", AdCost: decimal.NewFromInt(100), Transactions: 4, Revenue: decimal.NewFromInt(500)},
		{Date: from, Campaign: "brand", AdCost: decimal.NewFromInt(50), Transactions: 0, Revenue: decimal.Zero},
		{Date: from.AddDate(0, 0, 1), Campaign: "spring", AdCost: decimal.NewFromInt(100), Transactions: 6, Revenue: decimal.NewFromInt(500)},
		{Date: from.AddDate(0, 0, 2), Campaign: "retarget", AdCost: decimal.Zero, Transactions: 1, Revenue: decimal.NewFromInt(80)},
	}
}

func backend(t *testing.T) *mocks.AdSpendBackend {
	b := mocks.NewAdSpendBackend(t)
	b.EXPECT().Name().Return("ga4").Maybe()
	return b
}

func TestAdapterReady(t *testing.T) {
	ctx := context.Background()
	b := backend(t)
	b.EXPECT().Connect(mock.Anything).Return(nil)
	b.EXPECT().AdCosts(mock.Anything, from, to).Return(sampleRows(), nil)

	a := NewAdapter(b, 0)
	assert.Equal(t, StateNotConfigured, a.State())
	require.NoError(t, a.Configure(ctx))
	assert.Equal(t, StateReady, a.State())

	spend := a.TotalAdSpend(ctx, from, to)
	require.True(t, spend.HasData)
	assert.Equal(t, "ga4", spend.Source)
	assert.True(t, decimal.NewFromInt(250).Equal(spend.TotalSpend))
	assert.True(t, decimal.NewFromInt(150).Equal(spend.SpendByDate["2024-03-01"]))
	assert.True(t, decimal.NewFromInt(200).Equal(spend.SpendByCampaign["spring"]))
}

func TestCampaigns(t *testing.T) {
	cs := Campaigns(sampleRows())
	require.Len(t, cs, 3)

	spring := cs[0]
	assert.Equal(t, "spring", spring.Campaign)
	assert.Equal(t, 10, spring.Transactions)
	require.NotNil(t, spring.ROI)
	assert.True(t, decimal.NewFromInt(400).Equal(*spring.ROI), spring.ROI.String())
	require.NotNil(t, spring.CPA)
	assert.True(t, decimal.NewFromInt(20).Equal(*spring.CPA))
	require.NotNil(t, spring.ROAS)
	assert.True(t, decimal.NewFromInt(5).Equal(*spring.ROAS))

	brand := cs[1]
	assert.Nil(t, brand.CPA)
	require.NotNil(t, brand.ROI)
	assert.True(t, decimal.NewFromInt(-100).Equal(*brand.ROI))

	retarget := cs[2]
	assert.Nil(t, retarget.ROI)
	assert.Nil(t, retarget.ROAS)
	require.NotNil(t, retarget.CPA)
	assert.True(t, retarget.CPA.IsZero())
}

func TestAdapterNotConfigured(t *testing.T) {
	a := NewAdapter(nil, 0)
	err := a.Configure(context.Background())
	assert.ErrorIs(t, err, gerr.ErrAdSpendUnavailable)

	spend := a.TotalAdSpend(context.Background(), from, to)
	assert.False(t, spend.HasData)
	assert.Equal(t, entity.AdSpendReasonNotConfigured, spend.Reason)
	assert.NotEmpty(t, spend.ErrorMessage)
	assert.Nil(t, a.CampaignPerformance(context.Background(), from, to))
}

func TestAdapterDisabledBackend(t *testing.T) {
	b := backend(t)
	b.EXPECT().Connect(mock.Anything).Return(fmt.Errorf("ga4 disabled: %w", gerr.ErrAdSpendUnavailable))

	a := NewAdapter(b, 0)
	require.Error(t, a.Configure(context.Background()))
	assert.Equal(t, StateNotConfigured, a.State())
	assert.Equal(t, entity.AdSpendReasonNotConfigured, a.TotalAdSpend(context.Background(), from, to).Reason)
}

func TestAdapterAuthFailureOnConfigure(t *testing.T) {
	b := backend(t)
	b.EXPECT().Connect(mock.Anything).Return(fmt.Errorf("bad key: %w", gerr.ErrAdSpendAuth)).Once()

	a := NewAdapter(b, 0)
	require.Error(t, a.Configure(context.Background()))
	assert.Equal(t, StateFailed, a.State())
	st := a.Status()
	assert.Equal(t, "failed", st.State)
	assert.Equal(t, entity.AdSpendReasonAuthError, st.Reason)

	spend := a.TotalAdSpend(context.Background(), from, to)
	assert.False(t, spend.HasData)
	assert.Equal(t, entity.AdSpendReasonAuthError, spend.Reason)
	assert.Contains(t, spend.ErrorMessage, "bad key")

	b.EXPECT().Connect(mock.Anything).Return(nil).Once()
	require.NoError(t, a.Configure(context.Background()))
	assert.Equal(t, StateReady, a.State())
}

func TestAdapterQueryErrors(t *testing.T) {
	ctx := context.Background()
	b := backend(t)
	b.EXPECT().Connect(mock.Anything).Return(nil)
	a := NewAdapter(b, 0)
	require.NoError(t, a.Configure(ctx))

	b.EXPECT().AdCosts(mock.Anything, from, to).Return(nil, errors.New("deadline exceeded")).Once()
	spend := a.TotalAdSpend(ctx, from, to)
	assert.False(t, spend.HasData)
	assert.Equal(t, entity.AdSpendReasonQueryError, spend.Reason)
	assert.Equal(t, StateReady, a.State(), "transient errors keep the adapter ready")

	b.EXPECT().AdCosts(mock.Anything, from, to).Return([]entity.AdCostRow{}, nil).Once()
	spend = a.TotalAdSpend(ctx, from, to)
	assert.False(t, spend.HasData)
	assert.Equal(t, entity.AdSpendReasonNoData, spend.Reason)
	assert.Equal(t, StateReady, a.State())

	b.EXPECT().AdCosts(mock.Anything, from, to).Run(func(context.Context, time.Time, time.Time) {
		panic("nil service")
	}).Once()
	spend = a.TotalAdSpend(ctx, from, to)
	assert.False(t, spend.HasData)
	assert.Contains(t, spend.ErrorMessage, "panicked")

	b.EXPECT().AdCosts(mock.Anything, from, to).Return(nil, fmt.Errorf("401: %w", gerr.ErrAdSpendAuth)).Once()
	spend = a.TotalAdSpend(ctx, from, to)
	assert.Equal(t, entity.AdSpendReasonAuthError, spend.Reason)
	assert.Equal(t, StateFailed, a.State())
}

func TestAdapterProbe(t *testing.T) {
	b := backend(t)
	b.EXPECT().Connect(mock.Anything).Return(nil)
	b.EXPECT().AdCosts(mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()

	a := NewAdapter(b, 7)
	err := a.Configure(context.Background())
	assert.ErrorIs(t, err, gerr.ErrAdSpendUnavailable)
	assert.Equal(t, StateFailed, a.State())
	assert.Equal(t, entity.AdSpendReasonNoData, a.Status().Reason)
}
