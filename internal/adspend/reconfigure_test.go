package adspend

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jekabolt/woometrics/internal/dependency/mocks"
	gerr "github.com/jekabolt/woometrics/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconfigurerRetriesFailed(t *testing.T) {
	b := mocks.NewAdSpendBackend(t)
	b.EXPECT().Name().Return("ga4").Maybe()
	b.EXPECT().Connect(mock.Anything).Return(fmt.Errorf("expired: %w", gerr.ErrAdSpendAuth)).Once()
	b.EXPECT().Connect(mock.Anything).Return(nil).Once()

	a := NewAdapter(b, 0)
	w := NewReconfigurer(a, &Config{Source: "ga4", WorkerInterval: 10 * time.Millisecond})

	require.NoError(t, w.Start(context.Background()))
	assert.Error(t, w.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return a.State() == StateReady
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, w.Stop())
	assert.Error(t, w.Stop())
}

func TestReconfigurerLeavesReadyAlone(t *testing.T) {
	b := mocks.NewAdSpendBackend(t)
	b.EXPECT().Name().Return("google_ads").Maybe()
	b.EXPECT().Connect(mock.Anything).Return(nil).Once()

	a := NewAdapter(b, 0)
	w := NewReconfigurer(a, &Config{WorkerInterval: 5 * time.Millisecond})
	require.NoError(t, w.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, w.Stop())

	assert.Equal(t, StateReady, a.State())
}
