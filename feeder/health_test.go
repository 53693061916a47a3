package feeder

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestHealthChecker(t *testing.T) {
	hc := NewHealthChecker(0, log.NewNopLogger())
	failing := true
	hc.AddCheck(NewFuncCheck("ok", func(context.Context) error { return nil }))
	hc.AddCheck(NewFuncCheck("flaky", func(context.Context) error {
		if failing {
			return errors.New("unreachable")
		}
		return nil
	}))
	require.True(t, hc.IsHealthy())

	// Start returns after one run when there is no interval
	hc.Start(context.Background())
	require.False(t, hc.IsHealthy())

	status := hc.Status()
	require.True(t, status["ok"].Healthy)
	require.False(t, status["flaky"].Healthy)
	require.Equal(t, "unreachable", status["flaky"].LastError)
	require.False(t, status["flaky"].LastCheck.IsZero())

	failing = false
	hc.RunChecks(context.Background())
	require.True(t, hc.IsHealthy())
	require.Empty(t, hc.Status()["flaky"].LastError)
}
