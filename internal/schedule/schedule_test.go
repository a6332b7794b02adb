package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduler_FiresTrigger(t *testing.T) {
	fired := make(chan string, 4)
	s, err := New(func(reason string) { fired <- reason })
	require.NoError(t, err)

	id, err := s.SchedulePeriodicRebuild(50 * time.Millisecond)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	s.Start()
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	select {
	case reason := <-fired:
		require.Equal(t, "scheduled rebuild", reason)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled rebuild never fired")
	}
}
