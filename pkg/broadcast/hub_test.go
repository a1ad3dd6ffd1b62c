package broadcast_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/workbench-api/pkg/broadcast"
)

func TestHub_CadaSuscriptorRecibeTodoEnOrden(t *testing.T) {
	hub := broadcast.New[int](0)
	const subs, msgs = 4, 50

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	results := make([][]int, subs)
	subscriptions := make([]*broadcast.Subscription[int], subs)
	for i := range subscriptions {
		subscriptions[i] = hub.Subscribe()
	}
	for i, s := range subscriptions {
		wg.Add(1)
		go func(i int, s *broadcast.Subscription[int]) {
			defer wg.Done()
			for j := 0; j < msgs; j++ {
				v, err := s.Next(ctx)
				if err != nil {
					return
				}
				results[i] = append(results[i], v)
			}
		}(i, s)
	}

	for j := 0; j < msgs; j++ {
		hub.Publish(j)
	}
	wg.Wait()

	for i := range results {
		require.Len(t, results[i], msgs, "suscriptor %d", i)
		for j, v := range results[i] {
			assert.Equal(t, j, v)
		}
	}
}

func TestHub_DescartaElMasAntiguoAlSuperarTope(t *testing.T) {
	hub := broadcast.New[int](2)
	s := hub.Subscribe()
	hub.Publish(1)
	hub.Publish(2)
	hub.Publish(3)

	ctx := context.Background()
	v, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, s.Dropped())

	// el último publicado nunca se descarta
	v, err = s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestHub_CloseDrenaYLuegoErrClosed(t *testing.T) {
	hub := broadcast.New[string](0)
	s := hub.Subscribe()
	hub.Publish("a")
	hub.Close()

	v, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	_, err = s.Next(context.Background())
	assert.ErrorIs(t, err, broadcast.ErrClosed)

	late := hub.Subscribe()
	_, err = late.Next(context.Background())
	assert.ErrorIs(t, err, broadcast.ErrClosed)
}

func TestSubscription_CloseDaDeBaja(t *testing.T) {
	hub := broadcast.New[int](0)
	s := hub.Subscribe()
	assert.Equal(t, 1, hub.Subscribers())
	s.Close()
	s.Close()
	assert.Equal(t, 0, hub.Subscribers())
}

func TestSubscription_NextRespetaContexto(t *testing.T) {
	hub := broadcast.New[int](0)
	s := hub.Subscribe()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
