package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/leslie/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("LeastSquares", "Predict")
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Predict", nf.Method)

	s.SetFitted(3, 10)
	assert.True(t, s.IsFitted())
	assert.NoError(t, s.RequireFitted("LeastSquares", "Predict"))

	dim, n := s.GetDimensions()
	assert.Equal(t, 3, dim)
	assert.Equal(t, 10, n)
	assert.Equal(t, State{Fitted: true, Dimension: 3, Samples: 10}, s.GetState())

	s.Reset()
	assert.Equal(t, State{}, s.GetState())
}

func TestLifecycleFreezeIsOneWay(t *testing.T) {
	var l Lifecycle
	assert.Equal(t, Building, l.Phase())
	assert.Equal(t, "building", l.Phase().String())

	count := 0
	assert.True(t, l.Mutate(func() { count++ }))

	assert.True(t, l.Freeze())
	assert.False(t, l.Freeze(), "second Freeze must report no transition")
	assert.True(t, l.IsFrozen())
	assert.Equal(t, "frozen", l.Phase().String())

	assert.False(t, l.Mutate(func() { count++ }))
	assert.Equal(t, 1, count)
}

func TestLifecycleConcurrentFreeze(t *testing.T) {
	var l Lifecycle
	var wg sync.WaitGroup
	transitions := make(chan bool, 16)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			transitions <- l.Freeze()
		}()
	}
	wg.Wait()
	close(transitions)

	won := 0
	for ok := range transitions {
		if ok {
			won++
		}
	}
	assert.Equal(t, 1, won)
}
