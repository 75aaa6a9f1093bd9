package container

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	log      *[]string
	running  bool
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f *fakeComponent) Stop() error {
	f.running = false
	*f.log = append(*f.log, "stop "+f.name)
	return f.stopErr
}

func (f *fakeComponent) Health() error {
	if !f.running {
		return errors.New("down")
	}
	return nil
}

func TestLifecycleManager_OrderAndRollback(t *testing.T) {
	var log []string
	m := NewLifecycleManager()
	m.Register(&fakeComponent{name: "a", log: &log})
	m.Register(&fakeComponent{name: "b", log: &log})
	m.Register(&fakeComponent{name: "c", startErr: errors.New("boom"), log: &log})

	err := m.StartAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start c failed")
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
}

func TestLifecycleManager_StopAllJoinsErrors(t *testing.T) {
	var log []string
	m := NewLifecycleManager()
	errA := errors.New("a failed")
	m.Register(&fakeComponent{name: "a", stopErr: errA, log: &log})
	m.Register(&fakeComponent{name: "b", log: &log})

	require.NoError(t, m.StartAll(context.Background()))
	require.NoError(t, m.CheckHealth())

	err := m.StopAll()
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, log)
	assert.Error(t, m.CheckHealth())
}
