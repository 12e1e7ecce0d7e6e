package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpilot/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	ran      chan struct{}
}

func newFakeJob(name string) *fakeJob {
	return &fakeJob{name: name, schedule: "0 0 7 * * *", ran: make(chan struct{}, 1)}
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	j.ran <- struct{}{}
	return nil
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())

	require.NoError(t, s.AddJob(newFakeJob("refresh")))
	err := s.AddJob(newFakeJob("refresh"))
	assert.ErrorContains(t, err, "already exists")
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())

	job := newFakeJob("broken")
	job.schedule = "not a cron expression"

	err := s.AddJob(job)
	assert.ErrorContains(t, err, "failed to schedule")
}

func TestRunJobTriggersImmediately(t *testing.T) {
	s := New(logger.NewNop())

	job := newFakeJob("refresh")
	require.NoError(t, s.AddJob(job))
	require.NoError(t, s.RunJob("refresh"))

	select {
	case <-job.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed")
	}
}

func TestRunJobUnknown(t *testing.T) {
	s := New(logger.NewNop())

	err := s.RunJob("missing")
	assert.ErrorContains(t, err, "not found")
}
