package scheduler

import (
	"context"
	"errors"
	"testing"

	"expensetracker/config"
	"expensetracker/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroadcaster struct{ runs int }

func (f *fakeBroadcaster) RunAll(context.Context) (service.BroadcastResult, error) {
	f.runs++
	return service.BroadcastResult{Sent: 1}, nil
}

type fakeRunner struct {
	policies []service.BatchPolicy
	err      error
}

func (f *fakeRunner) RunDue(_ context.Context, policy service.BatchPolicy) (*service.RunDueResult, error) {
	f.policies = append(f.policies, policy)
	if f.err != nil {
		return nil, f.err
	}
	return &service.RunDueResult{Items: []service.RecurringRunItem{}}, nil
}

func defaultConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:     true,
		Timezone:    "UTC",
		MonthlySpec: "0 6 1 * *",
		AnnualSpec:  "0 7 1 1 *",
	}
}

func TestNew_RegistersReportJobs(t *testing.T) {
	s, err := New(defaultConfig(), &fakeBroadcaster{}, &fakeRunner{}, service.AbortOnError)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	cfg := defaultConfig()
	cfg.RecurringSpec = "@hourly"
	s, err = New(cfg, &fakeBroadcaster{}, &fakeRunner{}, service.AbortOnError)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Entries())
}

func TestNew_Errors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Timezone = "Mars/Olympus"
	_, err := New(cfg, &fakeBroadcaster{}, &fakeRunner{}, service.AbortOnError)
	assert.Error(t, err)

	cfg = defaultConfig()
	cfg.MonthlySpec = "not a spec"
	_, err = New(cfg, &fakeBroadcaster{}, &fakeRunner{}, service.AbortOnError)
	assert.ErrorContains(t, err, "monthly-report")
}

func TestJobs(t *testing.T) {
	b := &fakeBroadcaster{}
	r := &fakeRunner{}
	cfg := defaultConfig()
	cfg.RecurringSpec = "@daily"
	s, err := New(cfg, b, r, service.ContinueOnError)
	require.NoError(t, err)

	for _, e := range s.cron.Entries() {
		e.Job.Run()
	}
	assert.Equal(t, 2, b.runs)
	assert.Equal(t, []service.BatchPolicy{service.ContinueOnError}, r.policies)

	r.err = errors.New("db down")
	s.runRecurring(context.Background())
	assert.Len(t, r.policies, 2)
}

func TestStartStop(t *testing.T) {
	s, err := New(defaultConfig(), &fakeBroadcaster{}, &fakeRunner{}, service.AbortOnError)
	require.NoError(t, err)
	s.Start()
	<-s.Stop().Done()
}
