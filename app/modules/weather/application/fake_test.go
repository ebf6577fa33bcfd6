package weatherservice

import (
	"context"
	"sort"

	weatherdb "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Weather Repo
// ------------------------

// FakeWeatherRepo keeps states and logs in memory.
type FakeWeatherRepo struct {
	trace []string

	States   map[string]weatherdb.State
	Logs     []weatherdb.Log
	TimeLogs []weatherdb.TimeLog

	UpsertStateFunc func(ctx context.Context, db bun.IDB, state *weatherdb.State) error
	RecentLogsFunc  func(ctx context.Context, db bun.IDB, region string, limit int) ([]weatherdb.Log, error)
}

func NewFakeWeatherRepo() *FakeWeatherRepo {
	return &FakeWeatherRepo{trace: []string{}, States: map[string]weatherdb.State{}}
}

func (f *FakeWeatherRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeWeatherRepo) GetStates(_ context.Context, _ bun.IDB) ([]weatherdb.State, error) {
	f.record("GetStates")
	out := make([]weatherdb.State, 0, len(f.States))
	for _, s := range f.States {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out, nil
}

func (f *FakeWeatherRepo) GetState(_ context.Context, _ bun.IDB, region string) (*weatherdb.State, error) {
	f.record("GetState")
	s, ok := f.States[region]
	if !ok {
		return nil, weatherdb.ErrNotFound
	}
	return &s, nil
}

func (f *FakeWeatherRepo) UpsertState(ctx context.Context, db bun.IDB, state *weatherdb.State) error {
	f.record("UpsertState")
	if f.UpsertStateFunc != nil {
		return f.UpsertStateFunc(ctx, db, state)
	}
	f.States[state.Region] = *state
	return nil
}

func (f *FakeWeatherRepo) AppendLog(_ context.Context, _ bun.IDB, log *weatherdb.Log) error {
	f.record("AppendLog")
	f.Logs = append(f.Logs, *log)
	return nil
}

func (f *FakeWeatherRepo) RecentLogs(ctx context.Context, db bun.IDB, region string, limit int) ([]weatherdb.Log, error) {
	f.record("RecentLogs")
	if f.RecentLogsFunc != nil {
		return f.RecentLogsFunc(ctx, db, region, limit)
	}
	var out []weatherdb.Log
	for _, l := range f.Logs {
		if l.Region == region {
			out = append(out, l)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *FakeWeatherRepo) AppendTimeLog(_ context.Context, _ bun.IDB, log *weatherdb.TimeLog) error {
	f.record("AppendTimeLog")
	f.TimeLogs = append(f.TimeLogs, *log)
	return nil
}

func (f *FakeWeatherRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ weatherdb.Repository = (*FakeWeatherRepo)(nil)
