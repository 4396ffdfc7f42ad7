package health

import (
	"context"
	"errors"
	"testing"
)

type fakeFacade struct {
	kind      string
	available bool
}

func (f fakeFacade) Kind() string    { return f.kind }
func (f fakeFacade) Available() bool { return f.available }

type fakeBackend bool

func (f fakeBackend) Degraded() bool { return bool(f) }

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

func TestStatus(t *testing.T) {
	tests := []struct {
		name      string
		svc       *Service
		kind      string
		available bool
		degraded  bool
		database  string
	}{
		{name: "local memory", svc: NewService(fakeFacade{"local", true}, nil, nil), kind: "local", available: true, database: "memory"},
		{name: "degraded object store", svc: NewService(fakeFacade{"object-store", true}, fakeBackend(true), fakePinger{}), kind: "object-store", available: true, degraded: true, database: "up"},
		{name: "no backend", svc: NewService(fakeFacade{"local", false}, nil, nil), kind: "local", degraded: true, database: "memory"},
		{name: "database down", svc: NewService(fakeFacade{"object-store", true}, fakeBackend(false), fakePinger{err: errors.New("refused")}), kind: "object-store", available: true, database: "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.svc.Status(context.Background())
			if !st.OK {
				t.Fatalf("health must stay ok")
			}
			if st.Storage.Kind != tt.kind || st.Storage.Available != tt.available || st.Storage.Degraded != tt.degraded {
				t.Fatalf("unexpected storage status %+v", st.Storage)
			}
			if st.Database != tt.database {
				t.Fatalf("expected database=%q, got %q", tt.database, st.Database)
			}
		})
	}
}
