package main

import (
	"sync"
	"testing"
	"time"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
	"github.com/vmihailenco/msgpack/v5"
)

// mockBroadcaster captures sent messages for testing
type mockBroadcaster struct {
	mu       sync.Mutex
	messages []interface{}
	frames   [][]byte
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, data)
}

// types lists the envelope types received so far
func (m *mockBroadcaster) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, msg := range m.messages {
		if env, ok := msg.(Envelope); ok {
			out = append(out, env.T)
		}
	}
	return out
}

func (m *mockBroadcaster) has(t string) bool {
	for _, got := range m.types() {
		if got == t {
			return true
		}
	}
	return false
}

func testRunFor(t *testing.T) (*game.Run, game.RunConfig) {
	t.Helper()
	cat := testCatalog(t)
	prog := game.NewProgression(cat)
	m := game.NewMissionGenerator(cat, game.NewRand(1)).Generate(0)[0]
	cfg, err := prog.Launch(cat, m, 1)
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	return game.NewRun(cat, cfg), cfg
}

func TestFlightStepBroadcastsSnapshots(t *testing.T) {
	run, cfg := testRunFor(t)
	mock := &mockBroadcaster{}
	f := NewFlight(run, mock, nil)

	for i := 0; i < 4; i++ {
		if f.step() {
			t.Fatal("flight ended early")
		}
	}

	mock.mu.Lock()
	frames := len(mock.frames)
	last := mock.frames[len(mock.frames)-1]
	mock.mu.Unlock()
	if frames != 4/BroadcastEvery {
		t.Errorf("expected %d snapshot frames, got %d", 4/BroadcastEvery, frames)
	}

	var snap game.Snapshot
	if err := msgpack.Unmarshal(last, &snap); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	if snap.Outcome != game.OutcomeRunning {
		t.Errorf("expected running, got %s", snap.Outcome)
	}
	if snap.MaxHP != cfg.Stats.MaxHP {
		t.Errorf("expected max hp %.1f, got %.1f", cfg.Stats.MaxHP, snap.MaxHP)
	}
}

func TestFlightRetireReportsOnce(t *testing.T) {
	run, _ := testRunFor(t)
	mock := &mockBroadcaster{}
	var results []*game.Result
	f := NewFlight(run, mock, func(r *game.Result) { results = append(results, r) })

	f.step()
	f.SetInput(ClientInput{X: 5000, Y: -40, Retire: true})
	if !f.step() {
		t.Fatal("expected the flight to end after retiring")
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].Outcome != game.OutcomeFailure || results[0].Cause != game.CauseRetired {
		t.Errorf("unexpected result %+v", results[0])
	}

	mock.mu.Lock()
	frames := len(mock.frames)
	mock.mu.Unlock()
	if frames == 0 {
		t.Error("the terminal tick should publish a snapshot")
	}
}

func TestFlightLoopEndsOnRetire(t *testing.T) {
	run, _ := testRunFor(t)
	ended := make(chan *game.Result, 1)
	f := NewFlight(run, &mockBroadcaster{}, func(r *game.Result) { ended <- r })

	go f.Run()
	f.Retire()

	select {
	case res := <-ended:
		if res.Outcome != game.OutcomeFailure {
			t.Errorf("expected failure, got %s", res.Outcome)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("flight loop did not report")
	}
}

func TestFlightStopDoesNotReport(t *testing.T) {
	run, _ := testRunFor(t)
	called := make(chan struct{}, 1)
	f := NewFlight(run, &mockBroadcaster{}, func(*game.Result) { called <- struct{}{} })

	f.Stop()
	f.Stop() // idempotent
	done := make(chan struct{})
	go func() {
		f.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stopped flight kept running")
	}
	select {
	case <-called:
		t.Error("a stopped flight must not report a result")
	default:
	}
}
