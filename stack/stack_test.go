package stack

import (
	"io"
	"sort"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/event"
)

type fixture struct {
	clock  *engine.MockTimeProvider
	sched  *engine.Scheduler
	ctrl   *Controller
	disp   *Dispenser
	seq    *Sequencer
	events []event.Event
}

func newFixture(t *testing.T, count int, dispense time.Duration) *fixture {
	t.Helper()
	f := &fixture{clock: engine.NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))}
	f.sched = engine.NewScheduler(f.clock)
	logger := log.New(io.Discard)

	f.ctrl = NewController(f.sched, ControllerOptions{
		Side:         core.SideLeft,
		InitialCount: count,
		AddSettle:    300 * time.Millisecond,
		RemoveSettle: 300 * time.Millisecond,
		Sink:         event.SinkFunc(func(ev event.Event) { f.events = append(f.events, ev) }),
		Logger:       logger,
	})
	f.disp = NewDispenser(f.ctrl, f.sched, dispense, false)
	f.seq = NewSequencer(f.ctrl, f.sched, 200*time.Millisecond, 10, logger)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.sched.RunDue()
}

func (f *fixture) count(et event.EventType) int {
	n := 0
	for _, ev := range f.events {
		if ev.Type == et {
			n++
		}
	}
	return n
}

func sortedKeys(m map[int]Marker) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func TestRequestAddLifecycle(t *testing.T) {
	f := newFixture(t, 5, 150*time.Millisecond)

	if !f.ctrl.RequestAdd() {
		t.Fatal("Expected first add accepted")
	}
	if f.ctrl.RequestAdd() {
		t.Error("Expected add refused while dispensing")
	}
	if !f.ctrl.State().IsAdding(5) {
		t.Error("Expected Adding marker at index 5")
	}
	if f.ctrl.Count() != 5 {
		t.Errorf("Expected count unchanged before settle, got %d", f.ctrl.Count())
	}

	f.advance(150 * time.Millisecond)
	if f.ctrl.Dispensing() {
		t.Error("Expected dispensing cleared by dispenser")
	}
	if f.count(event.EventDispenseComplete) != 1 {
		t.Errorf("Expected one dispense complete, got %d", f.count(event.EventDispenseComplete))
	}

	f.advance(150 * time.Millisecond)
	if f.ctrl.Count() != 6 {
		t.Errorf("Expected count 6 after settle, got %d", f.ctrl.Count())
	}

	last := f.events[len(f.events)-1]
	if last.Type != event.EventAnimationStart || last.Index != 5 {
		t.Errorf("Expected animation start at 5, got %v at %d", last.Type, last.Index)
	}

	if f.ctrl.AnimationComplete(uuid.New()) {
		t.Error("Expected unknown token ignored")
	}
	if !f.ctrl.AnimationComplete(last.Token) {
		t.Error("Expected landing token accepted")
	}
	if len(f.ctrl.State().PendingAdds) != 0 {
		t.Error("Expected marker dropped after animation complete")
	}
	if f.disp.Rotation() != 1 {
		t.Errorf("Expected dispenser rotation 1, got %d", f.disp.Rotation())
	}
}

func TestOverlappingAddsUseProjectedIndex(t *testing.T) {
	f := newFixture(t, 2, 100*time.Millisecond)

	f.ctrl.RequestAdd()
	f.advance(100 * time.Millisecond)
	f.ctrl.RequestAdd()

	if diff := cmp.Diff([]int{2, 3}, sortedKeys(f.ctrl.State().PendingAdds)); diff != "" {
		t.Errorf("Adding markers mismatch (-want +got):\n%s", diff)
	}
	if f.ctrl.Projected() != 4 {
		t.Errorf("Expected projected 4, got %d", f.ctrl.Projected())
	}

	f.advance(time.Second)
	if f.ctrl.Count() != 4 {
		t.Errorf("Expected count 4, got %d", f.ctrl.Count())
	}
}

func TestRemoveRenumbersMarkers(t *testing.T) {
	f := newFixture(t, 6, 100*time.Millisecond)
	f.ctrl.State().PendingAdds[1] = Marker{Key: MarkerKey{Index: 1}}
	f.ctrl.State().PendingAdds[4] = Marker{Key: MarkerKey{Index: 4}}
	f.ctrl.State().PendingAdds[5] = Marker{Key: MarkerKey{Index: 5}}

	f.ctrl.RequestRemove(4, true)
	if !f.ctrl.State().IsRemoving(4) {
		t.Fatal("Expected removal mark at 4")
	}

	f.advance(300 * time.Millisecond)

	if diff := cmp.Diff([]int{1, 4}, sortedKeys(f.ctrl.State().PendingAdds)); diff != "" {
		t.Errorf("Markers after removal mismatch (-want +got):\n%s", diff)
	}
	if got := f.ctrl.State().PendingAdds[4].Key.Index; got != 4 {
		t.Errorf("Expected shifted marker to carry index 4, got %d", got)
	}
	if f.ctrl.State().IsRemoving(4) {
		t.Error("Expected removal mark cleared")
	}
	if f.ctrl.Count() != 5 {
		t.Errorf("Expected count 5, got %d", f.ctrl.Count())
	}
}

func TestOverlappingRemovalsTrackIndices(t *testing.T) {
	f := newFixture(t, 5, 100*time.Millisecond)

	f.ctrl.RequestRemove(1, true)
	f.advance(100 * time.Millisecond)
	f.ctrl.RequestRemove(3, true)

	f.advance(200 * time.Millisecond)
	if diff := cmp.Diff([]int{2}, sortedKeys(f.ctrl.State().PendingRemovals)); diff != "" {
		t.Errorf("Pending removals after first settle mismatch (-want +got):\n%s", diff)
	}
	if f.ctrl.Count() != 4 {
		t.Errorf("Expected count 4, got %d", f.ctrl.Count())
	}

	f.advance(100 * time.Millisecond)
	if len(f.ctrl.State().PendingRemovals) != 0 {
		t.Errorf("Expected no pending removals, got %v", sortedKeys(f.ctrl.State().PendingRemovals))
	}
	if f.ctrl.Count() != 3 {
		t.Errorf("Expected count 3, got %d", f.ctrl.Count())
	}
}

func TestOverlappingAddAndRemoveKeepAddMarker(t *testing.T) {
	tests := []struct {
		name      string
		initial   int
		run       func(t *testing.T, f *fixture)
		wantCount int
		wantAdds  []int
	}{
		{
			name:    "add and remove settle in one tick",
			initial: 5,
			run: func(t *testing.T, f *fixture) {
				f.ctrl.RequestAdd()
				f.ctrl.RequestRemove(2, true)
				f.advance(300 * time.Millisecond)
			},
			wantCount: 5,
			wantAdds:  []int{4},
		},
		{
			name:    "regrow while shrink pops settle",
			initial: 8,
			run: func(t *testing.T, f *fixture) {
				f.seq.SetTarget(5)
				f.advance(450 * time.Millisecond)
				f.seq.SetTarget(6)
				if diff := cmp.Diff([]int{5}, sortedKeys(f.ctrl.State().PendingAdds)); diff != "" {
					t.Errorf("Adding markers before settle (-want +got):\n%s", diff)
				}
				f.advance(300 * time.Millisecond)
			},
			wantCount: 6,
			wantAdds:  []int{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.initial, 150*time.Millisecond)
			tt.run(t, f)

			if f.ctrl.Count() != tt.wantCount {
				t.Errorf("Expected count %d, got %d", tt.wantCount, f.ctrl.Count())
			}
			if diff := cmp.Diff(tt.wantAdds, sortedKeys(f.ctrl.State().PendingAdds)); diff != "" {
				t.Errorf("Adding markers mismatch (-want +got):\n%s", diff)
			}

			var start *event.Event
			for i := range f.events {
				if f.events[i].Type == event.EventAnimationStart {
					start = &f.events[i]
				}
			}
			if start == nil {
				t.Fatal("Expected an animation start")
			}
			if !f.ctrl.AnimationComplete(start.Token) {
				t.Error("Expected animation start token to name a live marker")
			}
			if len(f.ctrl.State().PendingAdds) != 0 {
				t.Error("Expected marker dropped after landing")
			}
		})
	}
}

func TestUncountedRemoveKeepsCount(t *testing.T) {
	f := newFixture(t, 4, 100*time.Millisecond)
	f.ctrl.RequestRemove(3, false)
	f.advance(time.Second)
	if f.ctrl.Count() != 4 {
		t.Errorf("Expected count 4, got %d", f.ctrl.Count())
	}
}

func TestSetCountMakesInflightSettlesInert(t *testing.T) {
	f := newFixture(t, 5, 100*time.Millisecond)

	f.ctrl.RequestAdd()
	f.ctrl.RequestRemove(0, true)
	f.ctrl.SetCount(7)

	f.advance(time.Second)
	if f.ctrl.Count() != 7 {
		t.Errorf("Expected count 7, got %d", f.ctrl.Count())
	}
	if len(f.ctrl.State().PendingAdds) != 0 {
		t.Error("Expected superseded add marker dropped")
	}
	if f.ctrl.Projected() != 7 {
		t.Errorf("Expected projected 7, got %d", f.ctrl.Projected())
	}
}

func TestCountListeners(t *testing.T) {
	f := newFixture(t, 3, 100*time.Millisecond)
	var seen [][2]int
	f.ctrl.OnCountChange(func(count, previous int) { seen = append(seen, [2]int{count, previous}) })

	f.ctrl.SetCount(3)
	f.ctrl.SetCount(1)
	if diff := cmp.Diff([][2]int{{1, 3}}, seen); diff != "" {
		t.Errorf("Listener calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSequencerGrows(t *testing.T) {
	f := newFixture(t, 5, 150*time.Millisecond)

	f.seq.SetTarget(8)
	if !f.seq.Busy() {
		t.Error("Expected sequencer busy")
	}

	f.advance(400 * time.Millisecond)
	if f.count(event.EventAddRequested) != 3 {
		t.Errorf("Expected 3 adds requested, got %d", f.count(event.EventAddRequested))
	}

	f.advance(time.Second)
	if f.ctrl.Count() != 8 {
		t.Errorf("Expected count 8, got %d", f.ctrl.Count())
	}
	if f.seq.Busy() {
		t.Error("Expected batch finished")
	}
}

func TestSequencerRetriesRefusedAdds(t *testing.T) {
	// Dispense outlasts the step, every other step is refused
	f := newFixture(t, 0, 250*time.Millisecond)

	f.seq.SetTarget(3)
	f.advance(3 * time.Second)

	if f.ctrl.Count() != 3 {
		t.Errorf("Expected count 3, got %d", f.ctrl.Count())
	}
	if f.count(event.EventAddRequested) != 3 {
		t.Errorf("Expected exactly 3 accepted adds, got %d", f.count(event.EventAddRequested))
	}
}

func TestSequencerShrinks(t *testing.T) {
	f := newFixture(t, 8, 150*time.Millisecond)

	f.seq.SetTarget(3)
	if f.ctrl.Count() != 3 {
		t.Fatalf("Expected count written first, got %d", f.ctrl.Count())
	}
	if diff := cmp.Diff([]int{7}, sortedKeys(f.ctrl.State().PendingRemovals)); diff != "" {
		t.Errorf("Expected first pop immediate (-want +got):\n%s", diff)
	}

	f.advance(800 * time.Millisecond)
	var removed []int
	for _, ev := range f.events {
		if ev.Type == event.EventRemoveRequested {
			removed = append(removed, ev.Index)
		}
	}
	if diff := cmp.Diff([]int{7, 6, 5, 4, 3}, removed); diff != "" {
		t.Errorf("Removal order mismatch (-want +got):\n%s", diff)
	}

	f.advance(time.Second)
	if f.ctrl.Count() != 3 {
		t.Errorf("Expected count 3, got %d", f.ctrl.Count())
	}
	if len(f.ctrl.State().PendingRemovals) != 0 {
		t.Error("Expected removals settled")
	}
}

func TestSequencerSupersession(t *testing.T) {
	f := newFixture(t, 2, 150*time.Millisecond)

	f.seq.SetTarget(9)
	f.advance(250 * time.Millisecond)
	first := f.seq.Epoch()

	f.seq.SetTarget(1)
	if f.seq.Epoch() != first+1 {
		t.Errorf("Expected epoch %d, got %d", first+1, f.seq.Epoch())
	}

	adds := f.count(event.EventAddRequested)
	f.advance(3 * time.Second)

	if f.count(event.EventAddRequested) != adds {
		t.Error("Expected no adds from the superseded batch")
	}
	if f.ctrl.Count() != 1 {
		t.Errorf("Expected count 1, got %d", f.ctrl.Count())
	}
	if f.ctrl.Projected() != 1 {
		t.Errorf("Expected projected 1, got %d", f.ctrl.Projected())
	}
}

func TestSequencerClampsTarget(t *testing.T) {
	tests := []struct {
		target int
		want   int
	}{
		{15, 10},
		{-3, 0},
		{4, 4},
	}
	for _, tt := range tests {
		f := newFixture(t, 4, 100*time.Millisecond)
		f.seq.SetTarget(tt.target)
		f.advance(5 * time.Second)
		if f.ctrl.Count() != tt.want {
			t.Errorf("SetTarget(%d): expected %d, got %d", tt.target, tt.want, f.ctrl.Count())
		}
	}
}

func TestSequencerCancel(t *testing.T) {
	f := newFixture(t, 0, 100*time.Millisecond)
	f.seq.SetTarget(5)
	f.seq.Cancel()
	f.advance(5 * time.Second)

	if f.ctrl.Count() != 1 {
		t.Errorf("Expected only the immediate step to land, got %d", f.ctrl.Count())
	}
}
