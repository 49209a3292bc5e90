package dodge

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-dodge/internal/core"
)

// playRecorded drives a recorded manual-reset game through a few rounds.
func playRecorded(t *testing.T, seed int64) *Game {
	t.Helper()
	g := NewWithConfig(manualConfig())
	g.EnableRecording()
	g.Reset(testRuntime(seed))

	actions := []core.Action{core.ActionUp, core.ActionLeft, core.ActionDown, core.ActionRight}
	in := core.NewInputFrame()
	for i := 0; i < 2000; i++ {
		in.Clear()
		if i%9 == 0 {
			in.Set(actions[(i/9)%len(actions)])
		}
		if g.State().GameOver && i%50 == 0 {
			in.Set(core.ActionRestart)
		}
		g.Step(in)
	}
	return g
}

func TestReplayReproducesSession(t *testing.T) {
	g := playRecorded(t, 99)
	rec, ok := g.Recording()
	if !ok {
		t.Fatal("no recording")
	}
	if len(rec.Events) == 0 || rec.Pulses != 2000 {
		t.Fatalf("recording looks empty: %d events, %d pulses", len(rec.Events), rec.Pulses)
	}

	results, snap, err := Replay(rec)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !reflect.DeepEqual(results, rec.Results) {
		t.Errorf("results differ:\n%+v\n%+v", results, rec.Results)
	}
	want := g.Controller().Snapshot()
	if !reflect.DeepEqual(snap, want) {
		t.Errorf("final snapshot differs:\n%+v\n%+v", snap, want)
	}
	if err := Verify(rec); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestRecordingEncodeDecode(t *testing.T) {
	rec, _ := playRecorded(t, 5).Recording()

	var buf bytes.Buffer
	if err := Encode(&buf, rec); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ID != rec.ID || got.Seed != rec.Seed || got.Pulses != rec.Pulses {
		t.Errorf("header mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Events, rec.Events) || !reflect.DeepEqual(got.Results, rec.Results) {
		t.Error("events or results changed in transit")
	}
	if err := Verify(got); err != nil {
		t.Errorf("Verify decoded: %v", err)
	}
}

func TestSaveLoadRecording(t *testing.T) {
	rec, _ := playRecorded(t, 11).Recording()
	path := filepath.Join(t.TempDir(), "session.dodge")

	if err := SaveRecording(path, rec); err != nil {
		t.Fatalf("SaveRecording: %v", err)
	}
	got, err := LoadRecording(path)
	if err != nil {
		t.Fatalf("LoadRecording: %v", err)
	}
	if got.Config() != rec.Config() {
		t.Errorf("config = %+v, want %+v", got.Config(), rec.Config())
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec, _ := playRecorded(t, 3).Recording()
	if len(rec.Results) == 0 {
		t.Fatal("expected finished rounds")
	}
	rec.Results[0].Score += 10
	if err := Verify(rec); !errors.Is(err, ErrReplayMismatch) {
		t.Errorf("err = %v, want ErrReplayMismatch", err)
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Recording{Version: 99}); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&buf); err == nil {
		t.Error("expected version error")
	}
}
