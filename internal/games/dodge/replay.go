package dodge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// RecordingVersion is the current replay file format.
const RecordingVersion = 1

// ErrReplayMismatch is returned when a replay does not reproduce its recorded results.
var ErrReplayMismatch = errors.New("dodge: replay diverged from recording")

// RecordedEvent is an external event keyed by the pulse count before it.
type RecordedEvent struct {
	Pulse     uint64    `msgpack:"p"`
	Kind      EventKind `msgpack:"k"`
	Direction Direction `msgpack:"d,omitempty"`
}

// Recording holds everything needed to reproduce a session.
type Recording struct {
	Version       int             `msgpack:"version"`
	ID            string          `msgpack:"id"`
	CreatedAt     time.Time       `msgpack:"created_at"`
	Seed          int64           `msgpack:"seed"`
	GridCellCount int             `msgpack:"grid_cell_count"`
	CellSize      int             `msgpack:"cell_size"`
	HighScore     int             `msgpack:"high_score"`
	Rules         Rules           `msgpack:"rules"`
	PulseMS       int64           `msgpack:"pulse_ms"`
	AutoReset     bool            `msgpack:"auto_reset"`
	Events        []RecordedEvent `msgpack:"events"`
	Pulses        uint64          `msgpack:"pulses"`
	Results       []RoundResult   `msgpack:"results"`
}

// Config rebuilds the controller config the recording was made with.
func (r Recording) Config() Config {
	return Config{
		GridCellCount: r.GridCellCount,
		CellSize:      r.CellSize,
		HighScore:     r.HighScore,
		Rules:         r.Rules,
		Pulse:         time.Duration(r.PulseMS) * time.Millisecond,
		Seed:          r.Seed,
		AutoReset:     r.AutoReset,
	}
}

// Recorder captures a controller's external events and round results.
type Recorder struct {
	ctrl *Controller
	rec  Recording
}

// NewRecorder attaches to ctrl, which must have been created from cfg.
func NewRecorder(ctrl *Controller, cfg Config) *Recorder {
	pulse := cfg.Pulse
	if pulse == 0 {
		pulse = DefaultPulse
	}
	r := &Recorder{
		ctrl: ctrl,
		rec: Recording{
			Version:       RecordingVersion,
			ID:            uuid.NewString(),
			CreatedAt:     time.Now().UTC(),
			Seed:          cfg.Seed,
			GridCellCount: cfg.GridCellCount,
			CellSize:      cfg.CellSize,
			HighScore:     cfg.HighScore,
			Rules:         cfg.Rules,
			PulseMS:       pulse.Milliseconds(),
			AutoReset:     cfg.AutoReset,
		},
	}
	ctrl.Observe(func(ev Event) {
		r.rec.Events = append(r.rec.Events, RecordedEvent{Pulse: ev.Pulse, Kind: ev.Kind, Direction: ev.Direction})
	})
	ctrl.OnTerminate(func(res RoundResult) {
		r.rec.Results = append(r.rec.Results, res)
	})
	return r
}

// Recording returns a copy of everything recorded so far.
func (r *Recorder) Recording() Recording {
	rec := r.rec
	rec.Pulses = r.ctrl.Pulses()
	rec.Events = append([]RecordedEvent(nil), r.rec.Events...)
	rec.Results = append([]RoundResult(nil), r.rec.Results...)
	return rec
}

// Encode writes rec as msgpack.
func Encode(w io.Writer, rec Recording) error {
	if err := msgpack.NewEncoder(w).Encode(&rec); err != nil {
		return fmt.Errorf("dodge: encode recording: %w", err)
	}
	return nil
}

// Decode reads a msgpack recording.
func Decode(r io.Reader) (Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return Recording{}, fmt.Errorf("dodge: decode recording: %w", err)
	}
	if rec.Version != RecordingVersion {
		return Recording{}, fmt.Errorf("dodge: unsupported recording version %d", rec.Version)
	}
	return rec, nil
}

// SaveRecording writes rec to path.
func SaveRecording(path string, rec Recording) error {
	var buf bytes.Buffer
	if err := Encode(&buf, rec); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("dodge: write recording: %w", err)
	}
	return nil
}

// LoadRecording reads a recording from path.
func LoadRecording(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("dodge: open recording: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Replay runs rec on a fresh controller and returns the round results it
// produced together with the final snapshot.
func Replay(rec Recording, opts ...Option) ([]RoundResult, Snapshot, error) {
	ctrl, err := NewController(rec.Config(), opts...)
	if err != nil {
		return nil, Snapshot{}, err
	}
	defer ctrl.Close()

	var results []RoundResult
	ctrl.OnTerminate(func(r RoundResult) { results = append(results, r) })

	next := 0
	for p := uint64(0); ; p++ {
		for next < len(rec.Events) && rec.Events[next].Pulse == p {
			switch ev := rec.Events[next]; ev.Kind {
			case EventMove:
				ctrl.OnDirectionInput(ev.Direction)
			case EventReset:
				ctrl.Reset()
			}
			next++
		}
		if p >= rec.Pulses {
			break
		}
		ctrl.Pulse()
	}
	return results, ctrl.Snapshot(), nil
}

// Verify replays rec and checks that it reproduces the recorded results.
func Verify(rec Recording, opts ...Option) error {
	results, _, err := Replay(rec, opts...)
	if err != nil {
		return err
	}
	if len(results) != len(rec.Results) {
		return fmt.Errorf("%w: %d rounds replayed, %d recorded", ErrReplayMismatch, len(results), len(rec.Results))
	}
	for i := range results {
		if !reflect.DeepEqual(results[i], rec.Results[i]) {
			return fmt.Errorf("%w: round %d: got %+v, want %+v", ErrReplayMismatch, results[i].Round, results[i], rec.Results[i])
		}
	}
	return nil
}
