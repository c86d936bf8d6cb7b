// Package journal records one compressed JSON line per colony tick, for
// replaying what the core saw and decided.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// DefaultSegmentTicks is how many ticks one journal file holds.
const DefaultSegmentTicks = 10000

// Entry is one tick's journal line.
type Entry struct {
	Session   string   `json:"session"`
	Tick      int      `json:"tick"`
	Room      string   `json:"room"`
	Energy    int      `json:"energy"`
	Creeps    int      `json:"creeps"`
	CreepsRun int      `json:"creepsRun"`
	Failures  int      `json:"failures,omitempty"`
	Deleted   []string `json:"deleted,omitempty"`
	Spawn     *Spawn   `json:"spawn,omitempty"`
	Events    []string `json:"events,omitempty"`
	Commands  int      `json:"commands"`
	Aborted   bool     `json:"aborted,omitempty"`
}

// Spawn is the planner's spawn attempt for the tick.
type Spawn struct {
	Role   string `json:"role"`
	Name   string `json:"name"`
	Body   string `json:"body"`
	Result string `json:"result"`
}

// segment is one open zstd file for a room.
type segment struct {
	f     *os.File
	enc   *zstd.Encoder
	start int // first tick the segment covers
}

func (s *segment) close() error {
	err := s.enc.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// TickJournal writes entries to <dir>/<room>/ticks-<start>.jsonl.zst, where
// start is the first tick of a window of segmentTicks ticks. Each room has
// its own segment, so several sessions can share one journal.
type TickJournal struct {
	dir          string
	segmentTicks int

	mu       sync.Mutex
	segments map[string]*segment
}

func NewTickJournal(dir string) *TickJournal {
	return &TickJournal{
		dir:          dir,
		segmentTicks: DefaultSegmentTicks,
		segments:     make(map[string]*segment),
	}
}

// WriteTick appends e to its room's current segment. The line is flushed
// through the encoder before returning, so a crash loses at most the tick
// being written.
func (j *TickJournal) WriteTick(e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode tick %d: %w", e.Tick, err)
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	seg, err := j.segmentFor(e.Room, e.Tick)
	if err != nil {
		return err
	}
	if _, err := seg.enc.Write(line); err != nil {
		return fmt.Errorf("write tick %d: %w", e.Tick, err)
	}
	return seg.enc.Flush()
}

// Close finishes every open segment.
func (j *TickJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var first error
	for room, seg := range j.segments {
		if err := seg.close(); err != nil && first == nil {
			first = fmt.Errorf("close %s segment: %w", room, err)
		}
		delete(j.segments, room)
	}
	return first
}

func (j *TickJournal) segmentFor(room string, tick int) (*segment, error) {
	start := tick - tick%j.segmentTicks
	if seg, ok := j.segments[room]; ok {
		if seg.start == start {
			return seg, nil
		}
		delete(j.segments, room)
		if err := seg.close(); err != nil {
			return nil, fmt.Errorf("rotate %s segment: %w", room, err)
		}
	}

	path := j.path(room, start)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	seg := &segment{f: f, enc: enc, start: start}
	j.segments[room] = seg
	return seg, nil
}

// pathSafe keeps host-supplied room names inside the journal directory.
var pathSafe = strings.NewReplacer("/", "_", "\\", "_", "..", "_")

func (j *TickJournal) path(room string, start int) string {
	if room == "" {
		room = "unknown"
	}
	room = pathSafe.Replace(room)
	return filepath.Join(j.dir, room, fmt.Sprintf("ticks-%09d.jsonl.zst", start))
}
