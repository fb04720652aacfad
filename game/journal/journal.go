// Package journal records every change notification as compressed JSON lines.
//
// Entries are appended to hourly files named changes-YYYY-MM-DD-HH.jsonl.zst
// under the journal directory. Each file is a sequence of zstd frames, one per
// writer session, and can be read back with ReadFile or ReadDir.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/multierr"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/service"
)

const filePrefix = "changes"

// Entry is one journal line
type Entry struct {
	ID string `json:"id"`
	service.ChangeEvent
}

// Journal appends change events to hourly zstd-compressed JSONL files. It
// implements service.Notifier.
type Journal struct {
	dir string
	now func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

// New creates a journal writing under dir. Files are created lazily on the
// first event.
func New(dir string) *Journal {
	return &Journal{
		dir: dir,
		now: time.Now,
	}
}

// Dir returns the journal directory
func (j *Journal) Dir() string {
	return j.dir
}

func (j *Journal) RobotChanged(name string, pos engine.Position) {
	j.record(service.NewRobotEvent(name, pos))
}

func (j *Journal) TileChanged(tile engine.Tile, pos engine.Position) {
	j.record(service.NewTileEvent(tile, pos))
}

func (j *Journal) record(ev service.ChangeEvent) {
	if err := j.Append(ev); err != nil {
		log.Printf("[JOURNAL] failed to record %s %s: %v", ev.Event, ev.Name, err)
	}
}

// Append writes ev as a new entry with a fresh ID
func (j *Journal) Append(ev service.ChangeEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	hour := j.now().UTC().Format("2006-01-02-15")
	if hour != j.curHour {
		if err := j.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(Entry{ID: uuid.NewString(), ChangeEvent: ev})
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return err
	}
	return j.w.Flush()
}

func (j *Journal) rotateLocked(hour string) error {
	if err := j.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(j.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	j.f = f
	j.enc = enc
	j.w = bufio.NewWriterSize(enc, 32*1024)
	j.curHour = hour
	return nil
}

// Close flushes and closes the current file
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

func (j *Journal) closeLocked() error {
	var err error
	if j.w != nil {
		err = multierr.Append(err, j.w.Flush())
	}
	if j.enc != nil {
		err = multierr.Append(err, j.enc.Close())
		j.enc = nil
	}
	if j.f != nil {
		err = multierr.Append(err, j.f.Close())
		j.f = nil
	}
	j.w = nil
	j.curHour = ""
	return err
}

func (j *Journal) pathForHour(hour string) string {
	return filepath.Join(j.dir, fmt.Sprintf("%s-%s.jsonl.zst", filePrefix, hour))
}
