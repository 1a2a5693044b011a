package replay

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

var nameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ErrClosed is returned by appends after Close.
var ErrClosed = errors.New("replay writer closed")

// Writer streams a session to a bundle directory: msgpack frames in a
// length-prefixed zstd stream, events as snappy-compressed JSON lines and a
// manifest.
type Writer struct {
	mu          sync.Mutex
	dir         string
	now         func() time.Time
	manifest    Manifest
	eventFile   *os.File
	eventStream *snappy.Writer
	frameFile   *os.File
	frameStream *zstd.Encoder
	pending     [][]byte
	closed      bool
}

// NewWriter creates <root>/<level>-<timestamp>/ and opens the compressed sinks.
func NewWriter(root, level string, clock func() time.Time) (*Writer, error) {
	if root == "" {
		return nil, errors.New("replay root must be provided")
	}
	if clock == nil {
		clock = time.Now
	}

	cleaned := nameCleaner.ReplaceAllString(level, "")
	if cleaned == "" {
		cleaned = "session"
	}
	created := clock().UTC()
	dir, err := makeBundleDir(root, fmt.Sprintf("%s-%s", cleaned, created.Format("20060102T150405Z")))
	if err != nil {
		return nil, fmt.Errorf("create replay dir: %w", err)
	}

	eventFile, err := os.Create(filepath.Join(dir, eventsName))
	if err != nil {
		return nil, fmt.Errorf("create events: %w", err)
	}
	frameFile, err := os.Create(filepath.Join(dir, framesName))
	if err != nil {
		eventFile.Close()
		return nil, fmt.Errorf("create frames: %w", err)
	}
	frameStream, err := zstd.NewWriter(frameFile)
	if err != nil {
		eventFile.Close()
		frameFile.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}

	w := &Writer{
		dir: dir,
		now: clock,
		manifest: Manifest{
			Version:    ManifestVersion,
			Level:      level,
			CreatedAt:  created.Format(time.RFC3339Nano),
			EventsPath: eventsName,
			FramesPath: framesName,
		},
		eventFile:   eventFile,
		eventStream: snappy.NewBufferedWriter(eventFile),
		frameFile:   frameFile,
		frameStream: frameStream,
	}
	if err := w.writeManifestLocked(); err != nil {
		w.eventStream.Close()
		eventFile.Close()
		frameStream.Close()
		frameFile.Close()
		return nil, err
	}
	return w, nil
}

// makeBundleDir creates root/base, or root/base-N when sessions share a
// timestamp. An existing bundle is never reused.
func makeBundleDir(root, base string) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", err
	}
	for n := 1; n <= maxBundleSuffix; n++ {
		name := base
		if n > 1 {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		dir := filepath.Join(root, name)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: too many bundles with the same timestamp", base)
}

// Dir is the bundle directory.
func (w *Writer) Dir() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// AppendFrame encodes f and stages it; frames reach disk in batches.
func (w *Writer) AppendFrame(f Frame) error {
	payload, err := msgpack.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Tick, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.pending = append(w.pending, payload)
	w.manifest.Frames++
	if len(w.pending) >= flushEvery {
		return w.flushLocked()
	}
	return nil
}

// AppendEvent writes one JSON line and flushes the snappy block, so the log
// survives a crash up to the last event.
func (w *Writer) AppendEvent(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if e.CapturedAt == "" {
		e.CapturedAt = w.now().UTC().Format(time.RFC3339Nano)
	}
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := w.eventStream.Write(append(line, '\n')); err != nil {
		return err
	}
	return w.eventStream.Flush()
}

// SetOutcome records how the session ended ("won", "quit").
func (w *Writer) SetOutcome(outcome string) {
	w.mu.Lock()
	w.manifest.Outcome = outcome
	w.mu.Unlock()
}

// Close flushes everything, rewrites the manifest and releases the files.
// Every step is attempted; the first failure is returned.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	keep(w.flushLocked())
	keep(w.eventStream.Close())
	keep(w.eventFile.Close())
	keep(w.frameStream.Close())
	keep(w.frameFile.Close())
	w.manifest.ClosedAt = w.now().UTC().Format(time.RFC3339Nano)
	keep(w.writeManifestLocked())
	return firstErr
}

// flushLocked writes staged frames as <uint32 little-endian length><payload>.
func (w *Writer) flushLocked() error {
	var prefix [4]byte
	for _, payload := range w.pending {
		binary.LittleEndian.PutUint32(prefix[:], uint32(len(payload)))
		if _, err := w.frameStream.Write(prefix[:]); err != nil {
			return err
		}
		if _, err := w.frameStream.Write(payload); err != nil {
			return err
		}
	}
	w.pending = w.pending[:0]
	return nil
}

func (w *Writer) writeManifestLocked() error {
	data, err := json.MarshalIndent(w.manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(w.dir, manifestName), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
