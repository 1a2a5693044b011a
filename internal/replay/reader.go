package replay

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Bundle is a replay directory opened for reading.
type Bundle struct {
	Dir      string
	Manifest Manifest
}

// Open reads the manifest of the bundle at dir.
func Open(dir string) (*Bundle, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported replay version %d", m.Version)
	}
	return &Bundle{Dir: dir, Manifest: m}, nil
}

// Frames calls fn for every recorded frame in order. It stops at the first
// error returned by fn.
func (b *Bundle) Frames(fn func(Frame) error) error {
	file, err := os.Open(filepath.Join(b.Dir, b.Manifest.FramesPath))
	if err != nil {
		return fmt.Errorf("open frames: %w", err)
	}
	defer file.Close()

	dec, err := zstd.NewReader(file)
	if err != nil {
		return fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	r := bufio.NewReader(dec)
	var prefix [4]byte
	for {
		if _, err := io.ReadFull(r, prefix[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read frame header: %w", err)
		}
		size := binary.LittleEndian.Uint32(prefix[:])
		if size > maxFrameSize {
			return fmt.Errorf("frame of %d bytes exceeds limit", size)
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return fmt.Errorf("read frame: %w", err)
		}
		var f Frame
		if err := msgpack.Unmarshal(payload, &f); err != nil {
			return fmt.Errorf("decode frame: %w", err)
		}
		if err := fn(f); err != nil {
			return err
		}
	}
}

// Events returns the whole event log.
func (b *Bundle) Events() ([]Event, error) {
	file, err := os.Open(filepath.Join(b.Dir, b.Manifest.EventsPath))
	if err != nil {
		return nil, fmt.Errorf("open events: %w", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(snappy.NewReader(file))
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("parse event %d: %w", len(events), err)
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}

// Summary is the aggregate view printed by the replay tool.
type Summary struct {
	Level     string
	Outcome   string
	Frames    int
	Duration  float64 // seconds of simulated time
	Events    map[string]int
	Phases    []string // phase sequence from phase_changed events
	FinalTick uint64
}

// Summarize walks frames and events once.
func (b *Bundle) Summarize() (Summary, error) {
	s := Summary{
		Level:   b.Manifest.Level,
		Outcome: b.Manifest.Outcome,
		Events:  make(map[string]int),
	}
	err := b.Frames(func(f Frame) error {
		s.Frames++
		s.Duration += f.DT
		s.FinalTick = f.Tick
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	events, err := b.Events()
	if err != nil {
		return Summary{}, err
	}
	for _, e := range events {
		s.Events[e.Type]++
		if e.Type == "phase_changed" {
			s.Phases = append(s.Phases, e.To)
		}
	}
	return s, nil
}
