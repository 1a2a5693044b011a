package replay

// ManifestVersion is bumped whenever the bundle layout changes.
const ManifestVersion = 1

const (
	manifestName = "manifest.json"
	eventsName   = "events.jsonl.sz"
	framesName   = "frames.msgpack.zst"

	// flushEvery batches frames before they reach the zstd stream.
	flushEvery = 60

	// maxFrameSize rejects corrupt length prefixes on read.
	maxFrameSize = 1 << 20

	// maxBundleSuffix bounds the -N suffixes tried for one timestamp.
	maxBundleSuffix = 1000
)

// Frame is the per-tick record: the input that was applied and the
// resulting ball and board state.
type Frame struct {
	Tick  uint64  `msgpack:"tick"`
	DT    float64 `msgpack:"dt"`
	Keys  uint8   `msgpack:"keys"`
	Phase string  `msgpack:"phase"`

	BallX     float64 `msgpack:"bx"`
	BallY     float64 `msgpack:"by"`
	BallZ     float64 `msgpack:"bz"`
	BallScale float64 `msgpack:"bs"`
	TiltX     float64 `msgpack:"tx"`
	TiltY     float64 `msgpack:"ty"`
}

// Event is one gameplay event as stored in the JSONL log.
type Event struct {
	Tick       uint64  `json:"tick"`
	Type       string  `json:"type"`
	X          float64 `json:"x"`
	Z          float64 `json:"z"`
	From       string  `json:"from,omitempty"`
	To         string  `json:"to,omitempty"`
	Speed      float64 `json:"speed,omitempty"`
	Index      int     `json:"index,omitempty"`
	Final      bool    `json:"final,omitempty"`
	CapturedAt string  `json:"captured_at"`
}

// Manifest describes the bundle so tooling can locate artefacts. Frames,
// Outcome and ClosedAt are filled in when the writer closes.
type Manifest struct {
	Version    int    `json:"version"`
	Level      string `json:"level"`
	CreatedAt  string `json:"created_at"`
	ClosedAt   string `json:"closed_at,omitempty"`
	EventsPath string `json:"events_path"`
	FramesPath string `json:"frames_path"`
	Frames     int    `json:"frames"`
	Outcome    string `json:"outcome,omitempty"`
}
