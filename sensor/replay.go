package sensor

import (
	"bufio"
	"bytes"
	"io"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// ReplaySource replays recorded Leap Motion messages, one per line. Each
// Poll advances the replay by one frame.
type ReplaySource struct {
	scanner *bufio.Scanner
	ring    *Ring
	line    int
	done    bool
}

// NewReplaySource creates a source reading messages from r.
func NewReplaySource(r io.Reader, historySize int) *ReplaySource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	return &ReplaySource{
		scanner: scanner,
		ring:    NewRing(historySize),
	}
}

func (s *ReplaySource) Poll() History {
	if !s.done {
		s.next()
	}
	return s.ring.History()
}

// Done reports whether every recorded frame was replayed.
func (s *ReplaySource) Done() bool {
	return s.done
}

func (s *ReplaySource) next() {
	for s.scanner.Scan() {
		s.line++

		b := bytes.TrimSpace(s.scanner.Bytes())
		if len(b) == 0 {
			continue
		}

		f, ok, err := DecodeFrame(b)
		if err != nil {
			instrumentDecodeError(err)
			logs.Warn(errors.New("skipping recorded message").
				WithTag("line", s.line).
				Wrap(err))
			continue
		}
		if !ok {
			continue
		}

		instrumentFrameReceived()
		s.ring.Push(f)
		return
	}

	if err := s.scanner.Err(); err != nil {
		logs.Warn(errors.New("reading recorded frames failed").
			WithTag("line", s.line).
			Wrap(err))
	}
	s.done = true
}
