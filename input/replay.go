package input

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/macrokeys/macrod/utils"
)

// ReplayReader feeds a recorded event stream (one JSON event per line) into a
// handler, optionally pacing delivery to the recorded timestamp gaps. It is
// used by the replay command and by tests to drive the pipeline without OS
// capture.
type ReplayReader struct {
	r     io.Reader
	paced bool
}

func NewReplayReader(r io.Reader, paced bool) *ReplayReader {
	return &ReplayReader{r: r, paced: paced}
}

// Run decodes events line by line and hands each to fn. Undecodable lines are
// skipped with a log entry; a live stream has to tolerate noise.
func (rr *ReplayReader) Run(fn func(Event)) error {
	scanner := bufio.NewScanner(rr.r)

	var lastTs int64 = -1
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			utils.Verbose("replay: skipping malformed event on line %d: %v", line, err)
			continue
		}
		if !ev.Valid() {
			utils.Verbose("replay: skipping invalid event on line %d", line)
			continue
		}

		if rr.paced && lastTs >= 0 && ev.TimestampMs > lastTs {
			time.Sleep(time.Duration(ev.TimestampMs-lastTs) * time.Millisecond)
		}
		lastTs = ev.TimestampMs

		fn(ev)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event stream: %w", err)
	}
	return nil
}
