package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Iron-Ham/sortscope/internal/errors"
	"github.com/Iron-Ham/sortscope/internal/radix"
	"github.com/Iron-Ham/sortscope/internal/replay"
)

// Summary describes a finished headless run.
type Summary struct {
	RunID   string
	Reads   uint64 // read events seen by the consumer
	Writes  uint64 // write events seen by the consumer
	Drains  int    // polls that returned at least one event
	Polls   int
	Events  uint64
	Gaps    uint64 // sequence discontinuities; 0 for a healthy channel
	Values  []int  // the consumer's mirror after the final batch
	Stats   radix.Stats
	Elapsed time.Duration
	Err     error
}

// Write prints the summary in a human readable form.
func (s Summary) Write(w io.Writer) error {
	status := "sorted"
	if s.Err != nil {
		status = "failed: " + errors.UserMessage(s.Err)
	}
	_, err := fmt.Fprintf(w,
		"run %s %s\n  radix %d, %d elements, %d digit places (%d passes, %d skipped)\n  %d reads, %d writes, %d events over %d drains (%d polls), %d gaps\n  elapsed %s\n",
		s.RunID, status,
		s.Stats.Radix, s.Stats.N, s.Stats.Digits, s.Stats.Passes, s.Stats.SkippedPasses,
		s.Reads, s.Writes, s.Events, s.Drains, s.Polls, s.Gaps,
		s.Elapsed.Round(time.Millisecond),
	)
	return err
}

// RunHeadless starts sess if needed and consumes its channel every interval
// until the final batch, mirroring the array on the consumer side. When out
// is not nil a line is written each time the engine moves to a new digit
// place. The returned error is the sort's failure or ctx's.
func RunHeadless(ctx context.Context, sess *Session, interval time.Duration, out io.Writer) (Summary, error) {
	if err := sess.Start(); err != nil && !errors.Is(err, errors.ErrAlreadyStarted) {
		return Summary{}, err
	}
	if interval <= 0 {
		interval = time.Millisecond
	}

	start := time.Now()
	mirror := replay.New(sess.Initial())
	summary := Summary{RunID: sess.ID()}

	g, gctx := errgroup.WithContext(ctx)

	// The producer's own failure travels on the channel; only a cancelled
	// context ends this side early.
	g.Go(func() error {
		select {
		case <-sess.Done():
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		lastPlace := -1
		for {
			batch := sess.Channel().Poll()
			summary.Polls++
			if len(batch.Events) > 0 {
				summary.Drains++
				summary.Events += uint64(len(batch.Events))
				mirror.Apply(batch.Events)
			}

			if p := sess.Progress(); out != nil && p.Place != lastPlace && p.Place > 0 {
				lastPlace = p.Place
				fmt.Fprintf(out, "place %d/%d: %d reads, %d writes\n", p.Place, p.Digits, mirror.Reads(), mirror.Writes())
			}

			if batch.Final {
				summary.Err = batch.Err
				return nil
			}

			select {
			case <-ticker.C:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	if err := g.Wait(); err != nil {
		return summary, err
	}

	summary.Reads = mirror.Reads()
	summary.Writes = mirror.Writes()
	summary.Gaps = mirror.Gaps()
	summary.Values = mirror.Ints()
	summary.Stats = sess.Stats()
	summary.Elapsed = time.Since(start)
	return summary, summary.Err
}
