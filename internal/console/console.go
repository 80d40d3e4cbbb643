package console

import (
	"bufio"
	"context"
	"io"

	"github.com/tcfw/minichain/internal/utils/logging"
)

// Lines reads newline separated commands from r. The channel is closed on
// EOF, on a read error or when ctx is done.
func Lines(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		s := bufio.NewScanner(r)
		for s.Scan() {
			select {
			case out <- s.Text():
			case <-ctx.Done():
				return
			}
		}

		if err := s.Err(); err != nil {
			logging.WithError(err).Error("reading console")
		}
	}()

	return out
}
