// Package sink implements the Sink Writer (C9): the abstract byte
// destination a job's raster or PCL stream is written to -- the
// inherited stdout fd when no device URI is given, or a TCP socket
// dialed from a socket://host[:port] device URI (spec.md §4.9).
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"
)

// DialTimeout is the total time budget for establishing a socket://
// connection before the sink is considered unopenable.
const DialTimeout = 30 * time.Second

// Sink is an io.WriteCloser that retries short writes and the
// transient EINTR/EAGAIN syscall errors spec.md §4.9 calls out, and
// otherwise surfaces the first write error as fatal.
type Sink struct {
	w      io.Writer
	closer io.Closer
}

// Open resolves deviceURI into a Sink: the empty string means the
// inherited stdout fd; any other value must parse as
// socket://host[:port], and any other scheme is a fatal configuration
// error.
func Open(deviceURI string) (*Sink, error) {
	if deviceURI == "" {
		return &Sink{w: os.Stdout}, nil
	}

	u, err := url.Parse(deviceURI)
	if err != nil {
		return nil, fmt.Errorf("sink: invalid device-uri %q: %w", deviceURI, err)
	}
	if u.Scheme != "socket" {
		return nil, fmt.Errorf("sink: unsupported device-uri scheme %q, want \"socket\"", u.Scheme)
	}
	host := u.Host
	if host == "" {
		return nil, fmt.Errorf("sink: device-uri %q missing a host", deviceURI)
	}
	if !strings.Contains(host, ":") {
		host = net.JoinHostPort(host, "9100") // AppSocket/JetDirect default
	}

	ctx, cancel := context.WithTimeout(context.Background(), DialTimeout)
	defer cancel()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return nil, fmt.Errorf("sink: connect to %s: %w", host, err)
	}
	return &Sink{w: conn, closer: conn}, nil
}

// Write writes all of p, retrying on short writes and on the
// transient EINTR/EAGAIN syscall errors; any other error is fatal and
// returned immediately along with the number of bytes actually
// written.
func (s *Sink) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := s.w.Write(p[total:])
		total += n
		if err != nil {
			if isRetryable(err) {
				continue
			}
			return total, fmt.Errorf("sink: write: %w", err)
		}
	}
	return total, nil
}

func isRetryable(err error) bool {
	return errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN)
}

// Close closes the underlying connection. Writing to the inherited
// stdout fd leaves it open, matching spec.md §5's "closed on exit
// unless it is the inherited stdout".
func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
