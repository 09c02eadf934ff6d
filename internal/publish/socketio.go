package publish

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/vk/jsbm/internal/ctxlog"
	"github.com/vk/jsbm/internal/report"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Defaults applied by Dial to zero Options fields.
const (
	DefaultEvent     = "jsbm:result"
	DefaultNamespace = "/"
	DefaultTimeout   = 10 * time.Second
)

// ErrNotConnected is returned by Publish after Close.
var ErrNotConnected = errors.New("socket.io publisher is not connected")

// Options configures a socket.io publisher.
type Options struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// SocketIO emits results as socket.io events over a WebSocket transport.
type SocketIO struct {
	io    *socket.Socket
	event string
}

// Dial connects to opts.URL and waits for the namespace to accept the
// connection, for at most opts.Timeout.
func Dial(ctx context.Context, opts Options) (*SocketIO, error) {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.Event == "" {
		opts.Event = DefaultEvent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	logger := ctxlog.FromContext(ctx).With("publisher", "socketio", "url", opts.URL, "namespace", opts.Namespace)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q has no scheme or host", opts.URL)
	}

	sopts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		sopts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))

	connected := make(chan error, 1)
	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, sopts)
	io := manager.Socket(opts.Namespace, sopts)

	io.Once(types.EventName("connect"), func(...any) {
		select {
		case connected <- nil:
		default:
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case connected <- err:
		default:
		}
	})

	logger.Debug("Connecting result publisher.")
	io.Connect()

	timer := time.NewTimer(opts.Timeout)
	defer timer.Stop()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.Timeout)
	}

	logger.Info("Result publisher connected.", "sid", io.Id())
	return &SocketIO{io: io, event: opts.Event}, nil
}

// Publish emits r as one event.
func (s *SocketIO) Publish(ctx context.Context, r report.Result) error {
	if s.io == nil {
		return ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Publishing result.", "event", s.event, "document", r.Document, "name", r.Name)
	s.io.Emit(s.event, payload(r))
	return nil
}

// Close disconnects from the server. Closing twice is a no-op.
func (s *SocketIO) Close() error {
	if s.io == nil {
		return nil
	}
	s.io.Disconnect()
	s.io = nil
	return nil
}
