package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	domainErrors "github.com/gitwhisper/gitwhisper/internal/errors"
	"github.com/gitwhisper/gitwhisper/internal/logger"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultEndpoint = "http://localhost:11434"
	ChatPath        = "/api/chat"

	dialTimeout  = 5 * time.Second
	readBufSize  = 4096
	maxErrorBody = 4096
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   *Schema       `json:"format,omitempty"`
}

// ErrIdleTimeout is the cause reported when the server goes quiet for longer
// than the idle timeout.
var ErrIdleTimeout = errors.New("no data from the model within the idle timeout")

// Client talks to the chat endpoint of an Ollama server.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	idleTimeout time.Duration
}

type ClientOption func(*Client)

// WithIdleTimeout bounds the wait for the response headers and for every
// following chunk. A model that keeps streaming is never cut off. Zero
// disables it.
func WithIdleTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.idleTimeout = d
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = h
	}
}

func NewClient(endpoint string, opts ...ClientOption) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}

	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:       http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{Timeout: dialTimeout}).DialContext,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// StreamChat posts req and hands every chunk of the response body to consume,
// in arrival order. A producer goroutine reads the body while consume runs on
// a second one; the first error from either side stops both and closes the
// body. Errors returned by consume are passed through untouched.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest, consume func([]byte) error) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return domainErrors.NewAppError(domainErrors.TypeInternal, "failed to encode chat request", err)
	}

	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	idle := c.startIdleTimer(cancel)
	defer idle.stop()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint+ChatPath, bytes.NewReader(payload))
	if err != nil {
		return domainErrors.ErrTransport.WithError(err).WithContext("endpoint", c.endpoint)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")

	logger.Debug(ctx, "posting chat request",
		"url", httpReq.URL.String(),
		"bytes", len(payload))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return transportError(ctx, reqCtx, err).WithContext("endpoint", c.endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domainErrors.ErrTransport.
			WithContext("status", resp.StatusCode).
			WithContext("body", strings.TrimSpace(string(snippet)))
	}

	idle.reset()

	g, gctx := errgroup.WithContext(reqCtx)
	// unblocks a pending Read as soon as either side fails or the caller cancels
	stop := context.AfterFunc(gctx, func() {
		_ = resp.Body.Close()
	})
	defer stop()

	chunks := make(chan []byte)

	g.Go(func() error {
		defer close(chunks)
		buf := make([]byte, readBufSize)
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				idle.reset()
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case chunks <- chunk:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	})

	g.Go(func() error {
		for chunk := range chunks {
			if err := consume(chunk); err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		var appErr *domainErrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return transportError(ctx, reqCtx, err)
	}
	return nil
}

// transportError prefers the caller's cancellation over whatever the aborted
// read reported, so errors.Is(err, context.Canceled) holds after Ctrl-C. An
// idle timeout is reported as such.
func transportError(ctx, reqCtx context.Context, err error) *domainErrors.AppError {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domainErrors.ErrTransport.WithError(ctxErr)
	}
	if cause := context.Cause(reqCtx); errors.Is(cause, ErrIdleTimeout) {
		return domainErrors.ErrTransport.WithError(cause).
			WithSuggestion("The model stopped sending data; raise it with --timeout or disable it with --timeout 0")
	}
	return domainErrors.ErrTransport.WithError(err)
}

type idleTimer struct {
	timer *time.Timer
	d     time.Duration
}

func (c *Client) startIdleTimer(cancel context.CancelCauseFunc) *idleTimer {
	if c.idleTimeout <= 0 {
		return &idleTimer{}
	}
	return &idleTimer{
		d:     c.idleTimeout,
		timer: time.AfterFunc(c.idleTimeout, func() { cancel(ErrIdleTimeout) }),
	}
}

func (t *idleTimer) reset() {
	if t.timer != nil {
		t.timer.Reset(t.d)
	}
}

func (t *idleTimer) stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}
