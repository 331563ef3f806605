package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// PrettyHandler is a slog.Handler writing one coloured line per record, meant
// for stderr next to the streamed transcript. While output is held, records
// are queued instead of written, so they cannot land between transcript lines
// that are about to be redrawn.
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	out    *heldWriter
	attrs  []slog.Attr
	groups []string
}

// heldWriter is shared by a handler and every handler derived from it.
type heldWriter struct {
	mu      sync.Mutex
	w       io.Writer
	holds   int
	pending []byte
}

func (o *heldWriter) write(line []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.holds > 0 {
		o.pending = append(o.pending, line...)
		return nil
	}
	_, err := o.w.Write(line)
	return err
}

func (o *heldWriter) hold() {
	o.mu.Lock()
	o.holds++
	o.mu.Unlock()
}

func (o *heldWriter) release() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.holds == 0 {
		return nil
	}
	o.holds--
	if o.holds > 0 || len(o.pending) == 0 {
		return nil
	}
	_, err := o.w.Write(o.pending)
	o.pending = nil
	return err
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts:  opts,
		out:   &heldWriter{w: w},
		attrs: []slog.Attr{},
	}
}

// Hold queues records until the matching Release. Holds nest.
func (h *PrettyHandler) Hold() {
	h.out.hold()
}

// Release ends one Hold and writes the queued records once no hold is left.
func (h *PrettyHandler) Release() error {
	return h.out.release()
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(h.formatLevel(r.Level))
	buf.WriteString(" ")
	buf.WriteString(r.Message)

	// logger-scoped attributes (request id, model) come first
	attrs := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs = append(attrs, h.formatAttr(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.formatAttr(a))
		return true
	})

	if len(attrs) > 0 {
		buf.WriteString(" ")
		buf.WriteString(strings.Join(attrs, " "))
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			buf.WriteString(" ")
			buf.WriteString(color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}

	buf.WriteString("\n")
	return h.out.write([]byte(buf.String()))
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	return &PrettyHandler{
		opts:   h.opts,
		out:    h.out,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	return &PrettyHandler{
		opts:   h.opts,
		out:    h.out,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

func (h *PrettyHandler) formatLevel(level slog.Level) string {
	var badge string

	switch level {
	case slog.LevelDebug:
		badge = color.HiBlackString("[DEBUG]")
	case slog.LevelInfo:
		badge = color.CyanString("[INFO] ")
	case slog.LevelWarn:
		badge = color.YellowString("[WARN] ")
	case slog.LevelError:
		badge = color.RedString("[ERROR]")
	default:
		badge = fmt.Sprintf("[%s]", level.String())
	}

	return badge
}

func (h *PrettyHandler) formatAttr(a slog.Attr) string {
	key := a.Key
	val := a.Value.String()

	// Apply group prefix if any
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}

	// Color-code certain keys
	switch key {
	case "error", "err":
		return color.RedString("%s=%s", key, val)
	case "duration_ms", "duration":
		return color.MagentaString("%s=%s", key, val)
	case "lines", "chunks", "bytes", "status":
		return color.GreenString("%s=%s", key, val)
	case "request_id", "model":
		return color.CyanString("%s=%s", key, val)
	default:
		return color.HiBlackString("%s=%s", key, val)
	}
}
