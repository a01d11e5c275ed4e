package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument    = "document"
	KeyBytes       = "bytes"
	KeyEvents      = "events"
	KeyNodes       = "nodes"
	KeyTheme       = "theme"
	KeyFingerprint = "fingerprint"
	KeyCache       = "cache"
	KeyDurationMS  = "duration_ms"
	KeyPath        = "path"
	KeyMethod      = "method"
	KeyStatus      = "status"
	KeyRemoteAddr  = "remote_addr"
	KeyRequestID   = "request_id"
	KeySubject     = "subject"
	KeyURL         = "url"
	KeyJob         = "job"
	KeyOp          = "op"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Document(name string) slog.Attr   { return slog.String(KeyDocument, name) }
func Bytes(n int) slog.Attr            { return slog.Int(KeyBytes, n) }
func Events(n int) slog.Attr           { return slog.Int(KeyEvents, n) }
func Nodes(n int) slog.Attr            { return slog.Int(KeyNodes, n) }
func Theme(t string) slog.Attr         { return slog.String(KeyTheme, t) }
func Fingerprint(fp string) slog.Attr  { return slog.String(KeyFingerprint, fp) }
func Cache(state string) slog.Attr     { return slog.String(KeyCache, state) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Job(name string) slog.Attr        { return slog.String(KeyJob, name) }
func Op(name string) slog.Attr         { return slog.String(KeyOp, name) }

// Since returns the elapsed time since start in milliseconds.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
