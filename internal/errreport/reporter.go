package errreport

import (
	"context"
	"net/url"
	"strings"

	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
)

const redacted = "[redacted]"

// Reporter receives unexpected errors with request context attached.
// Context values are scrubbed of credentials before they leave the process.
type Reporter interface {
	Report(ctx context.Context, err error, context map[string]string)
}

// LogReporter writes scrubbed reports to the structured log. It stands in
// for a real crash-reporting backend.
type LogReporter struct {
	logg *logger.Logger
}

// NewLogReporter builds a reporter that logs each report.
func NewLogReporter(logg *logger.Logger) *LogReporter {
	return &LogReporter{logg: logg}
}

func (r *LogReporter) Report(ctx context.Context, err error, reportCtx map[string]string) {
	if r == nil || r.logg == nil {
		return
	}
	fields := map[string]any{}
	for key, value := range Scrub(reportCtx) {
		fields[key] = value
	}
	r.logg.Error(r.logg.WithFields(ctx, fields), "error.report", err)
}

// NopReporter drops every report.
type NopReporter struct{}

func (NopReporter) Report(context.Context, error, map[string]string) {}

// Scrub returns a copy of the context with authorization headers, cookies,
// and token/api_key URL parameters redacted.
func Scrub(reportCtx map[string]string) map[string]string {
	if reportCtx == nil {
		return nil
	}
	out := make(map[string]string, len(reportCtx))
	for key, value := range reportCtx {
		if sensitiveKey(key) {
			out[key] = redacted
			continue
		}
		out[key] = scrubURLParams(value)
	}
	return out
}

func sensitiveKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "authorization") ||
		strings.Contains(k, "cookie") ||
		k == "token" || k == "api_key"
}

// scrubURLParams redacts token and api_key query parameters inside values
// that look like URLs. Non-URL values pass through untouched.
func scrubURLParams(value string) string {
	if !strings.Contains(value, "?") {
		return value
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return value
	}
	query := parsed.Query()
	changed := false
	for _, param := range []string{"token", "api_key"} {
		if query.Has(param) {
			query.Set(param, redacted)
			changed = true
		}
	}
	if !changed {
		return value
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
