package log

import (
	"github.com/cockroachdb/errors"
)

// extractStacktrace returns the first safe detail recorded by cockroachdb/errors,
// which for errors built with WithStack is the formatted stack of the
// constructor call.
func extractStacktrace(err error) string {
	if err == nil {
		return ""
	}
	for _, d := range errors.GetAllSafeDetails(err) {
		if len(d.SafeDetails) > 0 && d.SafeDetails[0] != "" {
			return d.SafeDetails[0]
		}
	}
	return ""
}
