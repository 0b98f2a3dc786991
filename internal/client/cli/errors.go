package cli

import (
	"context"
	"errors"
	"sort"

	"github.com/dmitrijs2005/pulse/internal/client/apiclient"
)

const defaultErrorMessage = "Something went wrong"

var errNotLoggedIn = errors.New("not logged in")

// describeError turns a command error into the lines shown to the user.
// Validation failures yield the first message of every field; any other
// server error yields its message.
func describeError(err error) []string {
	var (
		verr *apiclient.ValidationError
		aerr *apiclient.APIError
	)

	switch {
	case errors.Is(err, errNotLoggedIn):
		return []string{"Please log in first"}
	case errors.Is(err, apiclient.ErrSessionExpired):
		return []string{"Session expired, please log in again"}
	case errors.As(err, &verr):
		if len(verr.Fields) == 0 {
			return []string{rootMessage(verr.Message)}
		}
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		lines := make([]string, 0, len(fields))
		for _, f := range fields {
			if msg, ok := verr.FieldMessage(f); ok {
				lines = append(lines, f+": "+msg)
			}
		}
		if len(lines) == 0 {
			return []string{rootMessage(verr.Message)}
		}
		return lines
	case errors.As(err, &aerr):
		return []string{rootMessage(aerr.Message)}
	case errors.Is(err, context.DeadlineExceeded):
		return []string{"Request timed out"}
	default:
		return []string{defaultErrorMessage + ": " + err.Error()}
	}
}

func rootMessage(msg string) string {
	if msg == "" {
		return defaultErrorMessage
	}
	return msg
}
