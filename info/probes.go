package info

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/drblury/specroute/probe"
)

type probePayload struct {
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
}

func (ih *InfoHandler) respondProbe(w http.ResponseWriter, r *http.Request, statusCode int, state string, details ...string) {
	payload := probePayload{Status: state}
	if len(details) > 0 {
		payload.Details = append(payload.Details, details...)
	}
	ih.RespondWithJSON(w, r, statusCode, payload)
}

// runChecks runs every check under one deadline and joins the failures.
func (ih *InfoHandler) runChecks(ctx context.Context, checks []probe.Func) error {
	if len(checks) == 0 {
		return nil
	}

	timeout := ih.probeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var errs []error
	for idx, check := range checks {
		if check == nil {
			continue
		}
		err := check(probeCtx)
		switch {
		case err == nil:
		case errors.Is(err, context.DeadlineExceeded):
			errs = append(errs, fmt.Errorf("probe %d timed out after %s", idx+1, timeout))
		case errors.Is(err, context.Canceled):
			errs = append(errs, fmt.Errorf("probe %d was cancelled", idx+1))
		default:
			errs = append(errs, fmt.Errorf("probe %d failed: %w", idx+1, err))
		}
	}
	return errors.Join(errs...)
}

func filterProbes(checks []probe.Func) []probe.Func {
	var filtered []probe.Func
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return filtered
}
