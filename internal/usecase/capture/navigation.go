package capture

import (
	"context"
	"fmt"

	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"
)

type NavigationOutcome int

const (
	NavigatedNetworkIdle NavigationOutcome = iota + 1
	NavigatedDOMContentLoaded
)

func (o NavigationOutcome) String() string {
	switch o {
	case NavigatedNetworkIdle:
		return "networkidle"
	case NavigatedDOMContentLoaded:
		return "domcontentloaded"
	default:
		return "unknown"
	}
}

// navigate tries a network-idle load first and falls back to
// DOMContentLoaded plus a fixed settle delay.
func (uc *UseCase) navigate(ctx context.Context, s output.BrowserSession, req entity.CaptureRequest, log output.LoggerPort) (NavigationOutcome, error) {
	err := s.Navigate(ctx, req.URL, entity.WaitNetworkIdle, req.MaxWaitTime)
	if err == nil {
		return NavigatedNetworkIdle, nil
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	log.Warn("Network idle navigation failed, falling back to domcontentloaded", "error", err)

	if err := s.Navigate(ctx, req.URL, entity.WaitDOMContentLoaded, req.MaxWaitTime); err != nil {
		return 0, fmt.Errorf("navigation failed: %w", err)
	}
	if err := uc.sleep(ctx, uc.timings.FallbackSettle); err != nil {
		return 0, err
	}
	return NavigatedDOMContentLoaded, nil
}
