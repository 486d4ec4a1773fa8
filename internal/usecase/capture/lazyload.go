package capture

import (
	"context"
	"errors"
	"fmt"

	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"
)

type LazyLoadOutcome int

const (
	LazyLoadCompleted LazyLoadOutcome = iota + 1
	LazyLoadFellBack
)

func (o LazyLoadOutcome) String() string {
	switch o {
	case LazyLoadCompleted:
		return "completed"
	case LazyLoadFellBack:
		return "fallback"
	default:
		return "unknown"
	}
}

var errBadViewport = errors.New("viewport height must be positive")

// triggerLazyLoad never fails the capture: any error in the scroll sequence
// degrades to a flat wait.
func (uc *UseCase) triggerLazyLoad(ctx context.Context, s output.BrowserSession, log output.LoggerPort) LazyLoadOutcome {
	err := uc.scrollThrough(ctx, s, log)
	if err == nil {
		return LazyLoadCompleted
	}

	log.Warn("Lazy loading failed, using flat wait", "error", err)
	_ = uc.sleep(ctx, uc.timings.LazyLoadFallback)
	return LazyLoadFellBack
}

func (uc *UseCase) scrollThrough(ctx context.Context, s output.BrowserSession, log output.LoggerPort) error {
	height, err := s.ScrollHeight(ctx)
	if err != nil {
		return fmt.Errorf("measure page height: %w", err)
	}
	viewport, err := s.ViewportHeight(ctx)
	if err != nil {
		return fmt.Errorf("measure viewport: %w", err)
	}
	step := int(float64(viewport) * scrollStepRatio)
	if step <= 0 {
		return errBadViewport
	}

	log.Debug("Scrolling page", "height", height, "viewport", viewport, "step", step)

	steps := 0
	for pos := 0; pos < height; pos += step {
		if steps >= uc.maxScrollSteps {
			log.Warn("Scroll step limit reached", "steps", steps, "height", height)
			break
		}
		steps++

		if err := s.ScrollTo(ctx, pos); err != nil {
			return fmt.Errorf("scroll to %d: %w", pos, err)
		}
		if err := uc.sleep(ctx, uc.timings.ScrollPause); err != nil {
			return err
		}
		if err := s.WaitNetworkIdle(ctx, uc.timings.ScrollIdle); err != nil && !errors.Is(err, entity.ErrNetworkIdleTimeout) {
			return err
		}

		current, err := s.ScrollHeight(ctx)
		if err != nil {
			return fmt.Errorf("measure page height: %w", err)
		}
		if current > height {
			log.Debug("Page height increased", "from", height, "to", current)
		}
		height = current
	}

	if err := s.ScrollToBottom(ctx); err != nil {
		return fmt.Errorf("scroll to bottom: %w", err)
	}
	if err := uc.sleep(ctx, uc.timings.BottomSettle); err != nil {
		return err
	}
	if err := s.WaitImages(ctx, uc.timings.ImageBudget); err != nil {
		return fmt.Errorf("wait images: %w", err)
	}
	if err := s.WaitVideos(ctx, uc.timings.VideoBudget); err != nil {
		return fmt.Errorf("wait videos: %w", err)
	}
	if err := s.WaitNetworkIdle(ctx, uc.timings.FinalIdle); err != nil && !errors.Is(err, entity.ErrNetworkIdleTimeout) {
		return err
	}
	if err := s.ScrollTo(ctx, 0); err != nil {
		return fmt.Errorf("scroll to top: %w", err)
	}
	if err := uc.sleep(ctx, uc.timings.TopSettle); err != nil {
		return err
	}

	log.Debug("Lazy loading handled", "steps", steps, "height", height)
	return nil
}
