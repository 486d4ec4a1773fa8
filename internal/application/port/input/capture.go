package input

import (
	"context"

	"webclone/internal/domain/entity"
)

type CaptureExecutor interface {
	Capture(ctx context.Context, req entity.CaptureRequest) (*entity.CaptureResult, error)
}
