package input

import (
	"context"

	"webclone/internal/domain/entity"
)

type CloneSynthesizer interface {
	Synthesize(ctx context.Context, req entity.SynthesisRequest) (*entity.SynthesisResult, error)
}
