package output

import "context"

type StylesheetFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
