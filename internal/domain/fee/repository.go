package fee

import "context"

type Repository interface {
	Get(ctx context.Context) (Management, bool, error)
	Save(ctx context.Context, m Management) error
}
