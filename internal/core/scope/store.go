package scope

import "context"

type Repository interface {
	GetScope(ctx context.Context, code string) (*Scope, error)
}
