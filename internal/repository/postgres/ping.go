package postgres

import (
	"context"

	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
)

type pinger struct{ scope repository.SessionScope }

// NewPinger checks readiness by opening a session the same way a query would.
func NewPinger(scope repository.SessionScope) repository.Pinger { return &pinger{scope: scope} }

func (p *pinger) Ping(ctx context.Context) error {
	return p.scope.WithinSession(ctx, qPing, func(ctx context.Context, q repository.Querier) error {
		if pg, ok := q.(repository.Pinger); ok {
			return pg.Ping(ctx)
		}
		rows, err := q.Query(ctx, "SELECT 1")
		if err != nil {
			return err
		}
		rows.Close()
		return rows.Err()
	})
}
