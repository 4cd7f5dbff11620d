package tr

import (
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/avito-tech/go-transaction-manager/trm/v2/settings"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Manager выполняет функцию внутри транзакции, передавая её через контекст.
type Manager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// NewManager создаёт менеджер транзакций поверх пула pgx.
// Все транзакции открываются с уровнем изоляции SERIALIZABLE.
func NewManager(pool *pgxpool.Pool) Manager {
	return manager.Must(
		trmpgx.NewDefaultFactory(pool),
		manager.WithSettings(trmpgx.MustSettings(
			settings.Must(),
			trmpgx.WithTxOptions(pgx.TxOptions{IsoLevel: pgx.Serializable}),
		)),
	)
}

// Conn возвращает транзакцию из контекста, если она открыта, иначе пул.
func Conn(ctx context.Context, pool *pgxpool.Pool) trmpgx.Tr {
	return trmpgx.DefaultCtxGetter.DefaultTrOrDB(ctx, pool)
}
