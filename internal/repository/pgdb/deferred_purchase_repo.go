package pgdb

import (
	"context"

	"github.com/DRSN-tech/go-marketplace/internal/domain"
	"github.com/DRSN-tech/go-marketplace/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const deferredColumns = `id, email, product_id, claimed_at, claimed_account_id, created_at`

type DeferredPurchaseRepo struct {
	pool *pgxpool.Pool
	conv converter.DeferredPurchaseConverter
}

func NewDeferredPurchaseRepo(pool *pgxpool.Pool, conv converter.DeferredPurchaseConverter) *DeferredPurchaseRepo {
	return &DeferredPurchaseRepo{
		pool: pool,
		conv: conv,
	}
}

func (d *DeferredPurchaseRepo) Create(ctx context.Context, purchase *domain.DeferredPurchase) (*domain.DeferredPurchase, error) {
	model := d.conv.ToModel(purchase)
	query := `
		INSERT INTO deferred_purchases (email, product_id)
		VALUES ($1, $2)
		RETURNING ` + deferredColumns

	rows, err := tr.Conn(ctx, d.pool).Query(ctx, query, model.Email, model.ProductID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[converter.DeferredPurchaseModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return d.conv.ToEntity(created), nil
}

// ListUnclaimedByEmail блокирует найденные строки до конца транзакции,
// чтобы одну покупку не забрали два аккаунта.
func (d *DeferredPurchaseRepo) ListUnclaimedByEmail(ctx context.Context, email string) ([]domain.DeferredPurchase, error) {
	query := `
		SELECT ` + deferredColumns + `
		FROM deferred_purchases
		WHERE email = $1 AND claimed_at IS NULL
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tr.Conn(ctx, d.pool).Query(ctx, query, email)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.DeferredPurchaseModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return d.conv.ToArrEntity(models), nil
}

func (d *DeferredPurchaseRepo) MarkClaimed(ctx context.Context, ids []int64, accountID int64) error {
	query := `
		UPDATE deferred_purchases
		SET claimed_at = NOW(), claimed_account_id = $2
		WHERE id = ANY($1) AND claimed_at IS NULL
	`

	if _, err := tr.Conn(ctx, d.pool).Exec(ctx, query, ids, accountID); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
