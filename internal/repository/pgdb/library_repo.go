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

// LibraryRepo хранит библиотеки аккаунтов и их товары.
type LibraryRepo struct {
	pool        *pgxpool.Pool
	conv        converter.LibraryConverter
	productConv converter.ProductConverter
}

func NewLibraryRepo(pool *pgxpool.Pool, conv converter.LibraryConverter, productConv converter.ProductConverter) *LibraryRepo {
	return &LibraryRepo{
		pool:        pool,
		conv:        conv,
		productConv: productConv,
	}
}

func (l *LibraryRepo) Create(ctx context.Context, library *domain.Library) (*domain.Library, error) {
	query := `
		INSERT INTO libraries (account_id)
		VALUES ($1)
		RETURNING id, account_id, created_at
	`

	rows, err := tr.Conn(ctx, l.pool).Query(ctx, query, library.AccountID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[converter.LibraryModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.conv.ToEntity(model), nil
}

func (l *LibraryRepo) GetByAccountID(ctx context.Context, accountID int64) (*domain.Library, error) {
	query := `SELECT id, account_id, created_at FROM libraries WHERE account_id = $1`

	rows, err := tr.Conn(ctx, l.pool).Query(ctx, query, accountID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[converter.LibraryModel])
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrLibraryNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.conv.ToEntity(model), nil
}

// AddProduct добавляет товар в библиотеку. Повторное добавление ничего не меняет.
func (l *LibraryRepo) AddProduct(ctx context.Context, libraryID, productID int64) (bool, error) {
	query := `
		INSERT INTO library_products (library_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (library_id, product_id) DO NOTHING
	`

	tag, err := tr.Conn(ctx, l.pool).Exec(ctx, query, libraryID, productID)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected() == 1, nil
}

// ListProducts возвращает товары библиотеки в порядке добавления.
func (l *LibraryRepo) ListProducts(ctx context.Context, libraryID int64) ([]domain.Product, error) {
	query := `
		SELECT p.id, p.owner_id, p.slug, p.name, p.description, p.price,
		       p.cover_key, p.content_url, p.is_active, p.created_at, p.updated_at
		FROM library_products lp
		JOIN products p ON p.id = lp.product_id
		WHERE lp.library_id = $1
		ORDER BY lp.added_at, p.id
	`

	rows, err := l.pool.Query(ctx, query, libraryID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.ProductModel])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return l.productConv.ToArrEntity(models), nil
}
