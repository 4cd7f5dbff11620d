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

const accountColumns = `id, email, username, name, password_hash, stripe_customer_id, stripe_account_id, payouts_enabled, created_at, updated_at`

// AccountRepo реализует репозиторий аккаунтов поверх PostgreSQL.
type AccountRepo struct {
	pool *pgxpool.Pool
	conv converter.AccountConverter
}

func NewAccountRepo(pool *pgxpool.Pool, conv converter.AccountConverter) *AccountRepo {
	return &AccountRepo{
		pool: pool,
		conv: conv,
	}
}

func (a *AccountRepo) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	model := a.conv.ToModel(account)
	query := `
		INSERT INTO accounts (email, username, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + accountColumns

	rows, err := tr.Conn(ctx, a.pool).Query(ctx, query, model.Email, model.Username, model.Name, model.PasswordHash)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[converter.AccountModel])
	if err != nil {
		if postgresDuplicate(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrAccountAlreadyExists)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToEntity(created), nil
}

func (a *AccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return a.getBy(ctx, `id = $1`, id)
}

func (a *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return a.getBy(ctx, `email = $1`, email)
}

func (a *AccountRepo) GetByCustomerID(ctx context.Context, customerID string) (*domain.Account, error) {
	return a.getBy(ctx, `stripe_customer_id = $1`, customerID)
}

func (a *AccountRepo) getBy(ctx context.Context, cond string, arg any) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + cond

	rows, err := tr.Conn(ctx, a.pool).Query(ctx, query, arg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[converter.AccountModel])
	if err != nil {
		if noRows(err) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrAccountNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToEntity(model), nil
}

// BindCustomerID записывает customer id провайдера. Прежнее значение перезаписывается.
func (a *AccountRepo) BindCustomerID(ctx context.Context, accountID int64, customerID string) error {
	query := `
		UPDATE accounts
		SET stripe_customer_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tr.Conn(ctx, a.pool).Exec(ctx, query, accountID, customerID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrAccountNotFound)
	}

	return nil
}

// SetPayoutAccountID сохраняет payout-аккаунт. Уже назначенный id не перезаписывается.
func (a *AccountRepo) SetPayoutAccountID(ctx context.Context, accountID int64, payoutAccountID string) error {
	query := `
		UPDATE accounts
		SET stripe_account_id = $2, updated_at = NOW()
		WHERE id = $1 AND stripe_account_id = ''
	`

	tag, err := tr.Conn(ctx, a.pool).Exec(ctx, query, accountID, payoutAccountID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrAccountNotFound)
	}

	return nil
}

// SetPayoutsEnabled обновляет статус выплат по id payout-аккаунта.
func (a *AccountRepo) SetPayoutsEnabled(ctx context.Context, payoutAccountID string, enabled bool) (bool, error) {
	if payoutAccountID == "" {
		return false, nil
	}

	query := `
		UPDATE accounts
		SET payouts_enabled = $2, updated_at = NOW()
		WHERE stripe_account_id = $1
	`

	tag, err := tr.Conn(ctx, a.pool).Exec(ctx, query, payoutAccountID, enabled)
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected() > 0, nil
}
