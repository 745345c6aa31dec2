package pgsql

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/finbooks/posting-engine/internal/apperrors"
	"github.com/finbooks/posting-engine/internal/core/domain"
	portsrepo "github.com/finbooks/posting-engine/internal/core/ports/repositories"
	"github.com/finbooks/posting-engine/internal/models"
	"github.com/finbooks/posting-engine/internal/utils/accounting"
	"github.com/finbooks/posting-engine/internal/utils/mapping"
	"github.com/finbooks/posting-engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// lockTimeoutMillis bounds how long a posting waits for contended rows
// before failing with a retryable error.
const lockTimeoutMillis = 5000

const uniqueViolation = "23505"

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo   portsrepo.AccountRepository
	periodRepo    portsrepo.PeriodRepository
	sequenceRepo  portsrepo.SequenceRepository
	inventoryRepo portsrepo.InventoryRepository
	auditRepo     portsrepo.AuditRepository
}

// newPgxTransactionRepository creates the repository for transactions,
// ledger entries and the atomic posting unit.
func newPgxTransactionRepository(
	pool *pgxpool.Pool,
	accountRepo portsrepo.AccountRepository,
	periodRepo portsrepo.PeriodRepository,
	sequenceRepo portsrepo.SequenceRepository,
	inventoryRepo portsrepo.InventoryRepository,
	auditRepo portsrepo.AuditRepository,
) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		periodRepo:     periodRepo,
		sequenceRepo:   sequenceRepo,
		inventoryRepo:  inventoryRepo,
		auditRepo:      auditRepo,
	}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const transactionColumns = `transaction_id, org_id, type_code, txn_date, reference, narration, currency_code, exchange_rate, status, schema_version, document_number, idempotency_key, reverses_id, reversed_by_id, approved_by, posted_by, posted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.OrgID,
		&m.TypeCode,
		&m.Date,
		&m.Reference,
		&m.Narration,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.Status,
		&m.SchemaVersion,
		&m.DocumentNumber,
		&m.IdempotencyKey,
		&m.ReversesID,
		&m.ReversedByID,
		&m.ApprovedBy,
		&m.PostedBy,
		&m.PostedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const lineColumns = `line_id, transaction_id, line_no, account_id, debit, credit, base_debit, base_credit, department_id, project_id, cost_center_id, tax_rate, tax_amount, description, deleted, product_id, warehouse_id, quantity, unit_cost, direction`

const lineInsertQuery = `
	INSERT INTO transaction_lines (` + lineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
`

func queueLineInsert(batch *pgx.Batch, l models.TransactionLine) {
	batch.Queue(lineInsertQuery,
		l.LineID, l.TransactionID, l.LineNo, l.AccountID,
		l.Debit, l.Credit, l.BaseDebit, l.BaseCredit,
		l.DepartmentID, l.ProjectID, l.CostCenterID,
		l.TaxRate, l.TaxAmount, l.Description, l.Deleted,
		l.ProductID, l.WarehouseID, l.Quantity, l.UnitCost, l.Direction,
	)
}

// SaveDraft inserts a new transaction header plus its lines in one database
// transaction.
func (r *PgxTransactionRepository) SaveDraft(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertHeader(ctx, tx, txn); err != nil {
		return err
	}
	if err := r.insertLines(ctx, tx, txn); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) insertHeader(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID, m.OrgID, m.TypeCode, m.Date, m.Reference, m.Narration,
		m.CurrencyCode, m.ExchangeRate, m.Status, m.SchemaVersion, m.DocumentNumber,
		m.IdempotencyKey, m.ReversesID, m.ReversedByID, m.ApprovedBy, m.PostedBy, m.PostedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.KindDuplicateSubmission, "idempotency key already used", err)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) insertLines(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	if len(txn.Lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, l := range txn.Lines {
		queueLineInsert(batch, mapping.ToModelTransactionLine(l))
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for transaction "+txn.TransactionID, err)
	}
	return nil
}

// UpdateDraft replaces the header fields and line set of a draft. The update
// is guarded by the editable statuses so a concurrently posted transaction
// cannot be overwritten.
func (r *PgxTransactionRepository) UpdateDraft(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTransaction(txn)
	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET txn_date = $1, reference = $2, narration = $3, status = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE org_id = $7 AND transaction_id = $8 AND status IN ('DRAFT', 'REJECTED');
	`, m.Date, m.Reference, m.Narration, m.Status, m.LastUpdatedAt, m.LastUpdatedBy, m.OrgID, m.TransactionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update transaction "+m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.KindTransactionLocked, "transaction %s is no longer editable", m.TransactionID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1;`, m.TransactionID); err != nil {
		return apperrors.NewAppError(500, "failed to clear lines for transaction "+m.TransactionID, err)
	}
	if err := r.insertLines(ctx, tx, txn); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction header with its lines.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, orgID, txnID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE org_id = $1 AND transaction_id = $2;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, orgID, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+txnID, err)
	}

	lines, err := r.findLines(ctx, txnID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainTransaction(m)
	d.Lines = lines
	return &d, nil
}

// FindTransactionByIdempotencyKey resolves the transaction a posting key was
// used on.
func (r *PgxTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, orgID, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE org_id = $1 AND idempotency_key = $2;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, orgID, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by idempotency key", err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

func (r *PgxTransactionRepository) findLines(ctx context.Context, txnID string) ([]domain.TransactionLine, error) {
	query := `SELECT ` + lineColumns + ` FROM transaction_lines WHERE transaction_id = $1 ORDER BY line_no;`
	rows, err := r.Pool.Query(ctx, query, txnID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for transaction "+txnID, err)
	}
	defer rows.Close()

	lines := []models.TransactionLine{}
	for rows.Next() {
		var l models.TransactionLine
		err := rows.Scan(
			&l.LineID, &l.TransactionID, &l.LineNo, &l.AccountID,
			&l.Debit, &l.Credit, &l.BaseDebit, &l.BaseCredit,
			&l.DepartmentID, &l.ProjectID, &l.CostCenterID,
			&l.TaxRate, &l.TaxAmount, &l.Description, &l.Deleted,
			&l.ProductID, &l.WarehouseID, &l.Quantity, &l.UnitCost, &l.Direction,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for transaction "+txnID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for transaction "+txnID, err)
	}
	return mapping.ToDomainTransactionLineSlice(lines), nil
}

// UpdateTransactionStatus flips status from -> to, guarded by the current
// status so a concurrent transition loses cleanly. An approval records the
// approver on the header.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, orgID, txnID string, from, to domain.TransactionStatus, actorID string, at time.Time) error {
	query := `
		UPDATE transactions
		SET status = $1,
		    approved_by = CASE WHEN $1 = 'APPROVED' THEN $2 ELSE approved_by END,
		    last_updated_at = $3, last_updated_by = $2
		WHERE org_id = $4 AND transaction_id = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, string(to), actorID, at, orgID, txnID, string(from))
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for transaction "+txnID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.KindInvalidStatusTransition, "transaction %s is no longer %s", txnID, from).
			WithContext("expected", string(from))
	}
	return nil
}

// PostTransaction is the atomic posting unit. Sequence allocation, the
// commit-time period re-check, balance updates, ledger entries, inventory
// effects, the audit trail, the reversal link and the status flip all commit
// or roll back together. Lock order is fixed: sequence counter, then
// accounts by id, then stock rows by (product, warehouse).
func (r *PgxTransactionRepository) PostTransaction(ctx context.Context, txn domain.Transaction, plan domain.PostingPlan) (*domain.PostResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if err := r.SetLockTimeout(ctx, tx, lockTimeoutMillis); err != nil {
		return nil, err
	}

	number, err := r.sequenceRepo.NextNumberInTx(ctx, tx, txn.OrgID, txn.TypeCode)
	if err != nil {
		return nil, err
	}

	// Re-check the period under the transaction: a close that committed
	// after validation must still win.
	period, err := r.periodRepo.FindPeriodForDateInTx(ctx, tx, txn.OrgID, txn.Date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindPeriodClosed, "no accounting period covers the transaction date")
		}
		return nil, err
	}
	if !period.IsOpen() {
		return nil, apperrors.Newf(apperrors.KindPeriodClosed, "period %s is closed", period.Name).
			WithContext("periodID", period.PeriodID)
	}

	lines := txn.ActiveLines()
	if err := r.writeLedger(ctx, tx, txn, lines, plan); err != nil {
		return nil, err
	}

	if plan.InventoryAffecting {
		if err := r.applyInventory(ctx, tx, txn, lines, plan); err != nil {
			return nil, err
		}
	}

	if plan.ReversalOfID != nil {
		if err := r.linkReversal(ctx, tx, txn, plan); err != nil {
			return nil, err
		}
	}

	if err := r.markPosted(ctx, tx, txn, lines, number, plan); err != nil {
		return nil, err
	}

	if err := r.writeAuditTrail(ctx, tx, txn, number, plan); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &domain.PostResult{
		TransactionID:  txn.TransactionID,
		DocumentNumber: number,
		Status:         domain.Posted,
		PostedAt:       plan.Now,
		Warnings:       plan.BudgetWarnings,
	}, nil
}

// writeLedger locks the touched accounts, applies balance deltas and inserts
// one immutable ledger entry per line with its running balance.
func (r *PgxTransactionRepository) writeLedger(ctx context.Context, tx pgx.Tx, txn domain.Transaction, lines []domain.TransactionLine, plan domain.PostingPlan) error {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			accountIDs = append(accountIDs, l.AccountID)
		}
	}
	sort.Strings(accountIDs)

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, txn.OrgID, accountIDs)
	if err != nil {
		return err
	}

	runningBalances := make(map[string]decimal.Decimal, len(lockedAccounts))
	balanceChanges := make(map[string]decimal.Decimal, len(lockedAccounts))
	for id, account := range lockedAccounts {
		runningBalances[id] = account.Balance
		balanceChanges[id] = decimal.Zero
	}

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO ledger_entries (entry_id, org_id, transaction_id, line_no, account_id, debit, credit, running_balance, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, l := range lines {
		account, ok := lockedAccounts[l.AccountID]
		if !ok {
			return apperrors.NewAppError(500, "locked account "+l.AccountID+" missing during ledger write", nil)
		}
		delta, err := accounting.SignedDelta(l, account.AccountType)
		if err != nil {
			return apperrors.NewAppError(500, "failed to compute signed delta", err)
		}

		newBalance := runningBalances[l.AccountID].Add(delta)
		runningBalances[l.AccountID] = newBalance
		balanceChanges[l.AccountID] = balanceChanges[l.AccountID].Add(delta)

		batch.Queue(entryQuery,
			uuid.NewString(), txn.OrgID, txn.TransactionID, l.LineNo, l.AccountID,
			l.Debit, l.Credit, newBalance, plan.Now, plan.ActorID,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger entries for transaction "+txn.TransactionID, err)
	}

	return r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, plan.ActorID, plan.Now)
}

// applyInventory locks the touched stock rows and applies movements in line
// order: inbound recomputes the weighted average, outbound consumes at it.
func (r *PgxTransactionRepository) applyInventory(ctx context.Context, tx pgx.Tx, txn domain.Transaction, lines []domain.TransactionLine, plan domain.PostingPlan) error {
	var inventoryLines []domain.TransactionLine
	keySet := make(map[domain.StockKey]bool)
	for _, l := range lines {
		if l.HasInventory() {
			inventoryLines = append(inventoryLines, l)
			keySet[domain.StockKey{ProductID: *l.ProductID, WarehouseID: *l.WarehouseID}] = true
		}
	}
	if len(inventoryLines) == 0 {
		return nil
	}

	keys := make([]domain.StockKey, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}

	levels, err := r.inventoryRepo.LockStockLevelsInTx(ctx, tx, txn.OrgID, keys)
	if err != nil {
		return err
	}

	movements := make([]domain.StockMovement, 0, len(inventoryLines))
	for _, l := range inventoryLines {
		key := domain.StockKey{ProductID: *l.ProductID, WarehouseID: *l.WarehouseID}
		level := levels[key]
		level.OrgID = txn.OrgID
		level.ProductID = key.ProductID
		level.WarehouseID = key.WarehouseID

		updated, unitCost, err := accounting.ApplyStockMovement(level, l, plan.AllowNegativeStock)
		if err != nil {
			return err
		}
		levels[key] = updated

		movements = append(movements, domain.StockMovement{
			MovementID:    uuid.NewString(),
			OrgID:         txn.OrgID,
			TransactionID: txn.TransactionID,
			LineNo:        l.LineNo,
			ProductID:     key.ProductID,
			WarehouseID:   key.WarehouseID,
			Direction:     l.Direction,
			Quantity:      l.Quantity,
			UnitCost:      unitCost,
			MovedAt:       plan.Now,
			CreatedBy:     plan.ActorID,
		})
	}

	for _, level := range levels {
		if err := r.inventoryRepo.UpdateStockLevelInTx(ctx, tx, level); err != nil {
			return err
		}
	}
	return r.inventoryRepo.InsertMovementsInTx(ctx, tx, movements)
}

// linkReversal flips the original transaction to REVERSED, guarded by its
// POSTED status so only one reversal can ever win.
func (r *PgxTransactionRepository) linkReversal(ctx context.Context, tx pgx.Tx, txn domain.Transaction, plan domain.PostingPlan) error {
	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET status = 'REVERSED', reversed_by_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE org_id = $4 AND transaction_id = $5 AND status = 'POSTED' AND reversed_by_id IS NULL;
	`, txn.TransactionID, plan.Now, plan.ActorID, txn.OrgID, *plan.ReversalOfID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark original transaction reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.KindAlreadyReversed, "transaction %s is not posted or was already reversed", *plan.ReversalOfID)
	}

	return r.auditRepo.InsertEventInTx(ctx, tx, domain.AuditEvent{
		EventID:       uuid.NewString(),
		OrgID:         txn.OrgID,
		TransactionID: *plan.ReversalOfID,
		Action:        domain.AuditReversed,
		ActorID:       plan.ActorID,
		OccurredAt:    plan.Now,
		FromStatus:    string(domain.Posted),
		ToStatus:      string(domain.Reversed),
		Details:       map[string]string{"reversedBy": txn.TransactionID},
	})
}

// markPosted flips the transaction itself to POSTED with its document number
// and writes the converted base amounts back onto the lines.
func (r *PgxTransactionRepository) markPosted(ctx context.Context, tx pgx.Tx, txn domain.Transaction, lines []domain.TransactionLine, number int64, plan domain.PostingPlan) error {
	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET status = 'POSTED', document_number = $1, posted_by = $2, posted_at = $3,
		    idempotency_key = COALESCE($4, idempotency_key),
		    last_updated_at = $3, last_updated_by = $2
		WHERE org_id = $5 AND transaction_id = $6 AND status = $7;
	`, number, plan.ActorID, plan.Now, plan.IdempotencyKey, txn.OrgID, txn.TransactionID, string(txn.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.KindDuplicateSubmission, "idempotency key already used", err)
		}
		return apperrors.NewAppError(500, "failed to mark transaction posted", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Newf(apperrors.KindInvalidStatusTransition, "transaction %s was concurrently modified", txn.TransactionID)
	}

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`UPDATE transaction_lines SET base_debit = $1, base_credit = $2 WHERE line_id = $3;`,
			l.BaseDebit, l.BaseCredit, l.LineID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to write base amounts for transaction "+txn.TransactionID, err)
	}
	return nil
}

// writeAuditTrail appends the posting event plus any budget annotations.
func (r *PgxTransactionRepository) writeAuditTrail(ctx context.Context, tx pgx.Tx, txn domain.Transaction, number int64, plan domain.PostingPlan) error {
	err := r.auditRepo.InsertEventInTx(ctx, tx, domain.AuditEvent{
		EventID:       uuid.NewString(),
		OrgID:         txn.OrgID,
		TransactionID: txn.TransactionID,
		Action:        domain.AuditPosted,
		ActorID:       plan.ActorID,
		OccurredAt:    plan.Now,
		FromStatus:    string(txn.Status),
		ToStatus:      string(domain.Posted),
		Details:       map[string]string{"documentNumber": strconv.FormatInt(number, 10)},
	})
	if err != nil {
		return err
	}

	for _, warning := range plan.BudgetWarnings {
		err := r.auditRepo.InsertEventInTx(ctx, tx, domain.AuditEvent{
			EventID:       uuid.NewString(),
			OrgID:         txn.OrgID,
			TransactionID: txn.TransactionID,
			Action:        domain.AuditBudgetWarning,
			ActorID:       plan.ActorID,
			OccurredAt:    plan.Now,
			Details:       map[string]string{"warning": warning},
		})
		if err != nil {
			return err
		}
	}

	if plan.Override != nil {
		return r.auditRepo.InsertEventInTx(ctx, tx, domain.AuditEvent{
			EventID:       uuid.NewString(),
			OrgID:         txn.OrgID,
			TransactionID: txn.TransactionID,
			Action:        domain.AuditBudgetOverride,
			ActorID:       plan.Override.ActorID,
			OccurredAt:    plan.Now,
			Details:       map[string]string{"justification": plan.Override.Justification},
		})
	}
	return nil
}

// ListLedgerEntriesByAccount retrieves a token-paginated page of ledger
// entries for one account, newest first. The cursor is (created_at, entry_id)
// of the last row on the previous page.
func (r *PgxTransactionRepository) ListLedgerEntriesByAccount(ctx context.Context, orgID, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT entry_id, org_id, transaction_id, line_no, account_id, debit, credit, running_balance, created_at, created_by
		FROM ledger_entries
		WHERE org_id = $1 AND account_id = $2
	`
	orderByClause := `ORDER BY created_at DESC, entry_id DESC`

	args := []interface{}{orgID, accountID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (created_at, entry_id) < ($3, $4)`
		args = append(args, lastCreatedAt, lastEntryID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for account "+accountID, err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		var m models.LedgerEntry
		err := rows.Scan(
			&m.EntryID, &m.OrgID, &m.TransactionID, &m.LineNo, &m.AccountID,
			&m.Debit, &m.Credit, &m.RunningBalance, &m.CreatedAt, &m.CreatedBy,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.EntryID)
		token = &t
	}
	return entries, token, nil
}
