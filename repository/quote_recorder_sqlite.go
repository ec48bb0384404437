package repository

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"lease-agent/domain"
)

// SQLiteQuoteRecorder persists quote history to a SQLite database.
type SQLiteQuoteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

var _ QuoteRecorder = (*SQLiteQuoteRecorder)(nil)

// NewSQLiteQuoteRecorder opens (or creates) the SQLite database and creates the
// history table.
func NewSQLiteQuoteRecorder(dbPath string) (*SQLiteQuoteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	// WAL so history reads don't block quote writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}

	r := &SQLiteQuoteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	zap.L().Info("sqlite quote recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteQuoteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lease_quotes (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp            INTEGER NOT NULL,
			tax_treatment        TEXT,
			vehicle_price        REAL,
			dealer_incentives    REAL,
			selling_price        REAL,
			down_payment         REAL,
			trade_in_value       REAL,
			trade_in_payoff      REAL,
			interest_rate        REAL,
			lease_term           REAL,
			tax_rate             REAL,
			taxes_and_fees       REAL,
			residual_value       REAL,
			net_capitalized_cost REAL,
			depreciation_fee     REAL,
			finance_fee          REAL,
			monthly_payment      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lease_quotes_ts ON lease_quotes(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return errors.Wrapf(err, "exec %q", s[:40])
		}
	}
	return r.migrateNanos()
}

// timestamp holds unix nanoseconds since schema version 1; older files stored
// seconds.
func (r *SQLiteQuoteRecorder) migrateNanos() error {
	var version int
	if err := r.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return errors.Wrap(err, "read user_version")
	}
	if version >= 1 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE lease_quotes SET timestamp = timestamp * 1000000000`); err != nil {
		return errors.Wrap(err, "convert timestamps")
	}
	if _, err := tx.Exec(`PRAGMA user_version = 1`); err != nil {
		return errors.Wrap(err, "set user_version")
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (r *SQLiteQuoteRecorder) Record(ctx context.Context, q domain.LeaseQuote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := q.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	in, calc := q.Inputs, q.Calculation

	_, err := r.db.ExecContext(ctx, `INSERT INTO lease_quotes
		(timestamp, tax_treatment,
		 vehicle_price, dealer_incentives, selling_price, down_payment,
		 trade_in_value, trade_in_payoff, interest_rate, lease_term,
		 tax_rate, taxes_and_fees, residual_value,
		 net_capitalized_cost, depreciation_fee, finance_fee, monthly_payment)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.UnixNano(), string(q.TaxTreatment),
		in.VehiclePrice, in.DealerIncentives, in.SellingPrice, in.DownPayment,
		in.TradeInValue, in.TradeInPayoff, in.InterestRate, in.LeaseTerm,
		in.TaxRate, in.TaxesAndFees, in.ResidualValue,
		calc.NetCapitalizedCost, calc.DepreciationFee, calc.FinanceFee, calc.MonthlyPayment,
	)
	return errors.Wrap(err, "insert lease quote")
}

func (r *SQLiteQuoteRecorder) Recent(ctx context.Context, limit int) ([]domain.LeaseQuote, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, timestamp, tax_treatment,
		vehicle_price, dealer_incentives, selling_price, down_payment,
		trade_in_value, trade_in_payoff, interest_rate, lease_term,
		tax_rate, taxes_and_fees, residual_value,
		net_capitalized_cost, depreciation_fee, finance_fee, monthly_payment
		FROM lease_quotes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query lease quotes")
	}
	defer rows.Close()

	out := []domain.LeaseQuote{}
	for rows.Next() {
		var (
			q         domain.LeaseQuote
			ts        int64
			treatment string
		)
		in, calc := &q.Inputs, &q.Calculation
		if err := rows.Scan(&q.ID, &ts, &treatment,
			&in.VehiclePrice, &in.DealerIncentives, &in.SellingPrice, &in.DownPayment,
			&in.TradeInValue, &in.TradeInPayoff, &in.InterestRate, &in.LeaseTerm,
			&in.TaxRate, &in.TaxesAndFees, &in.ResidualValue,
			&calc.NetCapitalizedCost, &calc.DepreciationFee, &calc.FinanceFee, &calc.MonthlyPayment,
		); err != nil {
			return nil, errors.Wrap(err, "scan lease quote")
		}
		q.TaxTreatment = domain.TaxTreatment(treatment)
		q.CreatedAt = time.Unix(0, ts).UTC()
		calc.ResidualValue = in.ResidualValue
		out = append(out, q)
	}
	return out, errors.Wrap(rows.Err(), "iterate lease quotes")
}

func (r *SQLiteQuoteRecorder) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM lease_quotes WHERE timestamp < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, errors.Wrap(err, "prune lease quotes")
	}
	return res.RowsAffected()
}

func (r *SQLiteQuoteRecorder) Close() error {
	zap.L().Info("closing sqlite quote recorder")
	return r.db.Close()
}
