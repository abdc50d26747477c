package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"buyer-lead-portal/internal/apierr"
	"buyer-lead-portal/internal/buyers"
	"buyer-lead-portal/internal/models"
)

// DB is the raw-SQL Postgres buyer store.
type DB struct {
	conn *sql.DB
}

func NewDB(host, port, user, password, dbname string) (*DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the tables if they don't exist
func (db *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(100),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS buyers (
		id VARCHAR(36) PRIMARY KEY,
		owner_id VARCHAR(36) NOT NULL REFERENCES users(id),
		full_name VARCHAR(80) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(15) NOT NULL,
		city VARCHAR(20) NOT NULL,
		property_type VARCHAR(20) NOT NULL,
		bhk VARCHAR(10),
		purpose VARCHAR(10) NOT NULL,
		budget_min INTEGER,
		budget_max INTEGER,
		timeline VARCHAR(30) NOT NULL,
		source VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'NEW',
		notes TEXT,
		tags JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS buyer_histories (
		id VARCHAR(36) PRIMARY KEY,
		buyer_id VARCHAR(36) NOT NULL REFERENCES buyers(id),
		changed_by_id VARCHAR(36) NOT NULL,
		changed_at TIMESTAMP NOT NULL,
		diff JSONB NOT NULL DEFAULT '{}'
	);

	-- Indexes for filtering and history lookups
	CREATE INDEX IF NOT EXISTS idx_buyers_updated_at ON buyers(updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_buyers_city ON buyers(city);
	CREATE INDEX IF NOT EXISTS idx_buyers_property_type ON buyers(property_type);
	CREATE INDEX IF NOT EXISTS idx_buyers_status ON buyers(status);
	CREATE INDEX IF NOT EXISTS idx_buyers_timeline ON buyers(timeline);
	CREATE INDEX IF NOT EXISTS idx_history_buyer_changed ON buyer_histories(buyer_id, changed_at DESC);
	`
	_, err := db.conn.Exec(query)
	return err
}

// translatePQError maps Postgres signals into the service error taxonomy.
func translatePQError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return buyers.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return apierr.Constraint(pqErr.Detail)
		case "23503": // foreign_key_violation
			return apierr.BadRequest("Foreign key constraint failed", nil)
		}
	}
	return err
}

const buyerColumns = `id, owner_id, full_name, email, phone, city, property_type, bhk, purpose,
	budget_min, budget_max, timeline, source, status, notes, tags, created_at, updated_at`

func scanBuyer(row interface{ Scan(...interface{}) error }) (*models.Buyer, error) {
	var (
		b     models.Buyer
		email sql.NullString
		bhk   sql.NullString
		notes sql.NullString
	)
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.FullName, &email, &b.Phone, &b.City, &b.PropertyType, &bhk,
		&b.Purpose, &b.BudgetMin, &b.BudgetMax, &b.Timeline, &b.Source, &b.Status, &notes,
		&b.Tags, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Email = email.String
	b.BHK = models.BHK(bhk.String)
	b.Notes = notes.String
	return &b, nil
}

func insertBuyerTx(tx *sql.Tx, b *models.Buyer) error {
	query := `
	INSERT INTO buyers (
		id, owner_id, full_name, email, phone, city, property_type, bhk, purpose,
		budget_min, budget_max, timeline, source, status, notes, tags, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := tx.Exec(query,
		b.ID, b.OwnerID, b.FullName, nullable(b.Email), b.Phone, b.City, b.PropertyType,
		nullable(string(b.BHK)), b.Purpose, b.BudgetMin, b.BudgetMax, b.Timeline, b.Source,
		b.Status, nullable(b.Notes), b.Tags, b.CreatedAt, b.UpdatedAt)
	return err
}

func insertHistoryTx(tx *sql.Tx, h *models.BuyerHistory) error {
	query := `
	INSERT INTO buyer_histories (id, buyer_id, changed_by_id, changed_at, diff)
	VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.Exec(query, h.ID, h.BuyerID, h.ChangedByID, h.ChangedAt, h.Diff)
	return err
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// EnsureUser creates the user row if it does not exist yet.
func (db *DB) EnsureUser(user *models.User) error {
	query := `
	INSERT INTO users (id, email, name, created_at, updated_at)
	VALUES ($1, $2, $3, NOW(), NOW())
	ON CONFLICT (id) DO NOTHING
	`
	_, err := db.conn.Exec(query, user.ID, user.Email, user.Name)
	return translatePQError(err)
}

// GetUserByEmail retrieves a user by email address.
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, name, created_at, updated_at FROM users WHERE email = $1`
	var user models.User
	err := db.conn.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translatePQError(err)
	}
	return &user, nil
}

// GetBuyer retrieves a buyer by ID.
func (db *DB) GetBuyer(id string) (*models.Buyer, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE id = $1`
	buyer, err := scanBuyer(db.conn.QueryRow(query, id))
	if err != nil {
		return nil, translatePQError(err)
	}
	return buyer, nil
}

// CreateBuyer persists a buyer and its initial history entry in one
// transaction.
func (db *DB) CreateBuyer(buyer *models.Buyer, entry *models.BuyerHistory) error {
	return db.inTx(func(tx *sql.Tx) error {
		if err := insertBuyerTx(tx, buyer); err != nil {
			return err
		}
		return insertHistoryTx(tx, entry)
	})
}

// UpdateBuyer persists the full buyer row and its history entry in one
// transaction.
func (db *DB) UpdateBuyer(buyer *models.Buyer, entry *models.BuyerHistory) error {
	return db.inTx(func(tx *sql.Tx) error {
		query := `
		UPDATE buyers SET
			full_name = $2, email = $3, phone = $4, city = $5, property_type = $6,
			bhk = $7, purpose = $8, budget_min = $9, budget_max = $10, timeline = $11,
			source = $12, status = $13, notes = $14, tags = $15, updated_at = $16
		WHERE id = $1
		`
		if _, err := tx.Exec(query,
			buyer.ID, buyer.FullName, nullable(buyer.Email), buyer.Phone, buyer.City,
			buyer.PropertyType, nullable(string(buyer.BHK)), buyer.Purpose, buyer.BudgetMin,
			buyer.BudgetMax, buyer.Timeline, buyer.Source, buyer.Status,
			nullable(buyer.Notes), buyer.Tags, buyer.UpdatedAt); err != nil {
			return err
		}
		return insertHistoryTx(tx, entry)
	})
}

// DeleteBuyer removes a buyer and all of its history in one transaction.
func (db *DB) DeleteBuyer(id string) error {
	return db.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM buyer_histories WHERE buyer_id = $1`, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM buyers WHERE id = $1`, id)
		return err
	})
}

func buildFilterClause(f buyers.Filters) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		like := "%" + f.Search + "%"
		p := arg(like)
		clauses = append(clauses, fmt.Sprintf("(full_name ILIKE %s OR phone LIKE %s OR email ILIKE %s)", p, p, p))
	}
	if f.City != "" {
		clauses = append(clauses, "city = "+arg(f.City))
	}
	if f.PropertyType != "" {
		clauses = append(clauses, "property_type = "+arg(f.PropertyType))
	}
	if f.Status != "" {
		clauses = append(clauses, "status = "+arg(f.Status))
	}
	if f.Timeline != "" {
		clauses = append(clauses, "timeline = "+arg(f.Timeline))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (db *DB) queryBuyers(query string, args []interface{}) ([]models.Buyer, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, translatePQError(err)
	}
	defer rows.Close()

	var items []models.Buyer
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// ListBuyers returns one page of buyers plus the total match count.
func (db *DB) ListBuyers(q buyers.ListQuery) ([]models.Buyer, int64, error) {
	where, args := buildFilterClause(q.Filters)

	var total int64
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM buyers`+where, args...).Scan(&total); err != nil {
		return nil, 0, translatePQError(err)
	}

	// SortColumn is whitelisted by the query builder
	query := fmt.Sprintf(`SELECT %s FROM buyers%s ORDER BY %s %s OFFSET %d LIMIT %d`,
		buyerColumns, where, q.SortColumn(), strings.ToUpper(q.SortOrder), q.Offset, q.Limit)

	items, err := db.queryBuyers(query, args)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAllBuyers returns every buyer matching the filters, unpaginated.
func (db *DB) ListAllBuyers(q buyers.ListQuery) ([]models.Buyer, error) {
	where, args := buildFilterClause(q.Filters)
	query := fmt.Sprintf(`SELECT %s FROM buyers%s ORDER BY %s %s`,
		buyerColumns, where, q.SortColumn(), strings.ToUpper(q.SortOrder))
	return db.queryBuyers(query, args)
}

// ListHistory retrieves the most recent history entries for a buyer.
func (db *DB) ListHistory(buyerID string, limit int) ([]models.BuyerHistory, error) {
	query := `
	SELECT id, buyer_id, changed_by_id, changed_at, diff
	FROM buyer_histories
	WHERE buyer_id = $1
	ORDER BY changed_at DESC
	LIMIT $2
	`
	rows, err := db.conn.Query(query, buyerID, limit)
	if err != nil {
		return nil, translatePQError(err)
	}
	defer rows.Close()

	var entries []models.BuyerHistory
	for rows.Next() {
		var h models.BuyerHistory
		if err := rows.Scan(&h.ID, &h.BuyerID, &h.ChangedByID, &h.ChangedAt, &h.Diff); err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

// ImportBuyers inserts the whole batch plus history entries atomically.
func (db *DB) ImportBuyers(batch []models.Buyer, entries []models.BuyerHistory) error {
	return db.inTx(func(tx *sql.Tx) error {
		for i := range batch {
			if err := insertBuyerTx(tx, &batch[i]); err != nil {
				return err
			}
		}
		for i := range entries {
			if err := insertHistoryTx(tx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// CountByStatus returns buyer counts grouped by pipeline status.
func (db *DB) CountByStatus() (map[string]int64, error) {
	rows, err := db.conn.Query(`SELECT status, COUNT(*) FROM buyers GROUP BY status`)
	if err != nil {
		return nil, translatePQError(err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (db *DB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return translatePQError(err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return translatePQError(err)
	}
	return translatePQError(tx.Commit())
}
