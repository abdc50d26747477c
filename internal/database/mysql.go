package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"buyer-lead-portal/internal/apierr"
	"buyer-lead-portal/internal/buyers"
	"buyer-lead-portal/internal/models"
)

// GormDB is the MySQL-backed buyer store.
type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host, port, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

// DB returns the underlying gorm.DB instance
func (gdb *GormDB) DB() *gorm.DB {
	return gdb.db
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(
		&models.User{},
		&models.Buyer{},
		&models.BuyerHistory{},
	)
}

// translateError maps driver-level signals into the service error
// taxonomy so callers never see raw MySQL errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return buyers.ErrNotFound
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062: // duplicate key
			return apierr.Constraint(mysqlErr.Message)
		case 1452: // foreign key
			return apierr.BadRequest("Foreign key constraint failed", nil)
		}
	}
	return err
}

// EnsureUser creates the user row if it does not exist yet.
func (gdb *GormDB) EnsureUser(user *models.User) error {
	var existing models.User
	err := gdb.db.Where("id = ?", user.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return translateError(gdb.db.Create(user).Error)
	}
	return translateError(err)
}

// GetUserByEmail retrieves a user by email address.
func (gdb *GormDB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := gdb.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// GetBuyer retrieves a buyer by ID.
func (gdb *GormDB) GetBuyer(id string) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := gdb.db.Where("id = ?", id).First(&buyer).Error; err != nil {
		return nil, translateError(err)
	}
	return &buyer, nil
}

// CreateBuyer persists a buyer and its initial history entry in one
// transaction.
func (gdb *GormDB) CreateBuyer(buyer *models.Buyer, entry *models.BuyerHistory) error {
	return translateError(gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(buyer).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	}))
}

// UpdateBuyer persists a full buyer row and its history entry in one
// transaction.
func (gdb *GormDB) UpdateBuyer(buyer *models.Buyer, entry *models.BuyerHistory) error {
	return translateError(gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(buyer).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	}))
}

// DeleteBuyer removes a buyer and all of its history entries in one
// transaction; a partial deletion is never observable.
func (gdb *GormDB) DeleteBuyer(id string) error {
	return translateError(gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("buyer_id = ?", id).Delete(&models.BuyerHistory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Buyer{}).Error
	}))
}

func applyBuyerFilters(tx *gorm.DB, f buyers.Filters) *gorm.DB {
	if f.Search != "" {
		like := "%" + f.Search + "%"
		tx = tx.Where("full_name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}
	if f.City != "" {
		tx = tx.Where("city = ?", f.City)
	}
	if f.PropertyType != "" {
		tx = tx.Where("property_type = ?", f.PropertyType)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Timeline != "" {
		tx = tx.Where("timeline = ?", f.Timeline)
	}
	return tx
}

// ListBuyers returns one page of buyers plus the total match count.
func (gdb *GormDB) ListBuyers(q buyers.ListQuery) ([]models.Buyer, int64, error) {
	var total int64
	if err := applyBuyerFilters(gdb.db.Model(&models.Buyer{}), q.Filters).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	var items []models.Buyer
	err := applyBuyerFilters(gdb.db, q.Filters).
		Order(fmt.Sprintf("%s %s", q.SortColumn(), strings.ToUpper(q.SortOrder))).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return items, total, nil
}

// ListAllBuyers returns every buyer matching the filters, unpaginated.
func (gdb *GormDB) ListAllBuyers(q buyers.ListQuery) ([]models.Buyer, error) {
	var items []models.Buyer
	err := applyBuyerFilters(gdb.db, q.Filters).
		Order(fmt.Sprintf("%s %s", q.SortColumn(), strings.ToUpper(q.SortOrder))).
		Find(&items).Error
	if err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// ListHistory retrieves the most recent history entries for a buyer.
func (gdb *GormDB) ListHistory(buyerID string, limit int) ([]models.BuyerHistory, error) {
	var entries []models.BuyerHistory
	query := gdb.db.Where("buyer_id = ?", buyerID).Order("changed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}

// ImportBuyers inserts a batch of buyers and their create-history entries
// as one atomic transaction: if any row fails, none of the batch commits.
func (gdb *GormDB) ImportBuyers(batch []models.Buyer, entries []models.BuyerHistory) error {
	return translateError(gdb.db.Transaction(func(tx *gorm.DB) error {
		for i := range batch {
			if err := tx.Create(&batch[i]).Error; err != nil {
				return err
			}
		}
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}

// CountByStatus returns buyer counts grouped by pipeline status.
func (gdb *GormDB) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := gdb.db.Model(&models.Buyer{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
