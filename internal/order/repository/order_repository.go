package repository

import (
	"errors"
	"fmt"
	"time"

	"optiledger-backend/internal/order/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormOrderRepository implements OrderRepository using GORM
type gormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based OrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	db.AutoMigrate(&domain.Order{}, &domain.LineItem{})
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) FindByNaturalKey(accountID, orderNumber string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.Where("account_id = ? AND order_number = ?", accountID, orderNumber).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// InsertWithItems writes the order and its items in one transaction. The
// unique index on (account_id, order_number) is the dedup authority: a
// concurrent insert of the same confirmation loses the race here and is
// reported as ErrDuplicateOrder rather than a second order.
func (r *gormOrderRepository) InsertWithItems(order *domain.Order, items []domain.LineItem) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OrderID = order.ID
		if items[i].Status == "" {
			items[i].Status = domain.ItemStatusPending
		}
		if items[i].Received == "" {
			items[i].Received = domain.ReceivedUnset
		}
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order %s: %w", order.OrderNumber, err)
	}

	order.Items = items
	return nil
}

func (r *gormOrderRepository) FindByID(id string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) ListByAccount(accountID, vendorID string, status *domain.OrderStatus, limit, offset int) ([]*domain.Order, int64, error) {
	var orders []*domain.Order
	var total int64

	query := r.db.Model(&domain.Order{}).Where("account_id = ?", accountID)
	if vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Items").Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *gormOrderRepository) FindItemByID(id string) (*domain.LineItem, error) {
	var item domain.LineItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormOrderRepository) UpdateItemReceived(id string, state domain.ReceivedState, date *time.Time) error {
	return r.db.Model(&domain.LineItem{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"received":      state,
			"received_date": date,
			"updated_at":    time.Now(),
		}).Error
}

func (r *gormOrderRepository) UpdateItemAttributes(id string, attrs map[string]interface{}) error {
	if len(attrs) == 0 {
		return nil
	}
	attrs["updated_at"] = time.Now()
	return r.db.Model(&domain.LineItem{}).Where("id = ?", id).Updates(attrs).Error
}

func (r *gormOrderRepository) UpdateOrderStatus(id string, status domain.OrderStatus) error {
	return r.db.Model(&domain.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
