package usecase

import (
	"errors"
	"log"
	"time"

	"optiledger-backend/internal/order/domain"
	"optiledger-backend/internal/order/repository"
)

// orderUsecase implements OrderUsecase interface
type orderUsecase struct {
	orderRepo repository.OrderRepository
}

// NewOrderUsecase creates a new instance of orderUsecase
func NewOrderUsecase(orderRepo repository.OrderRepository) OrderUsecase {
	return &orderUsecase{
		orderRepo: orderRepo,
	}
}

func (u *orderUsecase) GetOrder(accountID, orderID string) (*domain.Order, error) {
	order, err := u.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order not found")
	}
	if order.AccountID != accountID {
		return nil, errors.New("unauthorized")
	}
	return order, nil
}

func (u *orderUsecase) ListOrders(accountID, vendorID string, status *string, limit, offset int) ([]*domain.Order, int64, error) {
	var statusFilter *domain.OrderStatus
	if status != nil && *status != "" {
		s := domain.OrderStatus(*status)
		statusFilter = &s
	}
	return u.orderRepo.ListByAccount(accountID, vendorID, statusFilter, limit, offset)
}

func (u *orderUsecase) SetItemReceived(accountID, itemID, state string, receivedDate *string) (*domain.Order, error) {
	received, ok := domain.ParseReceivedState(state)
	if !ok {
		return nil, errors.New("invalid received state")
	}

	item, err := u.orderRepo.FindItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("line item not found")
	}

	order, err := u.GetOrder(accountID, item.OrderID)
	if err != nil {
		return nil, err
	}

	// received=received carries a date, now when the client omits one;
	// stepping back to either other state clears it.
	var date *time.Time
	if received == domain.ReceivedYes {
		now := time.Now()
		date = &now
		if receivedDate != nil && *receivedDate != "" {
			if t, err := time.Parse(time.RFC3339, *receivedDate); err == nil {
				date = &t
			}
		}
	}

	if err := u.orderRepo.UpdateItemReceived(itemID, received, date); err != nil {
		return nil, err
	}

	fresh, err := u.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, errors.New("order not found")
	}

	next := domain.ComputeOrderStatus(fresh.Status, fresh.Items)
	if next != fresh.Status {
		log.Printf("[Orders] order %s status %s -> %s", fresh.OrderNumber, fresh.Status, next)
		if err := u.orderRepo.UpdateOrderStatus(fresh.ID, next); err != nil {
			return nil, err
		}
		fresh.Status = next
	}

	return fresh, nil
}
