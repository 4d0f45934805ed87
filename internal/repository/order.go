package repository

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/rookgm/foodorder/internal/repository/postgres"
	"time"
)

const (
	pgErrUniqueViolationCode     = "23505"
	pgErrForeignKeyViolationCode = "23503"
	pgErrInsufficientPointsCode  = "FO001"
	pgErrItemUnavailableCode     = "FO002"
	pgErrInvalidOrderCode        = "FO003"
	pgErrTerminalOrderCode       = "FO011"
)

const orderColumns = `o.id, o.order_number, o.user_id, o.location_id, o.delivery_charge, o.total_amount,
						o.status, o.otp, o.is_cancelled, o.cancelled_at, o.cancellation_reason,
						o.payment_method, o.points_used, o.created_at`

const (
	createOrderQuery = `SELECT create_order($1, $2, $3, $4, $5, $6, $7)`

	selectOrderByIDQuery = `
						SELECT ` + orderColumns + ` FROM orders o
						WHERE o.id = $1
`
	selectOrdersByUserIDQuery = `
						SELECT ` + orderColumns + ` FROM orders o
						WHERE o.user_id = $1
						ORDER BY o.created_at DESC
`
	selectAllOrdersQuery = `
						SELECT ` + orderColumns + `, p.full_name, p.phone, p.city FROM orders o
						LEFT JOIN profiles p ON p.id = o.user_id
						ORDER BY o.created_at DESC
`
	selectOrderItemsQuery = `
						SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price,
						       m.name, m.image_url, m.is_veg
						FROM order_items oi
						JOIN menu_items m ON m.id = oi.menu_item_id
						WHERE oi.order_id = ANY($1)
						ORDER BY oi.id
`
	updateOrderStatusQuery = `
						UPDATE orders o
						SET status = $2
						WHERE o.id = $1 AND o.status NOT IN ('delivered', 'cancelled') AND NOT o.is_cancelled
						RETURNING ` + orderColumns

	cancelOrderQuery = `
						UPDATE orders o
						SET status = 'cancelled', is_cancelled = TRUE, cancelled_at = $2, cancellation_reason = $3
						WHERE o.id = $1 AND o.status = 'confirmed' AND NOT o.is_cancelled
						RETURNING ` + orderColumns
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type cartItemRow struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// CreateOrder creates order, its items and points debit through the create_order function
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.NewOrder) (int64, error) {
	items := make([]cartItemRow, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, cartItemRow{ID: it.MenuItemID, Quantity: it.Quantity})
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return 0, err
	}

	var id int64
	err = or.db.QueryRow(ctx, createOrderQuery,
		order.UserID,
		order.LocationID,
		order.DeliveryCharge,
		order.PointsUsed,
		order.PaymentMethod,
		order.OTP,
		itemsJSON,
	).Scan(&id)
	if err != nil {
		return 0, createOrderError(or.db.ErrorCode(err), err)
	}

	return id, nil
}

// createOrderError maps create_order SQLSTATE to domain error
func createOrderError(code string, err error) error {
	switch code {
	case pgErrInsufficientPointsCode:
		return models.ErrInsufficientPoints
	case pgErrItemUnavailableCode:
		return models.ErrMenuItemNotFound
	case pgErrInvalidOrderCode, pgErrForeignKeyViolationCode:
		return models.ErrValidation
	}
	return err
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return order, nil
}

// GetOrdersByUserID returns user orders with items, newest first
func (or *OrderRepository) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]models.OrderDetails, error) {
	rows, err := or.db.Query(ctx, selectOrdersByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.OrderDetails{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, models.OrderDetails{Order: *order})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := or.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// ListOrders returns all orders with customer profile and items, newest first
func (or *OrderRepository) ListOrders(ctx context.Context) ([]models.OrderDetails, error) {
	rows, err := or.db.Query(ctx, selectAllOrdersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.OrderDetails{}

	for rows.Next() {
		var (
			o           models.Order
			isCancelled bool
			customer    models.Customer
		)
		err = rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.LocationID, &o.DeliveryCharge, &o.TotalAmount,
			&o.Status, &o.OTP, &isCancelled, &o.CancelledAt, &o.CancellationReason,
			&o.PaymentMethod, &o.PointsUsed, &o.CreatedAt,
			&customer.FullName, &customer.Phone, &customer.City)
		if err != nil {
			return nil, err
		}
		foldCancelled(&o, isCancelled)
		orders = append(orders, models.OrderDetails{Order: o, Customer: &customer})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := or.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrderStatus sets status of non-terminal order.
// Returns ErrConflictData if the order reached a terminal state meanwhile.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	return or.guardedUpdate(ctx, updateOrderStatusQuery, id, status)
}

// CancelOrder cancels confirmed order. It is the only place is_cancelled is written.
// Returns ErrConflictData if the order is no longer confirmed.
func (or *OrderRepository) CancelOrder(ctx context.Context, id int64, reason string, at time.Time) (*models.Order, error) {
	return or.guardedUpdate(ctx, cancelOrderQuery, id, at, reason)
}

func (or *OrderRepository) guardedUpdate(ctx context.Context, query string, args ...any) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, guardedUpdateError(or.db.ErrorCode(err), err)
	}

	return order, nil
}

// guardedUpdateError reports a guard that did not match, or the terminal
// state trigger, as ErrConflictData
func guardedUpdateError(code string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) || code == pgErrTerminalOrderCode {
		return models.ErrConflictData
	}
	return err
}

func (or *OrderRepository) attachItems(ctx context.Context, orders []models.OrderDetails) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID)
		index[o.ID] = i
		orders[i].Items = []models.OrderItem{}
	}

	rows, err := or.db.Query(ctx, selectOrderItemsQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		err = rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price,
			&item.Name, &item.ImageURL, &item.IsVeg)
		if err != nil {
			return err
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	return rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		o           models.Order
		isCancelled bool
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.LocationID, &o.DeliveryCharge, &o.TotalAmount,
		&o.Status, &o.OTP, &isCancelled, &o.CancelledAt, &o.CancellationReason,
		&o.PaymentMethod, &o.PointsUsed, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	foldCancelled(&o, isCancelled)

	return &o, nil
}

// foldCancelled makes status the single source of truth, a raised
// is_cancelled flag wins over whatever status the row holds
func foldCancelled(o *models.Order, isCancelled bool) {
	if isCancelled {
		o.Status = models.OrderStatusCancelled
	}
}
