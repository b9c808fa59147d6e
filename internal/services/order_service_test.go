// internal/services/order_service_test.go
package services

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kartify/storefront-backend/internal/config"
	"github.com/kartify/storefront-backend/internal/models"
)

// fakeOrderRepo keeps the checkout write set in memory, honoring the Save
// contract: all three rows land together or none do.
type fakeOrderRepo struct {
	saveErr       error
	orders        []*models.Order
	notifications []*models.Notification
	seq           int64
}

func (r *fakeOrderRepo) Save(_ context.Context, order *models.Order, items []models.OrderItem, notification *models.Notification) error {
	if r.saveErr != nil {
		return r.saveErr
	}

	r.seq++
	order.ID = uuid.New()
	order.CreatedAt = time.Unix(r.seq, 0)
	for i := range items {
		items[i].OrderID = order.ID
	}
	order.OrderItems = items
	notification.OrderID = &order.ID

	r.orders = append(r.orders, order)
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeOrderRepo) Find(_ context.Context, id uuid.UUID) (*models.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindAll(_ context.Context, sessionID string, userID *uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range r.orders {
		if userID != nil {
			if order.UserID != nil && *order.UserID == *userID {
				out = append(out, *order)
			}
		} else if order.SessionID == sessionID {
			out = append(out, *order)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out, nil
}

type stubNotifier struct {
	delivered chan *models.Notification
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{delivered: make(chan *models.Notification, 4)}
}

func (n *stubNotifier) DeliverOrderNotification(notification *models.Notification, _ *models.Order) {
	n.delivered <- notification
}

func testShipping() config.ShippingConfig {
	return config.ShippingConfig{FreeShippingThreshold: 500, FlatRate: 40}
}

func validCheckoutRequest() *CheckoutRequest {
	return &CheckoutRequest{
		Name:          "Asha Verma",
		Phone:         "9876543210",
		Address:       "12 MG Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		Pincode:       "560001",
		Email:         "asha@example.com",
		PaymentMethod: models.PaymentMethodCashOnDelivery,
	}
}

func TestShippingCost(t *testing.T) {
	svc := &OrderService{shipping: testShipping()}

	assert.Equal(t, 40.0, svc.shippingCost(100))
	assert.Equal(t, 40.0, svc.shippingCost(500))
	assert.Equal(t, 0.0, svc.shippingCost(500.01))
	assert.Equal(t, 0.0, svc.shippingCost(2000))
}

func TestBuildOrderItemsSnapshotsProduct(t *testing.T) {
	product := testProduct("Running Shoes", 1999)
	product.Images = []string{"https://cdn.example.com/shoes.jpg"}

	items, err := buildOrderItems([]models.CartItem{
		{ID: "a", ProductID: product.ID, Quantity: 2, Product: product},
	})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, product.ID, items[0].ProductID)
	assert.Equal(t, "Running Shoes", items[0].ProductName)
	require.NotNil(t, items[0].ProductImage)
	assert.Equal(t, "https://cdn.example.com/shoes.jpg", *items[0].ProductImage)
	assert.Equal(t, 1999.0, items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestBuildOrderItemsSnapshotSurvivesProductChange(t *testing.T) {
	product := testProduct("Running Shoes", 1999)

	items, err := buildOrderItems([]models.CartItem{
		{ID: "a", ProductID: product.ID, Quantity: 1, Product: product},
	})
	require.NoError(t, err)

	product.Price = 999
	product.Name = "Walking Shoes"

	assert.Equal(t, 1999.0, items[0].Price)
	assert.Equal(t, "Running Shoes", items[0].ProductName)
}

func TestBuildOrderItemsFailsOnMissingProduct(t *testing.T) {
	_, err := buildOrderItems([]models.CartItem{
		{ID: "a", ProductID: uuid.New(), Quantity: 1, Product: nil},
	})

	assert.True(t, IsKind(err, KindRemoteUnavailable))
}

func TestOrderSubtotal(t *testing.T) {
	subtotal := orderSubtotal([]models.OrderItem{
		{Price: 100, Quantity: 2},
		{Price: 49.5, Quantity: 1},
	})

	assert.InDelta(t, 249.5, subtotal, 0.001)
}

func TestGenerateOrderNumber(t *testing.T) {
	number := generateOrderNumber()

	assert.True(t, strings.HasPrefix(number, "ORD-"))
	assert.Greater(t, len(number), len("ORD-"))
}

func TestCreateOrderRejectsInvalidRequest(t *testing.T) {
	svc := NewOrderService(nil, newTestCart(), nil, testShipping())

	req := validCheckoutRequest()
	req.Pincode = "012345"

	_, err := svc.CreateOrder(context.Background(), "s1", nil, req)
	assert.True(t, IsKind(err, KindValidationFailed))
}

func TestCreateOrderRejectsUnknownPaymentMethod(t *testing.T) {
	svc := NewOrderService(nil, newTestCart(), nil, testShipping())

	req := validCheckoutRequest()
	req.PaymentMethod = "wallet"

	_, err := svc.CreateOrder(context.Background(), "s1", nil, req)
	assert.True(t, IsKind(err, KindValidationFailed))
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	cart := newTestCart()
	svc := NewOrderService(nil, cart, nil, testShipping())

	_, err := svc.CreateOrder(context.Background(), "s1", nil, validCheckoutRequest())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.True(t, IsKind(err, KindValidationFailed))
}

func TestCreateOrderCommitsOrderItemsAndNotificationTogether(t *testing.T) {
	product := testProduct("Running Shoes", 1999)
	cart := newTestCart(product)
	ctx := context.Background()
	_, err := cart.Add(ctx, "s1", product.ID, 2)
	require.NoError(t, err)

	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, cart, newStubNotifier(), testShipping())

	order, err := svc.CreateOrder(ctx, "s1", nil, validCheckoutRequest())
	require.NoError(t, err)

	// One Save call carried all three rows.
	require.Len(t, repo.orders, 1)
	require.Len(t, repo.notifications, 1)
	require.Len(t, repo.orders[0].OrderItems, 1)

	assert.Equal(t, 3998.0, order.Subtotal)
	assert.Equal(t, 0.0, order.ShippingCost)
	assert.Equal(t, 3998.0, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, order.ID, repo.orders[0].OrderItems[0].OrderID)

	notification := repo.notifications[0]
	require.NotNil(t, notification.OrderID)
	assert.Equal(t, order.ID, *notification.OrderID)
	assert.Equal(t, models.NotificationStatusPending, notification.Status)
	assert.Equal(t, order.OrderNumber, notification.Content["order_number"])
	assert.Equal(t, 1, notification.Content["item_count"])
}

func TestCreateOrderClearsCartAndDeliversNotification(t *testing.T) {
	product := testProduct("Running Shoes", 1999)
	cart := newTestCart(product)
	ctx := context.Background()
	_, err := cart.Add(ctx, "s1", product.ID, 1)
	require.NoError(t, err)

	notifier := newStubNotifier()
	svc := NewOrderService(&fakeOrderRepo{}, cart, notifier, testShipping())

	order, err := svc.CreateOrder(ctx, "s1", nil, validCheckoutRequest())
	require.NoError(t, err)

	assert.Empty(t, cart.List(ctx, "s1"))

	select {
	case notification := <-notifier.delivered:
		require.NotNil(t, notification.OrderID)
		assert.Equal(t, order.ID, *notification.OrderID)
	case <-time.After(time.Second):
		t.Fatal("notification delivery was not triggered")
	}
}

func TestCreateOrderStoreFailureLeavesCartIntact(t *testing.T) {
	product := testProduct("Running Shoes", 1999)
	cart := newTestCart(product)
	ctx := context.Background()
	_, err := cart.Add(ctx, "s1", product.ID, 1)
	require.NoError(t, err)

	repo := &fakeOrderRepo{saveErr: assert.AnError}
	svc := NewOrderService(repo, cart, newStubNotifier(), testShipping())

	_, err = svc.CreateOrder(ctx, "s1", nil, validCheckoutRequest())
	assert.True(t, IsKind(err, KindRemoteUnavailable))

	assert.Empty(t, repo.orders)
	assert.Empty(t, repo.notifications)
	assert.Len(t, cart.List(ctx, "s1"), 1)
}

func TestListOrdersNewestFirst(t *testing.T) {
	product := testProduct("Running Shoes", 1999)
	cart := newTestCart(product)
	ctx := context.Background()
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, cart, newStubNotifier(), testShipping())

	_, err := cart.Add(ctx, "s1", product.ID, 1)
	require.NoError(t, err)
	first, err := svc.CreateOrder(ctx, "s1", nil, validCheckoutRequest())
	require.NoError(t, err)

	_, err = cart.Add(ctx, "s1", product.ID, 2)
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, "s1", nil, validCheckoutRequest())
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, "s1", nil)
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestListOrdersScopedByUser(t *testing.T) {
	product := testProduct("Running Shoes", 1999)
	cart := newTestCart(product)
	ctx := context.Background()
	repo := &fakeOrderRepo{}
	svc := NewOrderService(repo, cart, newStubNotifier(), testShipping())

	userID := uuid.New()
	_, err := cart.Add(ctx, "s1", product.ID, 1)
	require.NoError(t, err)
	mine, err := svc.CreateOrder(ctx, "s1", &userID, validCheckoutRequest())
	require.NoError(t, err)

	_, err = cart.Add(ctx, "s2", product.ID, 1)
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, "s2", nil, validCheckoutRequest())
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, "", &userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	anonymous, err := svc.ListOrders(ctx, "s2", nil)
	require.NoError(t, err)
	assert.Len(t, anonymous, 1)
}

func TestGetOrderNotFound(t *testing.T) {
	svc := NewOrderService(&fakeOrderRepo{}, newTestCart(), newStubNotifier(), testShipping())

	_, err := svc.GetOrder(context.Background(), uuid.New())
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCreateOrderFailsWhenCartProductUnavailable(t *testing.T) {
	// The slot holds a line whose product the catalog no longer serves.
	cart := newTestCart()
	_, err := cart.Add(context.Background(), "s1", uuid.New(), 1)
	require.NoError(t, err)

	svc := NewOrderService(nil, cart, nil, testShipping())

	_, err = svc.CreateOrder(context.Background(), "s1", nil, validCheckoutRequest())
	assert.True(t, IsKind(err, KindRemoteUnavailable))

	// The failed checkout leaves the cart intact.
	assert.Len(t, cart.List(context.Background(), "s1"), 1)
}
