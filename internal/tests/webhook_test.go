package tests

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"vpay/internal/domain"
	"vpay/internal/handler"
	"vpay/internal/service"
)

// ──────────────────────────────────────────────
// WEBHOOK VERIFICATION
// ──────────────────────────────────────────────

const merchantSecret = "merchant-secret"

func notificationBody(orderID, secret, status string) []byte {
	return []byte(fmt.Sprintf(
		`{"data":{"internalTransactionId":%q,"secretKey":%q,"status":%q}}`,
		orderID, secret, status,
	))
}

func newWebhookFixture() (*MockOrderRepository, *MockCartStore, *service.WebhookService) {
	journal := &CallJournal{}
	orderRepo := NewMockOrderRepository()
	orderRepo.Journal = journal
	carts := NewMockCartStore()
	carts.Journal = journal
	svc := service.NewWebhookService(orderRepo, carts, merchantSecret)
	return orderRepo, carts, svc
}

func TestWebhook_ValidNotificationFinalizesOrder(t *testing.T) {
	t.Parallel()

	orderRepo, carts, svc := newWebhookFixture()
	orderRepo.AddOrder(pendingOrder("order-1"))

	err := svc.HandleNotification(context.Background(), notificationBody("order-1", merchantSecret, "completed"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if orderRepo.MarkPaidCallCount != 1 || orderRepo.ReduceStockCallCount != 1 || carts.EmptyCartCallCount != 1 {
		t.Errorf("expected exactly one of each mutation, got paid=%d stock=%d cart=%d",
			orderRepo.MarkPaidCallCount, orderRepo.ReduceStockCallCount, carts.EmptyCartCallCount)
	}

	want := []string{"MarkPaid", "ReduceStock", "EmptyCart"}
	if got := orderRepo.Journal.Calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("mutation order = %v, want %v", got, want)
	}

	order := orderRepo.GetOrder("order-1")
	if order.Status != domain.OrderStatusPaid {
		t.Errorf("expected order PAID, got %s", order.Status)
	}
	if !order.StockReduced {
		t.Error("expected stock reduced")
	}
}

func TestWebhook_SecretMismatchDiscarded(t *testing.T) {
	t.Parallel()

	orderRepo, carts, svc := newWebhookFixture()
	orderRepo.AddOrder(pendingOrder("order-1"))

	err := svc.HandleNotification(context.Background(), notificationBody("order-1", "forged-secret", "completed"))
	if !errors.Is(err, service.ErrSecretMismatch) {
		t.Errorf("expected ErrSecretMismatch, got %v", err)
	}

	assertNoMutations(t, orderRepo, carts)
}

func TestWebhook_NonCompletedStatusIgnored(t *testing.T) {
	t.Parallel()

	orderRepo, carts, svc := newWebhookFixture()
	orderRepo.AddOrder(pendingOrder("order-1"))

	for _, status := range []string{"pending", "failed", "COMPLETED", ""} {
		err := svc.HandleNotification(context.Background(), notificationBody("order-1", merchantSecret, status))
		if !errors.Is(err, service.ErrIgnoredStatus) {
			t.Errorf("status %q: expected ErrIgnoredStatus, got %v", status, err)
		}
	}

	assertNoMutations(t, orderRepo, carts)
}

func TestWebhook_UnknownOrderDiscarded(t *testing.T) {
	t.Parallel()

	orderRepo, carts, svc := newWebhookFixture()

	err := svc.HandleNotification(context.Background(), notificationBody("missing", merchantSecret, "completed"))
	if !errors.Is(err, service.ErrUnknownOrder) {
		t.Errorf("expected ErrUnknownOrder, got %v", err)
	}

	assertNoMutations(t, orderRepo, carts)
}

func TestWebhook_MalformedBodyDiscarded(t *testing.T) {
	t.Parallel()

	orderRepo, carts, svc := newWebhookFixture()
	orderRepo.AddOrder(pendingOrder("order-1"))

	bodies := [][]byte{
		[]byte("{not json"),
		[]byte(`{}`),
		[]byte(`{"data":{"secretKey":"merchant-secret","status":"completed"}}`),
	}

	for _, body := range bodies {
		err := svc.HandleNotification(context.Background(), body)
		if !errors.Is(err, service.ErrMalformedNotification) {
			t.Errorf("body %s: expected ErrMalformedNotification, got %v", body, err)
		}
	}

	assertNoMutations(t, orderRepo, carts)
}

func TestWebhook_NumericTransactionIDAccepted(t *testing.T) {
	t.Parallel()

	orderRepo, _, svc := newWebhookFixture()
	orderRepo.AddOrder(pendingOrder("42"))

	body := []byte(`{"data":{"internalTransactionId":42,"secretKey":"merchant-secret","status":"completed"}}`)
	if err := svc.HandleNotification(context.Background(), body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if orderRepo.GetOrder("42").Status != domain.OrderStatusPaid {
		t.Error("expected order 42 to be paid")
	}
}

// Duplicate deliveries are NOT deduplicated: the finalization sequence runs
// once per valid notification. Asserts current behavior; a hardened rewrite
// would make this idempotent.
func TestWebhook_DuplicateDeliveryRunsSequenceTwice(t *testing.T) {
	t.Parallel()

	orderRepo, carts, svc := newWebhookFixture()
	orderRepo.AddOrder(pendingOrder("order-1"))

	body := notificationBody("order-1", merchantSecret, "completed")
	if err := svc.HandleNotification(context.Background(), body); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := svc.HandleNotification(context.Background(), body); err != nil {
		t.Fatalf("second delivery: %v", err)
	}

	if orderRepo.MarkPaidCallCount != 2 || orderRepo.ReduceStockCallCount != 2 || carts.EmptyCartCallCount != 2 {
		t.Errorf("expected each mutation twice, got paid=%d stock=%d cart=%d",
			orderRepo.MarkPaidCallCount, orderRepo.ReduceStockCallCount, carts.EmptyCartCallCount)
	}
}

// A failure mid-sequence leaves earlier mutations applied; there is no
// rollback.
func TestWebhook_PartialFailureLeavesEarlierMutations(t *testing.T) {
	t.Parallel()

	orderRepo, carts, svc := newWebhookFixture()
	orderRepo.AddOrder(pendingOrder("order-1"))
	orderRepo.ReduceStockError = errors.New("stock service down")

	err := svc.HandleNotification(context.Background(), notificationBody("order-1", merchantSecret, "completed"))
	if err == nil {
		t.Fatal("expected error from failed stock reduction")
	}

	if orderRepo.MarkPaidCallCount != 1 {
		t.Errorf("expected mark-paid to have run, got %d calls", orderRepo.MarkPaidCallCount)
	}
	if carts.EmptyCartCallCount != 0 {
		t.Errorf("expected cart untouched after stock failure, got %d calls", carts.EmptyCartCallCount)
	}
	if orderRepo.GetOrder("order-1").Status != domain.OrderStatusPaid {
		t.Error("mark-paid mutation should stand despite later failure")
	}
}

func assertNoMutations(t *testing.T, orderRepo *MockOrderRepository, carts *MockCartStore) {
	t.Helper()
	if orderRepo.MarkPaidCallCount != 0 || orderRepo.ReduceStockCallCount != 0 || carts.EmptyCartCallCount != 0 {
		t.Errorf("expected zero mutations, got paid=%d stock=%d cart=%d",
			orderRepo.MarkPaidCallCount, orderRepo.ReduceStockCallCount, carts.EmptyCartCallCount)
	}
}

// ──────────────────────────────────────────────
// WEBHOOK HTTP CONTRACT
// ──────────────────────────────────────────────

func TestWebhookEndpoint_StatusCodes(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid notification", string(notificationBody("order-1", merchantSecret, "completed")), http.StatusOK},
		{"unparseable body", "{not json", http.StatusBadRequest},
		{"missing transaction id", `{"data":{"secretKey":"merchant-secret","status":"completed"}}`, http.StatusBadRequest},
		{"secret mismatch", string(notificationBody("order-1", "forged", "completed")), http.StatusOK},
		{"unknown order", string(notificationBody("missing", merchantSecret, "completed")), http.StatusOK},
		{"ignored status", string(notificationBody("order-1", merchantSecret, "pending")), http.StatusOK},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			orderRepo, _, svc := newWebhookFixture()
			orderRepo.AddOrder(pendingOrder("order-1"))

			router := gin.New()
			router.POST("/webhook", handler.NewWebhookHandler(svc).Handle)

			req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
		})
	}
}
