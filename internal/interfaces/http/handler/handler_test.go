package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hms/backend/internal/application/ledger"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/domain/shared"
	"github.com/hms/backend/internal/interfaces/http/dto"
	"github.com/hms/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockBillService implements BillService for testing
type MockBillService struct {
	mock.Mock
}

func (m *MockBillService) CreateBill(ctx context.Context, actor audit.Actor, cmd ledger.CreateBillCommand) (*ledger.BillResponse, error) {
	args := m.Called(ctx, actor, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BillResponse), args.Error(1)
}

func (m *MockBillService) DecideBillApproval(ctx context.Context, actor audit.Actor, billID uuid.UUID, cmd ledger.DecideBillApprovalCommand) (*ledger.BillResponse, error) {
	args := m.Called(ctx, actor, billID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BillResponse), args.Error(1)
}

func (m *MockBillService) FinalizeBill(ctx context.Context, actor audit.Actor, billID uuid.UUID, cmd ledger.FinalizeBillCommand) (*ledger.BillResponse, error) {
	args := m.Called(ctx, actor, billID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BillResponse), args.Error(1)
}

func (m *MockBillService) CancelBill(ctx context.Context, actor audit.Actor, billID uuid.UUID) (*ledger.BillResponse, error) {
	args := m.Called(ctx, actor, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BillResponse), args.Error(1)
}

func (m *MockBillService) ProcessSalesReturn(ctx context.Context, actor audit.Actor, billID uuid.UUID, cmd ledger.ProcessSalesReturnCommand) (*ledger.SalesReturnResponse, error) {
	args := m.Called(ctx, actor, billID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.SalesReturnResponse), args.Error(1)
}

func (m *MockBillService) ListSalesReturns(ctx context.Context, billID uuid.UUID) ([]ledger.SalesReturnResponse, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.SalesReturnResponse), args.Error(1)
}

func (m *MockBillService) GetBill(ctx context.Context, billID uuid.UUID) (*ledger.BillResponse, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.BillResponse), args.Error(1)
}

func (m *MockBillService) ListBills(ctx context.Context, f ledger.BillListFilter) (shared.Paginated[ledger.BillResponse], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(shared.Paginated[ledger.BillResponse]), args.Error(1)
}

var nurse = audit.Actor{ID: "u-100", Name: "Asha Menon"}

func newBillRouter(svc BillService) *gin.Engine {
	h := NewBillHandler(svc)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequireActor())
	r.POST("/bills", h.Create)
	r.GET("/bills", h.List)
	r.GET("/bills/:id", h.Get)
	r.POST("/bills/:id/finalize", h.Finalize)
	r.POST("/bills/:id/returns", h.CreateReturn)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.UserIDHeader, nurse.ID)
	req.Header.Set(middleware.UserNameHeader, nurse.Name)
	req.Header.Set(middleware.RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

const validBill = `{"customer":{"type":"WALK_IN","name":"Walk-in"},"items":[{"item_code":"MED001","batch_number":"B1","quantity":5}],"payment_method":"CASH"}`

func TestBillHandler_Create(t *testing.T) {
	t.Run("passes the actor and answers 201", func(t *testing.T) {
		svc := new(MockBillService)
		billID := uuid.New()
		svc.On("CreateBill", mock.Anything, nurse, mock.MatchedBy(func(cmd ledger.CreateBillCommand) bool {
			return cmd.Items[0].ItemCode == "MED001" && cmd.Items[0].Quantity == 5
		})).Return(&ledger.BillResponse{ID: billID, Status: "FINALIZED"}, nil)

		w := do(newBillRouter(svc), http.MethodPost, "/bills", validBill)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decode(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, billID.String(), resp.Data.(map[string]any)["id"])
		svc.AssertExpectations(t)
	})

	t.Run("invalid body never reaches the ledger", func(t *testing.T) {
		svc := new(MockBillService)
		w := do(newBillRouter(svc), http.MethodPost, "/bills",
			`{"customer":{"type":"WALK_IN","name":"x"},"items":[{"item_code":"MED001","batch_number":"B1","quantity":0}],"payment_method":"CHEQUE"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		fields := map[string]bool{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = true
		}
		assert.True(t, fields["payment_method"])
		assert.True(t, fields["items[0].quantity"])
		svc.AssertNotCalled(t, "CreateBill", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := do(newBillRouter(new(MockBillService)), http.MethodPost, "/bills", `{"items":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decode(t, w).Error.Code)
	})
}

func TestBillHandler_ErrorMapping(t *testing.T) {
	billID := uuid.New()
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"bill not found", shared.Errorf(shared.ErrNotFound, "bill %s not found", billID), http.StatusNotFound, "NOT_FOUND"},
		{"batch not found", shared.ErrBatchNotFound, http.StatusNotFound, "BATCH_NOT_FOUND"},
		{"invalid transition", shared.ErrInvalidTransition, http.StatusUnprocessableEntity, "INVALID_TRANSITION"},
		{"insufficient stock", shared.Errorf(shared.ErrInsufficientStock, "only 3 units of MED001/B1"), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"wrapped domain error", errors.Join(errors.New("tx"), shared.ErrInvalidTransition), http.StatusUnprocessableEntity, "INVALID_TRANSITION"},
		{"infrastructure error", errors.New("database is locked"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockBillService)
			svc.On("FinalizeBill", mock.Anything, nurse, billID, ledger.FinalizeBillCommand{PaymentMethod: "CARD"}).
				Return(nil, tt.err)

			w := do(newBillRouter(svc), http.MethodPost, "/bills/"+billID.String()+"/finalize", `{"payment_method":"CARD"}`)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			if tt.code == "INTERNAL_ERROR" {
				assert.NotContains(t, w.Body.String(), "database is locked")
			}
		})
	}
}

func TestBillHandler_PathAndQuery(t *testing.T) {
	t.Run("malformed bill id", func(t *testing.T) {
		w := do(newBillRouter(new(MockBillService)), http.MethodGet, "/bills/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decode(t, w).Error.Code)
	})

	t.Run("list carries pagination meta", func(t *testing.T) {
		svc := new(MockBillService)
		svc.On("ListBills", mock.Anything, ledger.BillListFilter{Status: "FINALIZED", Page: 2, PageSize: 10}).
			Return(shared.NewPaginated([]ledger.BillResponse{{Status: "FINALIZED"}}, 11, 2, 10), nil)

		w := do(newBillRouter(svc), http.MethodGet, "/bills?status=FINALIZED&page=2&page_size=10", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(11), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		w := do(newBillRouter(new(MockBillService)), http.MethodGet, "/bills?status=PAID", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decode(t, w).Error.Code)
	})

	t.Run("return quantities are forwarded", func(t *testing.T) {
		svc := new(MockBillService)
		billID := uuid.New()
		svc.On("ProcessSalesReturn", mock.Anything, nurse, billID, ledger.ProcessSalesReturnCommand{
			Items: []ledger.ReturnLineCommand{{LineNo: 1, Quantity: 2}},
		}).Return(&ledger.SalesReturnResponse{BillID: billID, BillStatus: "RETURNED"}, nil)

		w := do(newBillRouter(svc), http.MethodPost, "/bills/"+billID.String()+"/returns",
			`{"items":[{"line_no":1,"quantity":2}]}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})
}

func TestHealthHandler(t *testing.T) {
	run := func(checks map[string]HealthCheck) (*httptest.ResponseRecorder, map[string]any) {
		r := gin.New()
		r.GET("/health", NewHealthHandler(checks).Check)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return w, body
	}

	t.Run("healthy", func(t *testing.T) {
		w, body := run(map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("one failing dependency", func(t *testing.T) {
		w, body := run(map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("connection refused") },
		})
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", body["status"])
		deps := body["dependencies"].(map[string]any)
		assert.Equal(t, "ok", deps["database"])
		assert.Equal(t, "error", deps["redis"])
	})
}
