package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	adaptershttp "github.com/adelh/branchcash/internal/adapter/http"
	"github.com/adelh/branchcash/internal/adapter/http/handler"
	"github.com/adelh/branchcash/internal/adapter/repository/postgres"
	"github.com/adelh/branchcash/internal/usecase"
	"github.com/adelh/branchcash/tests/testutil"
)

// testAPI bundles the HTTP router with the repositories behind it so
// tests can assert on persisted state directly.
type testAPI struct {
	router       http.Handler
	branchRepo   *postgres.BranchRepository
	movementRepo *postgres.MovementRepository
}

func newTestAPI(t *testing.T, testDB *testutil.TestDB) *testAPI {
	t.Helper()

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	idGen := postgres.NewULIDGenerator()

	ledgerUC := usecase.NewLedgerUseCase(txManager, branchRepo, movementRepo, idGen)
	movementUC := usecase.NewMovementUseCase(movementRepo)
	dailyUC := usecase.NewDailyCashUseCase(txManager, ledgerUC)

	tolerance, _ := decimal.NewFromString(usecase.DefaultReconcileTolerance)
	reconcileUC := usecase.NewReconciliationUseCase(branchRepo, movementRepo, tolerance)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		MovementHandler:  handler.NewMovementHandler(ledgerUC, movementUC),
		DailyHandler:     handler.NewDailyHandler(dailyUC),
		ReconcileHandler: handler.NewReconcileHandler(reconcileUC, nil, time.Hour),
		HealthHandler:    handler.NewHealthHandler(pool, nil),
	})

	return &testAPI{
		router:       router,
		branchRepo:   branchRepo,
		movementRepo: movementRepo,
	}
}

func (api *testAPI) do(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, body)
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, r)

	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}

	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
