package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizconsole/internal/domain/documents"
	"bizconsole/internal/domain/reports"
	"bizconsole/internal/infrastructure/numerator"
	"bizconsole/internal/infrastructure/storage/memory"
	"bizconsole/pkg/logger"
)

type fakeRenderer struct{}

func (fakeRenderer) Render(_ context.Context, doc documents.Document) ([]byte, error) {
	return []byte("%PDF " + doc.Number), nil
}

func (fakeRenderer) ContentType() string { return "application/pdf" }

type testServer struct {
	router      *gin.Engine
	persistence *memory.Store
	quotations  *documents.Store
	invoices    *documents.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	persistence := memory.New()
	gen := numerator.NewMemory()

	newStore := func(kind documents.Kind) *documents.Store {
		store, err := documents.NewStore(ctx, documents.StoreConfig{
			Kind:        kind,
			Persistence: persistence,
			Numerator:   gen,
		})
		require.NoError(t, err)
		return store
	}

	srv := &testServer{
		persistence: persistence,
		quotations:  newStore(documents.KindQuotation),
		invoices:    newStore(documents.KindInvoice),
	}
	srv.router = NewRouter(RouterConfig{
		Logger:     logger.Nop(),
		Quotations: srv.quotations,
		Invoices:   srv.invoices,
		Reports:    reports.NewService(srv.quotations, srv.invoices),
		Renderer:   fakeRenderer{},
		Backend:    "memory",
	})
	return srv
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func invoiceBody() map[string]any {
	return map[string]any{
		"customer":        "Acme",
		"project":         "Website",
		"issueDate":       "2026-01-10",
		"dueOrValidDate":  "2026-02-10",
		"items":           []map[string]any{{"service": "Design", "quantity": 2, "rate": 100}},
		"taxPercent":      10,
		"discountPercent": "5",
	}
}

func TestDocuments_CreateComputesTotals(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/invoices", invoiceBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decode(t, w)
	assert.Equal(t, "invoice", got["kind"])
	assert.Equal(t, "draft", got["status"])
	assert.Regexp(t, `^INV-\d{4}-00001$`, got["documentNumber"])
	assert.EqualValues(t, 200, got["subtotal"])
	assert.EqualValues(t, 20, got["taxAmount"])
	assert.EqualValues(t, 10, got["discountAmount"])
	assert.EqualValues(t, 210, got["total"])
	assert.Equal(t, "2026-02-10", got["dueOrValidDate"])
}

func TestDocuments_CreateRejectsMissingCustomer(t *testing.T) {
	srv := newTestServer(t)

	body := invoiceBody()
	body["customer"] = "   "
	w := srv.do(t, http.MethodPost, "/api/v1/quotations", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["code"])
	assert.Empty(t, srv.quotations.List(context.Background()))
}

func TestDocuments_ListSearchAndStatus(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/v1/invoices", invoiceBody()).Code)
	other := invoiceBody()
	other["customer"] = "Globex"
	w := srv.do(t, http.MethodPost, "/api/v1/invoices", other)
	require.Equal(t, http.StatusCreated, w.Code)
	globexID := decode(t, w)["id"].(string)

	w = srv.do(t, http.MethodPut, "/api/v1/invoices/"+globexID+"/status", map[string]any{"status": "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", decode(t, w)["status"])

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 2},
		{"search customer", "?search=acme", 1},
		{"status filter", "?status=paid", 1},
		{"status filter mixed case", "?status=Paid", 1},
		{"status filter padded", "?status=%20PAID%20", 1},
		{"no match", "?search=initech", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, "/api/v1/invoices"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			got := decode(t, w)
			assert.EqualValues(t, tt.want, got["totalCount"])
			assert.Len(t, got["items"], tt.want)
		})
	}

	w = srv.do(t, http.MethodGet, "/api/v1/invoices?status=accepted", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocuments_StatusOutsideVocabulary(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/quotations", invoiceBody())
	require.Equal(t, http.StatusCreated, w.Code)
	docID := decode(t, w)["id"].(string)

	w = srv.do(t, http.MethodPut, "/api/v1/quotations/"+docID+"/status", map[string]any{"status": "paid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocuments_UpdateAndDelete(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/invoices", invoiceBody())
	require.Equal(t, http.StatusCreated, w.Code)
	docID := decode(t, w)["id"].(string)

	w = srv.do(t, http.MethodPut, "/api/v1/invoices/"+docID, map[string]any{"taxPercent": 0, "discountPercent": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)
	assert.EqualValues(t, 200, got["total"])
	assert.EqualValues(t, 2, got["version"])

	w = srv.do(t, http.MethodDelete, "/api/v1/invoices/"+docID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/invoices/"+docID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodPut, "/api/v1/invoices/"+docID, map[string]any{"notes": "late"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodDelete, "/api/v1/invoices/"+docID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocuments_PersistenceFailureKeepsDocument(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/invoices", invoiceBody())
	require.Equal(t, http.StatusCreated, w.Code)
	savedID := decode(t, w)["id"].(string)

	srv.persistence.FailWith(errors.New("disk full"))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"create", http.MethodPost, "/api/v1/invoices", invoiceBody()},
		{"update", http.MethodPut, "/api/v1/invoices/" + savedID, map[string]any{"notes": "net 30"}},
		{"set status", http.MethodPut, "/api/v1/invoices/" + savedID + "/status", map[string]any{"status": "sent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())

			got := decode(t, w)
			assert.Equal(t, "PERSISTENCE_FAILURE", got["code"])
			details := got["details"].(map[string]any)
			assert.Equal(t, "invoices", details["collection"])
			doc, ok := details["document"].(map[string]any)
			require.True(t, ok, "failure must carry the document")
			assert.NotEmpty(t, doc["id"])
			assert.Regexp(t, `^INV-\d{4}-\d{5}$`, doc["documentNumber"])
		})
	}

	list := srv.invoices.List(context.Background())
	require.Len(t, list, 2)
	assert.Equal(t, documents.StatusSent, list[0].Status)
	assert.Equal(t, "net 30", list[0].Notes)

	w = srv.do(t, http.MethodDelete, "/api/v1/invoices/"+savedID, nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	details := decode(t, w)["details"].(map[string]any)
	assert.Equal(t, savedID, details["id"])
	assert.Equal(t, true, details["removed"])
	assert.Len(t, srv.invoices.List(context.Background()), 1)
}

func TestDocuments_InvalidID(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/v1/invoices/INV-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocuments_PDF(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/invoices", invoiceBody())
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)

	w = srv.do(t, http.MethodGet, "/api/v1/invoices/"+created["id"].(string)+"/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), created["documentNumber"].(string)+".pdf")
}

func TestReports_SummaryAndAging(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/v1/invoices", invoiceBody()).Code)
	quotation := invoiceBody()
	quotation["status"] = "sent"
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/api/v1/quotations", quotation).Code)

	w := srv.do(t, http.MethodGet, "/api/v1/reports/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode(t, w)
	invoices := summary["invoices"].(map[string]any)
	assert.EqualValues(t, 210, invoices["outstanding"])
	assert.EqualValues(t, 1, invoices["unpaid"])
	quotations := summary["quotations"].(map[string]any)
	assert.EqualValues(t, 210, quotations["pendingValue"])

	w = srv.do(t, http.MethodGet, "/api/v1/reports/invoice-aging?asOf=2026-03-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	aging := decode(t, w)
	assert.Equal(t, "2026-03-01", aging["asOf"])
	assert.EqualValues(t, 210, aging["totalOutstanding"])

	w = srv.do(t, http.MethodGet, "/api/v1/reports/invoice-aging?asOf=03/01/2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := srv.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, hasStats := decode(t, w)["stats"]
	assert.False(t, hasStats)

	tests := []struct {
		name  string
		check error
		want  int
	}{
		{"healthy", nil, http.StatusOK},
		{"down", errors.New("down"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(RouterConfig{
				Logger:     logger.Nop(),
				Backend:    "postgres",
				ReadyCheck: func(context.Context) error { return tt.check },
				ReadyStats: func() any { return map[string]any{"acquired": 3, "saturated": false} },
			})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tt.want, w.Code)

			stats := decode(t, w)["stats"].(map[string]any)
			pool := stats["postgres"].(map[string]any)
			assert.EqualValues(t, 3, pool["acquired"])
		})
	}
}
