package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishop-io/ishop-backend/internal/domain/cart"
	"github.com/ishop-io/ishop-backend/internal/domain/catalog"
	"github.com/ishop-io/ishop-backend/internal/domain/customer"
	"github.com/ishop-io/ishop-backend/internal/domain/order"
)

// --- Mock implementations ---

type mockCatalogRepo struct {
	products []catalog.Product
	listErr  error
}

func (m *mockCatalogRepo) List(_ context.Context) ([]catalog.Product, error) {
	return m.products, m.listErr
}

func (m *mockCatalogRepo) ListByCategory(_ context.Context, category string) ([]catalog.Product, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []catalog.Product
	for _, p := range m.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) FindByRefs(_ context.Context, refs []catalog.Ref) ([]catalog.Product, error) {
	primary, numeric, legacy := catalog.Partition(refs)
	if len(primary) == 0 && len(numeric) == 0 && len(legacy) == 0 {
		return nil, catalog.ErrNoRefs
	}

	var out []catalog.Product
	for _, p := range m.products {
		for _, r := range refs {
			if matchesKey(p, r.Raw) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (m *mockCatalogRepo) Resolve(_ context.Context, raw string) (*catalog.Product, error) {
	for i := range m.products {
		if matchesKey(m.products[i], raw) {
			return &m.products[i], nil
		}
	}
	return nil, catalog.ErrNotFound
}

func matchesKey(p catalog.Product, raw string) bool {
	if p.ID != "" && p.ID == raw {
		return true
	}
	if p.LegacyID != nil && strconv.FormatInt(*p.LegacyID, 10) == raw {
		return true
	}
	return p.LegacyCode != "" && p.LegacyCode == raw
}

type mockCategoryRepo struct {
	categories []catalog.Category
	err        error
}

func (m *mockCategoryRepo) List(_ context.Context) ([]catalog.Category, error) {
	return m.categories, m.err
}

type mockCustomerRepo struct {
	customers []customer.Customer
	lastReg   *customer.Customer
	err       error
}

func (m *mockCustomerRepo) Register(_ context.Context, c *customer.Customer) error {
	m.lastReg = c
	return m.err
}

func (m *mockCustomerRepo) List(_ context.Context) ([]customer.Customer, error) {
	return m.customers, m.err
}

type mockCartRepo struct {
	items    []cart.Item
	lastUser string
	lastProd string
	lastQty  int64
	err      error
}

func (m *mockCartRepo) AddItem(_ context.Context, userID, productID string, qty int64) error {
	m.lastUser, m.lastProd, m.lastQty = userID, productID, qty
	return m.err
}

func (m *mockCartRepo) ListByUser(_ context.Context, _ string) ([]cart.Item, error) {
	return m.items, m.err
}

type mockOrderRepo struct {
	lastOrder   *order.Order
	createCalls int
	err         error
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) error {
	m.createCalls++
	m.lastOrder = o
	return m.err
}

// --- Helpers ---

type testEnv struct {
	catalog   *mockCatalogRepo
	category  *mockCategoryRepo
	customers *mockCustomerRepo
	carts     *mockCartRepo
	orders    *mockOrderRepo
	router    chi.Router
}

func newTestEnv(products ...catalog.Product) *testEnv {
	env := &testEnv{
		catalog:   &mockCatalogRepo{products: products},
		category:  &mockCategoryRepo{},
		customers: &mockCustomerRepo{},
		carts:     &mockCartRepo{},
		orders:    &mockOrderRepo{},
	}
	h := New(env.catalog, env.category, env.customers, env.carts, order.NewService(env.catalog, env.orders))
	env.router = chi.NewRouter()
	h.Routes(env.router)
	return env
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body == "" {
		reqBody = bytes.NewBuffer(nil)
	} else {
		reqBody = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reqBody)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func int64Ptr(n int64) *int64 { return &n }

func priced(s string) catalog.Price {
	return catalog.PriceFrom(decimal.RequireFromString(s))
}

// --- Product endpoints ---

func TestListProducts(t *testing.T) {
	env := newTestEnv(
		catalog.Product{ID: "66f1a2b3c4d5e6f708192a3b", Title: "Earbuds", Category: "electronics", Price: priced("79.99")},
		catalog.Product{ID: "5", LegacyID: int64Ptr(5), Title: "French Press", Category: "home", Price: priced("9.99")},
	)

	rec := env.do(t, http.MethodGet, "/getproducts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "66f1a2b3c4d5e6f708192a3b", products[0]["_id"])
	assert.Equal(t, 79.99, products[0]["price"])
	assert.Equal(t, float64(5), products[1]["id"])
}

func TestListProducts_OmitsUnparseablePrice(t *testing.T) {
	env := newTestEnv(catalog.Product{ID: "b1", Title: "Corrupt", Price: catalog.InvalidPrice()})

	rec := env.do(t, http.MethodGet, "/getproducts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	_, hasPrice := products[0]["price"]
	assert.False(t, hasPrice)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(catalog.Product{ID: "5", LegacyID: int64Ptr(5), Title: "French Press", Price: priced("9.99")})

	rec := env.do(t, http.MethodGet, "/products/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "French Press", decodeBody(t, rec)["title"])
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/products/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decodeBody(t, rec)["error"])
}

func TestListCategories(t *testing.T) {
	env := newTestEnv()
	env.category.categories = []catalog.Category{{ID: "home", Name: "Home & Kitchen"}}

	rec := env.do(t, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []catalog.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, "Home & Kitchen", categories[0].Name)
}

func TestListProductsByCategory(t *testing.T) {
	env := newTestEnv(
		catalog.Product{ID: "a", Title: "Earbuds", Category: "electronics", Price: priced("79.99")},
		catalog.Product{ID: "b", Title: "Mug", Category: "home", Price: priced("12")},
	)

	rec := env.do(t, http.MethodGet, "/categories/home", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0]["title"])
}

func TestListProducts_StoreError(t *testing.T) {
	env := newTestEnv()
	env.catalog.listErr = errors.New("connection reset")

	rec := env.do(t, http.MethodGet, "/getproducts", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", decodeBody(t, rec)["error"])
}

// --- Order endpoint ---

func TestCreateOrder_Success(t *testing.T) {
	env := newTestEnv(catalog.Product{ID: "5", LegacyID: int64Ptr(5), Title: "French Press", Price: priced("9.99")})

	rec := env.do(t, http.MethodPost, "/createorder", `{
		"userId": "user-1",
		"items": [{"productId": 5, "qty": 2}],
		"subtotal": 19.98
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Order created", body["message"])
	assert.NotEmpty(t, body["orderId"])

	require.Equal(t, 1, env.orders.createCalls)
	assert.Equal(t, body["orderId"], env.orders.lastOrder.ID)
	assert.True(t, env.orders.lastOrder.Subtotal.Equal(decimal.RequireFromString("19.98")))
}

func TestCreateOrder_MalformedBody(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/createorder", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid payload: items required", body["message"])
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/createorder", `{"items": []}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid payload: items required", decodeBody(t, rec)["message"])
	assert.Zero(t, env.orders.createCalls)
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/createorder", `{"items": [{"productId": "66f1a2b3c4d5e6f708192a3b"}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product not found: 66f1a2b3c4d5e6f708192a3b", decodeBody(t, rec)["message"])
	assert.Zero(t, env.orders.createCalls)
}

func TestCreateOrder_NonIntegerNumericID(t *testing.T) {
	env := newTestEnv(catalog.Product{ID: "1", LegacyID: int64Ptr(5), Title: "Widget", Price: priced("9.99")})

	// "5.5" is numeric but matches no integer legacy id; the store rejects
	// the emptied lookup criteria and the client still gets a 400.
	rec := env.do(t, http.MethodPost, "/createorder", `{"items": [{"productId": "5.5"}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product not found: 5.5", decodeBody(t, rec)["message"])
	assert.Zero(t, env.orders.createCalls)
}

func TestCreateOrder_SubtotalMismatch(t *testing.T) {
	env := newTestEnv(catalog.Product{ID: "1", LegacyID: int64Ptr(1), Title: "Widget", Price: priced("50.30")})

	rec := env.do(t, http.MethodPost, "/createorder", `{
		"items": [{"productId": 1, "qty": 1}],
		"subtotal": 100
	}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Subtotal mismatch", decodeBody(t, rec)["message"])
}

func TestCreateOrder_PriceIntegrityFault(t *testing.T) {
	env := newTestEnv(catalog.Product{ID: "7", LegacyID: int64Ptr(7), Title: "Corrupt", Price: catalog.InvalidPrice()})

	rec := env.do(t, http.MethodPost, "/createorder", `{"items": [{"productId": 7}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server product price error", decodeBody(t, rec)["message"])
	assert.Zero(t, env.orders.createCalls)
}

func TestCreateOrder_PersistError(t *testing.T) {
	env := newTestEnv(catalog.Product{ID: "5", LegacyID: int64Ptr(5), Title: "French Press", Price: priced("9.99")})
	env.orders.err = errors.New("insert failed")

	rec := env.do(t, http.MethodPost, "/createorder", `{"items": [{"productId": 5}]}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

// --- Customer endpoints ---

func TestRegisterCustomer(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/customerregister", `{
		"UserId": "u1",
		"FirstName": "Ada",
		"LastName": "Lovelace",
		"DateOfBirth": "1815-12-10",
		"Email": "ada@example.com"
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Customer registered", decodeBody(t, rec)["message"])

	require.NotNil(t, env.customers.lastReg)
	assert.Equal(t, "Ada", env.customers.lastReg.FirstName)
	require.NotNil(t, env.customers.lastReg.DateOfBirth)
	assert.Equal(t, 1815, env.customers.lastReg.DateOfBirth.Year())
}

func TestRegisterCustomer_UnparseableDateStoredAsNull(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/customerregister", `{"UserId": "u1", "DateOfBirth": "next tuesday"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.customers.lastReg)
	assert.Nil(t, env.customers.lastReg.DateOfBirth)
}

func TestRegisterCustomer_StoreError(t *testing.T) {
	env := newTestEnv()
	env.customers.err = errors.New("insert failed")

	rec := env.do(t, http.MethodPost, "/customerregister", `{"UserId": "u1"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Registration failed", decodeBody(t, rec)["error"])
}

func TestListCustomers(t *testing.T) {
	env := newTestEnv()
	env.customers.customers = []customer.Customer{{UserID: "u1", FirstName: "Ada"}}

	rec := env.do(t, http.MethodGet, "/getcustomers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var customers []customer.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, "Ada", customers[0].FirstName)
}

// --- Cart endpoints ---

func TestAddToCart(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/addtocart", `{"userId": "u1", "productId": 5, "qty": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Cart updated", body["message"])

	assert.Equal(t, "u1", env.carts.lastUser)
	assert.Equal(t, "5", env.carts.lastProd)
	assert.Equal(t, int64(3), env.carts.lastQty)
}

func TestAddToCart_QtyDefaultsToOne(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/addtocart", `{"userId": "u1", "productId": "5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.carts.lastQty)
}

func TestAddToCart_MissingKeys(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/addtocart", `{"userId": "u1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "userId and productId required", decodeBody(t, rec)["message"])
}

func TestGetCart_EmptyIsArray(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/getcart/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestGetCart(t *testing.T) {
	env := newTestEnv()
	env.carts.items = []cart.Item{{UserID: "u1", ProductID: "5", Qty: 2}}

	rec := env.do(t, http.MethodGet, "/getcart/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []cart.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Qty)
}
