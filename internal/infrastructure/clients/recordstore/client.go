// Package recordstore talks to the remote catalog record store over HTTP.
// Every operation is a single request/response exchange; nothing is retried.
package recordstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/editor/submission"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// Endpoint templates, relative to the store base URL
const (
	RouteListProducts   = "/api/products/getall"
	RouteCreateProduct  = "/api/products/add"
	RouteUpdateProduct  = "/api/products/update/{id}"
	RouteDeleteProduct  = "/api/products/delete/{id}"
	RouteListCategories = "/api/categories/getall"
	RouteCreateCategory = "/api/categories/add"
	RouteUpdateCategory = "/api/categories/update/{id}"
	RouteDeleteCategory = "/api/categories/delete/{id}"
	RouteListBlogs      = "/api/blogs/getall"
	RouteUpdateBlog     = "/api/blogs/update/{id}"
	RouteDeleteBlog     = "/api/blogs/delete/{id}"
	RouteListContacts   = "/api/contact/getallcontacts"
	RouteDeleteContact  = "/api/contact/delete/{id}"
	RouteLogin          = "/api/auth/login"
)

// Client is the full record store surface
type Client interface {
	providers.ProductStore
	providers.CategoryStore
	providers.BlogStore
	providers.ContactStore
	providers.Authenticator
}

// HTTPClient implements Client against the store's REST API
type HTTPClient struct {
	baseURL    string
	loginPath  string
	httpClient *http.Client
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = d
	}
}

// WithTransport sets the round tripper used for every request
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) {
		c.httpClient.Transport = rt
	}
}

// WithLoginPath overrides the operator login endpoint
func WithLoginPath(path string) Option {
	return func(c *HTTPClient) {
		if path != "" {
			c.loginPath = path
		}
	}
}

// NewClient creates a record store client
func NewClient(baseURL string, opts ...Option) *HTTPClient {
	trimmed := strings.TrimRight(baseURL, "/")
	c := &HTTPClient{
		baseURL:   trimmed,
		loginPath: RouteLogin,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the store address attachment references resolve against
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) ListProducts(ctx context.Context) ([]entities.Product, error) {
	var out []entities.Product
	if err := c.list(ctx, RouteListProducts, []string{"data", "products"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateProduct(ctx context.Context, body providers.Body) (*entities.Product, error) {
	out := &entities.Product{}
	if err := c.mutate(ctx, http.MethodPost, RouteCreateProduct, "", body, "product", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, id string, body providers.Body) (*entities.Product, error) {
	out := &entities.Product{}
	if err := c.mutate(ctx, http.MethodPut, RouteUpdateProduct, id, body, "product", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, id string) (string, error) {
	return c.delete(ctx, RouteDeleteProduct, id)
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]entities.Category, error) {
	var out []entities.Category
	if err := c.list(ctx, RouteListCategories, []string{"data", "categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateCategory(ctx context.Context, name string) (*entities.Category, error) {
	body, err := submission.EncodeCategory(name)
	if err != nil {
		return nil, err
	}
	out := &entities.Category{}
	if err := c.mutate(ctx, http.MethodPost, RouteCreateCategory, "", body, "category", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateCategory(ctx context.Context, id, name string) (*entities.Category, error) {
	body, err := submission.EncodeCategory(name)
	if err != nil {
		return nil, err
	}
	out := &entities.Category{}
	if err := c.mutate(ctx, http.MethodPut, RouteUpdateCategory, id, body, "category", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, id string) (string, error) {
	return c.delete(ctx, RouteDeleteCategory, id)
}

func (c *HTTPClient) ListBlogs(ctx context.Context) ([]entities.BlogPost, error) {
	var out []entities.BlogPost
	if err := c.list(ctx, RouteListBlogs, []string{"posts", "data"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) UpdateBlog(ctx context.Context, id string, body providers.Body) (*entities.BlogPost, error) {
	out := &entities.BlogPost{}
	if err := c.mutate(ctx, http.MethodPut, RouteUpdateBlog, id, body, "post", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) DeleteBlog(ctx context.Context, id string) (string, error) {
	return c.delete(ctx, RouteDeleteBlog, id)
}

func (c *HTTPClient) ListContacts(ctx context.Context) ([]entities.ContactMessage, error) {
	var out []entities.ContactMessage
	if err := c.list(ctx, RouteListContacts, []string{"data", "contacts"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) DeleteContact(ctx context.Context, id string) (string, error) {
	return c.delete(ctx, RouteDeleteContact, id)
}

// Login exchanges operator credentials for a session token
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	body, err := submission.NewJSONBody(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		Token string `json:"token"`
		Data  struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	raw, err := c.do(ctx, http.MethodPost, c.loginPath, c.loginPath, body)
	if err != nil {
		return "", err
	}
	if err := decodeInto(raw, &out); err != nil {
		return "", err
	}

	token := out.Token
	if token == "" {
		token = out.Data.Token
	}
	if token == "" {
		return "", apperrors.NewUnauthorizedError("record store issued no session token")
	}
	return token, nil
}

func (c *HTTPClient) list(ctx context.Context, route string, keys []string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, route, route, nil)
	if err != nil {
		return err
	}
	return decodeList(raw, keys, out)
}

func (c *HTTPClient) mutate(ctx context.Context, method, route, id string, body providers.Body, key string, out any) error {
	path, err := expand(route, id)
	if err != nil {
		return err
	}
	raw, err := c.do(ctx, method, route, path, body)
	if err != nil {
		return err
	}
	return decodeRecord(raw, key, out)
}

func (c *HTTPClient) delete(ctx context.Context, route, id string) (string, error) {
	path, err := expand(route, id)
	if err != nil {
		return "", err
	}
	raw, err := c.do(ctx, http.MethodDelete, route, path, nil)
	if err != nil {
		return "", err
	}
	return decodeMessage(raw, "deleted"), nil
}

func expand(route, id string) (string, error) {
	if !strings.Contains(route, "{id}") {
		return route, nil
	}
	if strings.TrimSpace(id) == "" {
		return "", apperrors.NewValidationError("record id is required", "id")
	}
	return strings.Replace(route, "{id}", url.PathEscape(id), 1), nil
}

// do performs one exchange and returns the raw response body of a
// successful call. Failures are mapped onto the error taxonomy.
func (c *HTTPClient) do(ctx context.Context, method, route, path string, body providers.Body) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		r, err := body.Open()
		if err != nil {
			return nil, fmt.Errorf("open request body: %w", err)
		}
		reader = r
	}

	httpReq, err := http.NewRequestWithContext(withRoute(ctx, route), method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", body.ContentType())
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewTransportError(
			fmt.Sprintf("%s %s failed", method, route), 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.NewTransportError(
			fmt.Sprintf("read %s %s response", method, route), resp.StatusCode, err)
	}

	if err := classify(resp.StatusCode, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

var _ Client = (*HTTPClient)(nil)
