package providers

import (
	"context"
	"io"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
)

// Body is a transport-ready request body, e.g. an encoded multipart payload
type Body interface {
	// ContentType returns the value for the Content-Type header
	ContentType() string
	// Open returns a fresh reader over the body; it may be called more than once
	Open() (io.Reader, error)
}

// ProductStore defines the remote operations on products
type ProductStore interface {
	ListProducts(ctx context.Context) ([]entities.Product, error)
	CreateProduct(ctx context.Context, body Body) (*entities.Product, error)
	UpdateProduct(ctx context.Context, id string, body Body) (*entities.Product, error)
	DeleteProduct(ctx context.Context, id string) (string, error)
}

// CategoryStore defines the remote operations on categories
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]entities.Category, error)
	CreateCategory(ctx context.Context, name string) (*entities.Category, error)
	UpdateCategory(ctx context.Context, id, name string) (*entities.Category, error)
	DeleteCategory(ctx context.Context, id string) (string, error)
}

// BlogStore defines the remote operations on blog posts
type BlogStore interface {
	ListBlogs(ctx context.Context) ([]entities.BlogPost, error)
	UpdateBlog(ctx context.Context, id string, body Body) (*entities.BlogPost, error)
	DeleteBlog(ctx context.Context, id string) (string, error)
}

// ContactStore defines the remote operations on contact messages
type ContactStore interface {
	ListContacts(ctx context.Context) ([]entities.ContactMessage, error)
	DeleteContact(ctx context.Context, id string) (string, error)
}

// Authenticator exchanges operator credentials for a store-issued session token
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}
