package domain

import "context"

// Repositories return the matching Err*NotFound sentinel when a record is
// missing and ErrEmailTaken on a duplicate user email. Lists are newest first.

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*Product, error)
	FindByNameAndOwner(ctx context.Context, name, createdBy string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (*Product, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, st Status) (*Order, error)
	Delete(ctx context.Context, id string) error
}

type ContactRepository interface {
	Create(ctx context.Context, m *ContactMessage) error
	List(ctx context.Context) ([]ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, st ContactStatus) (*ContactMessage, error)
}

// Store bundles one backend's repositories.
type Store struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
	Contacts ContactRepository
}

// TxRunner is implemented by backends that can run several repository calls
// atomically. fn receives a Store bound to the transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
