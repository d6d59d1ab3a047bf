package catalog

import (
	"context"

	"github.com/google/uuid"
)

// The catalog and the operator directory belong to subsystems outside this
// core. They are consumed strictly through these read-only ports.

// Product is the read model returned by the product lookup
type Product struct {
	ID         uuid.UUID
	Name       string
	CategoryID uuid.UUID
}

// Category is the read model returned by the category lookup
type Category struct {
	ID   uuid.UUID
	Name string
}

// Operator is an opaque actor reference used for stamping transitions
type Operator struct {
	ID   uuid.UUID
	Name string
}

// ProductLookup resolves products by id
type ProductLookup interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
}

// CategoryLookup resolves categories by id
type CategoryLookup interface {
	CategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
}

// OperatorDirectory resolves operators by id
type OperatorDirectory interface {
	OperatorByID(ctx context.Context, id uuid.UUID) (*Operator, error)
}

// Reader bundles the read-only collaborator lookups used by display queries
type Reader interface {
	ProductLookup
	CategoryLookup
}
