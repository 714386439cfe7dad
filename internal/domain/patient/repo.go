package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the durable store for patient records. It owns the
// email-uniqueness invariant: implementations must reject a write that
// would leave two records with the same email.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	Update(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ExistsByEmailExcluding reports whether a record other than id holds
	// the email; updates use it to avoid matching the record being updated.
	ExistsByEmailExcluding(ctx context.Context, email string, id uuid.UUID) (bool, error)
}
