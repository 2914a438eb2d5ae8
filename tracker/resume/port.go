package resume

import (
	"context"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
)

// Repository reads resume records
type Repository interface {
	GetByID(ctx context.Context, id kernel.ResumeID) (*Resume, error)
	ListByUser(ctx context.Context, userID kernel.UserID, opts kernel.PaginationOptions) (*kernel.Paginated[Resume], error)
}
