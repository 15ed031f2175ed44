package export

import "context"

type AccountRepository interface {
	Create(ctx context.Context, newAccount Account) (Account, error)
	GetByID(ctx context.Context, tenantID, id string) (Account, error)
	List(ctx context.Context, tenantID string) ([]Account, error)
	ExistsByNumber(ctx context.Context, tenantID, number string, excludeID *string) (bool, error)
	Update(ctx context.Context, tenantID string, req UpdateAccountRequest) error
	Delete(ctx context.Context, tenantID, id string) error
	CountAssignments(ctx context.Context, tenantID, accountID string) (int64, error)
}

type InterfaceRepository interface {
	Create(ctx context.Context, newInterface Interface) (Interface, error)

	// GetByID loads the interface with its assignments ordered by position.
	GetByID(ctx context.Context, tenantID, id string) (Interface, error)

	List(ctx context.Context, tenantID string) ([]Interface, error)
	Update(ctx context.Context, tenantID string, req UpdateInterfaceRequest) error
	Delete(ctx context.Context, tenantID, id string) error

	// AddAssignment appends the account behind the current last position.
	AddAssignment(ctx context.Context, tenantID, interfaceID, accountID string) (Assignment, error)

	GetAssignment(ctx context.Context, tenantID, interfaceID, assignmentID string) (Assignment, error)
	ExistsAssignment(ctx context.Context, tenantID, interfaceID, accountID string) (bool, error)

	// RemoveAssignment deletes the assignment and compacts the positions
	// of the remaining ones.
	RemoveAssignment(ctx context.Context, tenantID, interfaceID, assignmentID string) error

	// ReplaceAssignments atomically swaps the full ordered assignment
	// for the given account list.
	ReplaceAssignments(ctx context.Context, tenantID, interfaceID string, accountIDs []string) error

	// SwapPositions exchanges the positions of two assignments.
	SwapPositions(ctx context.Context, tenantID, interfaceID, firstID, secondID string) error

	// GetNeighbor returns the assignment directly before (up) or after
	// (down) the given position, or ErrAssignmentNotFound at the edge.
	GetNeighbor(ctx context.Context, tenantID, interfaceID string, position int, direction string) (Assignment, error)
}

type RunRepository interface {
	Create(ctx context.Context, newRun Run) (Run, error)
	GetByID(ctx context.Context, tenantID, id string) (Run, error)
	ListByInterface(ctx context.Context, tenantID, interfaceID string) ([]Run, error)
}
