package export

import "context"

// ExportService manages wage accounts, export interfaces and payroll
// export runs.
type ExportService interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (AccountResponse, error)
	ListAccounts(ctx context.Context) ([]AccountResponse, error)
	UpdateAccount(ctx context.Context, req UpdateAccountRequest) (AccountResponse, error)
	DeleteAccount(ctx context.Context, id string) error

	CreateInterface(ctx context.Context, req CreateInterfaceRequest) (InterfaceResponse, error)
	GetInterface(ctx context.Context, id string) (InterfaceResponse, error)
	ListInterfaces(ctx context.Context) ([]InterfaceResponse, error)
	UpdateInterface(ctx context.Context, req UpdateInterfaceRequest) (InterfaceResponse, error)
	DeleteInterface(ctx context.Context, id string) error

	// AddAssignment appends an account to the interface's export order.
	AddAssignment(ctx context.Context, interfaceID string, req AddAssignmentRequest) (InterfaceResponse, error)

	// ReplaceAssignments overwrites the export order with the given
	// ordered account list in one call.
	ReplaceAssignments(ctx context.Context, interfaceID string, req ReplaceAssignmentsRequest) (InterfaceResponse, error)

	// RemoveAssignment drops an account from the interface's export order.
	RemoveAssignment(ctx context.Context, interfaceID, assignmentID string) (InterfaceResponse, error)

	// MoveAssignment shifts an assignment one position up or down.
	// Moving past the edge of the list is a no-op.
	MoveAssignment(ctx context.Context, interfaceID, assignmentID string, req MoveAssignmentRequest) (InterfaceResponse, error)

	// Run executes a payroll export for one month. Employees whose month
	// is not closed are skipped. The CSV file is persisted and the run
	// recorded.
	Run(ctx context.Context, req RunExportRequest) (RunResponse, error)

	// ListRuns returns the recorded runs of one interface, newest first.
	ListRuns(ctx context.Context, interfaceID string) ([]RunResponse, error)

	// DownloadRun returns the stored CSV of a past run.
	DownloadRun(ctx context.Context, runID string) ([]byte, string, error)

	// TimesheetCSV renders one employee's calculated month as a CSV
	// document for download.
	TimesheetCSV(ctx context.Context, employeeID, month string) ([]byte, string, error)
}
