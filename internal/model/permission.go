package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionInvoicesRead allows viewing invoice lists and details.
	PermissionInvoicesRead Permission = "invoices:read"

	// PermissionInvoicesWrite allows creating and updating invoices.
	PermissionInvoicesWrite Permission = "invoices:write"

	// PermissionInvoicesSubmit allows submitting invoices for approval.
	PermissionInvoicesSubmit Permission = "invoices:submit"

	// PermissionApprovalsAct allows approving or rejecting pending invoices.
	PermissionApprovalsAct Permission = "approvals:act"

	// PermissionContractorsRead allows viewing contractors.
	PermissionContractorsRead Permission = "contractors:read"

	// PermissionContractorsWrite allows creating, updating, and deleting contractors.
	PermissionContractorsWrite Permission = "contractors:write"

	// PermissionEmployeesRead allows viewing employee lists and details.
	PermissionEmployeesRead Permission = "employees:read"

	// PermissionEmployeesWrite allows creating, updating, and deleting employees.
	PermissionEmployeesWrite Permission = "employees:write"

	// PermissionReferencesRead allows viewing reference data (roles, statuses, types).
	PermissionReferencesRead Permission = "references:read"

	// PermissionReferencesWrite allows editing reference data.
	PermissionReferencesWrite Permission = "references:write"

	// PermissionRoutesRead allows viewing approval routes and their stages.
	PermissionRoutesRead Permission = "routes:read"

	// PermissionRoutesWrite allows editing approval routes and their stages.
	PermissionRoutesWrite Permission = "routes:write"

	// PermissionDocumentsUpload allows uploading invoice documents.
	PermissionDocumentsUpload Permission = "documents:upload"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionInvoicesRead,
	PermissionInvoicesWrite,
	PermissionInvoicesSubmit,
	PermissionApprovalsAct,
	PermissionContractorsRead,
	PermissionContractorsWrite,
	PermissionEmployeesRead,
	PermissionEmployeesWrite,
	PermissionReferencesRead,
	PermissionReferencesWrite,
	PermissionRoutesRead,
	PermissionRoutesWrite,
	PermissionDocumentsUpload,
}
