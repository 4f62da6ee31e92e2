package permissions

// Canonical capability tokens used by the CRM backend. The gate itself is
// token-agnostic; these constants just keep call sites typo-free.
const (
	LeadsRead  = "leads:read"
	LeadsWrite = "leads:write"

	InquiriesRead  = "inquiries:read"
	InquiriesWrite = "inquiries:write"

	ClientsRead  = "clients:read"
	ClientsWrite = "clients:write"

	UsersRead   = "users:read"
	UsersManage = "users:manage"

	ProductsRead  = "products:read"
	ProductsWrite = "products:write"

	DocumentsRead  = "documents:read"
	DocumentsWrite = "documents:write"

	ReportsRead     = "reports:read"
	ReportsGenerate = "reports:generate"

	AttendanceRead = "attendance:read"
	AttendanceMark = "attendance:mark"
)
