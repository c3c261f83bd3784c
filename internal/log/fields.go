package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldQuery        = "query"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldUserAgent    = "user_agent"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldProjectID    = "project_id"
	FieldTaskID       = "task_id"
	FieldSubTaskID    = "sub_task_id"
	FieldPeriod       = "period"
	FieldYear         = "year"
	FieldMonth        = "month"
	FieldCategoryCode = "category_code"
	FieldActivityCode = "activity_code"
	FieldNodeCount    = "node_count"
	FieldSheetsRef    = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentCatalog  = "catalog"
	ComponentProgress = "progress"
	ComponentReport   = "report"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
	ComponentCache    = "cache"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpBind     = "bind"
	OpRecord   = "record"
	OpImport   = "import"
	OpExport   = "export"
	OpSync     = "sync"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
