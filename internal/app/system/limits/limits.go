// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxComplaintBodySize is the default cap on a create request body.
	// Overridden by the max_body_bytes setting.
	MaxComplaintBodySize = 1 << 20 // 1 MB
)
