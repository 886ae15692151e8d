// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxJSONBody bounds every JSON request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MultipartOverhead is allowed on top of the file size for the
	// boundaries and form fields of an image upload.
	MultipartOverhead = 1 << 20 // 1 MB
)
