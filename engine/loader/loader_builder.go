package loader

// LoaderBuilderOption configures a loader during construction.
type LoaderBuilderOption func(*loader)

// WithTangentGeneration enables or disables generating tangents for
// primitives whose source file has no TANGENT accessor.
//
// Parameters:
//   - enabled: true to generate missing tangents (default), false to leave
//     the fallback tangent in place
//
// Returns:
//   - LoaderBuilderOption: functional option to set tangent generation
func WithTangentGeneration(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.generateTangents = enabled
	}
}
