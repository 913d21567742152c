// Package diagnostic provides structured errors, warnings and notes
// collected while loading and validating mapping schemas.
//
// Key capabilities:
//   - Target syntax errors with the schema and path they occurred at
//   - Conflicting registrations (leaf versus nested entry for one key)
//   - Targets that no registered type, function or alias resolves
package diagnostic
