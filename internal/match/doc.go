// Package match ranks registered names by similarity to an unknown one.
//
// Key functions:
//   - Normalize: folds case and drops separators before comparing
//   - Levenshtein: computes edit distance between strings
//   - Suggest: picks the closest candidates for "did you mean" hints
package match
