// Package index resolves school and feature names to row and column
// positions inside one horizon's loaded artifacts.
//
// Lookups are exact and case-sensitive. A school name stored on more than one
// row is reported as a DuplicateKeyError rather than resolved to the first match.
package index
