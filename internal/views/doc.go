// Package views derives explanation views from one horizon's loaded artifacts.
//
// Every function here is pure: it reads the immutable Dataset and Attribution
// and returns a fresh value. Callers resolve names to positions with the
// index package first.
//
// Derivations:
//   - Instance: one school's waterfall of contributions
//   - Scatter: one feature's value against its contribution for every school
//   - Importance: mean absolute contribution per feature
//   - Predictions: every school's predicted income, highest first
package views
