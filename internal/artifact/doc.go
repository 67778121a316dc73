// Package artifact loads and memoizes the per-horizon datasets and SHAP
// attribution artifacts that explanations are derived from.
//
// For each outcome horizon (6 or 10 years after entry) a Store reads five
// CSV tables (full imputed features, train and test splits, and their
// targets) plus one JSON attribution artifact through a storage.Reader.
// The first successful load of a horizon is cached for the life of the
// process. Concurrent first loads share a single storage read.
//
// Loaded values are immutable. Callers receive shared pointers and must not
// modify them.
package artifact
