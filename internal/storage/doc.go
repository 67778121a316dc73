// Package storage reads artifact files by key from a local directory,
// process memory, or an S3 compatible bucket.
//
// Keys are slash separated relative paths such as "models/shap_values6.json".
// A missing key is reported as ErrNotFound by every driver.
package storage
