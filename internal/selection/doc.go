// Package selection turns a (view, horizon, parameters) selection into a view.
//
// The Controller validates the horizon before touching storage, loads the
// horizon's artifacts through the artifact store, resolves names through the
// index package and hands positions to the views package. Errors from those
// packages reach the caller unchanged so that surfaces can map them:
//
//	*artifact.InvalidHorizonError  horizon outside {6, 10}
//	*artifact.LoadError            artifacts missing or malformed
//	*index.UnknownSchoolError      school not in the horizon
//	*index.UnknownFeatureError     feature not in the horizon
//	*index.DuplicateKeyError       school stored on several rows
//	*UnknownViewError              view kind not recognised
//
// No default school or feature is ever substituted for a failed lookup.
package selection
