// Package explorer renders explanation views for terminals.
//
// Render and its per-view helpers produce styled text for the roictl
// "text" output format. Model is a BubbleTea program that browses schools,
// horizons and views interactively over the same selection surface.
package explorer
