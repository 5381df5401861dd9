// Package hitset provides the hit-index set delivered by a selection gesture.
//
// A gesture source computes which points a gesture struck (geometric
// hit-testing, outside this module's scope) and hands the result to the
// selection engine as a Set. Sets are backed by Roaring Bitmaps so large
// rectangle or lasso hits stay compact.
package hitset
