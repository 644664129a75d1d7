// Package markers keeps the set of reference images ("markers") in sync with
// a watched collection.
//
// A Registry scans a Collection and maintains one Marker per entry. Each scan
// is a refresh pass: entries that disappeared are unloaded, entries whose
// modification stamp advanced are reloaded, new entries are loaded and the
// rest are left alone. Scans are idempotent, and a failure to load a single
// entry is reported and retried on the next scan without aborting the pass.
//
// A Marker's pixels are the fixed inner crop of its source image with alpha
// dropped. The matcher records where it last found each marker; a pass that
// misses the marker leaves the previous region in place, and LastRegion
// reports which pass produced it.
package markers
