// Package selgo provides an embeddable multi-group point-selection engine for Go.
//
// Selgo turns a sequence of user selection gestures (each a set of hit point
// indices plus a modifier combination) into a persistent partition of a
// fixed-size point set into ordered, numbered groups. It is the selection
// core of an interactive scatter-plot view, kept free of any rendering,
// hit-testing, or input-device concepts.
//
// # Quick Start
//
//	eng := selgo.New()
//	_ = eng.Resize(150)
//
//	// Plain gesture: start a fresh partition, everything hit becomes group 1.
//	_ = eng.Apply(hitset.Range(0, 5), selgo.ModNone)
//
//	// Shift: open a new numbered group for points not yet selected.
//	_ = eng.Apply(hitset.Range(5, 10), selgo.ModShift)
//
//	// Shift+Ctrl: continue the brush stroke, extending the last group.
//	_ = eng.Apply(hitset.Range(10, 12), selgo.ModShiftCtrl)
//
//	// Alt: erase, leaving the numbering of untouched points alone.
//	_ = eng.Apply(hitset.Of(7), selgo.ModAlt)
//
//	labels := eng.GroupLabels()   // 0 = unselected, k >= 1 = group k
//	rows := eng.SelectedIndices() // ascending original indices
//
// # Gesture Semantics
//
// Four modifier combinations are recognized; anything else must be normalized
// at the boundary via NormalizeModifiers before it reaches the engine:
//
//   - ModNone: hard reset. All groups vanish, hits become group 1.
//   - ModShift: new group. Unlabeled hits get lastGroup+1.
//   - ModAlt: erase. Hit labels reset to 0, numbering untouched.
//   - ModShiftCtrl: extend. Unlabeled hits join the last group.
//
// Group labels are never compacted eagerly: an Alt removal may leave a group
// empty, but renumbering happens only through the next ModNone reset. This
// keeps the "last group" stable so a later ModShiftCtrl stroke extends the
// right group.
//
// # Key Features
//
//   - Deterministic gesture replay (journal package)
//   - Undo/redo of gestures via bounded snapshot history
//   - Binary snapshots with CRC32 integrity and lz4 compression (snapshot package)
//   - Cloud-native snapshot storage (S3/MinIO via blobstore)
//   - Categorical export views for annotated/reduced data output (export package)
//
// # Concurrency
//
// The engine assumes exclusive, serialized access from one logical caller:
// gestures arrive from a single UI event stream. It performs no internal
// locking; Resize must never race with Apply.
package selgo
