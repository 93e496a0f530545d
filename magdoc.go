// Package magdoc turns magazine article pages into validated, strongly typed
// articles ready for rendering. It walks the markup of an article page,
// classifies each node as a kind of editorial content, repairs footnotes the
// markup failed to tag, normalises header anomalies and finally validates the
// assembled article as a whole.
//
// This package contains domain types, interfaces and the pure classification
// engine following Ben Johnson's Standard Package Layout. Implementations that
// depend on third-party libraries live in subdirectories named after their
// primary dependency (e.g., goquery/, sqlite/, rod/).
package magdoc
