// Package watch re-runs the layout filter whenever the input document
// changes on disk. Rapid events are debounced so that an editor save or a
// dump tool writing in several chunks triggers a single run.
package watch
