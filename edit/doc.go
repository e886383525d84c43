// Package edit implements bulk editing of datapoints as text.
//
// WriteBuffer renders datapoints as blocks of "field: value" lines, ReadBuffer parses them back after the user
// edited them, Reconcile works out which datapoints to delete, update and create, and Plan.Apply performs those
// operations, stopping at the first remote failure.
package edit // import "github.com/nicolagi/beeminder/edit"
