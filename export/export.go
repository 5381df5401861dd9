// Package export builds output views from a group-selection state.
//
// Two views are provided, matching the two downstream outputs of a selection
// widget: an annotated view that appends a categorical "selection group"
// column to every row of the original data, and a reduced view limited to
// the selected rows, preserving original row order.
package export

import "fmt"

// Annotation is a categorical selection-group column.
//
// Row values index into the category list: category 0 ("No") is the
// unselected state, categories 1..k are the selection groups. The list
// always has max(2, lastGroup+1) entries, so even an empty selection
// produces a well-formed two-valued categorical.
type Annotation struct {
	categories []string
	values     []int32
}

// Annotate builds the selection-group column for a label buffer.
//
// labels is the per-point buffer as returned by Engine.GroupLabels, lastGroup
// the numbering high-water mark as returned by Engine.LastGroup. With at most
// one group the column collapses to a boolean "No"/"Yes" categorical; with
// several groups the categories are "No", "G1", ..., "Gk".
func Annotate(labels []int32, lastGroup int32) *Annotation {
	var categories []string
	if lastGroup <= 1 {
		categories = []string{"No", "Yes"}
	} else {
		categories = make([]string, lastGroup+1)
		categories[0] = "No"
		for g := int32(1); g <= lastGroup; g++ {
			categories[g] = fmt.Sprintf("G%d", g)
		}
	}

	values := make([]int32, len(labels))
	copy(values, labels)

	return &Annotation{
		categories: categories,
		values:     values,
	}
}

// Len returns the number of rows.
func (a *Annotation) Len() int {
	return len(a.values)
}

// Categories returns the distinct category names, category 0 first.
func (a *Annotation) Categories() []string {
	out := make([]string, len(a.categories))
	copy(out, a.categories)
	return out
}

// Value returns the category index of row i.
func (a *Annotation) Value(i int) int32 {
	return a.values[i]
}

// Category returns the category name of row i.
func (a *Annotation) Category(i int) string {
	return a.categories[a.values[i]]
}

// Values returns a copy of the per-row category indices.
func (a *Annotation) Values() []int32 {
	out := make([]int32, len(a.values))
	copy(out, a.values)
	return out
}

// SelectedRows returns the indices of all selected rows (nonzero label) in
// ascending original order.
func SelectedRows(labels []int32) []int {
	var out []int
	for i, g := range labels {
		if g != 0 {
			out = append(out, i)
		}
	}
	return out
}

// Rows returns the selected rows of data, preserving original row order.
// data and labels must have the same length.
func Rows[T any](data []T, labels []int32) []T {
	var out []T
	for i, g := range labels {
		if g != 0 {
			out = append(out, data[i])
		}
	}
	return out
}
