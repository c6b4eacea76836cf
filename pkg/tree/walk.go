package tree

import "sort"

// ChildRows returns the visible children of r.
func ChildRows(r Row) []Row {
	switch r := r.(type) {
	case *SheetRow:
		out := make([]Row, len(r.Children))
		for i, c := range r.Children {
			out[i] = c
		}
		return out
	case *ObjectRow:
		return propRows(r.Children)
	case *CompoundPropRow:
		return propRows(r.Children)
	}
	return nil
}

func propRows(children []PropRow) []Row {
	out := make([]Row, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

// Walk visits r and its descendants depth-first in emission order. If fn
// returns false the children of that row are skipped.
func Walk(r Row, fn func(Row) bool) {
	if !fn(r) {
		return
	}
	for _, c := range ChildRows(r) {
		Walk(c, fn)
	}
}

// Flatten returns every row in emission order. For a tree returned by
// [Build], Flatten(root)[i].RowHeader().Index == i.
func Flatten(root Row) []Row {
	var out []Row
	Walk(root, func(r Row) bool {
		out = append(out, r)
		return true
	})
	return out
}

// Count returns the number of rows in the tree.
func Count(root Row) int {
	n := 0
	Walk(root, func(Row) bool { n++; return true })
	return n
}

// RowByIndex finds the row with the given index. Subtrees whose index range
// cannot contain i are skipped.
func RowByIndex(root Row, i int) (Row, bool) {
	var found Row
	Walk(root, func(r Row) bool {
		if found != nil {
			return false
		}
		h := r.RowHeader()
		if h.Index == i {
			found = r
			return false
		}
		return h.Index < i
	})
	return found, found != nil
}

// RowAt returns the row whose own header covers the vertical offset y.
// rows must be in emission order, as returned by [Flatten].
func RowAt(rows []Row, y float64) (Row, bool) {
	// Last row starting at or above y.
	i := sort.Search(len(rows), func(i int) bool { return rows[i].RowHeader().Top > y }) - 1
	for ; i >= 0; i-- {
		h := rows[i].RowHeader()
		if h.OwnHeight == 0 {
			continue
		}
		if y >= h.Top && y < h.Top+h.OwnHeight {
			return rows[i], true
		}
		break
	}
	return nil, false
}

// Window returns the rows whose own header intersects [top, bottom).
func Window(rows []Row, top, bottom float64) []Row {
	var out []Row
	for _, r := range rows {
		h := r.RowHeader()
		if h.OwnHeight == 0 {
			continue
		}
		if h.Top >= bottom {
			break
		}
		if h.Top+h.OwnHeight > top {
			out = append(out, r)
		}
	}
	return out
}
