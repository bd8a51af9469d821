package validate

import "sort"

func sortErrors(errs []Error) {
	sort.Slice(errs, func(i, j int) bool {
		a, b := errs[i], errs[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		if a.OperationName != b.OperationName {
			return a.OperationName < b.OperationName
		}
		return a.FieldName < b.FieldName
	})
}

func sortMissing(m []MissingFragment) {
	sort.Slice(m, func(i, j int) bool {
		a, b := m[i], m[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.FragmentName < b.FragmentName
	})
}
