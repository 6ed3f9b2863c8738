package manifest

// Merge layers from on top of into and returns the result; neither argument
// is modified.
//
// Only one level is merged: a key holding a table on both sides has its
// entries combined, with from's entries winning. A sub-table nested inside
// such a table is replaced as a whole. A key holding a non-table value on both
// sides is replaced. A table meeting a non-table is a *MergeConflictError.
func Merge(into, from Table) (Table, error) {
	out := make(Table, len(into)+len(from))
	for k, v := range into {
		if t, ok := asTable(v); ok {
			v = cloneMap(t)
		}
		out[k] = v
	}

	for k, v := range from {
		cur, exists := out[k]
		if !exists {
			if t, ok := asTable(v); ok {
				v = cloneMap(t)
			}
			out[k] = v
			continue
		}

		fromT, fromIsTable := asTable(v)
		intoT, intoIsTable := asTable(cur)
		switch {
		case fromIsTable && intoIsTable:
			for kk, vv := range fromT {
				intoT[kk] = vv
			}
		case fromIsTable != intoIsTable:
			return nil, &MergeConflictError{Key: k}
		default:
			out[k] = v
		}
	}
	return out, nil
}
