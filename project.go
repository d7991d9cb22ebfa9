package query

// Project returns a new handle over R2 with the same criteria and a copy of
// the cursor of h. The columns selected are derived from R2 by MapperFor.
// h is left untouched.
func Project[R2, R any](h *Handle[R]) (*Handle[R2], error) {
	m, err := MapperFor[R2]()
	if err != nil {
		return nil, err
	}
	return ProjectWith(h, m), nil
}

// ProjectWith returns a new handle over R2 mapped by m, with the same
// criteria and a copy of the cursor of h. The row count is recomputed by
// the new handle.
func ProjectWith[R2, R any](h *Handle[R], m Mapper[R2]) *Handle[R2] {
	return &Handle[R2]{
		session:  h.session,
		criteria: h.criteria,
		mapper:   m,
		cursor:   h.cursor.Clone(),
	}
}
