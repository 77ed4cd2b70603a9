package models

// ImportWarning is a non-fatal issue found while importing one row.
type ImportWarning struct {
	Row    int    `json:"row"` // 1-based data row, header excluded
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// CreatedProduct identifies a product inserted by an import run.
type CreatedProduct struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ImportResult summarises a committed import run.
type ImportResult struct {
	CreatedCount int              `json:"createdCount"`
	Created      []CreatedProduct `json:"created"`
	Warnings     []ImportWarning  `json:"warnings"`
}

// CreatedIDs returns the ids of every created product.
func (r *ImportResult) CreatedIDs() []uint {
	ids := make([]uint, 0, len(r.Created))
	for _, c := range r.Created {
		ids = append(ids, c.ID)
	}
	return ids
}
