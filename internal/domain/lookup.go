package domain

// Lookup is a named reference row movies point at through a join table;
// genres and cast members share this shape.
type Lookup struct {
	ID   int32
	Name string
}
