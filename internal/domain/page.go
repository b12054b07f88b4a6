package domain

// Page is one page of feed results. NextCursor is an opaque token for the
// following page; empty means the result set is exhausted.
type Page[T any] struct {
	Items      []T
	NextCursor string
}
