package merge

// Mergeable is a CRDT that can absorb another instance of its own type.
type Mergeable[T any] interface {
	Merge(other T)
	Clone() T
}

// BatchMerge folds items into a copy of the first one. Inputs are not
// modified.
func BatchMerge[T Mergeable[T]](items []T) (T, error) {
	if len(items) == 0 {
		var zero T
		return zero, ErrEmptyBatch
	}

	result := items[0].Clone()
	for _, item := range items[1:] {
		result.Merge(item)
	}
	return result, nil
}
