package pipeline

// mergeByID overlays updated records on previous ones keyed by scene id,
// emitting them in the given declaration order. Previously stored records
// whose scene no longer appears in order keep a slot at the tail so a
// filtered regeneration never loses data.
func mergeByID[T any](previous, updated []T, order []string, id func(T) string) []T {
	byID := make(map[string]T, len(previous)+len(updated))
	for _, record := range previous {
		byID[id(record)] = record
	}
	for _, record := range updated {
		byID[id(record)] = record
	}

	merged := make([]T, 0, len(byID))
	seen := make(map[string]struct{}, len(byID))
	for _, sceneID := range order {
		if record, ok := byID[sceneID]; ok {
			merged = append(merged, record)
			seen[sceneID] = struct{}{}
		}
	}
	for _, record := range previous {
		if _, ok := seen[id(record)]; !ok {
			merged = append(merged, record)
		}
	}
	return merged
}
