package economy

// Visible reports whether p may be shown and purchased. Producers without a
// positive threshold are always visible.
func Visible(p Producer, visible map[string]struct{}) bool {
	if p.UnlockThreshold <= 0 {
		return true
	}
	_, ok := visible[p.ID]
	return ok
}

// ApplyUnlocks adds every producer whose threshold has been reached to the
// visible set and returns the newly added ids. It never removes ids.
func ApplyUnlocks(producers []Producer, resources float64, visible map[string]struct{}) []string {
	var added []string
	for _, p := range producers {
		if p.UnlockThreshold <= 0 {
			continue
		}
		if _, ok := visible[p.ID]; ok {
			continue
		}
		if resources >= p.UnlockThreshold {
			visible[p.ID] = struct{}{}
			added = append(added, p.ID)
		}
	}
	return added
}
