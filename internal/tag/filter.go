package tag

import "github.com/samber/lo"

// Tagged is anything carrying tag ids.
type Tagged interface {
	TagIDs() []string
}

// FilterByTags keeps items carrying any of tagIDs, or all of them when matchAll is set.
// An empty tagIDs returns items unchanged.
func FilterByTags[T Tagged](items []T, tagIDs []string, matchAll bool) []T {
	if len(tagIDs) == 0 {
		return items
	}
	return lo.Filter(items, func(item T, _ int) bool {
		tags := item.TagIDs()
		if len(tags) == 0 {
			return false
		}
		if matchAll {
			return lo.Every(tags, tagIDs)
		}
		return lo.Some(tags, tagIDs)
	})
}
