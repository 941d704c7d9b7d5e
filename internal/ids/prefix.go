package ids

import (
	"sort"
	"strings"
)

// UniquePrefixLengths maps each ID (lowercased) to the length of its
// shortest prefix that no other ID in the set shares. Duplicates and
// empty strings are dropped.
func UniquePrefixLengths(all []string) map[string]int {
	seen := make(map[string]bool, len(all))
	unique := make([]string, 0, len(all))
	for _, id := range all {
		lower := strings.ToLower(id)
		if lower == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		unique = append(unique, lower)
	}
	sort.Strings(unique)

	// In sorted order, an ID's longest shared prefix is with one of its
	// immediate neighbors, so only those two need checking.
	lengths := make(map[string]int, len(unique))
	for i, id := range unique {
		shared := 0
		if i > 0 {
			shared = commonPrefixLen(id, unique[i-1])
		}
		if i < len(unique)-1 {
			if n := commonPrefixLen(id, unique[i+1]); n > shared {
				shared = n
			}
		}
		length := shared + 1
		if length > len(id) {
			length = len(id)
		}
		lengths[id] = length
	}
	return lengths
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
