// Package board implements content-aware deletion protection for
// protected record stores: loosely-structured task-board files whose
// tracked records must not silently disappear during an edit.
package board

import "regexp"

// idField matches a record-identifier field: a key named exactly "id"
// followed by a colon and a quoted string value. Keys that merely end
// in "id" (taskId, uuid) do not count.
var idField = regexp.MustCompile(`"id"\s*:\s*"([^"]*)"`)

// ExtractIDs scans raw text and returns the set of record identifiers
// it contains. This is deliberately not a structural parse: the store
// may be large, mid-edit, or partially malformed, and the scan must
// still work. Text outside the scanned pattern is ignored.
func ExtractIDs(text string) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, m := range idField.FindAllStringSubmatch(text, -1) {
		ids[m[1]] = struct{}{}
	}
	return ids
}
