package replication

import "strconv"

// NewID returns the identifier of replica i of id. With an empty prefix the
// id is returned unchanged.
func NewID(prefix string, replica int, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + strconv.Itoa(replica) + "_" + id
}
