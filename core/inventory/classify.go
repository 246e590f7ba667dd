package inventory

import (
	"path"

	"inventory-manager/core/peripheral"
)

// Classifier decides which containers count as storage.
//
// A container is storage when one of its type tags is in the allow-list and
// its name matches no exclusion pattern. There is no fallback: a network
// without any matching container has no storage at all.
type Classifier struct {
	tags    map[string]struct{}
	exclude []string
}

// NewClassifier builds a classifier from an allow-list of type tags and name patterns to exclude.
func NewClassifier(tags, exclude []string) Classifier {
	c := Classifier{tags: make(map[string]struct{}, len(tags))}
	for _, t := range tags {
		if t != "" {
			c.tags[t] = struct{}{}
		}
	}
	for _, p := range exclude {
		if p != "" {
			c.exclude = append(c.exclude, p)
		}
	}
	return c
}

// IsStorage reports whether the container is eligible for stock accounting and deposits.
func (c Classifier) IsStorage(info peripheral.Info) bool {
	if c.Excluded(info.Name) {
		return false
	}
	for _, t := range info.Types {
		if _, ok := c.tags[t]; ok {
			return true
		}
	}
	return false
}

// Excluded reports whether the name matches an exclusion pattern.
func (c Classifier) Excluded(name string) bool {
	for _, p := range c.exclude {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
