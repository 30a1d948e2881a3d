// Copyright Jordan Morrow, 2026. All rights reserved.

package section

// Claimed is the per-run registry of repository names already used as a lead
// or secondary by an earlier section. Sections run sequentially, so access
// is never concurrent; the registry is owned by the run, not the process.
type Claimed struct {
	names map[string]bool
}

// NewClaimed returns an empty registry.
func NewClaimed() *Claimed {
	return &Claimed{names: make(map[string]bool)}
}

// Has reports whether the name was claimed by an earlier section.
func (c *Claimed) Has(fullName string) bool {
	return c.names[fullName]
}

// Add claims the given names.
func (c *Claimed) Add(fullNames ...string) {
	for _, n := range fullNames {
		c.names[n] = true
	}
}

// Len returns the number of claimed names.
func (c *Claimed) Len() int {
	return len(c.names)
}
