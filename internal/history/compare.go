package history

import (
	"fmt"

	"github.com/vk/varcar/internal/resolve"
)

// Regression is a count that increased between two runs.
type Regression struct {
	Collection string `json:"collection" yaml:"collection"`
	Metric     string `json:"metric" yaml:"metric"`
	Before     int    `json:"before" yaml:"before"`
	After      int    `json:"after" yaml:"after"`
}

func (r Regression) String() string {
	return fmt.Sprintf("%s: %s %d -> %d", r.Collection, r.Metric, r.Before, r.After)
}

type metric struct {
	name string
	get  func(resolve.CollectionResult) int
}

var metrics = []metric{
	{"broken", func(c resolve.CollectionResult) int { return c.Broken }},
	{"circular", func(c resolve.CollectionResult) int { return c.Circular }},
	{"external", func(c resolve.CollectionResult) int { return c.External }},
	{"white", func(c resolve.CollectionResult) int { return c.White }},
}

// Compare lists the counts that went up from prev to cur, in cur's
// collection order. Collections missing from either run or that failed to
// validate in either run are not compared.
func Compare(prev, cur Run) []Regression {
	var out []Regression
	for _, after := range cur.Collections {
		before, ok := prev.Collection(after.CollectionName)
		if !ok || before.Error != "" || after.Error != "" {
			continue
		}
		for _, m := range metrics {
			if b, a := m.get(before), m.get(after); a > b {
				out = append(out, Regression{Collection: after.CollectionName, Metric: m.name, Before: b, After: a})
			}
		}
	}
	return out
}
