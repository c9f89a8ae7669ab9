// Package wordname generates deterministic adjective+noun names for
// types that accumulated too many inferred names to keep.
package wordname

import (
	"fmt"
	"math/rand"
)

var adjectives = []string{
	"able", "brave", "calm", "daring", "eager", "fancy", "gentle",
	"happy", "indigo", "jolly", "keen", "lively", "mighty", "noble",
	"odd", "proud", "quick", "rapid", "sturdy", "tidy", "unique",
	"vivid", "witty", "young", "zesty",
}

var nouns = []string{
	"archer", "badger", "condor", "dolphin", "eagle", "falcon",
	"gopher", "heron", "ibis", "jaguar", "kestrel", "lemur",
	"marten", "newt", "ocelot", "panther", "quail", "raven",
	"stork", "tapir", "urchin", "viper", "walrus", "yak", "zebra",
}

// Generator produces a repeatable stream of synthetic names. The same
// seed always yields the same sequence.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator seeded for repeatability.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Next returns the next synthetic name, e.g. "BraveKestrel17".
func (g *Generator) Next() string {
	adjective := adjectives[g.rng.Intn(len(adjectives))]
	noun := nouns[g.rng.Intn(len(nouns))]
	suffix := g.rng.Intn(100)
	return fmt.Sprintf("%s%s%d", capitalize(adjective), capitalize(noun), suffix)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
