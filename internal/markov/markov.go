// Package markov scores property names with a Markov chain over
// character trigrams. The chain is trained offline and embedded as a
// compressed trie; it is loaded lazily and owned by the pipeline.
package markov

import (
	"compress/flate"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strings"

	json "github.com/goccy/go-json"
)

// epsilon is the probability assigned to transitions the training
// corpus never saw.
const epsilon = 0.0001

// trieNode is one level of the chain's trie. Arr is indexed by byte
// value; an entry is absent, a leaf count, or a deeper node.
type trieNode struct {
	Count int
	Leaf  [128]int
	Child [128]*trieNode
}

type rawTrie struct {
	Count int               `json:"count"`
	Arr   []json.RawMessage `json:"arr"`
}

func (n *trieNode) UnmarshalJSON(data []byte) error {
	var raw rawTrie
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Count = raw.Count
	if len(raw.Arr) > 128 {
		return fmt.Errorf("markov: trie row has %d entries", len(raw.Arr))
	}
	for i, entry := range raw.Arr {
		trimmed := strings.TrimSpace(string(entry))
		if trimmed == "" || trimmed == "null" {
			continue
		}
		if trimmed[0] == '{' {
			child := &trieNode{}
			if err := json.Unmarshal(entry, child); err != nil {
				return err
			}
			n.Child[i] = child
			continue
		}
		var count int
		if err := json.Unmarshal(entry, &count); err != nil {
			return err
		}
		n.Leaf[i] = count
	}
	return nil
}

// Chain is a loaded trigram chain.
type Chain struct {
	depth int
	root  *trieNode
}

// Load decodes and decompresses the embedded chain blob.
func Load() (*Chain, error) {
	compressed, err := base64.StdEncoding.DecodeString(chainBlob)
	if err != nil {
		return nil, fmt.Errorf("markov: decoding chain blob: %w", err)
	}
	reader := flate.NewReader(strings.NewReader(string(compressed)))
	defer reader.Close()
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("markov: decompressing chain blob: %w", err)
	}
	var decoded struct {
		Depth int       `json:"depth"`
		Trie  *trieNode `json:"trie"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("markov: unmarshalling chain blob: %w", err)
	}
	if decoded.Depth < 2 || decoded.Trie == nil {
		return nil, fmt.Errorf("markov: chain blob has invalid shape")
	}
	return &Chain{depth: decoded.Depth, root: decoded.Trie}, nil
}

// Probability scores how much name looks like a natural property name,
// as the geometric mean of the chain's per-trigram transition
// probabilities. Names shorter than the chain depth carry no evidence
// and score 1.
func (c *Chain) Probability(name string) float64 {
	lowered := strings.ToLower(name)
	if len(lowered) < c.depth {
		return 1
	}
	logSum := 0.0
	windows := 0
	for i := 0; i+c.depth <= len(lowered); i++ {
		logSum += math.Log(c.transition(lowered[i : i+c.depth]))
		windows++
	}
	return math.Exp(logSum / float64(windows))
}

// transition returns P(last char | leading chars) for one trigram.
func (c *Chain) transition(trigram string) float64 {
	node := c.root
	for i := 0; i < len(trigram)-1; i++ {
		b := trigram[i]
		if b >= 128 || node.Child[b] == nil {
			return epsilon
		}
		node = node.Child[b]
	}
	last := trigram[len(trigram)-1]
	if last >= 128 || node.Leaf[last] == 0 || node.Count == 0 {
		return epsilon
	}
	p := float64(node.Leaf[last]) / float64(node.Count)
	if p < epsilon {
		return epsilon
	}
	return p
}
