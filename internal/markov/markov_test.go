package markov

import "testing"

func TestLoad(t *testing.T) {
	chain, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if chain.depth != 3 {
		t.Errorf("depth = %d, want 3", chain.depth)
	}
}

func TestProbabilityPrefersNaturalNames(t *testing.T) {
	chain, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	natural := chain.Probability("description")
	gibberish := chain.Probability("xq9zvkw3jt")
	if natural <= gibberish {
		t.Errorf("natural %g should outscore gibberish %g", natural, gibberish)
	}
}

func TestProbabilityBounds(t *testing.T) {
	chain, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []string{"name", "created_at", "ZZZZ", "a", ""}
	for _, name := range tests {
		p := chain.Probability(name)
		if p <= 0 || p > 1 {
			t.Errorf("Probability(%q) = %g out of (0, 1]", name, p)
		}
	}
}

func TestShortNamesCarryNoEvidence(t *testing.T) {
	chain, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p := chain.Probability("ab"); p != 1 {
		t.Errorf("Probability(short) = %g, want 1", p)
	}
}
