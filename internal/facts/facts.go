// Package facts defines the relationship facts fed to the graph builder
// and a JSON Lines reader for them.
package facts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/efebarandurmaz/depscope/internal/graph"
)

// Kind classifies a relationship fact.
type Kind string

const (
	KindCall    Kind = "call"
	KindImport  Kind = "import"
	KindInherit Kind = "inherit"
)

// Fact is one extracted relationship. From and To are the natural string
// identifiers the result maps are keyed by.
type Fact struct {
	Kind       Kind   `json:"kind"`
	From       string `json:"from"`
	To         string `json:"to"`
	Count      int    `json:"count,omitempty"`       // call facts only
	ImportType string `json:"import_type,omitempty"` // import facts only
}

// ReadJSONL reads facts from a JSON Lines stream.
func ReadJSONL(r io.Reader) ([]Fact, error) {
	var out []Fact
	sc := bufio.NewScanner(r)
	// Allow reasonably large lines (generated identifiers can be long).
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		var f Fact
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("facts: invalid JSONL at line %d: %w", lineNo, err)
		}
		switch f.Kind {
		case KindCall, KindImport, KindInherit:
		case "":
			return nil, fmt.Errorf("facts: missing kind at line %d", lineNo)
		default:
			return nil, fmt.Errorf("facts: unknown kind %q at line %d", f.Kind, lineNo)
		}
		if f.From == "" || f.To == "" {
			return nil, fmt.Errorf("facts: missing from/to at line %d", lineNo)
		}
		out = append(out, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadFile reads facts from a JSONL file on disk.
func ReadFile(path string) ([]Fact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("facts: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSONL(f)
}

// Apply feeds the facts into the builder in order.
func Apply(b *graph.Builder, all []Fact) {
	for _, f := range all {
		switch f.Kind {
		case KindCall:
			b.AddCall(f.From, f.To, f.Count)
		case KindImport:
			b.AddDependency(f.From, f.To, f.ImportType)
		case KindInherit:
			b.AddInheritance(f.From, f.To)
		}
	}
}
