// Package table computes and persists nimber tables: for a rule set, the
// nimber of every stack height from 0 up to a chosen maximum.
package table

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"sync"

	"nimlib/engine"
	"nimlib/ruleset"
)

// Table is one computed nimber table. Digest identifies the rules alone, so
// renamed copies of the same rule set share a digest.
type Table struct {
	Name      string             `json:"name,omitempty"`
	Digest    string             `json:"digest"`
	Rules     []ruleset.RuleJSON `json:"rules"`
	MaxHeight engine.Stack       `json:"max_height"`
	Nimbers   []engine.Nimber    `json:"nimbers"`
}

// Digest returns the hex digest of the document's canonical rule encoding.
func Digest(doc *ruleset.Document) (string, error) {
	canonical, err := ruleset.Canonical(doc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Compute fills a table for doc with nimbers for heights 0..maxHeight.
func Compute(doc *ruleset.Document, maxHeight engine.Stack) (*Table, error) {
	rs, err := doc.RuleSet()
	if err != nil {
		return nil, err
	}
	digest, err := Digest(doc)
	if err != nil {
		return nil, err
	}

	nimbers := make([]engine.Nimber, maxHeight+1)
	for h := engine.Stack(0); h <= maxHeight; h++ {
		nimbers[h] = rs.NimberForHeight(h)
	}

	return &Table{
		Name:      doc.Name,
		Digest:    digest,
		Rules:     doc.Rules,
		MaxHeight: maxHeight,
		Nimbers:   nimbers,
	}, nil
}

// ComputeBatch computes one table per document using a worker pool. Each
// document gets its own rule set and cache, so workers never contend. The
// result order matches the input order.
func ComputeBatch(docs []*ruleset.Document, maxHeight engine.Stack, numWorkers int) ([]*Table, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	jobs := make(chan int, len(docs))
	tables := make([]*Table, len(docs))
	errs := make([]error, len(docs))

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tables[i], errs[i] = Compute(docs[i], maxHeight)
			}
		}()
	}

	for i := range docs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("table %d (%s): %w", i, docs[i].Name, err)
		}
	}
	return tables, nil
}

// Document rebuilds the rule set document the table was computed from.
func (t *Table) Document() *ruleset.Document {
	return &ruleset.Document{Name: t.Name, Rules: t.Rules}
}
