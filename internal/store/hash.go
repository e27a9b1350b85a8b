package store

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// ComputeSignatureHash computes a deterministic hash from a declaration's
// semantic identity: name, kind, modifiers, declared type and the names of
// its children. Location changes do NOT affect the hash.
func ComputeSignatureHash(name, kind string, modifiers []string, declaredType string, children []string) string {
	h := sha256.New()

	fmt.Fprintf(h, "name:%s\n", name)
	fmt.Fprintf(h, "kind:%s\n", kind)
	fmt.Fprintf(h, "type:%s\n", declaredType)

	// Modifiers and children are sorted for determinism.
	sorted := make([]string, len(modifiers))
	copy(sorted, modifiers)
	sort.Strings(sorted)
	fmt.Fprintf(h, "modifiers:%s\n", strings.Join(sorted, ","))

	kids := make([]string, len(children))
	copy(kids, children)
	sort.Strings(kids)
	for _, c := range kids {
		fmt.Fprintf(h, "child:%s\n", c)
	}

	return fmt.Sprintf("%x", h.Sum(nil))
}

// ContentHash returns the hex SHA-256 of a file's content.
func ContentHash(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}
