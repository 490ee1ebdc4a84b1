package hir

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/marlinshell/marlin/internal/span"
)

// DomainBlock separates block fingerprints from every other hash in the
// system.
const DomainBlock = "marlin/block/v1"

// hashWithDomain computes SHA-256 over domain || 0x00 || data. The NUL
// separator keeps distinct (domain, data) pairs from colliding.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint content-addresses the block.
//
// Deliberately partial: only the NFC-normalized definition names feed the
// hash, sorted so that insertion order does not influence identity. Two
// blocks with the same definition names and different bodies share a
// fingerprint. Consumers that need full structural identity hash the
// encoded form instead.
func (b *Block) Fingerprint() string {
	var names []string
	if b.Definitions != nil {
		for _, name := range b.Definitions.Names() {
			names = append(names, norm.NFC.String(name))
		}
	}
	sort.Strings(names)
	payload, err := json.Marshal(names)
	if err != nil {
		// []string cannot fail to marshal; invalid UTF-8 is replaced.
		payload = []byte("[]")
	}
	return hashWithDomain(DomainBlock, payload)
}

// CompareDefinitionNames orders two blocks by their definition name
// vectors. This is the same partial view Fingerprint hashes: blocks that
// differ only in their bodies compare equal.
func (b *Block) CompareDefinitionNames(other *Block) int {
	return compareStrings(definitionNames(b), definitionNames(other))
}

func definitionNames(b *Block) []string {
	if b == nil || b.Definitions == nil {
		return nil
	}
	return b.Definitions.Names()
}

func compareStrings(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Compare orders two named argument collections: first by their key
// vectors, then by their value vectors. Insertion order participates, so
// the same arguments supplied in a different order compare unequal. The
// ordering is total over encodable trees but intentionally shallow; it
// exists to give collections a stable sort, not a semantic equivalence.
func (na *NamedArguments) Compare(other *NamedArguments) int {
	if c := compareStrings(na.keys, other.keys); c != 0 {
		return c
	}
	for _, key := range na.keys {
		if c := compareNamedValues(na.values[key], other.values[key]); c != 0 {
			return c
		}
	}
	return 0
}

func namedValueRank(v NamedValue) int {
	switch v.(type) {
	case AbsentSwitch:
		return 0
	case PresentSwitch:
		return 1
	case AbsentValue:
		return 2
	case PresentValue:
		return 3
	default:
		return 4
	}
}

func compareSpans(a, b span.Span) int {
	switch {
	case a.Start != b.Start:
		if a.Start < b.Start {
			return -1
		}
		return 1
	case a.End != b.End:
		if a.End < b.End {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func compareNamedValues(a, b NamedValue) int {
	ra, rb := namedValueRank(a), namedValueRank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}
	switch av := a.(type) {
	case PresentSwitch:
		return compareSpans(av.At, b.(PresentSwitch).At)
	case PresentValue:
		bv := b.(PresentValue)
		if c := compareSpans(av.At, bv.At); c != 0 {
			return c
		}
		return compareExprs(av.Expr, bv.Expr)
	default:
		return 0
	}
}

// compareExprs falls back to the encoded form. The codec is
// deterministic, so equal trees encode identically; unequal trees get an
// arbitrary but stable order.
func compareExprs(a, b SpannedExpr) int {
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return 0
	}
	return bytes.Compare(ab, bb)
}
