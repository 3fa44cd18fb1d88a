package ingest

import (
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

// maxAliasDistance is the Levenshtein distance under which two distinct team
// names are reported as a possible alias pair.
const maxAliasDistance = 2

// Normalizer collapses team name variants to one canonical name.
type Normalizer struct {
	aliases map[string]string // lower-cased variant -> canonical
}

// NewNormalizer builds a normalizer from canonical -> variants. A canonical
// name always maps to itself.
func NewNormalizer(aliases map[string][]string) *Normalizer {
	n := &Normalizer{aliases: make(map[string]string)}
	for canonical, variants := range aliases {
		canonical = cleanName(canonical)
		n.aliases[strings.ToLower(canonical)] = canonical
		for _, v := range variants {
			n.aliases[strings.ToLower(cleanName(v))] = canonical
		}
	}
	return n
}

// LoadAliases reads a YAML file of the form
//
//	Borneo:
//	  - Borneo FC
//	  - Borneo Samarinda
func LoadAliases(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read aliases")
	}
	var out map[string][]string
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrapf(err, "parse aliases %s", path)
	}
	return out, nil
}

// Normalize trims and collapses whitespace, then maps known variants to
// their canonical name. Unknown names are returned cleaned but otherwise
// unchanged.
func (n *Normalizer) Normalize(name string) string {
	name = cleanName(name)
	if n == nil {
		return name
	}
	if canonical, ok := n.aliases[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

func cleanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AliasWarning flags two distinct names that look like the same team.
type AliasWarning struct {
	Name    string
	Similar string
}

// SimilarNames returns pairs of names that are close enough to be the same
// team spelled two ways: within a small edit distance, or one being a
// whole-word prefix of the other ("Borneo" / "Borneo FC"). Names are never
// merged automatically.
func SimilarNames(names []string) []AliasWarning {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	var out []AliasWarning
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			a, b := strings.ToLower(sorted[i]), strings.ToLower(sorted[j])
			if a == b || fuzzy.LevenshteinDistance(a, b) <= maxAliasDistance || wordPrefix(a, b) || wordPrefix(b, a) {
				out = append(out, AliasWarning{Name: sorted[i], Similar: sorted[j]})
			}
		}
	}
	return out
}

func wordPrefix(short, long string) bool {
	return len(short) < len(long) && strings.HasPrefix(long, short+" ")
}
