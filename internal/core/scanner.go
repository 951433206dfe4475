package core

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"pubwatch/internal/shared"
	"pubwatch/internal/types"
)

// WildcardConstraint matches any published version and is never worth
// a registry fetch.
const WildcardConstraint = "any"

const commentMarker = "#"

// manifestDoc captures the two recognized dependency sections. Values
// stay as yaml nodes so scalar constraints can be told apart from
// nested SDK mappings.
type manifestDoc struct {
	Dependencies    map[string]yaml.Node `yaml:"dependencies"`
	DevDependencies map[string]yaml.Node `yaml:"dev_dependencies"`
}

var keyLinePattern = regexp.MustCompile(`^\s*([A-Za-z0-9_][A-Za-z0-9_.-]*)\s*:`)

// ScanManifest extracts the declared dependencies from raw manifest
// text. Structural values come from a yaml pass over the comment- and
// blank-stripped text; line numbers are recovered by a textual scan of
// the original document, joined by name. Entries whose value is a
// nested mapping (SDK packages) or the wildcard token are skipped.
func ScanManifest(text string) ([]types.Dependency, error) {
	var doc manifestDoc
	if err := yaml.Unmarshal([]byte(filterLines(text)), &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse manifest yaml").
			WithCause(err)
	}

	lineByName := keyLines(text)
	deps := make([]types.Dependency, 0, len(doc.Dependencies)+len(doc.DevDependencies))
	deps = appendSection(deps, doc.Dependencies, types.SectionDependencies, lineByName)
	deps = appendSection(deps, doc.DevDependencies, types.SectionDevDependencies, lineByName)

	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Line != deps[j].Line {
			return deps[i].Line < deps[j].Line
		}
		return deps[i].Name < deps[j].Name
	})
	return deps, nil
}

func appendSection(deps []types.Dependency, entries map[string]yaml.Node, section types.Section, lineByName map[string]int) []types.Dependency {
	for name, node := range entries {
		if node.Kind != yaml.ScalarNode {
			continue
		}
		constraint := strings.TrimSpace(node.Value)
		if constraint == "" || constraint == WildcardConstraint {
			continue
		}
		deps = append(deps, types.Dependency{
			Name:       name,
			Constraint: constraint,
			Section:    section,
			Line:       lineByName[name],
		})
	}
	return deps
}

// filterLines drops blank and comment lines ahead of the structural
// parse, keeping the remaining lines' indentation intact.
func filterLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, commentMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// keyLines maps every `<key>:` token to the 1-based line it first
// appears on in the original document.
func keyLines(text string) map[string]int {
	lines := strings.Split(text, "\n")
	byName := make(map[string]int, len(lines))
	for i, line := range lines {
		match := keyLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		name := shared.TrimKeySuffix(match[1])
		if _, seen := byName[name]; !seen {
			byName[name] = i + 1
		}
	}
	return byName
}
