package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var frontmatterDelimiter = regexp.MustCompile(`^---\s*$`)

// errUnterminatedFrontmatter is returned when an opening delimiter has no match
var errUnterminatedFrontmatter = errors.New("missing frontmatter closing delimiter (---)")

// metadata is the recognised subset of a document's YAML front matter
type metadata struct {
	Title       string     `yaml:"title"`
	ShortTitle  string     `yaml:"shortTitle"`
	Category    string     `yaml:"category"`
	Tags        stringList `yaml:"tags"`
	Date        string     `yaml:"date"`
	Excerpt     string     `yaml:"excerpt"`
	Connections stringList `yaml:"connections"`
}

// stringList accepts either a YAML sequence of scalars or a single scalar
type stringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = stringList{value.Value}
		return nil

	case yaml.SequenceNode:
		items := make(stringList, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: list entries must be plain values", item.Line)
			}
			if item.Tag == "!!null" {
				continue
			}
			items = append(items, item.Value)
		}
		*l = items
		return nil

	default:
		return fmt.Errorf("line %d: expected a list", value.Line)
	}
}

// splitFrontmatter splits a document into its YAML block and body.
// found is false when the document does not open with a delimiter, in which
// case the whole text is the body. An unterminated block returns an error and
// the whole text as body.
func splitFrontmatter(doc string) (frontmatter, body string, found bool, err error) {
	doc = strings.TrimPrefix(doc, "\ufeff")
	lines := strings.Split(doc, "\n")

	if !frontmatterDelimiter.MatchString(strings.TrimSpace(lines[0])) {
		return "", doc, false, nil
	}

	closingIdx := -1
	for i := 1; i < len(lines); i++ {
		if frontmatterDelimiter.MatchString(strings.TrimSpace(lines[i])) {
			closingIdx = i
			break
		}
	}

	if closingIdx == -1 {
		return "", doc, true, errUnterminatedFrontmatter
	}

	frontmatter = strings.Join(lines[1:closingIdx], "\n")
	body = strings.Join(lines[closingIdx+1:], "\n")

	return frontmatter, body, true, nil
}

// parseMetadata decodes a front-matter block. Any error leaves the zero value.
func parseMetadata(frontmatter string) (metadata, error) {
	var meta metadata
	if err := yaml.Unmarshal([]byte(frontmatter), &meta); err != nil {
		return metadata{}, fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}
	return meta, nil
}
