package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/lshmatch/domain"
	"gopkg.in/yaml.v3"
)

// textPreviewWidth is the number of runes of each text shown in text output
const textPreviewWidth = 100

// MatchFormatterImpl implements domain.MatchOutputFormatter
type MatchFormatterImpl struct {
	utils *FormatUtils
}

// NewMatchFormatter creates a new match formatter
func NewMatchFormatter() *MatchFormatterImpl {
	return &MatchFormatterImpl{utils: NewFormatUtils()}
}

// Write writes the response in the given format
func (f *MatchFormatterImpl) Write(response *domain.MatchResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(response, writer)
	case domain.OutputFormatYAML:
		return f.writeYAML(response, writer)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// matchDocument renders entries as {"match-0": {"<key1>": [...], "<key2>": [...]}, ...}
// keeping sample order
type matchDocument []domain.MatchEntry

func (d matchDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		members := []any{entry.Name, ':', '{',
			entry.Key1, ':', nonNil(entry.Texts1), ',',
			entry.Key2, ':', nonNil(entry.Texts2), '}'}
		for _, m := range members {
			if r, ok := m.(rune); ok {
				buf.WriteRune(r)
				continue
			}
			if err := appendJSON(&buf, m); err != nil {
				return nil, err
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// appendJSON encodes v without HTML escaping or a trailing newline
func appendJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

func nonNil(texts []string) []string {
	if texts == nil {
		return []string{}
	}
	return texts
}

func (f *MatchFormatterImpl) writeJSON(response *domain.MatchResponse, writer io.Writer) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(matchDocument(response.Matches)); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// matchNode builds the same mapping as matchDocument as an ordered YAML node
func matchNode(entries []domain.MatchEntry) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range entries {
		pair := &yaml.Node{Kind: yaml.MappingNode}
		pair.Content = append(pair.Content,
			stringNode(entry.Key1), textsNode(entry.Texts1),
			stringNode(entry.Key2), textsNode(entry.Texts2))
		root.Content = append(root.Content, stringNode(entry.Name), pair)
	}
	return root
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func textsNode(texts []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, text := range texts {
		seq.Content = append(seq.Content, stringNode(text))
	}
	return seq
}

func (f *MatchFormatterImpl) writeYAML(response *domain.MatchResponse, writer io.Writer) error {
	return WriteYAML(writer, matchNode(response.Matches))
}

func (f *MatchFormatterImpl) writeCSV(response *domain.MatchResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if err := w.Write([]string{"match", "key", "text"}); err != nil {
		return domain.NewOutputError("failed to write CSV header", err)
	}
	for _, entry := range response.Matches {
		for _, side := range []struct {
			key   string
			texts []string
		}{{entry.Key1, entry.Texts1}, {entry.Key2, entry.Texts2}} {
			for _, text := range side.texts {
				if err := w.Write([]string{entry.Name, side.key, text}); err != nil {
					return domain.NewOutputError("failed to write CSV row", err)
				}
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to write CSV", err)
	}
	return nil
}

func (f *MatchFormatterImpl) writeText(response *domain.MatchResponse, writer io.Writer) error {
	u := f.utils
	var b strings.Builder

	b.WriteString(u.FormatMainHeader("LSH Match Report"))

	b.WriteString(u.FormatSectionHeader("Summary"))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Records", u.FormatCount(response.RecordsRead)))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Samples", len(response.Matches)))
	b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Matching time", u.FormatDuration(response.Duration)))
	if !response.GeneratedAt.IsZero() {
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Generated", u.FormatTimestamp(response.GeneratedAt)))
	}
	b.WriteString(u.FormatSectionSeparator())

	for _, stage := range response.Stages {
		b.WriteString(u.FormatSectionHeader("Stage " + stage.Name))
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Threshold", stage.Threshold))
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Bands x rows",
			fmt.Sprintf("%d x %d (of %d permutations)", stage.Bands, stage.Rows, stage.NumPerm)))
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "False positive mass", u.FormatProbability(stage.FalsePositiveProbability)))
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "False negative mass", u.FormatProbability(stage.FalseNegativeProbability)))
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Signed items", u.FormatCount(stage.SignedItems)))
		if stage.IndexedKeys > 0 {
			b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Indexed keys", u.FormatCount(stage.IndexedKeys)))
			b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Candidate buckets", u.FormatCount(stage.CandidateBuckets)))
		}
		b.WriteString(u.FormatLabelWithIndent(SectionPadding, "Buckets", u.FormatCount(stage.Buckets)))
		b.WriteString(u.FormatSectionSeparator())
	}

	b.WriteString(u.FormatSectionHeader("Matches"))
	for _, entry := range response.Matches {
		fmt.Fprintf(&b, "%s%s: %s <-> %s\n", strings.Repeat(" ", SectionPadding),
			entry.Name, u.FormatKey(entry.Key1), u.FormatKey(entry.Key2))
		f.writeTexts(&b, entry.Key1, entry.Texts1)
		f.writeTexts(&b, entry.Key2, entry.Texts2)
		b.WriteString(u.FormatSectionSeparator())
	}

	if _, err := io.WriteString(writer, b.String()); err != nil {
		return domain.NewOutputError("failed to write text report", err)
	}
	return nil
}

func (f *MatchFormatterImpl) writeTexts(b *strings.Builder, key string, texts []string) {
	u := f.utils
	fmt.Fprintf(b, "%s%s %s\n", strings.Repeat(" ", ItemPadding), u.FormatKey(key),
		u.FormatDim(fmt.Sprintf("(%d texts)", len(texts))))
	for _, text := range texts {
		fmt.Fprintf(b, "%s- %s\n", strings.Repeat(" ", ItemPadding+2), u.Truncate(text, textPreviewWidth))
	}
}
