// Package report renders composed encounters as localized text for chat
// output and CLI display.
package report

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Line is one rendered entry group: identical monsters are collapsed into a
// single line with a count.
type Line struct {
	Name  string
	Level int
	Count int
	Cost  int
}

// Encounter is the report input, independent of how the encounter was
// produced or stored.
type Encounter struct {
	Difficulty string
	Budget     int
	Spent      int
	Lines      []Line
}

var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

var catalogs = map[language.Tag]map[string]string{
	language.AmericanEnglish: {
		"title": "Encounter (%s)",
		"line":  "%d x %s (level %d, %d XP)",
		"total": "Total: %d of %d XP",
		"empty": "No eligible candidates matched the filters.",
	},
	language.BrazilianPortuguese: {
		"title": "Encontro (%s)",
		"line":  "%d x %s (nível %d, %d XP)",
		"total": "Total: %d de %d XP",
		"empty": "Nenhum candidato elegível correspondeu aos filtros.",
	},
}

// Match resolves a BCP 47 locale string to the closest supported locale,
// falling back to en-US.
func Match(locale string) language.Tag {
	_, index := language.MatchStrings(matcher, locale)
	return supported[index]
}

// Render formats an encounter report in the requested locale.
func Render(locale string, enc Encounter) string {
	tag := Match(locale)
	catalog := catalogs[tag]
	printer := message.NewPrinter(tag)

	var b strings.Builder
	b.WriteString(printer.Sprintf(catalog["title"], enc.Difficulty))
	b.WriteString("\n")

	if len(enc.Lines) == 0 {
		b.WriteString(catalog["empty"])
		b.WriteString("\n")
		return b.String()
	}

	for _, line := range enc.Lines {
		b.WriteString(printer.Sprintf(catalog["line"], line.Count, line.Name, line.Level, line.Cost*line.Count))
		b.WriteString("\n")
	}
	b.WriteString(printer.Sprintf(catalog["total"], enc.Spent, enc.Budget))
	b.WriteString("\n")
	return b.String()
}

// Collapse groups an ordered chosen sequence into report lines, preserving
// first-seen order.
func Collapse(names []string, levels, costs []int) []Line {
	var lines []Line
	index := map[string]int{}
	for i, name := range names {
		if at, ok := index[name]; ok {
			lines[at].Count++
			continue
		}
		index[name] = len(lines)
		lines = append(lines, Line{
			Name:  name,
			Level: levels[i],
			Count: 1,
			Cost:  costs[i],
		})
	}
	return lines
}
