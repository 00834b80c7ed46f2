package valueobjects

import (
	"unicode"

	"kbgraph/domain/config"
)

// DeriveShortTitle computes the compact display label for an article.
//
// An explicit value wins. Otherwise a title longer than ShortTitleThreshold
// runes is cut to ShortTitleLength runes, the trailing whitespace run and any
// partial word after it are dropped, and the ellipsis is appended. Shorter
// titles are used verbatim, and the slug is the last resort.
func DeriveShortTitle(explicit, title string, slug Slug, cfg *config.DomainConfig) string {
	cfg = cfg.OrDefault()

	if explicit != "" {
		return explicit
	}
	if title == "" {
		return slug.String()
	}

	runes := []rune(title)
	if len(runes) <= cfg.ShortTitleThreshold {
		return title
	}

	cut := runes
	if len(cut) > cfg.ShortTitleLength {
		cut = cut[:cfg.ShortTitleLength]
	}
	return string(trimTrailingWord(cut)) + cfg.ShortTitleEllipsis
}

// DeriveExcerpt returns the explicit excerpt, or the first ExcerptLength runes
// of the body followed by the ellipsis.
func DeriveExcerpt(explicit, body string, cfg *config.DomainConfig) string {
	cfg = cfg.OrDefault()

	if explicit != "" {
		return explicit
	}

	runes := []rune(body)
	if len(runes) > cfg.ExcerptLength {
		runes = runes[:cfg.ExcerptLength]
	}
	return string(runes) + cfg.ExcerptEllipsis
}

// trimTrailingWord removes the last whitespace run and whatever follows it.
// Input without whitespace is returned unchanged.
func trimTrailingWord(runes []rune) []rune {
	i := len(runes)
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	if i == 0 {
		return runes
	}
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	return runes[:i]
}
