package domain

import "strings"

// MatchStrategy selects how play events are joined to song metadata.
type MatchStrategy string

const (
	// MatchByTitle joins on exact title equality only. Plays whose title is
	// shared by several songs fan out to one fact row per song; plays with no
	// exactly-equal title are dropped.
	MatchByTitle MatchStrategy = "title"
	// MatchByTitleArtist additionally requires the log artist to equal the
	// song's artist_name.
	MatchByTitleArtist MatchStrategy = "title_artist"
)

// ParseMatchStrategy normalizes s; the empty string selects MatchByTitle.
func ParseMatchStrategy(s string) (MatchStrategy, error) {
	switch MatchStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchByTitle:
		return MatchByTitle, nil
	case MatchByTitleArtist:
		return MatchByTitleArtist, nil
	default:
		return "", ErrValidation("unknown match strategy %q: use %q or %q", s, MatchByTitle, MatchByTitleArtist)
	}
}
