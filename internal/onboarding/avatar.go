package onboarding

import (
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// PlaceholderAcronym stands in for the initials of a counselor without a name
const PlaceholderAcronym = "OR"

const maxAcronymRunes = 2

// ColorMode selects how the avatar colour is chosen
type ColorMode string

const (
	// ColorRandom picks a palette colour uniformly at random on every call
	ColorRandom ColorMode = "random"
	// ColorHash derives the colour from the name so it is stable
	ColorHash ColorMode = "hash"
)

// AvatarGenerator builds "color|ACRONYM" avatar tags
type AvatarGenerator struct {
	palette []string
	mode    ColorMode
	pick    func(n int) int
}

// AvatarOption customizes an AvatarGenerator
type AvatarOption func(*AvatarGenerator)

// WithColorPicker replaces the random index source used in ColorRandom mode
func WithColorPicker(pick func(n int) int) AvatarOption {
	return func(g *AvatarGenerator) {
		g.pick = pick
	}
}

// NewAvatarGenerator creates a generator over a non-empty palette
func NewAvatarGenerator(palette []string, mode ColorMode, opts ...AvatarOption) *AvatarGenerator {
	g := &AvatarGenerator{
		palette: append([]string(nil), palette...),
		mode:    mode,
		pick:    rand.Intn,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the avatar tag for name
func (g *AvatarGenerator) Generate(name string) string {
	acronym := Acronym(name)
	return g.color(name) + "|" + acronym
}

func (g *AvatarGenerator) color(name string) string {
	if g.mode == ColorHash {
		key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
		if key == "" {
			key = strings.ToLower(PlaceholderAcronym)
		}
		return g.palette[xxhash.Sum64String(key)%uint64(len(g.palette))]
	}
	return g.palette[g.pick(len(g.palette))]
}

// Acronym returns the upper-cased first letters of the first two words of
// name, or PlaceholderAcronym when name is blank.
func Acronym(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return PlaceholderAcronym
	}

	var b strings.Builder
	count := 0
	for _, w := range words {
		if count == maxAcronymRunes {
			break
		}
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		count++
	}
	return b.String()
}
