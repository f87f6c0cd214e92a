package taxonomy

import (
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Conte777/fanscraper/internal/domain/content/entities"
	contenterrors "github.com/Conte777/fanscraper/internal/domain/content/errors"
)

type projection struct {
	singular entities.Key
	plural   string
}

// projections is the full singular/plural table; Singular(Plural(k)) == k holds for every row
var projections = []projection{
	{entities.KeyStory, "Stories"},
	{entities.KeyPost, "Posts"},
	{entities.KeyMessage, "Messages"},
	{entities.KeyMassMessage, "MassMessages"},
}

var pascalCase = regexp.MustCompile(`^[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]+)*$`)

// Classify resolves a content object to its canonical key
func Classify(v any) (entities.Key, error) {
	kinded, ok := v.(entities.Kinded)
	if !ok || isNilPointer(v) {
		return "", contenterrors.ErrUnknownContentType
	}

	key := kinded.ContentKind()
	if _, err := Plural(key); err != nil {
		return "", contenterrors.ErrUnknownContentType
	}
	return key, nil
}

// isNilPointer catches typed nils such as (*Post)(nil), whose value-receiver ContentKind would panic
func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// IsPascalCase reports whether raw is already in PascalCase
func IsPascalCase(raw string) bool {
	return pascalCase.MatchString(raw)
}

// NormalizeCasing returns raw unchanged when it is PascalCase,
// otherwise upper-cases the first letter and lower-cases the rest.
func NormalizeCasing(raw string) string {
	if raw == "" || IsPascalCase(raw) {
		return raw
	}

	first, size := utf8.DecodeRuneInString(raw)
	return string(unicode.ToUpper(first)) + strings.ToLower(raw[size:])
}

// Plural returns the plural projection of a canonical key
func Plural(key entities.Key) (string, error) {
	for _, p := range projections {
		if p.singular == key {
			return p.plural, nil
		}
	}
	return "", contenterrors.ErrUnknownKey
}

// Singular returns the canonical key for a plural projection
func Singular(plural string) (entities.Key, error) {
	for _, p := range projections {
		if p.plural == plural {
			return p.singular, nil
		}
	}
	return "", contenterrors.ErrUnknownKey
}

// ParseKey normalises free-form casing and resolves it to a canonical key.
// Both singular ("post", "Post") and plural ("posts") spellings are accepted.
func ParseKey(raw string) (entities.Key, error) {
	normalized := NormalizeCasing(raw)
	for _, p := range projections {
		if string(p.singular) == normalized {
			return p.singular, nil
		}
	}
	return Singular(normalized)
}

// ToKey classifies v and returns its singular or plural projection
func ToKey(v any, makePlural bool) (string, error) {
	key, err := Classify(v)
	if err != nil {
		return "", err
	}

	if makePlural {
		return Plural(key)
	}
	return string(key), nil
}

// collectionKeys are the response collections a creator profile exposes, in scrape order
var collectionKeys = []string{"Stories", "Posts", "Chats", "Messages", "Highlights", "MassMessages"}

// CollectionKeys returns the ordered list of response collection keys
func CollectionKeys() []string {
	keys := make([]string, len(collectionKeys))
	copy(keys, collectionKeys)
	return keys
}

// ResponseTypeToKey maps a singular API response type ("post", "message") to its collection key
func ResponseTypeToKey(raw string) (string, bool) {
	want := strings.ToLower(raw) + "s"
	for _, key := range collectionKeys {
		if strings.ToLower(key) == want {
			return key, true
		}
	}
	return "", false
}

// PathToKey finds the first collection key that names a segment of p
func PathToKey(p string) (string, bool) {
	parts := strings.Split(filepath.ToSlash(p), "/")
	for _, key := range collectionKeys {
		for _, part := range parts {
			if strings.EqualFold(part, key) {
				return key, true
			}
		}
	}
	return "", false
}

// ConvertToKey maps the short response types used by paid content listings to collection keys
func ConvertToKey(raw string) (string, error) {
	switch strings.ToLower(raw) {
	case "story":
		return "Stories", nil
	case "post":
		return "Posts", nil
	case "message":
		return "Messages", nil
	default:
		return "", contenterrors.ErrUnknownResponseType
	}
}
