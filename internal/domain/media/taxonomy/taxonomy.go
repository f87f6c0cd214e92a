package taxonomy

import (
	"fmt"

	mediaerrors "github.com/Conte777/fanscraper/internal/domain/media/errors"
)

// Category is a media classification bucket
type Category string

const (
	Image Category = "Image"
	Video Category = "Video"
	Audio Category = "Audio"
	Text  Category = "Text"
)

type aliasSet struct {
	category Category
	key      string
	aliases  []string
}

// aliasTable is declared in listing order; alias sets must stay pairwise disjoint
var aliasTable = []aliasSet{
	{category: Image, key: "Images", aliases: []string{"photo", "image"}},
	{category: Video, key: "Videos", aliases: []string{"video", "stream", "gif", "application"}},
	{category: Audio, key: "Audios", aliases: []string{"audio"}},
	{category: Text, key: "Texts", aliases: []string{"text"}},
}

var aliasIndex = mustBuildIndex(aliasTable)

func mustBuildIndex(table []aliasSet) map[string]Category {
	index, err := buildIndex(table)
	if err != nil {
		panic(err)
	}
	return index
}

func buildIndex(table []aliasSet) (map[string]Category, error) {
	index := make(map[string]Category)
	for _, set := range table {
		for _, alias := range set.aliases {
			if owner, exists := index[alias]; exists {
				return nil, fmt.Errorf("media alias %q claimed by both %s and %s", alias, owner, set.category)
			}
			index[alias] = set.category
		}
	}
	return index, nil
}

// ClassifyMedia resolves a raw API media type to its category
func ClassifyMedia(raw string) (Category, error) {
	category, ok := aliasIndex[raw]
	if !ok {
		return "", mediaerrors.ErrNoMediaTypeFound
	}
	return category, nil
}

// ListCategories returns every category in declaration order
func ListCategories() []Category {
	categories := make([]Category, 0, len(aliasTable))
	for _, set := range aliasTable {
		categories = append(categories, set.category)
	}
	return categories
}

// Key returns the plural label used for directory naming, or "" for an unknown category
func (c Category) Key() string {
	for _, set := range aliasTable {
		if set.category == c {
			return set.key
		}
	}
	return ""
}

// Aliases returns a copy of the raw type strings bound to the category
func (c Category) Aliases() []string {
	for _, set := range aliasTable {
		if set.category == c {
			aliases := make([]string, len(set.aliases))
			copy(aliases, set.aliases)
			return aliases
		}
	}
	return nil
}
