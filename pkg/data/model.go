package data

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	json "github.com/goccy/go-json"
)

// Translation is one language variant of a story.
type Translation struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Story is a parsed story with both of its language variants.
type Story struct {
	Slug         string
	Translations map[string]Translation
}

// Get returns the translation for lang, or the zero value.
func (s Story) Get(lang string) Translation {
	return s.Translations[lang]
}

// MarshalJSON flattens translations next to the slug:
// {"slug": "...", "en": {...}, "fa": {...}}.
func (s Story) MarshalJSON() ([]byte, error) {
	return json.MarshalNoEscape(s.record())
}

// record returns the story as a plain struct value with the slug first and
// one field per language, in sorted order. Encoders treat it like any other
// struct, so HTML in the content is not escaped.
func (s Story) record() any {
	langs := s.Languages()
	fields := make([]reflect.StructField, 0, len(langs)+1)
	fields = append(fields, reflect.StructField{
		Name: "Slug",
		Type: reflect.TypeOf(""),
		Tag:  `json:"slug"`,
	})
	for i, lang := range langs {
		fields = append(fields, reflect.StructField{
			Name: fmt.Sprintf("Lang%d", i),
			Type: reflect.TypeOf(Translation{}),
			Tag:  reflect.StructTag(fmt.Sprintf(`json:%q`, lang)),
		})
	}

	v := reflect.New(reflect.StructOf(fields)).Elem()
	v.Field(0).SetString(s.Slug)
	for i, lang := range langs {
		v.Field(i + 1).Set(reflect.ValueOf(s.Translations[lang]))
	}
	return v.Interface()
}

func (s *Story) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	slug, ok := raw["slug"]
	if !ok {
		return fmt.Errorf("story record has no slug")
	}
	if err := json.Unmarshal(slug, &s.Slug); err != nil {
		return fmt.Errorf("story slug: %w", err)
	}

	s.Translations = make(map[string]Translation, len(raw)-1)
	for key, value := range raw {
		if key == "slug" {
			continue
		}
		var tr Translation
		if err := json.Unmarshal(value, &tr); err != nil {
			return fmt.Errorf("story %s: language %s: %w", s.Slug, key, err)
		}
		s.Translations[key] = tr
	}
	return nil
}

// Languages returns the language codes present on the story, sorted.
func (s Story) Languages() []string {
	langs := make([]string, 0, len(s.Translations))
	for lang := range s.Translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

type Metadata struct {
	GeneratedAt time.Time `json:"generatedAt"`
	StoryCount  int       `json:"storyCount"`
}

// Bundle is the ordered set of stories handed from aggregation to rendering.
type Bundle struct {
	Stories  []Story  `json:"stories"`
	Metadata Metadata `json:"metadata"`
}

// NewBundle wraps stories with generation metadata.
func NewBundle(stories []Story, generatedAt time.Time) *Bundle {
	if stories == nil {
		stories = []Story{}
	}
	return &Bundle{
		Stories: stories,
		Metadata: Metadata{
			GeneratedAt: generatedAt,
			StoryCount:  len(stories),
		},
	}
}

// Neighbors returns the stories before and after index i in bundle order.
// Either may be nil at the ends of the sequence.
func (b *Bundle) Neighbors(i int) (prev, next *Story) {
	if i > 0 && i-1 < len(b.Stories) {
		prev = &b.Stories[i-1]
	}
	if i >= 0 && i+1 < len(b.Stories) {
		next = &b.Stories[i+1]
	}
	return prev, next
}

// Slugs returns the story slugs in bundle order.
func (b *Bundle) Slugs() []string {
	slugs := make([]string, len(b.Stories))
	for i, s := range b.Stories {
		slugs[i] = s.Slug
	}
	return slugs
}
