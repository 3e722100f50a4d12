package profile

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind tags the shape a TextBag was parsed from.
type Kind int

const (
	KindNone Kind = iota
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "none"
	}
}

// TextBag is the flattened text of a loosely typed profile or preference
// field. Stored values may be a plain string, a JSON string, a list of strings,
// a list of objects, or an object.
type TextBag struct {
	Kind  Kind
	Items []string
}

// objectTextKeys are tried in order when a list element is an object.
var objectTextKeys = []string{"title", "name", "description", "text"}

// ParseTextBag flattens raw once, at the boundary. Text that is not JSON is
// kept as a single item.
func ParseTextBag(raw string) TextBag {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TextBag{}
	}
	if !gjson.Valid(trimmed) {
		return TextBag{Kind: KindString, Items: []string{trimmed}}
	}

	value := gjson.Parse(trimmed)
	switch {
	case value.Type == gjson.Null:
		return TextBag{}
	case value.Type == gjson.String:
		return bagOf(KindString, value.String())
	case value.IsArray():
		items := make([]string, 0, len(value.Array()))
		for _, item := range value.Array() {
			if text := listItemText(item); text != "" {
				items = append(items, text)
			}
		}
		return TextBag{Kind: KindList, Items: items}
	case value.IsObject():
		items := make([]string, 0)
		value.ForEach(func(_, v gjson.Result) bool {
			switch {
			case v.Type == gjson.String:
				items = appendNonEmpty(items, v.String())
			case v.IsArray():
				for _, el := range v.Array() {
					if el.Type == gjson.String {
						items = appendNonEmpty(items, el.String())
					}
				}
			}
			return true
		})
		return TextBag{Kind: KindObject, Items: items}
	default:
		return bagOf(KindString, value.Raw)
	}
}

// TextBagFromList builds a bag from values that are already strings.
func TextBagFromList(values []string) TextBag {
	items := make([]string, 0, len(values))
	for _, v := range values {
		items = appendNonEmpty(items, v)
	}
	return TextBag{Kind: KindList, Items: items}
}

func listItemText(item gjson.Result) string {
	switch {
	case item.IsObject():
		for _, key := range objectTextKeys {
			if v := item.Get(key); v.Exists() {
				return strings.TrimSpace(v.String())
			}
		}
		parts := make([]string, 0)
		item.ForEach(func(_, v gjson.Result) bool {
			if v.Type == gjson.String {
				parts = append(parts, v.String())
			}
			return true
		})
		return strings.TrimSpace(strings.Join(parts, " "))
	case item.Type == gjson.String:
		return strings.TrimSpace(item.String())
	case item.Type == gjson.Null:
		return ""
	default:
		return strings.TrimSpace(item.Raw)
	}
}

func bagOf(kind Kind, s string) TextBag {
	s = strings.TrimSpace(s)
	if s == "" {
		return TextBag{}
	}
	return TextBag{Kind: kind, Items: []string{s}}
}

func appendNonEmpty(items []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return items
	}
	return append(items, s)
}

func (b TextBag) Join(sep string) string {
	return strings.Join(b.Items, sep)
}

func (b TextBag) IsEmpty() bool {
	return len(b.Items) == 0
}

// MarshalJSON renders the bag as a plain list so API consumers see []string.
func (b TextBag) MarshalJSON() ([]byte, error) {
	if b.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b.Items)
}
