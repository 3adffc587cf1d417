package scroll

import "strings"

// Tagging selects how a union writes the name of its variant.
type Tagging string

const (
	// TagExternal wraps the payload in a single-entry mapping keyed by the
	// variant name. Unit variants are written as the bare name.
	TagExternal Tagging = "external"

	// TagInternal stores the variant name in a field of the payload mapping.
	TagInternal Tagging = "internal"

	// TagAdjacent writes a mapping with one field for the variant name and
	// one for the payload.
	TagAdjacent Tagging = "adjacent"

	// TagUntagged writes the bare payload and picks the first variant that
	// decodes on the way back.
	TagUntagged Tagging = "untagged"
)

// FieldOption is an option in a `yaml:"name,option"` struct tag.
type FieldOption string

const (
	// OptOmitEmpty skips the field when encoding a zero value and makes it
	// optional when decoding.
	OptOmitEmpty FieldOption = "omitempty"

	// OptDefault makes the field optional when decoding; a missing key
	// leaves the zero value.
	OptDefault FieldOption = "default"

	// OptInline flattens the fields of a struct field into its parent.
	OptInline FieldOption = "inline"
)

// validTaggings contains all valid union taggings.
var validTaggings = map[Tagging]bool{
	TagExternal: true,
	TagInternal: true,
	TagAdjacent: true,
	TagUntagged: true,
}

// validFieldOptions contains all valid struct tag options.
var validFieldOptions = map[FieldOption]bool{
	OptOmitEmpty: true,
	OptDefault:   true,
	OptInline:    true,
}

// IsValidTagging returns true if t is a known union tagging.
func IsValidTagging(t Tagging) bool {
	return validTaggings[t]
}

// IsValidFieldOption returns true if opt is a known struct tag option.
func IsValidFieldOption(opt FieldOption) bool {
	return validFieldOptions[opt]
}

type fieldTag struct {
	name       string
	skip       bool
	omitEmpty  bool
	hasDefault bool
	inline     bool
}

// parseFieldTag reads the value of a yaml struct tag.
func parseFieldTag(raw string) (fieldTag, error) {
	if raw == "" {
		return fieldTag{}, nil
	}
	if raw == "-" {
		return fieldTag{skip: true}, nil
	}
	parts := strings.Split(raw, ",")
	tag := fieldTag{name: parts[0]}
	for _, part := range parts[1:] {
		opt := FieldOption(strings.TrimSpace(part))
		if !IsValidFieldOption(opt) {
			return fieldTag{}, ErrInvalidTag
		}
		switch opt {
		case OptOmitEmpty:
			tag.omitEmpty = true
		case OptDefault:
			tag.hasDefault = true
		case OptInline:
			tag.inline = true
		}
	}
	return tag, nil
}
