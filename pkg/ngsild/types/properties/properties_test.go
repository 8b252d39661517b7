package properties

import (
	"testing"

	"github.com/matryer/is"
)

func TestSanitizeEmptyString(t *testing.T) {
	is := is.New(t)
	is.Equal(sanitizeString(""), "")
}

func TestSanitizeInvalidEscapeString(t *testing.T) {
	is := is.New(t)
	is.Equal(sanitizeString("\\uqwab"), "\\uqwab")
}

func TestSanitizeAmpersandString(t *testing.T) {
	is := is.New(t)
	is.Equal(sanitizeString("\\u0026"), "&")
}

func TestSanitizeEmbeddedAmpersandString(t *testing.T) {
	is := is.New(t)
	is.Equal(sanitizeString("A \\u0026 B"), "A & B")
}

func TestSanitizeCroppedString(t *testing.T) {
	is := is.New(t)
	is.Equal(sanitizeString("A \\u0026 \\u00"), "A & \\u00")
}

func TestUnmarshalBooleanValue(t *testing.T) {
	is := is.New(t)

	p, err := UnmarshalP(map[string]any{"type": "Property", "value": true})
	is.NoErr(err)

	bp, ok := p.(*BooleanProperty)
	is.True(ok)
	is.Equal(bp.Value(), true)
}

func TestUnmarshalNumberWithObservedAt(t *testing.T) {
	is := is.New(t)

	p, err := UnmarshalP(map[string]any{
		"type":       "Property",
		"value":      1.52,
		"observedAt": "2025-01-15T10:30:00Z",
	})
	is.NoErr(err)

	np, ok := p.(*NumberProperty)
	is.True(ok)
	is.Equal(np.Value(), 1.52)
	is.Equal(np.ObservedAt(), "2025-01-15T10:30:00Z")
}

func TestUnmarshalDateTimeObject(t *testing.T) {
	is := is.New(t)

	p, err := UnmarshalP(map[string]any{
		"type":  "Property",
		"value": map[string]any{"@type": "DateTime", "@value": "2025-01-15T10:30:00Z"},
	})
	is.NoErr(err)

	dtp, ok := p.(*DateTimeProperty)
	is.True(ok)
	is.Equal(dtp.TimeStamp(), "2025-01-15T10:30:00Z")
}

func TestUnmarshalUnknownPropertyObjectFails(t *testing.T) {
	is := is.New(t)

	_, err := UnmarshalP(map[string]any{
		"type":  "Property",
		"value": map[string]any{"@type": "PostalAddress", "@value": "somewhere"},
	})
	is.True(err != nil)
}

func TestUnmarshalNilValueYieldsEmptyTextList(t *testing.T) {
	is := is.New(t)

	p, err := UnmarshalP(map[string]any{"type": "Property", "value": nil})
	is.NoErr(err)

	tlp, ok := p.(*TextListProperty)
	is.True(ok)
	is.Equal(len(tlp.Val), 0)
}
