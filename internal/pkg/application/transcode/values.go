package transcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/geojson"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/properties"
)

// DecodeScalar recovers a typed value from a raw cell string without a
// schema. The decode order is fixed: boolean, float if the text contains
// a decimal point, integer, and finally the string verbatim. The same
// text always maps to the same type, in every conversion direction.
func DecodeScalar(raw string) any {
	if strings.EqualFold(raw, "true") {
		return true
	}

	if strings.EqualFold(raw, "false") {
		return false
	}

	if strings.Contains(raw, ".") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	} else {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return i
		}
	}

	return raw
}

// EncodeScalar renders a typed value back to its cell string form.
// Integers render without a decimal point, floats with their natural
// decimal representation, so re-decoding reproduces the type class.
func EncodeScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// WrapAttribute wraps a decoded scalar in its Property envelope. A field
// named observedAt is wrapped as the DateTime sub object instead.
func WrapAttribute(name, raw string) types.Property {
	if name == properties.ObservedAt {
		return properties.NewDateTimeProperty(raw)
	}

	switch v := DecodeScalar(raw).(type) {
	case bool:
		return properties.NewBooleanProperty(v)
	case int64:
		return properties.NewNumberProperty(float64(v))
	case float64:
		return properties.NewNumberProperty(v)
	default:
		return properties.NewTextProperty(raw)
	}
}

// UnwrapProperty recovers exactly the value that was wrapped. DateTime
// sub objects unwrap to their ISO8601 string, geo properties to their
// geometry value.
func UnwrapProperty(p types.Property) any {
	switch prop := p.(type) {
	case *properties.DateTimeProperty:
		return prop.TimeStamp()
	case *geojson.GeoJSONProperty:
		return prop.GeoPropertyValue()
	default:
		return p.Value()
	}
}
