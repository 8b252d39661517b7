package transcode

import (
	"testing"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/properties"
	"github.com/matryer/is"
)

func TestDecodeScalarClassifiesBooleans(t *testing.T) {
	is := is.New(t)

	is.Equal(DecodeScalar("true"), true)
	is.Equal(DecodeScalar("True"), true)
	is.Equal(DecodeScalar("FALSE"), false)
}

func TestDecodeScalarRequiresDecimalPointForFloats(t *testing.T) {
	is := is.New(t)

	is.Equal(DecodeScalar("1.5"), 1.5)
	is.Equal(DecodeScalar("42"), int64(42))
	is.Equal(DecodeScalar("1e5"), "1e5")
}

func TestDecodeScalarFallsBackToString(t *testing.T) {
	is := is.New(t)

	is.Equal(DecodeScalar("12.5.3"), "12.5.3")
	is.Equal(DecodeScalar("active"), "active")
}

func TestScalarRoundTripIsIdempotent(t *testing.T) {
	is := is.New(t)

	for _, cell := range []string{"true", "1.5", "42", "active", "12.5.3"} {
		once := EncodeScalar(DecodeScalar(cell))
		twice := EncodeScalar(DecodeScalar(once))
		is.Equal(once, twice)
	}
}

func TestEncodeScalarKeepsIntegersWithoutDecimalPoint(t *testing.T) {
	is := is.New(t)

	is.Equal(EncodeScalar(int64(42)), "42")
	is.Equal(EncodeScalar(42.0), "42")
	is.Equal(EncodeScalar(1.5), "1.5")
}

func TestWrapAttributeWrapsObservedAtAsDateTime(t *testing.T) {
	is := is.New(t)

	p := WrapAttribute("observedAt", "2025-01-15T10:30:00Z")

	dtp, ok := p.(*properties.DateTimeProperty)
	is.True(ok)
	is.Equal(dtp.TimeStamp(), "2025-01-15T10:30:00Z")
}

func TestUnwrapRecoversTheWrappedValue(t *testing.T) {
	is := is.New(t)

	is.Equal(UnwrapProperty(WrapAttribute("waterLevel", "1.5")), 1.5)
	is.Equal(UnwrapProperty(WrapAttribute("floors", "42")), 42.0)
	is.Equal(UnwrapProperty(WrapAttribute("operational", "true")), true)
	is.Equal(UnwrapProperty(WrapAttribute("status", "active")), "active")
	is.Equal(UnwrapProperty(WrapAttribute("observedAt", "2025-01-15T10:30:00Z")), "2025-01-15T10:30:00Z")
}
