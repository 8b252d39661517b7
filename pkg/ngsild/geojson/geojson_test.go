package geojson

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
)

func TestUnmarshalPoint(t *testing.T) {
	is := is.New(t)

	p, err := UnmarshalG(map[string]any{
		"type": "GeoProperty",
		"value": map[string]any{
			"type":        "Point",
			"coordinates": []any{106.701, 10.777},
		},
	})
	is.NoErr(err)

	gp, ok := p.(*GeoJSONProperty)
	is.True(ok)
	is.Equal(gp.GeoPropertyType(), "Point")
	is.Equal(gp.GetAsPoint().Longitude(), 106.701)
	is.Equal(gp.GetAsPoint().Latitude(), 10.777)
}

func TestUnmarshalPolygon(t *testing.T) {
	is := is.New(t)

	p, err := UnmarshalG(map[string]any{
		"type": "GeoProperty",
		"value": map[string]any{
			"type": "Polygon",
			"coordinates": []any{
				[]any{
					[]any{106.713, 10.791},
					[]any{106.717, 10.791},
					[]any{106.717, 10.793},
					[]any{106.713, 10.791},
				},
			},
		},
	})
	is.NoErr(err)

	gp, ok := p.(*GeoJSONProperty)
	is.True(ok)
	is.Equal(gp.GeoPropertyType(), "Polygon")

	poly, ok := gp.GeoPropertyValue().(*GeoJSONPropertyPolygon)
	is.True(ok)
	is.Equal(len(poly.Coordinates), 1)
	is.Equal(len(poly.Coordinates[0]), 4)
}

func TestUnmarshalRejectsUnknownGeometryType(t *testing.T) {
	is := is.New(t)

	_, err := UnmarshalG(map[string]any{
		"type": "GeoProperty",
		"value": map[string]any{
			"type":        "Circle",
			"coordinates": []any{106.701, 10.777},
		},
	})
	is.True(err != nil)
}

func TestUnmarshalRejectsMissingValue(t *testing.T) {
	is := is.New(t)

	_, err := UnmarshalG(map[string]any{"type": "GeoProperty"})
	is.True(err != nil)
}

func TestFeatureCollectionMarshalsWithoutContextByDefault(t *testing.T) {
	is := is.New(t)

	collection := NewFeatureCollection()
	collection.Features = []GeoJSONFeature{}

	b, err := json.Marshal(collection)
	is.NoErr(err)
	is.Equal(string(b), `{"type":"FeatureCollection","features":[]}`)
}

func TestLineStringGetAsPointReturnsFirstVertex(t *testing.T) {
	is := is.New(t)

	ls := GeoJSONPropertyLineString{
		Type:        "LineString",
		Coordinates: [][]float64{{106.64, 10.76}, {106.65, 10.77}},
	}

	point := ls.GetAsPoint()
	is.Equal(point.Longitude(), 106.64)
	is.Equal(point.Latitude(), 10.76)
}
