package transcode

import (
	"encoding/json"
	"testing"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/geojson"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
	"github.com/matryer/is"
)

func TestEntitiesToFeatureCollectionUnwrapsProperties(t *testing.T) {
	is := is.New(t)

	e, err := entities.New("urn:ngsi-ld:WaterSensor:ws1", "WaterSensor",
		decorators.Location(10.8, 106.7),
		decorators.Number("waterLevel", 1.5),
		decorators.Boolean("alerting", false),
		decorators.ObservedAt("2025-01-15T10:30:00Z"),
	)
	is.NoErr(err)

	collection := EntitiesToFeatureCollection([]types.Entity{e})
	is.Equal(len(collection.Features), 1)

	feature := collection.Features[0]
	is.Equal(feature.Type, "Feature")
	is.Equal(feature.Properties["id"], "urn:ngsi-ld:WaterSensor:ws1")
	is.Equal(feature.Properties["type"], "WaterSensor")
	is.Equal(feature.Properties["waterLevel"], 1.5)
	is.Equal(feature.Properties["alerting"], false)
	is.Equal(feature.Properties["observedAt"], "2025-01-15T10:30:00Z")
}

func TestEntitiesWithoutGeometryProduceNoFeature(t *testing.T) {
	is := is.New(t)

	located, err := entities.New("urn:ngsi-ld:Building:b1", "Building",
		decorators.Location(10.8, 106.7),
	)
	is.NoErr(err)

	unlocated, err := entities.New("urn:ngsi-ld:Building:b2", "Building",
		decorators.Text("name", "Hall B"),
	)
	is.NoErr(err)

	collection := EntitiesToFeatureCollection([]types.Entity{located, unlocated})
	is.Equal(len(collection.Features), 1)
	is.Equal(collection.Features[0].Properties["id"], "urn:ngsi-ld:Building:b1")
}

func TestFeatureCollectionToRowsUnionsPropertyNames(t *testing.T) {
	is := is.New(t)

	collection := geojson.NewFeatureCollection()
	collection.Features = []geojson.GeoJSONFeature{
		{
			Type: "Feature",
			Geometry: &geojson.GeoJSONPropertyPoint{
				Type:        "Point",
				Coordinates: [2]float64{106.7, 10.8},
			},
			Properties: map[string]any{
				"id":   "urn:ngsi-ld:Building:b1",
				"type": "Building",
				"name": "Hall A",
			},
		},
		{
			Type: "Feature",
			Geometry: &geojson.GeoJSONPropertyLineString{
				Type:        "LineString",
				Coordinates: [][]float64{{106.7, 10.8}, {106.71, 10.81}},
			},
			Properties: map[string]any{
				"id":     "urn:ngsi-ld:Road:r1",
				"type":   "Road",
				"length": 420.5,
			},
		},
	}

	columns, rows := FeatureCollectionToRows(collection)

	is.Equal(columns, []string{"id", "type", "length", "name", "geometry_type", "geometry"})
	is.Equal(len(rows), 2)

	is.Equal(rows[0]["name"], "Hall A")
	is.Equal(rows[0]["length"], "")
	is.Equal(rows[0]["geometry_type"], "Point")
	is.Equal(rows[0]["geometry"], "10.8,106.7")

	is.Equal(rows[1]["name"], "")
	is.Equal(rows[1]["length"], "420.5")
	is.Equal(rows[1]["geometry_type"], "LineString")
	is.Equal(rows[1]["geometry"], `[[106.7,10.8],[106.71,10.81]]`)
}

func TestFeatureCollectionSurvivesJSONRoundTrip(t *testing.T) {
	is := is.New(t)

	e, err := entities.New("urn:ngsi-ld:Road:r1", "Road",
		decorators.LineStringLocation([][]float64{{106.7, 10.8}, {106.71, 10.81}}),
		decorators.Text("name", "Nguyen Hue"),
	)
	is.NoErr(err)

	serialized, err := json.Marshal(EntitiesToFeatureCollection([]types.Entity{e}))
	is.NoErr(err)

	parsed := &geojson.GeoJSONFeatureCollection{}
	is.NoErr(json.Unmarshal(serialized, parsed))

	columns, rows := FeatureCollectionToRows(parsed)

	is.Equal(columns, []string{"id", "type", "name", "geometry_type", "geometry"})
	is.Equal(len(rows), 1)
	is.Equal(rows[0]["id"], "urn:ngsi-ld:Road:r1")
	is.Equal(rows[0]["geometry_type"], "LineString")
	is.Equal(rows[0]["geometry"], `[[106.7,10.8],[106.71,10.81]]`)
}
