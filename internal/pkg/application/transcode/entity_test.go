package transcode

import (
	"testing"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/geojson"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities/decorators"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/properties"
	"github.com/matryer/is"
)

func TestFromRowSkipsRowsWithoutAnID(t *testing.T) {
	is := is.New(t)

	_, ok := FromRow(map[string]string{"type": "Building", "name": "Hall A"}, "Building")
	is.True(!ok)
}

func TestFromRowFallsBackToTheDeclaredType(t *testing.T) {
	is := is.New(t)

	e, ok := FromRow(map[string]string{"id": "urn:ngsi-ld:Building:b1"}, "Building")
	is.True(ok)
	is.Equal(e.Type(), "Building")
}

func TestFromRowDecodesPointLocation(t *testing.T) {
	is := is.New(t)

	e, ok := FromRow(map[string]string{
		"id":       "urn:ngsi-ld:Building:b1",
		"type":     "Building",
		"location": "10.8,106.7",
	}, "Building")
	is.True(ok)

	point, found := entityLocation(e)
	is.True(found)
	is.Equal(point.GetAsPoint().Longitude(), 106.7)
	is.Equal(point.GetAsPoint().Latitude(), 10.8)
}

func TestFromRowPrefersExplicitGeometryColumns(t *testing.T) {
	is := is.New(t)

	e, ok := FromRow(map[string]string{
		"id":            "urn:ngsi-ld:Road:r1",
		"type":          "Road",
		"geometry_type": "LineString",
		"geometry":      `[[106.7,10.8],[106.71,10.81]]`,
	}, "Road")
	is.True(ok)

	g, found := entityLocation(e)
	is.True(found)
	is.Equal(g.GeoPropertyType(), "LineString")
}

func TestFromRowDropsSummaryLocationCells(t *testing.T) {
	is := is.New(t)

	e, ok := FromRow(map[string]string{
		"id":       "urn:ngsi-ld:Road:r1",
		"type":     "Road",
		"location": "LineString with 5 points",
		"name":     "Nguyen Hue",
	}, "Road")
	is.True(ok)

	_, found := entityLocation(e)
	is.True(!found)

	row := ToRow(e, []string{"id", "name"})
	is.Equal(row["name"], "Nguyen Hue")
}

func TestFromRowTypesAttributeCells(t *testing.T) {
	is := is.New(t)

	e, ok := FromRow(map[string]string{
		"id":          "urn:ngsi-ld:WaterSensor:ws1",
		"type":        "WaterSensor",
		"waterLevel":  "1.5",
		"floors":      "42",
		"operational": "true",
		"status":      "active",
		"observedAt":  "2025-01-15T10:30:00Z",
	}, "WaterSensor")
	is.True(ok)

	row := ToRow(e, []string{"id", "type", "waterLevel", "floors", "operational", "status", "observedAt"})

	is.Equal(row["waterLevel"], "1.5")
	is.Equal(row["floors"], "42")
	is.Equal(row["operational"], "true")
	is.Equal(row["status"], "active")
	is.Equal(row["observedAt"], "2025-01-15T10:30:00Z")
}

func TestToRowFillsMissingAttributesWithEmptyCells(t *testing.T) {
	is := is.New(t)

	e, err := entities.New("urn:ngsi-ld:Building:b1", "Building",
		decorators.Text("name", "Hall A"),
	)
	is.NoErr(err)

	row := ToRow(e, []string{"id", "type", "name", "floors", "location"})

	is.Equal(row["name"], "Hall A")
	is.Equal(row["floors"], "")
	is.Equal(row["location"], "")
}

func TestToRowRendersGeometryColumnPair(t *testing.T) {
	is := is.New(t)

	e, err := entities.New("urn:ngsi-ld:FloodArea:f1", "FloodArea",
		decorators.PolygonLocation([][][]float64{{{106.7, 10.8}, {106.71, 10.8}, {106.71, 10.81}, {106.7, 10.8}}}),
	)
	is.NoErr(err)

	row := ToRow(e, []string{"id", "geometry_type", "geometry"})

	is.Equal(row["geometry_type"], "Polygon")
	is.Equal(row["geometry"], `[[[106.7,10.8],[106.71,10.8],[106.71,10.81],[106.7,10.8]]]`)
}

func TestRowRoundTripPreservesTypedCells(t *testing.T) {
	is := is.New(t)

	original := map[string]string{
		"id":         "urn:ngsi-ld:WaterSensor:ws1",
		"type":       "WaterSensor",
		"location":   "10.8,106.7",
		"waterLevel": "1.5",
		"alerting":   "false",
	}

	e, ok := FromRow(original, "WaterSensor")
	is.True(ok)

	row := ToRow(e, []string{"id", "type", "location", "waterLevel", "alerting"})
	is.Equal(row, original)
}

func TestColumnsOrdersSharedHeader(t *testing.T) {
	is := is.New(t)

	a, err := entities.New("urn:ngsi-ld:Building:b1", "Building",
		decorators.Text("name", "Hall A"),
		decorators.Number("floors", 4),
		decorators.Location(10.8, 106.7),
	)
	is.NoErr(err)

	b, err := entities.New("urn:ngsi-ld:Building:b2", "Building",
		decorators.Text("status", "active"),
	)
	is.NoErr(err)

	columns := Columns([]types.Entity{a, b}, true)
	is.Equal(columns, []string{"id", "type", "floors", "name", "status", "geometry_type", "geometry"})

	columns = Columns([]types.Entity{a, b}, false)
	is.Equal(columns, []string{"id", "type", "floors", "name", "status", "location"})
}

func TestFromRowKeepsObservedAtButNotStructuralColumns(t *testing.T) {
	is := is.New(t)

	e, ok := FromRow(map[string]string{
		"id":         "urn:ngsi-ld:FloodSensor:fs1",
		"type":       "FloodSensor",
		"location":   "10.8,106.7",
		"observedAt": "2025-06-01T00:00:00Z",
		"waterLevel": "1.5",
	}, "FloodSensor")
	is.True(ok)

	attributes := map[string]any{}
	e.ForEachAttribute(func(attributeType, attributeName string, contents any) {
		attributes[attributeName] = contents
	})

	dtp, isDateTime := attributes["observedAt"].(*properties.DateTimeProperty)
	is.True(isDateTime)
	is.Equal(dtp.TimeStamp(), "2025-06-01T00:00:00Z")

	_, hasIDAttribute := attributes["id"]
	is.True(!hasIDAttribute)
	_, hasTypeAttribute := attributes["type"]
	is.True(!hasTypeAttribute)

	_, isGeoProperty := attributes["location"].(*geojson.GeoJSONProperty)
	is.True(isGeoProperty)
}

func entityLocation(e types.Entity) (geojson.GeoJSONGeometry, bool) {
	var g geojson.GeoJSONGeometry

	e.ForEachAttribute(func(attributeType, attributeName string, contents any) {
		if attributeName == "location" {
			if gp, ok := contents.(*geojson.GeoJSONProperty); ok {
				g = gp.GeoPropertyValue()
			}
		}
	})

	return g, g != nil
}
