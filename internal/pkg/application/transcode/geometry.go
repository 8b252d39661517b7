package transcode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/geojson"
)

// Column names that carry structure rather than entity attributes.
const (
	ColumnID           string = "id"
	ColumnType         string = "type"
	ColumnLocation     string = "location"
	ColumnGeometry     string = "geometry"
	ColumnGeometryType string = "geometry_type"
)

// isReservedColumn reports whether a column holds row structure instead
// of an entity attribute. observedAt is not reserved, it decodes like
// any other attribute and picks up its timestamp envelope there.
func isReservedColumn(name string) bool {
	switch name {
	case ColumnID, ColumnType, ColumnLocation, ColumnGeometry, ColumnGeometryType:
		return true
	default:
		return false
	}
}

// DecodePointCSV parses a "lat,lon" cell into a Point geometry. The cell
// order is reversed compared to the lon,lat order used everywhere else.
// Malformed cells yield nil, never an error.
func DecodePointCSV(cell string) geojson.GeoJSONGeometry {
	parts := strings.Split(cell, ",")
	if len(parts) != 2 {
		return nil
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil
	}

	return &geojson.GeoJSONPropertyPoint{
		Type:        "Point",
		Coordinates: [2]float64{lon, lat},
	}
}

// EncodePointCSV renders a Point back to its "lat,lon" cell form.
func EncodePointCSV(point geojson.GeoJSONPropertyPoint) string {
	lat := strconv.FormatFloat(point.Latitude(), 'f', -1, 64)
	lon := strconv.FormatFloat(point.Longitude(), 'f', -1, 64)
	return lat + "," + lon
}

// DecodeLineStringJSON parses a JSON array of lon,lat pairs. Malformed
// cells yield nil.
func DecodeLineStringJSON(cell string) geojson.GeoJSONGeometry {
	coordinates := [][]float64{}
	if err := json.Unmarshal([]byte(cell), &coordinates); err != nil {
		return nil
	}

	if len(coordinates) == 0 {
		return nil
	}

	return &geojson.GeoJSONPropertyLineString{
		Type:        "LineString",
		Coordinates: coordinates,
	}
}

// DecodePolygonJSON parses a JSON array of linear rings. Malformed cells
// yield nil.
func DecodePolygonJSON(cell string) geojson.GeoJSONGeometry {
	rings := [][][]float64{}
	if err := json.Unmarshal([]byte(cell), &rings); err != nil {
		return nil
	}

	if len(rings) == 0 {
		return nil
	}

	return &geojson.GeoJSONPropertyPolygon{
		Type:        "Polygon",
		Coordinates: rings,
	}
}

// DecodeGeometryColumns reconstructs a geometry from an explicit
// geometry_type tag and its serialized form. The tag is authoritative,
// the cell content is never sniffed when a tag is present.
func DecodeGeometryColumns(geometryType, cell string) geojson.GeoJSONGeometry {
	switch geometryType {
	case "Point":
		return DecodePointCSV(cell)
	case "LineString":
		return DecodeLineStringJSON(cell)
	case "Polygon":
		return DecodePolygonJSON(cell)
	default:
		return nil
	}
}

// EncodeGeometryCell renders a geometry for the geometry column. Points
// use the compact "lat,lon" form, line strings and polygons their JSON
// coordinate arrays.
func EncodeGeometryCell(g geojson.GeoJSONGeometry) (string, error) {
	switch geom := g.(type) {
	case *geojson.GeoJSONPropertyPoint:
		return EncodePointCSV(*geom), nil
	case *geojson.GeoJSONPropertyLineString:
		b, err := json.Marshal(geom.Coordinates)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case *geojson.GeoJSONPropertyPolygon:
		b, err := json.Marshal(geom.Coordinates)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported geometry type %s", g.GeoPropertyType())
	}
}

// GeometryDisplayString renders a geometry for the single location
// column. Points keep their coordinates, larger geometries are reduced
// to a human readable summary and cannot be reconstructed from it.
func GeometryDisplayString(g geojson.GeoJSONGeometry) (string, error) {
	switch geom := g.(type) {
	case *geojson.GeoJSONPropertyPoint:
		return EncodePointCSV(*geom), nil
	case *geojson.GeoJSONPropertyLineString:
		return fmt.Sprintf("LineString with %d points", len(geom.Coordinates)), nil
	case *geojson.GeoJSONPropertyPolygon:
		vertices := 0
		if len(geom.Coordinates) > 0 {
			vertices = len(geom.Coordinates[0])
		}
		return fmt.Sprintf("Polygon with %d vertices", vertices), nil
	default:
		return "", fmt.Errorf("unsupported geometry type %s", g.GeoPropertyType())
	}
}

// IsGeometrySummary reports whether a location cell holds a reduced
// geometry summary instead of point coordinates. Such cells cannot be
// turned back into a geometry and are dropped by row decoding.
func IsGeometrySummary(cell string) bool {
	return strings.HasPrefix(cell, "LineString") || strings.HasPrefix(cell, "Polygon")
}

// GeometryFromAny converts a decoded JSON geometry object back to its
// typed form. Geometries that are already typed pass through unchanged.
func GeometryFromAny(value any) geojson.GeoJSONGeometry {
	switch geom := value.(type) {
	case geojson.GeoJSONGeometry:
		return geom
	case map[string]any:
		p, err := geojson.UnmarshalG(map[string]any{"value": geom})
		if err != nil {
			return nil
		}
		if gp, ok := p.(*geojson.GeoJSONProperty); ok {
			return gp.GeoPropertyValue()
		}
		return nil
	default:
		return nil
	}
}
