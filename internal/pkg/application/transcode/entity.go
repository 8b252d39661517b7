package transcode

import (
	"sort"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/geojson"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/properties"
)

// FromRow builds an entity from a flat row of cell strings. Rows without
// an id cannot be addressed and are reported as not ok so that callers
// skip them. A missing type falls back to the declared type of the
// surrounding file.
func FromRow(row map[string]string, declaredType string) (types.Entity, bool) {
	id := row[ColumnID]
	if id == "" {
		return nil, false
	}

	entityType := row[ColumnType]
	if entityType == "" {
		entityType = declaredType
	}

	decorators := []entities.EntityDecoratorFunc{}

	if g := geometryFromRow(row); g != nil {
		decorators = append(decorators, entities.P(properties.Location, geoProperty(g)))
	}

	for name, cell := range row {
		if isReservedColumn(name) || cell == "" {
			continue
		}

		decorators = append(decorators, entities.P(name, WrapAttribute(name, cell)))
	}

	e, err := entities.New(id, entityType, decorators...)
	if err != nil {
		return nil, false
	}

	return e, true
}

// geometryFromRow prefers the explicit geometry_type and geometry column
// pair over the single location column. Summary cells in the location
// column are dropped since the full geometry is no longer recoverable.
func geometryFromRow(row map[string]string) geojson.GeoJSONGeometry {
	if geometryType, ok := row[ColumnGeometryType]; ok && geometryType != "" {
		if cell := row[ColumnGeometry]; cell != "" {
			return DecodeGeometryColumns(geometryType, cell)
		}
		return nil
	}

	cell := row[ColumnLocation]
	if cell == "" || IsGeometrySummary(cell) {
		return nil
	}

	return DecodePointCSV(cell)
}

func geoProperty(g geojson.GeoJSONGeometry) *geojson.GeoJSONProperty {
	switch geom := g.(type) {
	case *geojson.GeoJSONPropertyPoint:
		return geojson.CreateGeoJSONPropertyFromWGS84(geom.Longitude(), geom.Latitude())
	case *geojson.GeoJSONPropertyLineString:
		return geojson.CreateGeoJSONPropertyFromLineString(geom.Coordinates)
	case *geojson.GeoJSONPropertyPolygon:
		return geojson.CreateGeoJSONPropertyFromPolygon(geom.Coordinates)
	default:
		return nil
	}
}

// ToRow flattens an entity over the given columns. Attributes the entity
// does not carry render as empty cells, which keeps rows of differing
// shape aligned under a shared header.
func ToRow(e types.Entity, columns []string) map[string]string {
	attributes := map[string]types.Property{}
	var location geojson.GeoJSONGeometry

	e.ForEachAttribute(func(attributeType, attributeName string, contents any) {
		switch attr := contents.(type) {
		case *geojson.GeoJSONProperty:
			if attributeName == properties.Location {
				location = attr.GeoPropertyValue()
			}
		case types.Property:
			attributes[attributeName] = attr
		case types.Relationship:
			attributes[attributeName] = relationshipAsProperty(attr)
		}
	})

	row := map[string]string{}

	for _, column := range columns {
		switch column {
		case ColumnID:
			row[column] = e.ID()
		case ColumnType:
			row[column] = e.Type()
		case ColumnLocation:
			row[column] = ""
			if location != nil {
				if cell, err := GeometryDisplayString(location); err == nil {
					row[column] = cell
				}
			}
		case ColumnGeometry:
			row[column] = ""
			if location != nil {
				if cell, err := EncodeGeometryCell(location); err == nil {
					row[column] = cell
				}
			}
		case ColumnGeometryType:
			row[column] = ""
			if location != nil {
				row[column] = location.GeoPropertyType()
			}
		default:
			row[column] = ""
			if p, ok := attributes[column]; ok {
				row[column] = EncodeScalar(UnwrapProperty(p))
			}
		}
	}

	return row
}

func relationshipAsProperty(r types.Relationship) types.Property {
	switch object := r.Object().(type) {
	case string:
		return properties.NewTextProperty(object)
	case []string:
		return properties.NewTextListProperty(object)
	default:
		return properties.NewTextProperty("")
	}
}

// FromStoreRecord parses a stored entity document, unwrapping all of its
// attribute envelopes in the process.
func FromStoreRecord(data []byte) (types.Entity, error) {
	return entities.NewFromJSON(data)
}

// Columns derives the shared header for a set of entities. The id and
// type columns always come first, remaining attribute names are sorted,
// and the geometry column pair goes last when requested.
func Columns(entitySet []types.Entity, withGeometryColumns bool) []string {
	names := map[string]struct{}{}

	for _, e := range entitySet {
		e.ForEachAttribute(func(attributeType, attributeName string, contents any) {
			if attributeName == properties.Location {
				return
			}
			names[attributeName] = struct{}{}
		})
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	columns := append([]string{ColumnID, ColumnType}, sorted...)

	if withGeometryColumns {
		columns = append(columns, ColumnGeometryType, ColumnGeometry)
	} else {
		columns = append(columns, ColumnLocation)
	}

	return columns
}
