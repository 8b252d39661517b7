package transcode

import (
	"sort"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/geojson"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/properties"
)

// EntitiesToFeatureCollection projects entities onto a feature
// collection. Each feature carries the entity geometry and a flat
// property map of unwrapped values, with id and type alongside the
// attributes. Entities without a geometry are left out, a feature
// requires one.
func EntitiesToFeatureCollection(entitySet []types.Entity) *geojson.GeoJSONFeatureCollection {
	collection := geojson.NewFeatureCollection()
	collection.Features = []geojson.GeoJSONFeature{}

	for _, e := range entitySet {
		feature, ok := entityToFeature(e)
		if !ok {
			continue
		}

		collection.Features = append(collection.Features, feature)
	}

	return collection
}

func entityToFeature(e types.Entity) (geojson.GeoJSONFeature, bool) {
	props := map[string]any{
		ColumnID:   e.ID(),
		ColumnType: e.Type(),
	}

	var geometry geojson.GeoJSONGeometry

	e.ForEachAttribute(func(attributeType, attributeName string, contents any) {
		switch attr := contents.(type) {
		case *geojson.GeoJSONProperty:
			if attributeName == properties.Location {
				geometry = attr.GeoPropertyValue()
			}
		case types.Property:
			props[attributeName] = UnwrapProperty(attr)
		case types.Relationship:
			props[attributeName] = attr.Object()
		}
	})

	if geometry == nil {
		return geojson.GeoJSONFeature{}, false
	}

	return geojson.GeoJSONFeature{
		Type:       "Feature",
		Geometry:   geometry,
		Properties: props,
	}, true
}

// FeatureCollectionToRows flattens a feature collection into rows under
// a shared header. The header is the union of all property names across
// the features, with id and type first, the rest sorted, and the
// geometry column pair last. Properties a feature lacks render as empty
// cells.
func FeatureCollectionToRows(collection *geojson.GeoJSONFeatureCollection) ([]string, []map[string]string) {
	type flatFeature struct {
		properties map[string]string
		geometry   geojson.GeoJSONGeometry
	}

	flattened := make([]flatFeature, 0, len(collection.Features))
	names := map[string]struct{}{}

	for _, feature := range collection.Features {
		flat := flatFeature{
			properties: map[string]string{},
			geometry:   GeometryFromAny(feature.Geometry),
		}

		for name, value := range feature.Properties {
			flat.properties[name] = EncodeScalar(value)
			if name != ColumnID && name != ColumnType {
				names[name] = struct{}{}
			}
		}

		flattened = append(flattened, flat)
	}

	columns := unionColumns(names)
	rows := make([]map[string]string, 0, len(flattened))

	for _, flat := range flattened {
		row := map[string]string{}

		for _, column := range columns {
			switch column {
			case ColumnGeometry:
				row[column] = ""
				if flat.geometry != nil {
					if cell, err := EncodeGeometryCell(flat.geometry); err == nil {
						row[column] = cell
					}
				}
			case ColumnGeometryType:
				row[column] = ""
				if flat.geometry != nil {
					row[column] = flat.geometry.GeoPropertyType()
				}
			default:
				row[column] = flat.properties[column]
			}
		}

		rows = append(rows, row)
	}

	return columns, rows
}

func unionColumns(names map[string]struct{}) []string {
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}

	sort.Strings(sorted)

	columns := append([]string{ColumnID, ColumnType}, sorted...)
	return append(columns, ColumnGeometryType, ColumnGeometry)
}
