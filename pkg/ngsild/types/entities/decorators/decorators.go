package decorators

import (
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/geojson"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/entities"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/properties"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/relationships"
)

func Location(latitude, longitude float64) entities.EntityDecoratorFunc {
	location := geojson.CreateGeoJSONPropertyFromWGS84(longitude, latitude)
	return entities.P("location", location)
}

func LineStringLocation(coordinates [][]float64) entities.EntityDecoratorFunc {
	location := geojson.CreateGeoJSONPropertyFromLineString(coordinates)
	return entities.P("location", location)
}

func PolygonLocation(rings [][][]float64) entities.EntityDecoratorFunc {
	location := geojson.CreateGeoJSONPropertyFromPolygon(rings)
	return entities.P("location", location)
}

func DateTime(name string, value string) entities.EntityDecoratorFunc {
	return entities.P(name, properties.NewDateTimeProperty(value))
}

func Number(name string, value float64, decorators ...properties.NumberPropertyDecoratorFunc) entities.EntityDecoratorFunc {
	np := properties.NewNumberProperty(value)
	for _, decorator := range decorators {
		decorator(np)
	}
	return entities.P(name, np)
}

func Text(name string, value string) entities.EntityDecoratorFunc {
	return entities.P(name, properties.NewTextProperty(value))
}

func Boolean(name string, value bool) entities.EntityDecoratorFunc {
	return entities.P(name, properties.NewBooleanProperty(value))
}

func Reference(name, object string) entities.EntityDecoratorFunc {
	return entities.R(name, relationships.NewSingleObjectRelationship(object))
}

func ObservedAt(timestamp string) entities.EntityDecoratorFunc {
	return DateTime(properties.ObservedAt, timestamp)
}

func Name(value string) entities.EntityDecoratorFunc {
	return Text(properties.Name, value)
}

func Status(value string) entities.EntityDecoratorFunc {
	return Text(properties.Status, value)
}
