package geojson

import (
	"fmt"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
)

type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
	Context  *[]string        `json:"@context,omitempty"`
}

func NewFeatureCollection() *GeoJSONFeatureCollection {
	return &GeoJSONFeatureCollection{Type: "FeatureCollection"}
}

type GeoJSONFeature struct {
	Type       string         `json:"type"`
	Geometry   any            `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type GeoJSONGeometry interface {
	GeoPropertyType() string
	GeoPropertyValue() GeoJSONGeometry
	GetAsPoint() GeoJSONPropertyPoint
}

type PropertyImpl struct {
	Type string `json:"type"`
}

// GeoJSONProperty is used to encapsulate different GeoJSONGeometry types
type GeoJSONProperty struct {
	PropertyImpl
	Val GeoJSONGeometry `json:"value"`
}

func (gjp *GeoJSONProperty) GeoPropertyType() string {
	return gjp.Val.GeoPropertyType()
}

func (gjp *GeoJSONProperty) GeoPropertyValue() GeoJSONGeometry {
	return gjp.Val
}

func (gjp *GeoJSONProperty) GetAsPoint() GeoJSONPropertyPoint {
	return gjp.Val.GetAsPoint()
}

func (gjp *GeoJSONProperty) Type() string {
	return gjp.PropertyImpl.Type
}

func (gjp *GeoJSONProperty) Value() any {
	return gjp.GeoPropertyValue()
}

// GeoJSONPropertyPoint is used as the value object for a Point geo property
type GeoJSONPropertyPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func (gjpp *GeoJSONPropertyPoint) GeoPropertyType() string {
	return gjpp.Type
}

func (gjpp *GeoJSONPropertyPoint) GeoPropertyValue() GeoJSONGeometry {
	return gjpp
}

func (gjpp *GeoJSONPropertyPoint) GetAsPoint() GeoJSONPropertyPoint {
	// Return a copy of this point to prevent mutation
	return GeoJSONPropertyPoint{
		Type:        gjpp.Type,
		Coordinates: [2]float64{gjpp.Coordinates[0], gjpp.Coordinates[1]},
	}
}

func (gjpp GeoJSONPropertyPoint) Latitude() float64 {
	return gjpp.Coordinates[1]
}

func (gjpp GeoJSONPropertyPoint) Longitude() float64 {
	return gjpp.Coordinates[0]
}

// GeoJSONPropertyLineString is used as the value object for a LineString geo property
type GeoJSONPropertyLineString struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

func (gjpls *GeoJSONPropertyLineString) GeoPropertyType() string {
	return gjpls.Type
}

func (gjpls *GeoJSONPropertyLineString) GeoPropertyValue() GeoJSONGeometry {
	return gjpls
}

func (gjpls *GeoJSONPropertyLineString) GetAsPoint() GeoJSONPropertyPoint {
	return GeoJSONPropertyPoint{
		Type:        "Point",
		Coordinates: [2]float64{gjpls.Coordinates[0][0], gjpls.Coordinates[0][1]},
	}
}

// GeoJSONPropertyPolygon is used as the value object for a Polygon geo property
type GeoJSONPropertyPolygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

func (gjpp *GeoJSONPropertyPolygon) GeoPropertyType() string {
	return gjpp.Type
}

func (gjpp *GeoJSONPropertyPolygon) GeoPropertyValue() GeoJSONGeometry {
	return gjpp
}

func (gjpp *GeoJSONPropertyPolygon) GetAsPoint() GeoJSONPropertyPoint {
	return GeoJSONPropertyPoint{
		Type:        "Point",
		Coordinates: [2]float64{gjpp.Coordinates[0][0][0], gjpp.Coordinates[0][0][1]},
	}
}

// CreateGeoJSONPropertyFromWGS84 creates a GeoJSONProperty from a WGS84 coordinate
func CreateGeoJSONPropertyFromWGS84(longitude, latitude float64) *GeoJSONProperty {
	p := &GeoJSONProperty{
		PropertyImpl: PropertyImpl{Type: "GeoProperty"},
		Val: &GeoJSONPropertyPoint{
			Type:        "Point",
			Coordinates: [2]float64{longitude, latitude},
		},
	}

	return p
}

// CreateGeoJSONPropertyFromLineString creates a GeoJSONProperty from an array of line coordinate arrays
func CreateGeoJSONPropertyFromLineString(coordinates [][]float64) *GeoJSONProperty {
	p := &GeoJSONProperty{
		PropertyImpl: PropertyImpl{Type: "GeoProperty"},
		Val: &GeoJSONPropertyLineString{
			Type:        "LineString",
			Coordinates: coordinates,
		},
	}

	return p
}

// CreateGeoJSONPropertyFromPolygon creates a GeoJSONProperty from an array of linear rings
func CreateGeoJSONPropertyFromPolygon(coordinates [][][]float64) *GeoJSONProperty {
	p := &GeoJSONProperty{
		PropertyImpl: PropertyImpl{Type: "GeoProperty"},
		Val: &GeoJSONPropertyPolygon{
			Type:        "Polygon",
			Coordinates: coordinates,
		},
	}

	return p
}

func UnmarshalG(body map[string]any) (types.Property, error) {
	value, ok := body["value"]
	if !ok {
		return nil, fmt.Errorf("geoproperties without a value attribute are not supported")
	}

	switch typedValue := value.(type) {
	case map[string]any:
		geoType, ok := typedValue["type"]
		if !ok {
			return nil, fmt.Errorf("geoproperties without a geotype are not supported")
		}

		geoTypeStr, ok := geoType.(string)
		if !ok {
			return nil, fmt.Errorf("geoproperty type value is of an unconvertible type")
		}

		switch geoTypeStr {
		case "Point":
			return unmarshalPoint(typedValue)
		case "LineString":
			return unmarshalLineString(typedValue)
		case "Polygon":
			return unmarshalPolygon(typedValue)
		default:
			return nil, fmt.Errorf("unknown geotype %s not supported in geoproperty", geoTypeStr)
		}

	default:
		return nil, fmt.Errorf("unable to parse geoproperty of unknown value type %T", typedValue)
	}
}

func unmarshalPoint(value map[string]any) (types.Property, error) {
	untypedCoordinates, ok := value["coordinates"]
	if !ok {
		return nil, fmt.Errorf("unable to unmarshal geoproperty point with no coordinates")
	}

	coordinates, ok := untypedCoordinates.([]any)
	if !ok {
		return nil, fmt.Errorf("malformed point coordinates")
	}

	if len(coordinates) < 2 {
		return nil, fmt.Errorf("geoproperty point coordinates array has insufficient length (%d < 2)", len(coordinates))
	}

	lon, okLon := coordinates[0].(float64)
	lat, okLat := coordinates[1].(float64)

	if !okLon || !okLat {
		return nil, fmt.Errorf("geoproperty point coordinates not convertible to float64")
	}

	return CreateGeoJSONPropertyFromWGS84(lon, lat), nil
}

func unmarshalLineString(value map[string]any) (types.Property, error) {
	untypedCoordinates, ok := value["coordinates"]
	if !ok {
		return nil, fmt.Errorf("unable to unmarshal geoproperty line string with no coordinates")
	}

	coordinates, ok := untypedCoordinates.([]any)
	if !ok {
		return nil, fmt.Errorf("malformed linestring coordinates")
	}

	coords := make([][]float64, 0, len(coordinates))

	for _, a := range coordinates {
		a, ok := a.([]any)
		if !ok {
			return nil, fmt.Errorf("malformed linestring coordinates")
		}

		c1 := make([]float64, 0, len(a))

		for _, p := range a {
			v, ok := p.(float64)
			if !ok {
				return nil, fmt.Errorf("failed to convert line string coordinate to float64")
			}

			c1 = append(c1, v)
		}

		coords = append(coords, c1)
	}

	return CreateGeoJSONPropertyFromLineString(coords), nil
}

func unmarshalPolygon(value map[string]any) (types.Property, error) {
	untypedCoordinates, ok := value["coordinates"]
	if !ok {
		return nil, fmt.Errorf("unable to unmarshal geoproperty polygon with no coordinates")
	}

	coordinates, ok := untypedCoordinates.([]any)
	if !ok {
		return nil, fmt.Errorf("malformed polygon coordinates")
	}

	rings := make([][][]float64, 0, len(coordinates))

	for _, a := range coordinates {
		a, ok := a.([]any)
		if !ok {
			return nil, fmt.Errorf("malformed polygon coordinates")
		}

		ring := make([][]float64, 0, len(a))

		for _, b := range a {
			b, ok := b.([]any)
			if !ok {
				return nil, fmt.Errorf("malformed polygon coordinates")
			}

			vertex := make([]float64, 0, len(b))

			for _, p := range b {
				v, ok := p.(float64)
				if !ok {
					return nil, fmt.Errorf("failed to convert polygon coordinate to float64")
				}

				vertex = append(vertex, v)
			}

			ring = append(ring, vertex)
		}

		rings = append(rings, ring)
	}

	return CreateGeoJSONPropertyFromPolygon(rings), nil
}
