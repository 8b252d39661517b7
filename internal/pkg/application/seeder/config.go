package seeder

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Geography describes the area the seeder populates. The built in
// defaults cover the Ho Chi Minh City metropolitan area, a config file
// can swap in another city without touching code.
type Geography struct {
	Zones          []Zone          `yaml:"zones"`
	Waterways      []Corridor      `yaml:"waterways"`
	FloodAreas     []FloodArea     `yaml:"floodProneAreas"`
	FallbackRoads  []Road          `yaml:"fallbackRoads"`
	Counts         map[string]Span `yaml:"counts"`
	OverpassAPIURL string          `yaml:"overpassApiUrl"`
}

// Zone is a rectangular district with optional landmark points that
// attract clustered placement.
type Zone struct {
	Key       string      `yaml:"key"`
	Name      string      `yaml:"name"`
	Lat       []float64   `yaml:"lat"`
	Lon       []float64   `yaml:"lon"`
	Weight    float64     `yaml:"weight"`
	Landmarks [][]float64 `yaml:"landmarks"`
}

// Corridor is a rectangular band following a river or canal.
type Corridor struct {
	Name string    `yaml:"name"`
	Lat  []float64 `yaml:"lat"`
	Lon  []float64 `yaml:"lon"`
}

// FloodArea is a known recurring flood location.
type FloodArea struct {
	Name     string    `yaml:"name"`
	Center   []float64 `yaml:"center"`
	Severity string    `yaml:"severity"`
	AreaType string    `yaml:"areaType"`
}

// Road is a named line geometry used when no road source is reachable.
type Road struct {
	Name        string      `yaml:"name"`
	HighwayType string      `yaml:"highwayType"`
	Coordinates [][]float64 `yaml:"coordinates"`
}

// Span is an inclusive count range.
type Span struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// LoadGeography reads a geography config file, falling back to the
// built in defaults when the path is empty.
func LoadGeography(path string) (Geography, error) {
	geo := DefaultGeography()

	if path == "" {
		return geo, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return Geography{}, fmt.Errorf("failed to read geography config: %w", err)
	}

	err = yaml.Unmarshal(contents, &geo)
	if err != nil {
		return Geography{}, fmt.Errorf("failed to parse geography config: %w", err)
	}

	if err := geo.validate(); err != nil {
		return Geography{}, err
	}

	return geo, nil
}

func (g Geography) validate() error {
	if len(g.Zones) == 0 {
		return fmt.Errorf("geography config has no zones")
	}

	for _, zone := range g.Zones {
		if len(zone.Lat) != 2 || len(zone.Lon) != 2 {
			return fmt.Errorf("zone %s needs lat and lon ranges of two values each", zone.Key)
		}
	}

	for _, corridor := range g.Waterways {
		if len(corridor.Lat) != 2 || len(corridor.Lon) != 2 {
			return fmt.Errorf("waterway %s needs lat and lon ranges of two values each", corridor.Name)
		}
	}

	for _, area := range g.FloodAreas {
		if len(area.Center) != 2 {
			return fmt.Errorf("flood area %s needs a lat,lon center", area.Name)
		}
	}

	return nil
}

func (g Geography) span(entityType string, fallback Span) Span {
	if span, ok := g.Counts[entityType]; ok && span.Min > 0 && span.Max >= span.Min {
		return span
	}
	return fallback
}

// DefaultGeography covers HCMC with its districts, waterway corridors
// and the flood prone locations that recur every rainy season.
func DefaultGeography() Geography {
	return Geography{
		OverpassAPIURL: "https://overpass-api.de/api/interpreter",
		Zones: []Zone{
			{Key: "district_1", Name: "District 1 (Central)", Lat: []float64{10.762, 10.792}, Lon: []float64{106.690, 106.712}, Weight: 0.12,
				Landmarks: [][]float64{{10.777, 106.701}, {10.770, 106.695}, {10.780, 106.705}}},
			{Key: "district_3", Name: "District 3", Lat: []float64{10.765, 10.795}, Lon: []float64{106.660, 106.690}, Weight: 0.10,
				Landmarks: [][]float64{{10.780, 106.675}, {10.770, 106.680}, {10.785, 106.670}}},
			{Key: "district_7", Name: "District 7 (Phu My Hung)", Lat: []float64{10.720, 10.750}, Lon: []float64{106.700, 106.740}, Weight: 0.15,
				Landmarks: [][]float64{{10.735, 106.720}, {10.728, 106.715}, {10.742, 106.725}}},
			{Key: "thu_duc", Name: "Thu Duc City", Lat: []float64{10.820, 10.900}, Lon: []float64{106.730, 106.820}, Weight: 0.20,
				Landmarks: [][]float64{{10.850, 106.770}, {10.865, 106.785}, {10.835, 106.750}}},
			{Key: "binh_thanh", Name: "Binh Thanh District", Lat: []float64{10.795, 10.825}, Lon: []float64{106.690, 106.720}, Weight: 0.12,
				Landmarks: [][]float64{{10.810, 106.705}, {10.805, 106.698}, {10.818, 106.712}}},
			{Key: "tan_binh", Name: "Tan Binh District (Airport)", Lat: []float64{10.790, 10.825}, Lon: []float64{106.640, 106.675}, Weight: 0.11,
				Landmarks: [][]float64{{10.810, 106.658}, {10.800, 106.650}, {10.818, 106.665}}},
			{Key: "go_vap", Name: "Go Vap District", Lat: []float64{10.820, 10.860}, Lon: []float64{106.650, 106.690}, Weight: 0.10,
				Landmarks: [][]float64{{10.840, 106.670}, {10.835, 106.665}, {10.848, 106.680}}},
			{Key: "can_gio", Name: "Can Gio District", Lat: []float64{10.372, 10.450}, Lon: []float64{106.850, 106.950}, Weight: 0.05,
				Landmarks: [][]float64{{10.410, 106.900}, {10.395, 106.880}, {10.425, 106.920}}},
			{Key: "cu_chi", Name: "Cu Chi District", Lat: []float64{10.950, 11.050}, Lon: []float64{106.450, 106.550}, Weight: 0.05,
				Landmarks: [][]float64{{11.000, 106.500}, {10.980, 106.480}, {11.020, 106.520}}},
		},
		Waterways: []Corridor{
			{Name: "Saigon River", Lat: []float64{10.720, 10.820}, Lon: []float64{106.680, 106.740}},
			{Name: "Dong Nai River", Lat: []float64{10.750, 10.950}, Lon: []float64{106.780, 106.880}},
			{Name: "Ben Nghe Canal", Lat: []float64{10.760, 10.775}, Lon: []float64{106.690, 106.710}},
			{Name: "Tau Hu Canal", Lat: []float64{10.760, 10.780}, Lon: []float64{106.650, 106.680}},
			{Name: "Nha Be River", Lat: []float64{10.650, 10.730}, Lon: []float64{106.720, 106.780}},
		},
		FloodAreas: []FloodArea{
			{Name: "Nguyen Huu Canh", Center: []float64{10.792, 106.715}, Severity: "high", AreaType: "urban_road"},
			{Name: "Thao Dien", Center: []float64{10.805, 106.740}, Severity: "high", AreaType: "residential"},
			{Name: "Binh Thanh - Xo Viet Nghe Tinh", Center: []float64{10.800, 106.705}, Severity: "medium", AreaType: "urban_road"},
			{Name: "Quan 8 - Ben Phu Dinh", Center: []float64{10.740, 106.660}, Severity: "high", AreaType: "canal_side"},
			{Name: "Hang Xanh Intersection", Center: []float64{10.803, 106.710}, Severity: "medium", AreaType: "intersection"},
			{Name: "An Phu - Xa Lo Ha Noi", Center: []float64{10.798, 106.745}, Severity: "medium", AreaType: "highway"},
			{Name: "Linh Dong - Pham Van Dong", Center: []float64{10.852, 106.725}, Severity: "high", AreaType: "urban_road"},
			{Name: "Thu Duc - Vo Van Ngan", Center: []float64{10.850, 106.755}, Severity: "medium", AreaType: "urban_road"},
			{Name: "Phu My Hung - Nguyen Van Linh", Center: []float64{10.728, 106.715}, Severity: "low", AreaType: "urban_road"},
			{Name: "Nha Be - Le Van Luong", Center: []float64{10.695, 106.730}, Severity: "high", AreaType: "lowland"},
			{Name: "Tan Binh - Cong Hoa", Center: []float64{10.800, 106.650}, Severity: "medium", AreaType: "urban_road"},
			{Name: "Tan Phu - Au Co", Center: []float64{10.785, 106.635}, Severity: "medium", AreaType: "canal_side"},
			{Name: "Go Vap - Nguyen Oanh", Center: []float64{10.845, 106.670}, Severity: "medium", AreaType: "urban_road"},
			{Name: "Binh Tan - Ten Lua", Center: []float64{10.752, 106.595}, Severity: "high", AreaType: "residential"},
			{Name: "Quan 6 - Hau Giang", Center: []float64{10.753, 106.635}, Severity: "high", AreaType: "canal_side"},
			{Name: "Quan 11 - Lac Long Quan", Center: []float64{10.770, 106.640}, Severity: "medium", AreaType: "canal_side"},
			{Name: "Binh Chanh - Quoc Lo 1A", Center: []float64{10.705, 106.580}, Severity: "high", AreaType: "lowland"},
			{Name: "Hoc Mon - Phan Van Hon", Center: []float64{10.885, 106.605}, Severity: "medium", AreaType: "agricultural"},
			{Name: "Cu Chi - Tinh Lo 8", Center: []float64{10.970, 106.495}, Severity: "low", AreaType: "agricultural"},
			{Name: "Can Gio - Ven Bien", Center: []float64{10.415, 106.895}, Severity: "high", AreaType: "coastal"},
		},
		FallbackRoads: []Road{
			{Name: "Vo Van Kiet Boulevard", HighwayType: "primary",
				Coordinates: [][]float64{{106.640, 10.760}, {106.650, 10.760}, {106.680, 10.760}, {106.710, 10.760}}},
			{Name: "Xa Lo Ha Noi (Hanoi Highway)", HighwayType: "trunk",
				Coordinates: [][]float64{{106.700, 10.780}, {106.730, 10.805}, {106.760, 10.830}, {106.780, 10.850}}},
			{Name: "Nguyen Van Linh", HighwayType: "primary",
				Coordinates: [][]float64{{106.680, 10.720}, {106.695, 10.730}, {106.710, 10.740}, {106.730, 10.750}}},
			{Name: "Quoc Lo 1A (QL1A)", HighwayType: "trunk",
				Coordinates: [][]float64{{106.640, 10.780}, {106.650, 10.800}, {106.660, 10.820}, {106.680, 10.850}}},
			{Name: "East-West Highway", HighwayType: "motorway",
				Coordinates: [][]float64{{106.690, 10.775}, {106.720, 10.775}, {106.750, 10.775}, {106.780, 10.775}}},
			{Name: "Pham Van Dong", HighwayType: "primary",
				Coordinates: [][]float64{{106.650, 10.800}, {106.670, 10.815}, {106.690, 10.830}, {106.710, 10.845}}},
			{Name: "Duong Vo Nguyen Giap", HighwayType: "primary",
				Coordinates: [][]float64{{106.730, 10.780}, {106.750, 10.795}, {106.770, 10.810}, {106.790, 10.825}}},
			{Name: "Cach Mang Thang 8", HighwayType: "primary",
				Coordinates: [][]float64{{106.665, 10.770}, {106.670, 10.780}, {106.675, 10.790}, {106.680, 10.800}}},
			{Name: "Dinh Tien Hoang", HighwayType: "secondary",
				Coordinates: [][]float64{{106.695, 10.770}, {106.700, 10.775}, {106.705, 10.780}, {106.710, 10.785}}},
			{Name: "Tran Hung Dao", HighwayType: "primary",
				Coordinates: [][]float64{{106.680, 10.755}, {106.690, 10.760}, {106.700, 10.765}, {106.710, 10.770}}},
		},
	}
}
