package seeder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CTU-SematX/LegoCity/pkg/ngsild/geojson"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types/properties"
	"github.com/matryer/is"
)

func TestRandomPointStaysInZone(t *testing.T) {
	is, s := testSeeder(t)
	zone := s.geo.Zones[0]

	for i := 0; i < 100; i++ {
		point := s.RandomPointInZone(zone)
		is.True(point[1] >= zone.Lat[0] && point[1] <= zone.Lat[1])
		is.True(point[0] >= zone.Lon[0] && point[0] <= zone.Lon[1])
	}
}

func TestClusteredPointIsClampedToZone(t *testing.T) {
	is, s := testSeeder(t)
	zone := s.geo.Zones[0]

	for i := 0; i < 100; i++ {
		point := s.ClusteredPointInZone(zone, 0.05)
		is.True(point[1] >= zone.Lat[0] && point[1] <= zone.Lat[1])
		is.True(point[0] >= zone.Lon[0] && point[0] <= zone.Lon[1])
	}
}

func TestPolygonRingIsClosed(t *testing.T) {
	is, s := testSeeder(t)

	ring := s.PolygonAround(10.8, 106.7, 300, 0.3)

	is.True(len(ring) >= 7)
	is.Equal(ring[0], ring[len(ring)-1])
}

func TestFloodSensorsSplitBetweenWaterwaysAndZones(t *testing.T) {
	is, s := testSeeder(t)

	sensors := s.FloodSensors()

	is.True(len(sensors) >= 42)
	is.True(len(sensors) <= 48)

	for _, sensor := range sensors {
		is.Equal(sensor.Type(), "FloodSensor")
		is.True(strings.HasPrefix(sensor.ID(), "urn:ngsi-ld:FloodSensor:HCMC:"))
	}
}

func TestFloodZonesCarryPolygonsAndTypedAttributes(t *testing.T) {
	is, s := testSeeder(t)

	zones := s.FloodZones()
	is.True(len(zones) >= 18)
	is.True(len(zones) <= 22)

	e := zones[0]

	var foundPolygon, foundActive, foundObservedAt bool

	e.ForEachAttribute(func(attributeType, attributeName string, contents any) {
		switch attributeName {
		case "location":
			gp, ok := contents.(*geojson.GeoJSONProperty)
			is.True(ok)
			is.Equal(gp.GeoPropertyType(), "Polygon")
			foundPolygon = true
		case "isActive":
			bp, ok := contents.(*properties.BooleanProperty)
			is.True(ok)
			_, isBool := bp.Value().(bool)
			is.True(isBool)
			foundActive = true
		case "observedAt":
			dtp, ok := contents.(*properties.DateTimeProperty)
			is.True(ok)
			is.True(dtp.TimeStamp() != "")
			foundObservedAt = true
		}
	})

	is.True(foundPolygon)
	is.True(foundActive)
	is.True(foundObservedAt)
}

func TestTrafficUsesFallbackRoadsWhenSourceFails(t *testing.T) {
	is, s := testSeeder(t)

	observations := s.TrafficFlowObserved(context.Background())

	is.True(len(observations) >= 28)
	is.True(len(observations) <= 32)

	roadNames := map[string]bool{}
	for _, road := range s.geo.FallbackRoads {
		roadNames[road.Name] = true
	}

	observations[0].ForEachAttribute(func(attributeType, attributeName string, contents any) {
		if attributeName == "roadName" {
			tp, ok := contents.(*properties.TextProperty)
			is.True(ok)
			is.True(roadNames[tp.Val])
		}
	})
}

func TestTrafficTopsUpWhenTooFewRoadsAreCollected(t *testing.T) {
	is := is.New(t)

	geo, err := LoadGeography("")
	is.NoErr(err)

	s := New(geo, WithRandomSource(7), WithRoadSource(staticRoadSource{roads: syntheticRoads(12)}))

	fallbackNames := map[string]bool{}
	for _, road := range geo.FallbackRoads {
		fallbackNames[road.Name] = true
	}

	usedFallback := false
	for _, e := range s.TrafficFlowObserved(context.Background()) {
		if fallbackNames[observedRoadName(e)] {
			usedFallback = true
		}
	}

	is.True(usedFallback)
}

func TestTrafficSkipsFallbackWhenEnoughRoadsAreCollected(t *testing.T) {
	is := is.New(t)

	geo, err := LoadGeography("")
	is.NoErr(err)

	s := New(geo, WithRandomSource(7), WithRoadSource(staticRoadSource{roads: syntheticRoads(20)}))

	fallbackNames := map[string]bool{}
	for _, road := range geo.FallbackRoads {
		fallbackNames[road.Name] = true
	}

	for _, e := range s.TrafficFlowObserved(context.Background()) {
		is.True(!fallbackNames[observedRoadName(e)])
	}
}

func TestMedicalFacilitiesNeverOverbook(t *testing.T) {
	is, s := testSeeder(t)

	for _, facility := range s.MedicalFacilities() {
		var capacity, available float64

		facility.ForEachAttribute(func(attributeType, attributeName string, contents any) {
			if p, ok := contents.(types.Property); ok {
				if attributeName == "bedCapacity" {
					capacity = p.Value().(float64)
				}
				if attributeName == "availableBeds" {
					available = p.Value().(float64)
				}
			}
		})

		is.True(available <= capacity)
	}
}

func TestLoadGeographyAcceptsOverrides(t *testing.T) {
	is := is.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "geography.yaml")

	contents := `
zones:
  - key: test_zone
    name: Test Zone
    lat: [10.0, 10.1]
    lon: [106.0, 106.1]
    weight: 1.0
    landmarks:
      - [10.05, 106.05]
waterways:
  - name: Test Canal
    lat: [10.0, 10.1]
    lon: [106.0, 106.1]
floodProneAreas:
  - name: Test Area
    center: [10.05, 106.05]
    severity: high
    areaType: lowland
counts:
  FloodSensor:
    min: 5
    max: 5
`

	is.NoErr(os.WriteFile(path, []byte(contents), 0644))

	geo, err := LoadGeography(path)
	is.NoErr(err)

	is.Equal(len(geo.Zones), 1)
	is.Equal(geo.Zones[0].Key, "test_zone")
	is.Equal(geo.Counts["FloodSensor"].Min, 5)

	s := New(geo, WithRandomSource(1), WithRoadSource(failingRoadSource{}))
	is.Equal(len(s.FloodSensors()), 5)
}

func TestLoadGeographyRejectsMalformedZones(t *testing.T) {
	is := is.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "geography.yaml")

	is.NoErr(os.WriteFile(path, []byte("zones:\n  - key: broken\n    lat: [10.0]\n    lon: [106.0, 106.1]\n"), 0644))

	_, err := LoadGeography(path)
	is.True(err != nil)
}

func testSeeder(t *testing.T) (*is.I, *Seeder) {
	t.Helper()

	geo, err := LoadGeography("")
	if err != nil {
		t.Fatal(err)
	}

	return is.New(t), New(geo, WithRandomSource(42), WithRoadSource(failingRoadSource{}))
}

type failingRoadSource struct{}

func (failingRoadSource) FetchRoads(ctx context.Context, geo Geography) ([]Road, error) {
	return nil, context.DeadlineExceeded
}

type staticRoadSource struct {
	roads []Road
}

func (s staticRoadSource) FetchRoads(ctx context.Context, geo Geography) ([]Road, error) {
	return s.roads, nil
}

func syntheticRoads(n int) []Road {
	roads := make([]Road, 0, n)

	for i := 0; i < n; i++ {
		lon := 106.6 + float64(i)*0.001
		roads = append(roads, Road{
			Name:        fmt.Sprintf("Synthetic Road %d", i),
			Coordinates: [][]float64{{lon, 10.76}, {lon + 0.01, 10.77}},
		})
	}

	return roads
}

func observedRoadName(e types.Entity) string {
	name := ""

	e.ForEachAttribute(func(attributeType, attributeName string, contents any) {
		if attributeName == "roadName" {
			if tp, ok := contents.(*properties.TextProperty); ok {
				name = tp.Val
			}
		}
	})

	return name
}
