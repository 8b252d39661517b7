package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// OverpassRoadSource fetches major road geometries from OpenStreetMap
// via the Overpass API, one query per zone of sufficient weight.
type OverpassRoadSource struct {
	apiURL     string
	httpClient http.Client
	queryDelay time.Duration
}

func NewOverpassRoadSource(apiURL string) *OverpassRoadSource {
	return &OverpassRoadSource{
		apiURL: apiURL,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
		queryDelay: 2 * time.Second,
	}
}

type overpassResponse struct {
	Elements []struct {
		Type     string `json:"type"`
		Geometry []struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"geometry"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

func (o *OverpassRoadSource) FetchRoads(ctx context.Context, geo Geography) ([]Road, error) {
	if o.apiURL == "" {
		return nil, fmt.Errorf("no overpass api url configured")
	}

	log := logging.GetFromContext(ctx)
	allRoads := []Road{}

	for _, zone := range geo.Zones {
		// Zones with low weight contribute too few roads to be worth a query
		if zone.Weight < 0.08 {
			continue
		}

		targetRoads := int(30 * zone.Weight)
		if targetRoads < 2 {
			targetRoads = 2
		}

		zoneRoads, err := o.queryZone(ctx, zone)
		if err != nil {
			log.Warn("overpass query failed for zone", "zone", zone.Name, "err", err.Error())
			continue
		}

		if len(zoneRoads) > targetRoads {
			zoneRoads = zoneRoads[:targetRoads]
		}

		allRoads = append(allRoads, zoneRoads...)
		log.Info("fetched roads for zone", "zone", zone.Name, "count", len(zoneRoads))

		select {
		case <-ctx.Done():
			return allRoads, ctx.Err()
		case <-time.After(o.queryDelay):
		}
	}

	return allRoads, nil
}

func (o *OverpassRoadSource) queryZone(ctx context.Context, zone Zone) ([]Road, error) {
	query := fmt.Sprintf(`
		[out:json][timeout:25];
		(
		  way["highway"="motorway"](%[1]f,%[2]f,%[3]f,%[4]f);
		  way["highway"="trunk"](%[1]f,%[2]f,%[3]f,%[4]f);
		  way["highway"="primary"](%[1]f,%[2]f,%[3]f,%[4]f);
		  way["highway"="secondary"](%[1]f,%[2]f,%[3]f,%[4]f);
		);
		out geom;`,
		zone.Lat[0], zone.Lon[0], zone.Lat[1], zone.Lon[1],
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query overpass api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass api returned status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	parsed := overpassResponse{}
	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse overpass response: %w", err)
	}

	roads := []Road{}

	for _, element := range parsed.Elements {
		if element.Type != "way" || len(element.Geometry) < 2 {
			continue
		}

		name := element.Tags["name"]
		if name == "" || name == "Unnamed Road" || strings.Contains(strings.ToLower(name), "hẻm") {
			continue
		}

		coordinates := make([][]float64, 0, len(element.Geometry))
		for _, node := range element.Geometry {
			coordinates = append(coordinates, []float64{node.Lon, node.Lat})
		}

		roads = append(roads, Road{
			Name:        name,
			HighwayType: element.Tags["highway"],
			Coordinates: coordinates,
		})
	}

	return roads, nil
}
