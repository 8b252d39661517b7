package dataflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTU-SematX/LegoCity/internal/pkg/application/transcode"
	"github.com/CTU-SematX/LegoCity/internal/pkg/infrastructure/storage"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/geojson"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// FileResult summarises the outcome of converting one file or one
// entity type. Skipped counts rows and features that could not be
// converted, a skipped row never fails the run.
type FileResult struct {
	Name     string
	Entities int
	Skipped  int
}

// ExportCSV writes one CSV file per stored entity type. The single
// location column holds point coordinates or a summary for larger
// geometries, which makes this export lossy for line strings and
// polygons.
func ExportCSV(ctx context.Context, store storage.EntityStore, outputDir string) ([]FileResult, error) {
	log := logging.GetFromContext(ctx)

	entityTypes, err := store.Types(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(entityTypes))

	for _, entityType := range entityTypes {
		entitySet, skipped, err := loadEntities(ctx, store, entityType)
		if err != nil {
			return nil, err
		}

		columns := transcode.Columns(entitySet, false)
		rows := make([]map[string]string, 0, len(entitySet))

		for _, e := range entitySet {
			rows = append(rows, transcode.ToRow(e, columns))
		}

		path := filepath.Join(outputDir, entityType+".csv")

		err = WriteCSVRows(path, columns, rows)
		if err != nil {
			return nil, err
		}

		log.Info("exported csv", "type", entityType, "count", len(rows))
		results = append(results, FileResult{Name: entityType, Entities: len(rows), Skipped: skipped})
	}

	return results, nil
}

// ExportGeoJSON writes one feature collection per stored entity type.
// Entities without a geometry produce no feature.
func ExportGeoJSON(ctx context.Context, store storage.EntityStore, outputDir string) ([]FileResult, error) {
	log := logging.GetFromContext(ctx)

	entityTypes, err := store.Types(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(entityTypes))

	for _, entityType := range entityTypes {
		entitySet, skipped, err := loadEntities(ctx, store, entityType)
		if err != nil {
			return nil, err
		}

		collection := transcode.EntitiesToFeatureCollection(entitySet)
		skipped += len(entitySet) - len(collection.Features)

		contents, err := json.MarshalIndent(collection, "", "  ")
		if err != nil {
			return nil, err
		}

		path := filepath.Join(outputDir, entityType+".geojson")

		err = os.WriteFile(path, contents, 0644)
		if err != nil {
			return nil, err
		}

		log.Info("exported geojson", "type", entityType, "features", len(collection.Features))
		results = append(results, FileResult{Name: entityType, Entities: len(collection.Features), Skipped: skipped})
	}

	return results, nil
}

// ImportCSV replaces the stored entities of each type found in the
// input directory. Each file holds one type, named after its stem when
// the rows carry no type of their own. Files that fail to parse are
// logged and contribute nothing.
func ImportCSV(ctx context.Context, store storage.EntityStore, inputDir string) ([]FileResult, error) {
	log := logging.GetFromContext(ctx)

	paths, err := filepath.Glob(filepath.Join(inputDir, "*.csv"))
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(paths))

	for _, path := range paths {
		declaredType := fileStem(path)

		_, rows, err := ReadCSVRows(path)
		if err != nil {
			log.Warn("failed to read csv file", "file", path, "err", err.Error())
			results = append(results, FileResult{Name: declaredType})
			continue
		}

		entitySet, skipped := rowsToEntities(rows, declaredType)

		entityType := declaredType
		if len(entitySet) > 0 {
			entityType = entitySet[0].Type()
		}

		stored, err := store.ReplaceAllOfType(ctx, entityType, entitySet)
		if err != nil {
			return nil, fmt.Errorf("failed to store entities of type %s: %w", entityType, err)
		}

		log.Info("imported csv", "type", entityType, "count", stored, "skipped", skipped)
		results = append(results, FileResult{Name: entityType, Entities: stored, Skipped: skipped})
	}

	return results, nil
}

// CSVToGeoJSON converts each CSV file in the input directory to a
// feature collection without touching the store. Rows whose location
// was reduced to a summary lose their geometry and produce no feature.
func CSVToGeoJSON(ctx context.Context, inputDir, outputDir string) ([]FileResult, error) {
	log := logging.GetFromContext(ctx)

	paths, err := filepath.Glob(filepath.Join(inputDir, "*.csv"))
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(paths))

	for _, path := range paths {
		name := fileStem(path)

		_, rows, err := ReadCSVRows(path)
		if err != nil {
			log.Warn("failed to read csv file", "file", path, "err", err.Error())
			results = append(results, FileResult{Name: name})
			continue
		}

		entitySet, skipped := rowsToEntities(rows, name)

		collection := transcode.EntitiesToFeatureCollection(entitySet)
		skipped += len(entitySet) - len(collection.Features)

		contents, err := json.MarshalIndent(collection, "", "  ")
		if err != nil {
			return nil, err
		}

		outPath := filepath.Join(outputDir, name+".geojson")

		err = os.WriteFile(outPath, contents, 0644)
		if err != nil {
			return nil, err
		}

		log.Info("converted csv to geojson", "file", path, "features", len(collection.Features), "skipped", skipped)
		results = append(results, FileResult{Name: name, Entities: len(collection.Features), Skipped: skipped})
	}

	return results, nil
}

// GeoJSONToCSV converts each feature collection in the input directory
// to a CSV file with the explicit geometry column pair, preserving all
// geometry variants.
func GeoJSONToCSV(ctx context.Context, inputDir, outputDir string) ([]FileResult, error) {
	log := logging.GetFromContext(ctx)

	paths, err := filepath.Glob(filepath.Join(inputDir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(paths))

	for _, path := range paths {
		name := fileStem(path)

		contents, err := os.ReadFile(path)
		if err != nil {
			log.Warn("failed to read geojson file", "file", path, "err", err.Error())
			results = append(results, FileResult{Name: name})
			continue
		}

		collection := &geojson.GeoJSONFeatureCollection{}

		err = json.Unmarshal(contents, collection)
		if err != nil || collection.Type != "FeatureCollection" {
			log.Warn("file is not a feature collection", "file", path)
			results = append(results, FileResult{Name: name})
			continue
		}

		columns, rows := transcode.FeatureCollectionToRows(collection)

		outPath := filepath.Join(outputDir, name+".csv")

		err = WriteCSVRows(outPath, columns, rows)
		if err != nil {
			return nil, err
		}

		log.Info("converted geojson to csv", "file", path, "rows", len(rows))
		results = append(results, FileResult{Name: name, Entities: len(rows)})
	}

	return results, nil
}

func loadEntities(ctx context.Context, store storage.EntityStore, entityType string) ([]types.Entity, int, error) {
	log := logging.GetFromContext(ctx)

	records, err := store.GetByType(ctx, entityType)
	if err != nil {
		return nil, 0, err
	}

	entitySet := make([]types.Entity, 0, len(records))
	skipped := 0

	for _, record := range records {
		e, err := transcode.FromStoreRecord(record.Data)
		if err != nil {
			log.Warn("failed to parse stored entity", "entity_id", record.ID, "err", err.Error())
			skipped++
			continue
		}
		entitySet = append(entitySet, e)
	}

	return entitySet, skipped, nil
}

func rowsToEntities(rows []map[string]string, declaredType string) ([]types.Entity, int) {
	entitySet := make([]types.Entity, 0, len(rows))
	skipped := 0

	for _, row := range rows {
		e, ok := transcode.FromRow(row, declaredType)
		if !ok {
			skipped++
			continue
		}
		entitySet = append(entitySet, e)
	}

	return entitySet, skipped
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
