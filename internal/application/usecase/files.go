package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/parser"
	"trainingplatform/internal/infrastructure/repository"
)

// Ingestor забирает файлы экспорта из входных папок и складывает
// записи в стейджинг. Имя файла — ключ идемпотентности: файл, уже
// попавший в стейджинг, второй раз не загружается.
type Ingestor struct {
	staging *repository.StagingRepository

	csvFolder       string
	jsonFolder      string
	processedFolder string
	errorFolder     string

	skipLimit int
	chunkSize int
}

func NewIngestor(staging *repository.StagingRepository, csvFolder, jsonFolder, processedFolder, errorFolder string, skipLimit, chunkSize int) *Ingestor {
	return &Ingestor{
		staging:         staging,
		csvFolder:       csvFolder,
		jsonFolder:      jsonFolder,
		processedFolder: processedFolder,
		errorFolder:     errorFolder,
		skipLimit:       skipLimit,
		chunkSize:       chunkSize,
	}
}

type IngestSummary struct {
	Files   int `json:"files"`
	Records int `json:"records"`
	Skipped int `json:"skippedFiles"`
	Failed  int `json:"failedFiles"`
}

// IngestAll обходит обе входные папки. Файлы обрабатываются в порядке
// модификации, от старых к новым, чтобы поздние экспорты перетирали
// ранние при реконсиляции.
func (in *Ingestor) IngestAll(ctx context.Context) (IngestSummary, error) {
	var summary IngestSummary

	if err := in.ensureFolders(); err != nil {
		return summary, err
	}

	csvFiles, err := listByModTime(in.csvFolder, ".csv")
	if err != nil {
		return summary, err
	}
	for _, path := range csvFiles {
		in.ingestFile(ctx, path, &summary, func(p string) ([]*domain.StagingRecord, error) {
			res, err := parser.ParseCSVFile(p, in.skipLimit)
			if err != nil {
				return nil, err
			}
			return res.Records, nil
		})
	}

	jsonFiles, err := listByModTime(in.jsonFolder, ".json")
	if err != nil {
		return summary, err
	}
	for _, path := range jsonFiles {
		in.ingestFile(ctx, path, &summary, func(p string) ([]*domain.StagingRecord, error) {
			res, err := parser.ParseJSONFile(p)
			if err != nil {
				return nil, err
			}
			return res.Records, nil
		})
	}

	if summary.Files > 0 || summary.Failed > 0 {
		log.Printf("ingest run finished: %d files, %d records, %d skipped, %d failed",
			summary.Files, summary.Records, summary.Skipped, summary.Failed)
	}
	return summary, nil
}

func (in *Ingestor) ingestFile(ctx context.Context, path string, summary *IngestSummary, parse func(string) ([]*domain.StagingRecord, error)) {
	name := filepath.Base(path)

	exists, err := in.staging.ExistsBySourceFile(ctx, name)
	if err != nil {
		log.Printf("ingest %s: staging lookup failed: %v", name, err)
		summary.Failed++
		return
	}
	if exists {
		log.Printf("ingest %s: already staged, skipping", name)
		summary.Skipped++
		in.moveTo(path, in.processedFolder, "")
		return
	}

	records, err := parse(path)
	if err != nil {
		log.Printf("ingest %s: %v", name, err)
		summary.Failed++
		in.moveTo(path, in.errorFolder, "ERROR_")
		return
	}

	for _, rec := range records {
		rec.SourceFile = name
	}

	saved, err := in.staging.SaveBatch(ctx, records, in.chunkSize)
	if err != nil {
		log.Printf("ingest %s: save failed after %d records: %v", name, saved, err)
		summary.Failed++
		in.moveTo(path, in.errorFolder, "ERROR_")
		return
	}

	log.Printf("ingest %s: %d records staged", name, saved)
	summary.Files++
	summary.Records += saved
	in.moveTo(path, in.processedFolder, "")
}

// moveTo переносит файл с таймстемпом в имени, чтобы повторные
// экспорты с одинаковыми именами не затирали друг друга в архиве.
func (in *Ingestor) moveTo(path, folder, prefix string) {
	dest := filepath.Join(folder, prefix+stampName(filepath.Base(path), time.Now()))
	if err := os.Rename(path, dest); err != nil {
		log.Printf("could not move %s to %s: %v", path, dest, err)
	}
}

func stampName(base string, now time.Time) string {
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + now.Format("20060102_150405") + ext
}

func (in *Ingestor) ensureFolders() error {
	for _, dir := range []string{in.csvFolder, in.jsonFolder, in.processedFolder, in.errorFolder} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not prepare folder %s: %w", dir, err)
		}
	}
	return nil
}

func listByModTime(dir, ext string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type fileInfo struct {
		path string
		mod  time.Time
	}
	var files []fileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{path: filepath.Join(dir, entry.Name()), mod: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].mod.Before(files[j].mod) })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}
