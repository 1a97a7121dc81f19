package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dargueta/yaz0rom"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
)

type batchSummary struct {
	Total     int
	Succeeded int
	Skipped   int
}

func batchAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	_, err = s.runBatch(c.String("in"), c.String("out"))
	return err
}

// runBatch compresses every ROM in `inDir` into `outDir` under the same name.
// A ROM that fails is skipped. An error is only returned if no ROM succeeded,
// in which case it holds every failure.
func (s *settings) runBatch(inDir, outDir string) (batchSummary, error) {
	summary := batchSummary{}

	if err := checkDistinctPaths(inDir, outDir); err != nil {
		return summary, err
	}

	dirEntries, err := os.ReadDir(inDir)
	if err != nil {
		return summary, yaz0rom.ErrIOFailed.Wrap(err)
	}
	if err = os.MkdirAll(outDir, 0o755); err != nil {
		return summary, yaz0rom.ErrIOFailed.Wrap(err)
	}

	var failures *multierror.Error
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || !strings.HasSuffix(name, s.config.Extension) {
			continue
		}

		summary.Total++
		s.logger.Infof("=== [%d] %s ===", summary.Total, name)

		err = s.compressROM(filepath.Join(inDir, name), filepath.Join(outDir, name))
		if err != nil {
			s.logger.Warnf("skipping %s: %s", name, err)
			failures = multierror.Append(failures, fmt.Errorf("%s: %w", name, err))
			summary.Skipped++
			continue
		}
		summary.Succeeded++
	}

	s.logger.Infof(
		"batch complete. total: %d, compressed: %d, skipped: %d",
		summary.Total,
		summary.Succeeded,
		summary.Skipped)

	if summary.Succeeded > 0 {
		return summary, nil
	}
	if failures != nil {
		return summary, failures
	}
	return summary, yaz0rom.ErrInvalidArgument.WithMessage(
		fmt.Sprintf("no %s files found in %s", s.config.Extension, inDir))
}
