package main

import (
	"fmt"
	"path/filepath"

	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/checksum"
	"github.com/dargueta/yaz0rom/config"
	"github.com/dargueta/yaz0rom/repack"
	"github.com/dargueta/yaz0rom/romdb"
	"github.com/dargueta/yaz0rom/utilities/logging"
	"github.com/urfave/cli/v2"
)

// settings is everything a ROM command needs, resolved from the config file
// and the command line.
type settings struct {
	config   *config.Config
	releases *romdb.Database
	logger   *logging.Logger
}

func loadSettings(c *cli.Context) (*settings, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("size-mib") {
		cfg.SetSizeMiB(c.Int("size-mib"))
	}
	if c.IsSet("jobs") {
		cfg.Jobs = c.Int("jobs")
	}
	if c.IsSet("profiles") {
		cfg.Profiles = c.String("profiles")
	}
	if c.IsSet("log-level") {
		level, err := logging.ParseLevel(c.String("log-level"))
		if err != nil {
			return nil, yaz0rom.ErrInvalidArgument.Wrap(err)
		}
		cfg.LogLevel = level
	}
	if c.IsSet("extension") {
		cfg.Extension = c.String("extension")
	}
	if err = cfg.Normalize(); err != nil {
		return nil, err
	}

	releases := romdb.Default()
	if cfg.Profiles != "" {
		releases, err = romdb.LoadFile(cfg.Profiles)
		if err != nil {
			return nil, err
		}
	}

	return &settings{
		config:   cfg,
		releases: releases,
		logger:   logging.New(c.App.ErrWriter, cfg.LogLevel),
	}, nil
}

func (s *settings) detector() yaz0rom.ProfileDetector {
	return s.releases
}

func (s *settings) options() repack.Options {
	return repack.Options{
		Size:     s.config.SizePolicy(),
		Jobs:     s.config.Jobs,
		Checksum: checksum.Updater{},
		Logger:   s.logger,
	}
}

// checkDistinctPaths fails if `in` and `out` refer to the same path.
func checkDistinctPaths(in, out string) error {
	absIn, err := filepath.Abs(in)
	if err != nil {
		return yaz0rom.ErrInvalidArgument.Wrap(err)
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return yaz0rom.ErrInvalidArgument.Wrap(err)
	}

	if absIn == absOut {
		return yaz0rom.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("--in and --out cannot be the same path: %q", in))
	}
	return nil
}
