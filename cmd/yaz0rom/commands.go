package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dargueta/yaz0rom"
	"github.com/dargueta/yaz0rom/repack"
	"github.com/dargueta/yaz0rom/utilities/compression"
	"github.com/urfave/cli/v2"
)

func compressAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	if err = checkDistinctPaths(c.String("in"), c.String("out")); err != nil {
		return err
	}
	return s.compressROM(c.String("in"), c.String("out"))
}

func decompressAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	if err = checkDistinctPaths(c.String("in"), c.String("out")); err != nil {
		return err
	}
	return s.decompressROM(c.String("in"), c.String("out"))
}

func (s *settings) compressROM(inPath, outPath string) error {
	rom, err := s.readROM(inPath)
	if err != nil {
		return err
	}

	profile, err := s.detector().Detect(rom)
	if err != nil {
		return err
	}
	s.logger.Infof("detected: %s", profile.DisplayName())

	packed, stats, err := repack.PackROM(rom, profile, s.options())
	if err != nil {
		return err
	}
	s.logger.Infof(
		"compressed %d files, stored %d uncompressed", stats.Compressed, stats.Stored)

	if err = writeROM(outPath, packed); err != nil {
		return err
	}
	s.logger.Infof("compressed ROM written to %q", outPath)
	return nil
}

func (s *settings) decompressROM(inPath, outPath string) error {
	packed, err := s.readROM(inPath)
	if err != nil {
		return err
	}

	profile, err := s.detector().Detect(packed)
	if err != nil {
		return err
	}
	s.logger.Infof("detected: %s", profile.DisplayName())

	rom, _, err := repack.UnpackROM(packed, profile, s.options())
	if err != nil {
		return err
	}
	s.logger.Infof(
		"decompressed ROM size: %d bytes (%.1f MiB)", len(rom), float64(len(rom))/yaz0rom.MiB)

	if err = writeROM(outPath, rom); err != nil {
		return err
	}
	s.logger.Infof("decompressed ROM written to %q", outPath)
	return nil
}

func (s *settings) readROM(path string) ([]byte, error) {
	s.logger.Infof("loading %q...", path)
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, yaz0rom.ErrIOFailed.Wrap(err)
	}
	s.logger.Infof(
		"ROM size: %d bytes (%.1f MiB)", len(rom), float64(len(rom))/yaz0rom.MiB)
	return rom, nil
}

func writeROM(path string, data []byte) error {
	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		return yaz0rom.ErrIOFailed.Wrap(err)
	}
	return nil
}

func encodeAction(c *cli.Context) error {
	return transformFile(c, compression.CompressFile)
}

func decodeAction(c *cli.Context) error {
	return transformFile(c, compression.DecompressFile)
}

func transformFile(c *cli.Context, transform func(io.Reader, io.Writer) (int64, error)) error {
	inPath, outPath := c.String("in"), c.String("out")
	if err := checkDistinctPaths(inPath, outPath); err != nil {
		return err
	}

	input, err := os.ReadFile(inPath)
	if err != nil {
		return yaz0rom.ErrIOFailed.Wrap(err)
	}

	var output bytes.Buffer
	written, err := transform(bytes.NewReader(input), &output)
	if err != nil {
		return err
	}

	if err = writeROM(outPath, output.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %d bytes to %s\n", written, outPath)
	return nil
}

func profilesAction(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	for _, release := range s.releases.Releases() {
		fmt.Fprintf(
			c.App.Writer,
			"%-22s  build: %s  @ 0x%X  table: 0x%X (%d entries)\n",
			release.Name,
			release.BuildDate,
			uint32(release.BuildOffset),
			release.TableOffset(),
			release.EntryCount())
	}
	return nil
}
