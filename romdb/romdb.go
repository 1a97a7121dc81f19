// Package romdb identifies which release of the game a ROM image was built
// from, and knows where each release keeps its address table and which of its
// files must stay uncompressed.
//
// Releases are identified by the build date string the build tools embed in the
// boot segment, which is never compressed, so detection works on both packed
// and unpacked images.
package romdb

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/yaz0rom"
	"github.com/gocarina/gocsv"
)

// HexUint32 is a uint32 that's written in a CSV file as a hexadecimal number
// with a "0x" prefix. Plain decimal is accepted when reading.
type HexUint32 uint32

func (h *HexUint32) UnmarshalCSV(value string) error {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 0, 32)
	if err != nil {
		return err
	}
	*h = HexUint32(parsed)
	return nil
}

func (h HexUint32) MarshalCSV() (string, error) {
	return fmt.Sprintf("0x%X", uint32(h)), nil
}

// IndexSet is a list of table indices, written as space-separated numbers or
// inclusive ranges, e.g. "0-8 15-27 942".
type IndexSet []int

func (s *IndexSet) UnmarshalCSV(value string) error {
	indices := IndexSet{}
	for _, field := range strings.Fields(value) {
		low, high, isRange := strings.Cut(field, "-")
		first, err := strconv.Atoi(low)
		if err != nil {
			return fmt.Errorf("bad index %q: %w", field, err)
		}

		last := first
		if isRange {
			last, err = strconv.Atoi(high)
			if err != nil {
				return fmt.Errorf("bad index range %q: %w", field, err)
			}
		}
		if first < 0 || last < first {
			return fmt.Errorf("bad index range %q", field)
		}

		for i := first; i <= last; i++ {
			indices = append(indices, i)
		}
	}
	*s = indices
	return nil
}

func (s IndexSet) MarshalCSV() (string, error) {
	fields := make([]string, len(s))
	for i, index := range s {
		fields[i] = strconv.Itoa(index)
	}
	return strings.Join(fields, " "), nil
}

// Release describes one known build of the game.
type Release struct {
	Name      string `csv:"name"`
	BuildDate string `csv:"build_date"`
	// BuildOffset is where BuildDate can be found in the ROM.
	BuildOffset HexUint32 `csv:"build_offset"`
	DMAOffset   HexUint32 `csv:"dma_offset"`
	DMACount    int       `csv:"dma_count"`
	// Skip lists the table entries that must never be compressed, such as the
	// boot code and the table itself.
	Skip IndexSet `csv:"skip"`
}

func (r *Release) DisplayName() string {
	return r.Name
}

func (r *Release) TableOffset() uint32 {
	return uint32(r.DMAOffset)
}

func (r *Release) EntryCount() int {
	return r.DMACount
}

// CompressionFlags returns a bitmap with a bit set for every table entry except
// those in the skip list.
func (r *Release) CompressionFlags() bitmap.Bitmap {
	flags := bitmap.New(r.DMACount)
	for i := 0; i < r.DMACount; i++ {
		flags.Set(i, true)
	}
	for _, index := range r.Skip {
		if index < r.DMACount {
			flags.Set(index, false)
		}
	}
	return flags
}

// Matches determines if `rom` carries this release's build string.
func (r *Release) Matches(rom []byte) bool {
	start := uint64(r.BuildOffset)
	end := start + uint64(len(r.BuildDate))
	if end > uint64(len(rom)) {
		return false
	}
	return bytes.Equal(rom[start:end], []byte(r.BuildDate))
}

// Database is a set of known releases, searched in order.
type Database struct {
	releases []*Release
}

//go:embed releases.csv
var releasesRawCSV string
var defaultDatabase *Database

// Default returns the built-in release database.
func Default() *Database {
	return defaultDatabase
}

// Load reads a release database from CSV.
func Load(input io.Reader) (*Database, error) {
	var releases []*Release
	if err := gocsv.Unmarshal(input, &releases); err != nil {
		return nil, yaz0rom.ErrFormat.Wrap(err)
	}

	seen := make(map[string]int, len(releases))
	for i, release := range releases {
		if release.BuildDate == "" {
			return nil, yaz0rom.ErrFormat.WithMessage(
				fmt.Sprintf("release %q on row %d has no build date", release.Name, i+1))
		}
		if release.DMACount <= 0 {
			return nil, yaz0rom.ErrFormat.WithMessage(
				fmt.Sprintf("release %q on row %d has no table entries", release.Name, i+1))
		}

		previous, exists := seen[release.Name]
		if exists {
			return nil, yaz0rom.ErrFormat.WithMessage(
				fmt.Sprintf(
					"duplicate definition for release %q found on rows %d and %d",
					release.Name,
					previous+1,
					i+1))
		}
		seen[release.Name] = i
	}

	return &Database{releases: releases}, nil
}

// LoadFile reads a release database from a CSV file.
func LoadFile(path string) (*Database, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, yaz0rom.ErrIOFailed.Wrap(err)
	}
	defer file.Close()
	return Load(file)
}

// Releases returns the releases in the database, sorted by name.
func (db *Database) Releases() []*Release {
	releases := make([]*Release, len(db.releases))
	copy(releases, db.releases)
	sort.Slice(releases, func(i, j int) bool {
		return releases[i].Name < releases[j].Name
	})
	return releases
}

// Find returns the release with the given name.
func (db *Database) Find(name string) (*Release, error) {
	for _, release := range db.releases {
		if release.Name == name {
			return release, nil
		}
	}
	return nil, yaz0rom.ErrInvalidArgument.WithMessage(
		fmt.Sprintf("no release named %q", name))
}

// DetectRelease returns the first release whose build string is in `rom`.
func (db *Database) DetectRelease(rom []byte) (*Release, error) {
	for _, release := range db.releases {
		if release.Matches(rom) {
			return release, nil
		}
	}

	var message strings.Builder
	message.WriteString("could not identify ROM version; supported versions:")
	for _, release := range db.releases {
		fmt.Fprintf(
			&message,
			"\n  %-22s  build: %s  @ 0x%X",
			release.Name,
			release.BuildDate,
			uint32(release.BuildOffset))
	}
	return nil, yaz0rom.ErrFormat.WithMessage(message.String())
}

// Detect implements [yaz0rom.ProfileDetector].
func (db *Database) Detect(rom []byte) (yaz0rom.Profile, error) {
	release, err := db.DetectRelease(rom)
	if err != nil {
		return nil, err
	}
	return release, nil
}

func init() {
	db, err := Load(strings.NewReader(releasesRawCSV))
	if err != nil {
		panic(fmt.Errorf("failed to load built-in release database: %w", err))
	}
	defaultDatabase = db
}
