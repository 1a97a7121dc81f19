package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "yaz0rom",
		Usage: "Compress and decompress Yaz0-packed N64 ROMs",
		Commands: []*cli.Command{
			{
				Name:    "compress",
				Aliases: []string{"c"},
				Usage:   "Pack an uncompressed ROM",
				Flags:   append(pathFlags("ROM"), settingsFlags()...),
				Action:  compressAction,
			},
			{
				Name:    "decompress",
				Aliases: []string{"d"},
				Usage:   "Unpack a compressed ROM",
				Flags:   append(pathFlags("ROM"), settingsFlags()...),
				Action:  decompressAction,
			},
			{
				Name:  "batch",
				Usage: "Compress every recognized ROM in a directory",
				Flags: append(
					append(pathFlags("directory"), settingsFlags()...),
					&cli.StringFlag{
						Name:  "extension",
						Usage: "Only process files with this extension",
					}),
				Action: batchAction,
			},
			{
				Name:   "encode",
				Usage:  "Compress a single file into a Yaz0 stream",
				Flags:  pathFlags("file"),
				Action: encodeAction,
			},
			{
				Name:   "decode",
				Usage:  "Decompress a single Yaz0 file",
				Flags:  pathFlags("file"),
				Action: decodeAction,
			},
			{
				Name:   "profiles",
				Usage:  "List the ROM releases that can be recognized",
				Flags:  settingsFlags(),
				Action: profilesAction,
			},
		},
	}
}

func pathFlags(what string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "in",
			Aliases:   []string{"i"},
			Usage:     "Input " + what,
			Required:  true,
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:      "out",
			Aliases:   []string{"o"},
			Usage:     "Output " + what,
			Required:  true,
			TakesFile: true,
		},
	}
}

func settingsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      "config",
			Usage:     "YAML configuration file",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:      "profiles",
			Usage:     "CSV file of ROM releases to use instead of the built-in list",
			TakesFile: true,
		},
		&cli.IntFlag{
			Name:  "size-mib",
			Usage: "Size of the packed ROM in MiB, or 0 to size it automatically",
		},
		&cli.IntFlag{
			Name:  "jobs",
			Usage: "Number of files to compress at once",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "One of debug, info, warn, error",
		},
	}
}
