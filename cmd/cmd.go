// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func sortFlagSet() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "Sort field (artist, title, year)",
			Value:   "artist",
		},
		&cli.StringFlag{
			Name:    "order",
			Aliases: []string{"o"},
			Usage:   "Sort direction (asc, desc)",
			Value:   "asc",
		},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output JSON",
	}
}

// importCommand syncs the Discogs collection
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import the Discogs collection into the local catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "Clear the catalog and replace it with the fetched collection",
			},
			&cli.StringFlag{
				Name:  "user",
				Usage: "Discogs username (defaults to discogs.user_id)",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "Discogs personal access token (defaults to config or VINYL_DISCOGS_TOKEN)",
			},
		},
		Action: r.Import,
	}
}

// albumsCommand handles catalog browsing and export
func albumsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "albums",
		Aliases: []string{"a"},
		Usage:   "Browse the local catalog",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List albums",
				Flags:  append(sortFlagSet(), jsonFlag()),
				Action: r.AlbumsList,
			},
			{
				Name:  "show",
				Usage: "Show a single album",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AlbumsShow,
			},
			{
				Name:   "random",
				Usage:  "Pick a random album",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AlbumsRandom,
			},
			{
				Name:  "search",
				Usage: "Search albums by artist or title",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  append(sortFlagSet(), jsonFlag()),
				Action: r.AlbumsSearch,
			},
			{
				Name:  "export",
				Usage: "Export the catalog to a file",
				Flags: append(sortFlagSet(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, markdown, txt, json)",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output file path (defaults to vinyl_export_{epoch}.{ext})",
					},
				),
				Action: r.AlbumsExport,
			},
		},
	}
}

// listenCommand records a listening
func listenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "listen",
		Usage: "Mark an album as listened to now",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
			&cli.StringArg{Name: "comment"},
		},
		Action: r.Listen,
	}
}

// noteCommand attaches a note to an album
func noteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "note",
		Usage: "Add a note to an album",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
			&cli.StringArg{Name: "text"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "timestamp",
				Usage: "Timestamp to store with the note (defaults to now)",
			},
		},
		Action: r.Note,
	}
}

// historyCommand prints an album's listenings and notes
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show listening history for an album",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "more",
				Aliases: []string{"m"},
				Usage:   "Reveal this many additional batches of five",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Write the full history as plain text to this path",
			},
			jsonFlag(),
		},
		Action: r.History,
	}
}

// serveCommand runs the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog and journal over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (defaults to server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (defaults to server.port)",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand launches the terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse the catalog and history interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the terminal",
				Value: "./tmp/vinyl-tui.log",
			},
		},
		Action: r.TUI,
	}
}
