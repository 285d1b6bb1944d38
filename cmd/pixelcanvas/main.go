package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/bodgit/pixelcanvas"
	"github.com/bodgit/pixelcanvas/pixel"
	"github.com/bodgit/pixelcanvas/raster"
	"github.com/bodgit/pixelcanvas/rle"
	"github.com/bodgit/pixelcanvas/wire"
	"github.com/urfave/cli/v2"
)

const defaultDB = "pixelcanvas.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func open(c *cli.Context) (*pixelcanvas.Canvas, func() error, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	grid, err := pixel.NewGrid(c.Int("width"), c.Int("height"))
	if err != nil {
		return nil, nil, err
	}

	db, err := pixelcanvas.NewDB(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	return pixelcanvas.New(db,
		pixelcanvas.WithGrid(grid),
		pixelcanvas.WithBatcher(rle.Batcher{MaxRuns: c.Int("max-runs")}),
		pixelcanvas.WithLogger(logger),
	), db.Close, nil
}

// withCanvas wraps a command action so it gets an open canvas and any
// error is turned into a non-zero exit.
func withCanvas(args int, fn func(*cli.Context, *pixelcanvas.Canvas) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < args {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		m, closer, err := open(c)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer closer()

		if err := fn(c, m); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	}
}

func coords(c *cli.Context) (int, int, error) {
	x, err := strconv.Atoi(c.Args().Get(0))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y: %w", err)
	}
	return x, y, nil
}

func printPlan(w io.Writer, plan *pixelcanvas.Plan) {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	defer tw.Flush()

	for _, r := range plan.Rectangles {
		fmt.Fprintf(tw, "rect\t(%d, %d)\t%dx%d\t%s\n", r.X, r.Y, r.Width, r.Height, r.Color)
	}
	for i, b := range plan.Batches {
		for _, r := range b.Runs {
			fmt.Fprintf(tw, "run\tbatch %d\t%d+%d\t%s\n", i, r.Start, r.Length, r.Color)
		}
	}
	for i, p := range plan.Payloads {
		if p.Kind == pixelcanvas.KindAreas {
			fmt.Fprintf(tw, "payload %d\t%s\t%s\n", i, p.Kind, wire.Hex(p.Data))
			continue
		}
		fmt.Fprintf(tw, "payload %d\t%s\t%s\t%s\n", i, p.Kind, wire.Hex(p.Data), wire.Hex(p.Palette))
	}
	fmt.Fprintf(tw, "total\t%d cells\t%d bytes\t%d payloads\n", plan.Cells(), plan.Size(), len(plan.Payloads))
}

func main() {
	app := cli.NewApp()

	app.Name = "pixelcanvas"
	app.Usage = "Stage and encode edits to a shared pixel canvas"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PIXELCANVAS_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.IntFlag{
			Name:    "width",
			EnvVars: []string{"PIXELCANVAS_WIDTH"},
			Value:   pixel.DefaultWidth,
			Usage:   "canvas width",
		},
		&cli.IntFlag{
			Name:    "height",
			EnvVars: []string{"PIXELCANVAS_HEIGHT"},
			Value:   pixel.DefaultHeight,
			Usage:   "canvas height",
		},
		&cli.IntFlag{
			Name:    "max-runs",
			EnvVars: []string{"PIXELCANVAS_MAX_RUNS"},
			Usage:   "maximum runs per batch, 0 for no limit",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "paint",
			Usage:     "Stage a cell",
			ArgsUsage: "X Y COLOR",
			Action: withCanvas(3, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				x, y, err := coords(c)
				if err != nil {
					return err
				}
				color, err := pixel.ParseColor(c.Args().Get(2))
				if err != nil {
					return err
				}
				changed, err := m.Paint(x, y, color)
				if err != nil {
					return err
				}
				if !changed {
					fmt.Println("Cell already staged with that color")
				}
				return nil
			}),
		},
		{
			Name:      "erase",
			Usage:     "Unstage a cell",
			ArgsUsage: "X Y",
			Action: withCanvas(2, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				x, y, err := coords(c)
				if err != nil {
					return err
				}
				o, ok, err := m.Erase(x, y)
				if err != nil {
					return err
				}
				if ok {
					fmt.Printf("Restored (%d, %d) to %s\n", x, y, o)
				}
				return nil
			}),
		},
		{
			Name:      "image",
			Usage:     "Stage the pixels of an image",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "x", Usage: "left edge on the canvas"},
				&cli.IntFlag{Name: "y", Usage: "top edge on the canvas"},
				&cli.IntFlag{Name: "size-x", Usage: "scale to this width, 0 keeps the image width"},
				&cli.IntFlag{Name: "size-y", Usage: "scale to this height, 0 keeps the image height"},
				&cli.IntFlag{Name: "colors", Value: rle.MaxPaletteColors, Usage: "reduce to this many colors, 0 keeps every color"},
				&cli.BoolFlag{Name: "keep-black", Usage: "stage black pixels too"},
			},
			Action: withCanvas(1, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				f, err := os.Open(c.Args().First())
				if err != nil {
					return err
				}
				defer f.Close()

				img, _, err := image.Decode(f)
				if err != nil {
					return err
				}

				n, err := m.PaintImage(img, raster.Options{
					X:         c.Int("x"),
					Y:         c.Int("y"),
					Width:     c.Int("size-x"),
					Height:    c.Int("size-y"),
					MaxColors: c.Int("colors"),
					SkipBlack: !c.Bool("keep-black"),
				})
				if err != nil {
					return err
				}
				fmt.Printf("Staged %d cells\n", n)
				return nil
			}),
		},
		{
			Name:  "cart",
			Usage: "List staged cells",
			Action: withCanvas(0, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				ct, err := m.Cart()
				if err != nil {
					return err
				}
				g := m.Grid()
				tw := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
				for _, e := range ct.Entries() {
					x, y := g.Coord(e.Index)
					fmt.Fprintf(tw, "(%d, %d)\t%s\twas %s\n", x, y, e.Color, e.Original)
				}
				fmt.Fprintf(tw, "%d cells, %d paint tokens needed\n", ct.Len(), ct.Len())
				return tw.Flush()
			}),
		},
		{
			Name:  "clear",
			Usage: "Unstage every cell",
			Action: withCanvas(0, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				o, err := m.Clear()
				if err != nil {
					return err
				}
				fmt.Printf("Unstaged %d cells\n", len(o))
				return nil
			}),
		},
		{
			Name:  "encode",
			Usage: "Print the payloads for the staged cells without submitting",
			Action: withCanvas(0, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				plan, err := m.Plan()
				if err != nil {
					return err
				}
				printPlan(os.Stdout, plan)
				return nil
			}),
		},
		{
			Name:  "checkout",
			Usage: "Submit the staged cells in order",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Usage: "write submissions to FILE instead of stdout"},
			},
			Action: withCanvas(0, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				w := io.Writer(os.Stdout)
				if out := c.String("out"); out != "" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()

				plan, err := m.Checkout(ctx, pixelcanvas.NewWriterSubmitter(w))
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Submitted %d cells in %d payloads\n", plan.Cells(), len(plan.Payloads))
				return nil
			}),
		},
		{
			Name:      "export",
			Usage:     "Write the staged cells to a file",
			ArgsUsage: "FILE",
			Action: withCanvas(1, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				f, err := os.Create(c.Args().First())
				if err != nil {
					return err
				}
				defer f.Close()

				return m.Export(f)
			}),
		},
		{
			Name:      "load",
			Usage:     "Replace the staged cells with those from a file",
			ArgsUsage: "FILE",
			Action: withCanvas(1, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				f, err := os.Open(c.Args().First())
				if err != nil {
					return err
				}
				defer f.Close()

				n, err := m.Import(f)
				if err != nil {
					return err
				}
				fmt.Printf("Staged %d cells\n", n)
				return nil
			}),
		},
		{
			Name:      "preview",
			Usage:     "Render the canvas with staged cells as a PNG",
			ArgsUsage: "FILE",
			Action: withCanvas(1, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				img, err := m.Preview()
				if err != nil {
					return err
				}

				f, err := os.Create(c.Args().First())
				if err != nil {
					return err
				}
				defer f.Close()

				return png.Encode(f, img)
			}),
		},
		{
			Name:  "history",
			Usage: "List submitted payloads",
			Action: withCanvas(0, func(c *cli.Context, m *pixelcanvas.Canvas) error {
				subs, err := m.History()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
				for _, s := range subs {
					state := "failed"
					if s.Confirmed {
						state = "confirmed"
					}
					fmt.Fprintf(tw, "%d\t%d.%d\t%s\t%s\t%d cells\t%s\t%s\n", s.ID, s.Checkout, s.Sequence, s.Created.Format("2006-01-02 15:04:05"), s.Kind, s.Cells, s.CRC, state)
				}
				return tw.Flush()
			}),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
