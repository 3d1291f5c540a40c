package main

import (
	"os"

	"github.com/helios-render/helios/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "helios"
	app.Usage = "render built-in scenes using path tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "render",
			Usage:     "render a still frame of a built-in scene",
			ArgsUsage: "scene_name",
			Description: `
Compile one of the built-in scenes into its flat GPU-friendly layout and
render it with the CPU path tracer, writing the tonemapped frame as a PNG.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 16,
					Usage: "samples per pixel per frame",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 1,
					Usage: "number of progressively accumulated frames",
				},
				cli.IntFlag{
					Name:  "num-bounces",
					Value: 5,
					Usage: "number of indirect bounces",
				},
				cli.IntFlag{
					Name:  "rr-bounces",
					Value: 3,
					Usage: "min bounces before russian roulette path elimination",
				},
				cli.IntFlag{
					Name:  "num-workers",
					Value: 0,
					Usage: "number of tracing workers (0 = one per logical cpu)",
				},
				cli.IntFlag{
					Name:  "seed",
					Value: 1,
					Usage: "base random seed for reproducible renders",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:      "info",
			Usage:     "print storage statistics for a compiled built-in scene",
			ArgsUsage: "scene_name",
			Action:    cmd.SceneInfo,
		},
	}

	app.Run(os.Args)
}
