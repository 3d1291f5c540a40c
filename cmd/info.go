package cmd

import (
	"fmt"

	"github.com/helios-render/helios/scene"
	"github.com/urfave/cli"
)

// SceneInfo compiles a built-in scene and prints its storage statistics.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sceneName := ctx.Args().First()
	if sceneName == "" {
		return fmt.Errorf("missing scene name argument; available: %v", scene.DemoNames())
	}

	sc, err := scene.Demo(sceneName, 512, 512)
	if err != nil {
		return err
	}

	logger.Noticef("compiled scene %q\n%s", sceneName, sc.Stats())
	return nil
}
