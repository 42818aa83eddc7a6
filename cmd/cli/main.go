package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/adminconsole/internal/app"
	"github.com/dmitrijs2005/adminconsole/internal/buildinfo"
	"github.com/dmitrijs2005/adminconsole/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	c, err := app.NewCLI(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer c.Close()

	c.Run(ctx)

}
