package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ba5maa/FileBlogSystem/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, &cli.Deps{}, os.Args[1:])
	stop()
	os.Exit(code)
}
