package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ZanzyTHEbar/dialogue-prep/cmd"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cobra.CheckErr(cmd.NewCLI().ExecuteContext(ctx))
}
