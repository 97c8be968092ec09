package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/northstarhq/northstar/pkg/commands"
	"github.com/northstarhq/northstar/pkg/configuration"
)

func main() {
	root := &cobra.Command{
		Use:   "northstar",
		Short: "Northstar administration commands",
	}
	root.AddCommand(commands.NewUtilityCommands()...)

	if err := root.Execute(); err != nil {
		configuration.Use().Unload()
		log.Println(err)
		os.Exit(1)
	}
}
