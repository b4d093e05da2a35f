package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "livecastctl",
		Short: "Livecast CLI",
		Long:  `A command-line tool to drive the live capture session of a running livecast server.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&serverAddr, "server", "s", "http://localhost:8080", "Livecast server address")

	rootCmd.AddCommand(startCommand())
	rootCmd.AddCommand(postCommand("stop", "Stop streaming and keep the preview", "/api/stream/stop"))
	rootCmd.AddCommand(postCommand("switch", "Switch between front and back camera", "/api/camera/switch"))
	rootCmd.AddCommand(postCommand("mute", "Mute the microphone", "/api/audio/mute"))
	rootCmd.AddCommand(postCommand("unmute", "Unmute the microphone", "/api/audio/unmute"))
	rootCmd.AddCommand(getCommand("muted", "Show whether audio is muted", "/api/audio/muted"))
	rootCmd.AddCommand(getCommand("status", "Show the current session", "/api/session"))
	rootCmd.AddCommand(postCommand("reset", "Drop the current session and start a fresh one", "/api/session/reset"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
