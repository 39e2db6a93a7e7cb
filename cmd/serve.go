package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/serverless-sim/serverless-sim/server"
	"github.com/serverless-sim/serverless-sim/sim"
)

var servePort int

// serveCmd starts the HTTP front-end over a live-mode scheduler.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP task-intake front-end",
	Run: func(cmd *cobra.Command, args []string) {
		sched := sim.NewScheduler()
		srv := server.New(sched)

		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-done
			logrus.Info("shutting down HTTP front-end")
			if err := srv.Shutdown(); err != nil {
				logrus.Errorf("shutdown: %v", err)
			}
		}()

		if err := srv.Listen(fmt.Sprintf(":%d", servePort)); err != nil {
			logrus.Fatalf("server: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 5000, "Listen port")

	rootCmd.AddCommand(serveCmd)
}
