package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/philipparndt/gopath/internal/stream"
	"github.com/philipparndt/gopath/pkg/analysis"
	"github.com/philipparndt/gopath/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchListen string

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Rebuild the geometry whenever the toolpath changes",
	Long: `Watch a toolpath file and rebuild its geometry on every change.
With --listen, each rebuilt geometry is pushed to websocket clients connected to /geometry.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchListen, "listen", "l", "", "Address for the websocket server, e.g. :8080")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	listen := settings.Listen
	if cmd.Flags().Changed("listen") {
		listen = watchListen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	var hub *stream.Hub
	if listen != "" {
		hub = stream.NewHub(logger)
		defer hub.Close()
	}

	publish := func(result watcher.Result) {
		printResult(out, result)
		if hub == nil {
			return
		}
		if err := hub.Publish(message(result)); err != nil {
			logger.Warn("failed to publish geometry", slog.Any("error", err))
		}
	}

	w, err := watcher.New(args[0], settings.Options, settings.Debounce, logger, publish)
	if err != nil {
		return err
	}
	defer w.Close()

	publish(w.Build())

	errCh := make(chan error, 1)
	if hub != nil {
		mux := http.NewServeMux()
		mux.Handle("/geometry", hub)
		server := &http.Server{
			Addr:              listen,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("serving geometry", slog.String("addr", listen), slog.String("path", "/geometry"))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("geometry server failed: %w", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	fmt.Fprintf(out, "Watching %s (press Ctrl+C to stop)\n", args[0])

	go func() { errCh <- w.Run(ctx) }()

	err = <-errCh
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func message(result watcher.Result) stream.Message {
	msg := stream.Message{
		File:     result.File,
		Commands: result.Commands,
		Geometry: result.Geometry,
	}
	if result.Err != nil {
		msg.Error = result.Err.Error()
	}
	return msg
}

func printResult(w io.Writer, result watcher.Result) {
	stamp := time.Now().Format("15:04:05")
	if result.Err != nil {
		fmt.Fprintf(w, "[%s] %v\n", stamp, result.Err)
		return
	}
	s := analysis.Summarize(result.Geometry, result.Commands)
	fmt.Fprintf(w, "[%s] %d commands, %d points, %d markers, length %s\n",
		stamp, s.Commands, s.PointCount, s.MarkerCount, analysis.FormatMeasurement(s.TotalLength, ""))
}
