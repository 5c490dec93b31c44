package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/blackcoderx/ferrapi/pkg/bench"
	"github.com/blackcoderx/ferrapi/pkg/core"
	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/blackcoderx/ferrapi/pkg/transport"
	"github.com/spf13/cobra"
)

var benchFlags struct {
	method string
	env    string
	opts   bench.Options
}

func init() {
	fs := benchCmd.Flags()
	fs.StringVarP(&benchFlags.method, "request", "X", "GET", "HTTP method of the saved request")
	fs.StringVar(&benchFlags.env, "env", "", "YAML file of {{VAR}} values substituted before sending")
	fs.DurationVar(&benchFlags.opts.Duration, "duration", 10*time.Second, "how long to keep sending")
	fs.IntVar(&benchFlags.opts.Rate, "rate", 10, "requests per second across all workers")
	fs.IntVarP(&benchFlags.opts.Concurrency, "concurrency", "c", 1, "number of concurrent workers")
	fs.Int64VarP(&benchFlags.opts.Requests, "requests", "n", 0, "stop after this many requests (0 = until --duration)")
	fs.DurationVar(&benchFlags.opts.RampUp, "ramp-up", 0, "spread worker start over this period")

	rootCmd.AddCommand(benchCmd)
}

var benchCmd = &cobra.Command{
	Use:   "bench TARGET",
	Short: "Replay a saved request under load and report latency",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		method, err := storage.ParseMethod(benchFlags.method)
		if err != nil {
			return err
		}

		d, err := storage.NewStore(settings.Root).Load(args[0], method)
		if err != nil {
			return err
		}

		var env map[string]string
		if benchFlags.env != "" {
			if env, err = storage.LoadEnvironment(benchFlags.env); err != nil {
				return err
			}
		}
		d = storage.ApplyEnvironment(d, env)
		if strings.TrimSpace(d.URL) == "" {
			return core.ErrMissingURL
		}

		fmt.Fprintf(os.Stderr, "Sending %s %s for up to %s at %d req/sec with %d workers\n",
			d.Method, d.URL, benchFlags.opts.Duration, benchFlags.opts.Rate, benchFlags.opts.Concurrency)

		result, err := bench.Run(ctx, transport.NewHTTPClient(settings.Timeout), d, benchFlags.opts)
		if err != nil {
			return err
		}
		fmt.Print(result.Format())
		return nil
	},
}
