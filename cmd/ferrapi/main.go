package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/blackcoderx/ferrapi/pkg/core"
	"github.com/blackcoderx/ferrapi/pkg/logging"
	"github.com/blackcoderx/ferrapi/pkg/render"
	"github.com/blackcoderx/ferrapi/pkg/selector"
	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/blackcoderx/ferrapi/pkg/transport"
	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile  string
	settings *core.Settings
	flags    requestFlags
	rootCmd  = &cobra.Command{
		Use:   "ferrapi [TARGET]",
		Short: "ferrapi - HTTP requests with saved, namespaced configurations",
		Long: `ferrapi sends HTTP requests from the command line and can save them under
slash-separated namespaces such as SystemB/reqres. A saved request is replayed by
naming its namespace; flags given alongside override the saved fields.

TARGET is a namespace, or a URL starting with http:// or https://.`,
		Version:           version,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := runRequest(ctx, cmd, args)
			if core.IsAborted(err) {
				fmt.Fprintln(os.Stderr, "selection aborted")
				return nil
			}
			return err
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ferrapi.yaml)")
	pf.String("root", "", "configuration root (default is $HOME/"+core.RootFolderName+")")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.Bool("accessible", false, "use line-based prompts instead of the full-screen selector")
	_ = viper.BindPFlag("root", pf.Lookup("root"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("accessible", pf.Lookup("accessible"))

	flags.register(rootCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := homedir.Dir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ferrapi")
	}

	viper.SetEnvPrefix("FERRAPI")
	viper.AutomaticEnv()
	core.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: Failed to read config file: %v\n", err)
		}
	}
}

// setup runs before every command and resolves the process-wide settings.
func setup(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (optional, warn if malformed)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load .env file: %v\n", err)
	}

	s, err := core.LoadSettings(viper.GetViper())
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}
	logging.Init(level, os.Stderr)
	logging.Debug("CLI", "configuration root %s, log level %s", s.Root, level)

	settings = s
	return nil
}

func runRequest(ctx context.Context, cmd *cobra.Command, args []string) error {
	in, err := flags.input(cmd, args)
	if err != nil {
		return err
	}

	store := storage.NewStore(settings.Root)
	prompter := selector.NewHuhPrompter(selector.WithAccessible(settings.Accessible))
	sel := selector.New(store.Codec(), prompter)
	sel.MaxRetries = settings.MaxRetries
	resolver := core.NewResolver(store, sel, prompter, transport.NewHTTPClient(settings.Timeout))

	result, err := resolver.Resolve(ctx, in)
	if result != nil {
		report(result)
	}
	if err != nil {
		return err
	}

	resp := result.Response
	if resp == nil {
		return nil
	}

	fmt.Println(render.Response(resp, render.Options{
		Plain:   flags.raw,
		Headers: flags.include,
		Width:   100,
	}))

	if flags.copy {
		if err := clipboard.WriteAll(string(resp.Body)); err != nil {
			logging.Warn("CLI", "could not copy response to clipboard: %v", err)
		} else {
			fmt.Fprintln(os.Stderr, render.DimStyle.Render("Response body copied to clipboard"))
		}
	}

	if flags.schemaFile != "" {
		if err := transport.ValidateSchema(flags.schemaFile, resp.Body); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, render.OKStyle.Render("Response matches schema"))
	}
	return nil
}

// report prints what Resolve did besides executing. Status lines go to stderr so that
// stdout carries only the response.
func report(result *core.Result) {
	switch result.Action {
	case core.ActionCreateNamespace:
		fmt.Fprintf(os.Stderr, "Created namespace %s\n", result.Namespace)
	case core.ActionDeleteNamespace:
		fmt.Fprintf(os.Stderr, "Deleted namespace %s\n", result.Namespace)
	case core.ActionDelete:
		fmt.Fprintf(os.Stderr, "Deleted %s configuration of %s\n", result.Method, result.Namespace)
	case core.ActionCancelled:
		fmt.Fprintln(os.Stderr, "Cancelled")
	case core.ActionDryRun:
		fmt.Print(render.Descriptor(result.Descriptor))
	}

	if result.SavedPath != "" {
		fmt.Fprintln(os.Stderr, render.DimStyle.Render("Saved "+result.SavedPath))
	}
	if result.Diff != "" {
		fmt.Fprintln(os.Stderr, render.ColorDiff(result.Diff))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.ErrorStyle.Render("Error: ")+core.Describe(err))
		os.Exit(1)
	}
}
