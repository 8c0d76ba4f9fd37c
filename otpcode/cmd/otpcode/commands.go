package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bashhack/otpcode/internal/config"
	"github.com/bashhack/otpcode/internal/constants"
	"github.com/bashhack/otpcode/internal/otp"
	"github.com/bashhack/otpcode/internal/source"
)

func newRootCmd(app *App) *cobra.Command {
	v := config.New()
	var configPath string

	root := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Generate RFC 6238 TOTP codes from secrets and otpauth:// URIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd); err != nil {
				return err
			}
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			app.configure(cfg)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/otpcode/config.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Log diagnostics to stderr")

	root.AddCommand(
		newCodeCmd(app),
		newInspectCmd(app),
		newNewCmd(app),
		newBatchCmd(app),
		newVersionCmd(app),
	)

	return root
}

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"verbose":     config.KeyVerbose,
	"env":         config.KeySecretEnv,
	"next":        config.KeyShowNext,
	"concurrency": config.KeyBatchConcurrency,
}

// bindFlags binds the running command's flags to v. Subcommands share flag
// names, so binding waits until the command is known.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

type sourceFlags struct {
	qrFile string
	scan   bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.qrFile, "qr", "", "Read the otpauth:// URI from a QR code image")
	cmd.Flags().BoolVar(&f.scan, "scan", false, "Capture a QR code from the screen (macOS)")
	cmd.Flags().String("env", constants.DefaultSecretEnv, "Environment variable holding the secret")
}

func (f *sourceFlags) request(app *App, args []string) source.Request {
	req := source.Request{QRFile: f.qrFile, Scan: f.scan, EnvName: app.Config.SecretEnv}
	if len(args) > 0 {
		req.Arg = args[0]
	}
	return req
}

func newCodeCmd(app *App) *cobra.Command {
	var (
		src    sourceFlags
		atFlag string
	)

	cmd := &cobra.Command{
		Use:   "code [secret|otpauth-uri]",
		Short: "Print the current TOTP code",
		Long: `Print the current TOTP code.

The secret is taken from the argument, --qr or --scan. Without one, the
environment variable named by --env is checked, then stdin is read (with a
hidden prompt on a terminal).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := CodeOptions{Source: src.request(app, args), ShowNext: app.Config.ShowNext}
			if atFlag != "" {
				at, err := time.Parse(time.RFC3339, atFlag)
				if err != nil {
					return fmt.Errorf("invalid --time %q: %w", atFlag, err)
				}
				opts.At = at
			}
			return app.GenerateCode(opts)
		},
	}

	src.register(cmd)
	cmd.Flags().Bool("next", false, "Also print the code for the next period")
	cmd.Flags().StringVar(&atFlag, "time", "", "Generate for this RFC 3339 time instead of now")

	return cmd
}

func newInspectCmd(app *App) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "inspect [secret|otpauth-uri]",
		Short: "Show issuer, account and generation parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Inspect(src.request(app, args))
		},
	}
	src.register(cmd)

	return cmd
}

func newNewCmd(app *App) *cobra.Command {
	var (
		opts      NewKeyOptions
		algorithm string
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new TOTP key and provisioning URI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			alg, err := otp.ParseAlgorithm(algorithm)
			if err != nil {
				return err
			}
			opts.Key.Algorithm = alg
			return app.NewKey(opts)
		},
	}

	cmd.Flags().StringVar(&opts.Key.Issuer, "issuer", "", "Issuer shown by authenticator apps (required)")
	cmd.Flags().StringVar(&opts.Key.AccountName, "account", "", "Account name (required)")
	cmd.Flags().IntVar(&opts.Key.Digits, "digits", otp.DefaultDigits, "Code length")
	cmd.Flags().Uint64Var(&opts.Key.Period, "period", otp.DefaultPeriod, "Period in seconds")
	cmd.Flags().StringVar(&algorithm, "algorithm", otp.DefaultAlgorithm.Token(), "sha1, sha256 or sha512")
	cmd.Flags().StringVar(&opts.QROut, "qr-out", "", "Write the provisioning QR code to this PNG file")
	_ = cmd.MarkFlagRequired("issuer")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func newBatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [file|-]",
		Short: "Print a code for every name<TAB>secret line",
		Long: `Print a code for every line of input.

Lines are "name<TAB>secret-or-uri" or a bare secret; blank lines and lines
starting with # are skipped. Input may be zstd compressed. Reads stdin when
the file is "-" or omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = app.Stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open batch file: %w", err)
				}
				defer f.Close()
				in = f
			}
			return app.RunBatch(cmd.Context(), in)
		},
	}

	cmd.Flags().Int("concurrency", constants.DefaultBatchConcurrency,
		fmt.Sprintf("Maximum codes generated in parallel (1-%d)", constants.MaxBatchConcurrency))

	return cmd
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ShowVersion()
			return nil
		},
	}
}
