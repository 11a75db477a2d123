package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/njchilds90/kses"
	"github.com/njchilds90/kses/profile"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v   *viper.Viper
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}
	var cfgFile string

	root := &cobra.Command{
		Use:   "kses [file...]",
		Short: "Filter HTML through an allow-list profile",
		Long: `kses removes every tag, attribute and URL scheme that the selected profile
does not allow. Text outside of tags is kept as is.

Example usage:
  kses comment.html                 # Filter with the basic profile
  kses --profile admin page.html    # Filter with the admin profile
  kses --profile ./site.yaml < in   # Filter stdin with a profile file
  kses --text post.html             # Print the filtered text without markup`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd, cfgFile)
		},
		RunE: a.runFilter,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .kses.yaml)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.Flags().StringP("profile", "p", profile.Basic, "built-in profile name or profile file")
	root.Flags().Bool("text", false, "print plain text instead of filtered HTML")

	_ = a.v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("profile", root.Flags().Lookup("profile"))
	_ = a.v.BindPFlag("text", root.Flags().Lookup("text"))

	root.AddCommand(a.newCheckCmd(), a.newProfilesCmd())
	return root
}

// initConfig reads the config file and KSES_* environment variables and sets
// up logging.
func (a *app) initConfig(cmd *cobra.Command, cfgFile string) error {
	a.v.SetEnvPrefix("kses")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName(".kses")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
	}
	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	a.log = setupLogger(cmd.ErrOrStderr(), a.v.GetString("log_level"))
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug().Str("config", used).Msg("configuration loaded")
	}
	return nil
}

func setupLogger(w io.Writer, level string) zerolog.Logger {
	loglevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		loglevel = zerolog.WarnLevel
	}
	consoleWriter := zerolog.ConsoleWriter{Out: w, PartsExclude: []string{zerolog.TimestampFieldName}}
	return zerolog.New(consoleWriter).Level(loglevel).With().Timestamp().Logger()
}

func (a *app) runFilter(cmd *cobra.Command, args []string) error {
	p, err := profile.Resolve(a.v.GetString("profile"), profile.WithLogger(a.log))
	if err != nil {
		return err
	}
	text := a.v.GetBool("text")

	if len(args) == 0 {
		return a.filterOne(cmd.OutOrStdout(), cmd.InOrStdin(), "stdin", p, text)
	}
	for _, name := range args {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		err = a.filterOne(cmd.OutOrStdout(), f, name, p, text)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *app) filterOne(w io.Writer, r io.Reader, name string, p *kses.Policy, text bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if !utf8.Valid(data) {
		a.log.Warn().Str("input", name).Msg("input is not valid UTF-8, output is empty")
	}
	out := p.Filter(string(data))
	if text {
		out, err = kses.StripTags(out)
		if err != nil {
			return fmt.Errorf("strip %s: %w", name, err)
		}
	}
	a.log.Debug().Str("input", name).Int("in", len(data)).Int("out", len(out)).Msg("filtered")
	_, err = io.WriteString(w, out)
	return err
}
