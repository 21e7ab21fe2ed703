package process

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/opdss/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/opdss/dataexporter/logger"
)

// DefaultCfgFilename is the default filename used for storing a configuration.
const DefaultCfgFilename = "config.yaml"

// DefaultEnvPrefix is used when ENV_PREFIX is not set.
const DefaultEnvPrefix = "dataexport"

var (
	commandMtx sync.Mutex
	contexts   = map[*cobra.Command]context.Context{}
	cancels    = map[*cobra.Command]context.CancelFunc{}
	vipers     = map[*cobra.Command]*viper.Viper{}
)

// Exec runs a Cobra command. If a "config-dir" flag is defined it will be parsed
// and loaded using viper.
func Exec(cmd *cobra.Command) {
	ExecWithCustomConfig(cmd, LoadConfig)
}

// ExecWithCustomConfig runs a Cobra command. Custom configuration can be loaded.
func ExecWithCustomConfig(cmd *cobra.Command, loadConfig func(cmd *cobra.Command, vip *viper.Viper) error) {
	cmd.AddCommand(&cobra.Command{
		Use:         "version",
		Short:       "output the version's build information, if any",
		RunE:        cmdVersion,
		Annotations: map[string]string{"type": "setup"}})

	exe, err := os.Executable()
	if err == nil && cmd.Use == "" {
		cmd.Use = exe
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	cleanup(cmd, loadConfig)
	err = cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}

// LogFlags registers the logger flags on cmd, they are read back through viper
// so config.yaml and environment variables can set them too.
func LogFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.String("log.level", "info", "日志级别[debug|info|warn|error]")
	fs.String("log.filename", "", "日志文件,为空时输出到stderr")
	fs.Int("log.max-size", 100, "单个日志文件大小(MB)")
	fs.Int("log.max-backups", 7, "保留的旧日志文件数量")
	fs.Int("log.max-age", 30, "旧日志保留天数")
	fs.Bool("log.compress", false, "是否压缩旧日志")
	fs.Bool("log.development", false, "开发模式,输出console格式")
}

// Ctx returns the appropriate context.Context for ExecuteWithConfig commands.
func Ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	ctx := contexts[cmd]
	if ctx == nil {
		ctx = context.Background()
		contexts[cmd] = ctx
	}

	cancel := cancels[cmd]
	if cancel == nil {
		ctx, cancel = context.WithCancel(ctx)
		contexts[cmd] = ctx
		cancels[cmd] = cancel

		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-c
			zap.L().Info("Got a signal from the OS", zap.Stringer("signal", sig))
			signal.Stop(c)
			cancel()
		}()
	}

	return ctx, cancel
}

// Viper returns the appropriate *viper.Viper for the command, creating if necessary.
func Viper(cmd *cobra.Command) (*viper.Viper, error) {
	return ViperWithCustomConfig(cmd, LoadConfig)
}

// ViperWithCustomConfig returns the appropriate *viper.Viper for the command, creating if necessary. Custom
// config load logic can be defined with "loadConfig" parameter.
func ViperWithCustomConfig(cmd *cobra.Command, loadConfig func(cmd *cobra.Command, vip *viper.Viper) error) (*viper.Viper, error) {
	commandMtx.Lock()
	defer commandMtx.Unlock()

	if vip := vipers[cmd]; vip != nil {
		return vip, nil
	}

	vip := viper.New()
	if err := vip.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	prefix := os.Getenv("ENV_PREFIX")
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	err := loadConfig(cmd, vip)
	if err != nil {
		return nil, err
	}

	vipers[cmd] = vip
	return vip, nil
}

// LoadConfig loads configuration into *viper.Viper from file specified with "config-dir" flag.
func LoadConfig(cmd *cobra.Command, vip *viper.Viper) error {
	cfgFlag := cmd.Flags().Lookup("config-dir")
	if cfgFlag != nil && cfgFlag.Value.String() != "" {
		path := filepath.Join(os.ExpandEnv(cfgFlag.Value.String()), DefaultCfgFilename)
		exists, err := fileExists(path)
		if err != nil {
			return err
		}
		if exists {
			setupCommand := cmd.Annotations["type"] == "setup"
			vip.SetConfigFile(path)
			if err := vip.ReadInConfig(); err != nil && !setupCommand {
				return err
			}
		}
	}
	return nil
}

// LoggerConfig reads the log.* keys registered by LogFlags.
func LoggerConfig(vip *viper.Viper) logger.Config {
	return logger.Config{
		Level:       vip.GetString("log.level"),
		Filename:    vip.GetString("log.filename"),
		MaxSize:     vip.GetInt("log.max-size"),
		MaxBackups:  vip.GetInt("log.max-backups"),
		MaxAge:      vip.GetInt("log.max-age"),
		Compress:    vip.GetBool("log.compress"),
		Development: vip.GetBool("log.development"),
	}
}

func cleanup(cmd *cobra.Command, loadConfig func(cmd *cobra.Command, vip *viper.Viper) error) {
	for _, ccmd := range cmd.Commands() {
		cleanup(ccmd, loadConfig)
	}
	if cmd.Run != nil {
		panic("Please use cobra's RunE instead of Run")
	}
	internalRun := cmd.RunE
	if internalRun == nil {
		return
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		vip, err := ViperWithCustomConfig(cmd, loadConfig)
		if err != nil {
			return err
		}

		log := zap.L()
		if cmd.Flags().Lookup("log.level") != nil {
			if log, err = logger.NewLogger(LoggerConfig(vip)); err != nil {
				return err
			}
		}

		if vip.ConfigFileUsed() != "" {
			path, err := filepath.Abs(vip.ConfigFileUsed())
			if err != nil {
				path = vip.ConfigFileUsed()
				log.Debug("unable to resolve path", zap.Error(err))
			}

			log.Info("Configuration loaded", zap.String("Location", path))
		}

		defer func() { _ = log.Sync() }()
		defer zap.ReplaceGlobals(log)()
		defer zap.RedirectStdLog(log)()

		ctx, cancel := Ctx(cmd)
		defer func() {
			cancel()
			commandMtx.Lock()
			delete(contexts, cmd)
			delete(cancels, cmd)
			commandMtx.Unlock()
		}()
		cmd.SetContext(ctx)

		if err = internalRun(cmd, args); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "Error:", err.Error())
			log.Error("Unrecoverable error", zap.Error(err))
			_ = log.Sync()
			os.Exit(1)
		}

		return nil
	}
}

func cmdVersion(cmd *cobra.Command, args []string) (err error) {
	fmt.Println(version.Build)
	return nil
}
