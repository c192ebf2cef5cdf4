package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/config"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/logger"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

const defaultConfigPath = "app/firewatch/configs/config.yaml"

// globalFlags 所有子命令共享的参数
type globalFlags struct {
	configPath string
	logLevel   string
}

// searchFlags 检索相关参数
type searchFlags struct {
	keyword string
	window  string
	sources []string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:          "firewatch",
		Short:        "Kedah Infodemic Firewatch: news monitoring with LLM risk analysis",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", defaultConfigPath, "config file path")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(g), newQueryCmd(g), newModelsCmd(g))
	return root
}

// loadConfig 加载配置并初始化日志。默认路径不存在时使用内置默认值。
func loadConfig(cmd *cobra.Command, g *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, fmt.Errorf("无法加载配置文件: %w", err)
		}
		cfg = config.Default()
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := logger.InitLogger(cfg.Log); err != nil {
		return nil, fmt.Errorf("无法初始化日志: %w", err)
	}
	return cfg, nil
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.keyword, "keyword", "k", "vape kedah", "keyword to monitor")
	cmd.Flags().StringVarP(&f.window, "window", "w", "7d", "time window: 1d, 3d, 7d, 30d (or \"7 hari\")")
	cmd.Flags().StringSliceVarP(&f.sources, "source", "s", []string{"news"}, "sources: all, news, tiktok, facebook, x")
}

func (f *searchFlags) request() (model.SearchRequest, error) {
	w, err := model.ParseTimeWindow(f.window)
	if err != nil {
		return model.SearchRequest{}, err
	}
	sources := make([]model.Source, 0, len(f.sources))
	for _, s := range f.sources {
		if strings.TrimSpace(s) == "" {
			continue
		}
		src, err := model.ParseSource(s)
		if err != nil {
			return model.SearchRequest{}, err
		}
		sources = append(sources, src)
	}
	return model.NewSearchRequest(f.keyword, w, sources...)
}
