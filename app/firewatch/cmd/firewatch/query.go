package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/engine"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/provider"
)

func newQueryCmd(g *globalFlags) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the search queries and feed URL without fetching",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			eng, err := engine.NewEngine(cfg)
			if err != nil {
				return err
			}
			strict, relaxed, url := eng.Query(req)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "query:   %s\n", strict)
			fmt.Fprintf(out, "relaxed: %s\n", relaxed)
			fmt.Fprintf(out, "url:     %s\n", url)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newModelsCmd(g *globalFlags) *cobra.Command {
	var (
		providerName string
		apiKey       string
	)
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models available to an api key",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := model.ParseProviderID(providerName)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			eng, err := engine.NewEngine(cfg)
			if err != nil {
				return err
			}
			if apiKey == "" {
				apiKey = os.Getenv(apiKeyEnv[pid])
			}

			out := cmd.OutOrStdout()
			ids, err := eng.ListModels(cmd.Context(), pid, apiKey)
			if errors.Is(err, provider.ErrUnsupported) {
				// 不支持在线查询时列出配置中的模型
				for _, p := range eng.Providers() {
					if p.ID == pid {
						fmt.Fprintln(out, strings.Join(p.Models, "\n"))
					}
				}
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Join(ids, "\n"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&providerName, "provider", "p", "gemini", "llm provider: gemini, openai, deepseek")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "provider api key")
	return cmd
}
