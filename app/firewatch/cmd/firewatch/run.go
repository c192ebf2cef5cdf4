package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/engine"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/export"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/logger"
	"github.com/kedah-infodemic/firewatch/app/firewatch/pkg/model"
)

// apiKeyEnv 各服务商凭据的环境变量
var apiKeyEnv = map[model.ProviderID]string{
	model.ProviderGemini:   "GEMINI_API_KEY",
	model.ProviderOpenAI:   "OPENAI_API_KEY",
	model.ProviderDeepSeek: "DEEPSEEK_API_KEY",
}

type runFlags struct {
	searchFlags
	provider string
	model    string
	apiKey   string
	language string
	rssOut   string
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch news for a keyword and analyse it with an LLM",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, g, f)
		},
	}
	f.searchFlags.register(cmd)
	cmd.Flags().StringVarP(&f.provider, "provider", "p", "gemini", "llm provider: gemini, openai, deepseek")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "model id (defaults to the provider default)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "provider api key (or GEMINI_API_KEY / OPENAI_API_KEY / DEEPSEEK_API_KEY)")
	cmd.Flags().StringVar(&f.language, "lang", "", "prompt language: ms or en")
	cmd.Flags().StringVar(&f.rssOut, "rss", "", "write the result set as RSS to this file")
	return cmd
}

func runAnalysis(cmd *cobra.Command, g *globalFlags, f *runFlags) error {
	req, err := f.request()
	if err != nil {
		return err
	}
	pid, err := model.ParseProviderID(f.provider)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return err
	}
	if f.language != "" {
		cfg.Analysis.Language = f.language
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	eng, err := engine.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("引擎初始化失败: %w", err)
	}

	apiKey := f.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnv[pid])
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	run := model.NewRun()
	stopCountdown := func() {}
	err = eng.Run(ctx, run, engine.RunOptions{
		Request:  req,
		Provider: model.ProviderConfig{ID: pid, Model: f.model, Credential: apiKey},
		ProgressCallback: func(status string, progress int) {
			logger.Log.Debugf("进度 %d%%: %s", progress, status)
		},
		RetryCallback: func(at time.Time, wait time.Duration) {
			stopCountdown()
			stopCountdown = countdown(ctx, out, at, wait)
		},
	})
	stopCountdown()
	snap := run.Snapshot()
	printSnapshot(out, snap)
	if err != nil {
		return err
	}

	if f.rssOut != "" && len(snap.Results) > 0 {
		doc, err := export.RSS(snap, "file://"+f.rssOut, time.Now())
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.rssOut, []byte(doc+"\n"), 0o644); err != nil {
			return fmt.Errorf("write rss: %w", err)
		}
	}
	return nil
}

// countdownTick 倒计时打印间隔
var countdownTick = 5 * time.Second

// countdown 打印自动重试倒计时，直到 at、ctx 结束或调用返回的 stop。
// stop 返回后不会再写入 w。
func countdown(ctx context.Context, w io.Writer, at time.Time, wait time.Duration) (stop func()) {
	fmt.Fprintf(w, "Kuota API penuh. Mencuba semula secara automatik dalam %d saat...\n", int(wait.Seconds()))
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(countdownTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				left := at.Sub(now).Round(time.Second)
				if left <= 0 {
					return
				}
				fmt.Fprintf(w, "  ... %d saat lagi\n", int(left.Seconds()))
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func printSnapshot(w io.Writer, snap model.Snapshot) {
	switch snap.Phase {
	case model.PhaseFetchFailed:
		fmt.Fprintf(w, "Gagal mendapatkan berita: %s\n", snap.FetchError)
		return
	case model.PhaseEmpty:
		fmt.Fprintf(w, "Tiada berita ditemui untuk \"%s\".\n", snap.Keyword)
		return
	}

	fmt.Fprintf(w, "Berita untuk \"%s\" (%s):\n", snap.Keyword, snap.Window)
	for i, it := range snap.Results {
		fmt.Fprintf(w, "%d. %s [%s]\n   %s\n", i+1, it.Title, it.Source, it.Link)
	}

	if snap.Analysis == nil {
		return
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if snap.Analysis.Outcome == model.OutcomeSuccess {
		fmt.Fprintln(w, snap.Analysis.Markdown)
		return
	}
	fmt.Fprintf(w, "%s\n", snap.Analysis.Outcome.Message())
	if snap.Analysis.Detail != "" {
		fmt.Fprintf(w, "Detail: %s\n", snap.Analysis.Detail)
	}
}
