package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/config"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/engine"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/logger"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/render"
)

var (
	configPath   string
	participants string
	meetingCtx   string
	objective    string
	format       string
	outputPath   string
)

var rootCmd = &cobra.Command{
	Use:   "briefing",
	Short: "Prepare an executive meeting briefing",
	Long: `Research the participants, analyze the industries involved, develop a meeting
strategy and compile a five-section briefing. Missing API credentials fall back to
placeholder content, so the command always produces a briefing.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "configs/config.yaml", "config file path")
	f.StringVarP(&participants, "participants", "p", "", "comma-separated participant names")
	f.StringVar(&meetingCtx, "context", "", "meeting context")
	f.StringVar(&objective, "objective", "", "meeting objective")
	f.StringVarP(&format, "format", "f", "json", "output format: json or html")
	f.StringVarP(&outputPath, "output", "o", "", "output file, stdout when empty")
	_ = rootCmd.MarkFlagRequired("participants")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if format != "json" && format != "html" {
		return fmt.Errorf("unknown format: %s", format)
	}

	// 1. 加载配置
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("无法加载配置文件: %w", err)
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return fmt.Errorf("无法初始化日志: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 初始化引擎
	eng, err := engine.NewEngine(ctx, cfg)
	if err != nil {
		return err
	}

	// 4. 生成简报
	b, err := eng.Prepare(ctx, engine.BriefingRequest{
		Participants:     engine.ParseParticipants(participants),
		MeetingContext:   meetingCtx,
		MeetingObjective: objective,
	})
	if err != nil {
		return err
	}

	// 5. 输出
	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if format == "html" {
		err = render.HTML(w, *b)
	} else {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(b)
	}
	if err != nil {
		return err
	}
	if outputPath != "" {
		logger.Log.Infof("简报已写入: %s", outputPath)
	}
	return nil
}

// loadConfig 配置文件不存在时使用空配置，凭据全部来自环境变量
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := &config.Config{}
		cfg.ApplyEnv()
		return cfg, nil
	}
	return config.LoadConfig(path)
}
