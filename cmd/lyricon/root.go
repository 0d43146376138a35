package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/yleoer/lyrics/pkg/config"
	"github.com/yleoer/lyrics/pkg/converter"
)

var (
	quiet  bool
	logger = log.New(os.Stdout, "[Lyricon] ", log.LstdFlags|log.Lshortfile)
)

var rootCmd = &cobra.Command{
	Use:   "lyricon",
	Short: "Parse, align and serve synchronized lyrics",
	Long: `Lyricon parses LRC, enhanced LRC, QRC and YRC lyrics, aligns translation
and romanization tracks to the primary lyrics and stores the result.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logger.SetOutput(io.Discard)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")
}

// newConverter 按配置创建繁简转换器，未启用时返回 nil
func newConverter(enabled bool) (converter.TextConverter, error) {
	if !enabled {
		return nil, nil
	}
	return converter.NewOpenCCConverter(logger)
}

// loadConfig 加载配置，失败时直接退出
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}
