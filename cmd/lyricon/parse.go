package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yleoer/lyrics/pkg/assembler"
	"github.com/yleoer/lyrics/pkg/lyric"
	"github.com/yleoer/lyrics/pkg/metadata"
	"github.com/yleoer/lyrics/pkg/parser"
	"github.com/yleoer/lyrics/pkg/processor"
	"github.com/yleoer/lyrics/pkg/util"
)

var (
	translationPath  string
	romanizationPath string
	duration         time.Duration
	tolerance        time.Duration
	dialectName      string
	format           string
	output           string
	convertT2S       bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <lyric-file>",
	Short: "Parse a lyric file and print the aligned result",
	Long: `Parse a single lyric file (.lrc, .elrc, .qrc, .yrc or a saved NetEase .json
response), align optional translation and romanization files to it and print
the result as JSON or enhanced LRC.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&translationPath, "translation", "t", "", "translation lyric file")
	parseCmd.Flags().StringVarP(&romanizationPath, "roma", "r", "", "romanization lyric file")
	parseCmd.Flags().DurationVar(&duration, "duration", 0, "track duration, used for the last line's end time")
	parseCmd.Flags().DurationVar(&tolerance, "tolerance", time.Duration(assembler.DefaultTolerance)*time.Millisecond, "translation match tolerance")
	parseCmd.Flags().StringVarP(&dialectName, "dialect", "d", "auto", "primary dialect: auto, lrc, elrc, qrc, yrc")
	parseCmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, lrc")
	parseCmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: stdout)")
	parseCmd.Flags().BoolVar(&convertT2S, "t2s", false, "convert traditional Chinese to simplified")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	dialect, err := parser.ParseDialect(dialectName)
	if err != nil {
		return err
	}
	if format != "json" && format != "lrc" {
		return fmt.Errorf("unsupported format %q", format)
	}

	src, err := readSource(args[0])
	if err != nil {
		return err
	}
	src.DurationMs = duration.Milliseconds()
	if translationPath != "" {
		if src.Translation, err = util.ReadTextFileContent(translationPath); err != nil {
			return fmt.Errorf("read translation: %w", err)
		}
	}
	if romanizationPath != "" {
		if src.Romanization, err = util.ReadTextFileContent(romanizationPath); err != nil {
			return fmt.Errorf("read romanization: %w", err)
		}
	}

	tc, err := newConverter(convertT2S)
	if err != nil {
		return fmt.Errorf("init converter: %w", err)
	}
	proc := processor.NewLyricProcessor(nil, tc, processor.Options{Tolerance: tolerance.Milliseconds()}, logger)
	rec, err := proc.BuildAs(dialect, src)
	if err != nil {
		return err
	}

	var out []byte
	if format == "lrc" {
		out = []byte(lyric.FormatLRC(rec.Metadata, rec.Lines, lyric.FormatOptions{Words: true, Translation: true}))
	} else {
		if out, err = json.MarshalIndent(rec, "", "  "); err != nil {
			return err
		}
		out = append(out, '\n')
	}
	if output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(output, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Printf("Wrote %d lines to %s", len(rec.Lines), output)
	return nil
}

// readSource 读取主歌词文件，.json 按网易云响应解码
func readSource(path string) (lyric.Source, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return lyric.Source{}, err
		}
		src, err := metadata.DecodeNeteaseResponse(name, data)
		if err != nil {
			return lyric.Source{}, err
		}
		src.Path = path
		return src, nil
	}
	content, err := util.ReadTextFileContent(path)
	if err != nil {
		return lyric.Source{}, err
	}
	return lyric.Source{Name: name, Path: path, Lyrics: content}, nil
}
