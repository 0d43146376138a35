package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yleoer/lyrics/pkg/scanner"
	"github.com/yleoer/lyrics/pkg/scheduler"
	"github.com/yleoer/lyrics/pkg/util"
)

var serveWhileWatching bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the lyrics directory and process new or changed lyrics",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&serveWhileWatching, "serve", false, "also serve the HTTP API")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger.Println("Starting Lyricon watcher...")
	cfg := loadConfig()
	svc, err := openServices(cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	taskScheduler := scheduler.NewTaskScheduler(ctx, cfg, scanner.NewLyricScanner(logger), svc.processor, logger)
	defer taskScheduler.Close()
	taskScheduler.InitialScan(cfg.LyricsDir)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := addTree(watcher, cfg.LyricsDir); err != nil {
		return err
	}
	logger.Printf("Monitoring lyrics directory %s for changes...", cfg.LyricsDir)

	if serveWhileWatching {
		go func() {
			if err := serveHTTP(ctx, cfg.HTTPAddr, svc); err != nil {
				logger.Printf("ERROR: HTTP server stopped: %v", err)
				stop()
			}
		}()
	}

	logger.Println("Application is running. Press Ctrl+C to exit.")
	for {
		select {
		case <-ctx.Done():
			logger.Println("Shutting down watcher...")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleEvent(watcher, taskScheduler, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("ERROR: Watcher error: %v", err)
		}
	}
}

// handleEvent 新建的子目录加入监听并扫描，歌词文件变化时扫描其所在目录
func handleEvent(watcher *fsnotify.Watcher, ts *scheduler.TaskScheduler, event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create && util.IsDirectory(event.Name) {
		logger.Printf("  -> New directory created: %s. Watching and scheduling scan.", event.Name)
		if err := addTree(watcher, event.Name); err != nil {
			logger.Printf("ERROR: Error adding %s to watcher: %v", event.Name, err)
		}
		ts.TriggerScan(event.Name)
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	if !util.IsLyricFile(event.Name) {
		return
	}
	logger.Printf("Watcher event: %s, on %s", event.Op.String(), event.Name)
	ts.TriggerScan(filepath.Dir(event.Name))
}

// addTree 把目录及其所有子目录加入监听
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
