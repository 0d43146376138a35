package scheduler

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yleoer/lyrics/pkg/config"
	"github.com/yleoer/lyrics/pkg/processor"
	"github.com/yleoer/lyrics/pkg/scanner"
	"github.com/yleoer/lyrics/pkg/util"
)

// TaskScheduler 负责调度歌词目录的扫描和处理任务
type TaskScheduler struct {
	cfg               *config.Config
	lyricScanner      *scanner.LyricScanner
	lyricProcessor    *processor.LyricProcessor
	logger            *log.Logger
	ctx               context.Context
	cancel            context.CancelFunc
	scanMutex         sync.Mutex // 保护扫描过程
	pendingScans      map[string]*pendingScan
	pendingScansMutex sync.Mutex // 保护 pendingScans map
	closed            bool
}

// NewTaskScheduler 创建一个新的 TaskScheduler 实例
func NewTaskScheduler(
	ctx context.Context,
	cfg *config.Config,
	lyricScanner *scanner.LyricScanner,
	lyricProcessor *processor.LyricProcessor,
	logger *log.Logger,
) *TaskScheduler {
	ctx, cancel := context.WithCancel(ctx)
	return &TaskScheduler{
		cfg:            cfg,
		lyricScanner:   lyricScanner,
		lyricProcessor: lyricProcessor,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		pendingScans:   make(map[string]*pendingScan),
	}
}

// InitialScan 对歌词目录及其子目录进行一次完整扫描，返回处理成功的数量
// 内容未变化的歌词由处理器根据指纹跳过。
func (ts *TaskScheduler) InitialScan(root string) int {
	ts.logger.Println("Performing initial scan for unprocessed lyrics in lyrics directory...")
	ts.scanMutex.Lock()
	defer ts.scanMutex.Unlock()
	sources, err := ts.lyricScanner.ScanTree(root)
	if err != nil {
		ts.logger.Printf("ERROR: Error reading lyrics directory %s for initial scan: %v", root, err)
	}
	n, err := ts.lyricProcessor.ProcessAll(ts.ctx, sources)
	if err != nil {
		ts.logger.Printf("WARN: Initial scan interrupted: %v", err)
	}
	ts.logger.Printf("Initial scan completed. %d of %d lyric sources processed.", n, len(sources))
	return n
}

// TriggerScan 将一个目录添加到延迟扫描队列，同一目录的重复触发会重置计时器
func (ts *TaskScheduler) TriggerScan(dirPath string) {
	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	if ts.closed {
		return
	}
	// 如果这个目录已经有一个待定的扫描任务，就重置计时器
	if prev, ok := ts.pendingScans[dirPath]; ok {
		prev.timer.Stop()
	}
	// 启动一个新的计时器，延迟一段时间后执行扫描
	// 回调只比较 entry 指针，entry 在计时器启动前已创建
	entry := &pendingScan{}
	entry.timer = time.AfterFunc(ts.cfg.StabilityCheckInterval, func() {
		ts.performScan(dirPath)
		// 扫描完成后从队列中移除，重新调度产生的新条目保留
		ts.pendingScansMutex.Lock()
		if ts.pendingScans[dirPath] == entry {
			delete(ts.pendingScans, dirPath)
		}
		ts.pendingScansMutex.Unlock()
	})
	ts.pendingScans[dirPath] = entry
	ts.logger.Printf("Scheduled scan for %s in %v", dirPath, ts.cfg.StabilityCheckInterval)
}

// Pending 返回等待执行的扫描数量
func (ts *TaskScheduler) Pending() int {
	ts.pendingScansMutex.Lock()
	defer ts.pendingScansMutex.Unlock()
	return len(ts.pendingScans)
}

// Close 停止所有待定的扫描并取消正在进行的处理
func (ts *TaskScheduler) Close() {
	ts.pendingScansMutex.Lock()
	ts.closed = true
	for dir, entry := range ts.pendingScans {
		entry.timer.Stop()
		delete(ts.pendingScans, dir)
	}
	ts.pendingScansMutex.Unlock()
	ts.cancel()
}

// performScan 执行实际的歌词目录扫描和处理
func (ts *TaskScheduler) performScan(dir string) {
	ts.scanMutex.Lock() // 获取全局锁，避免并发处理同一个目录
	defer ts.scanMutex.Unlock()
	if ts.ctx.Err() != nil {
		return
	}
	ts.logger.Printf("-> Performing scan for changes in directory: %s", dir)
	if !ts.waitForFilesStability(dir) {
		if ts.ctx.Err() != nil {
			return
		}
		ts.logger.Printf("  -> Files in %s are still changing. Rescheduling scan.", dir)
		ts.TriggerScan(dir) // 重新调度一次扫描
		return
	}
	sources, err := ts.lyricScanner.ScanDirectory(dir)
	if err != nil {
		ts.logger.Printf("ERROR: Error scanning lyric directory %s: %v", dir, err)
		return
	}
	if len(sources) == 0 {
		ts.logger.Printf("No lyric sources found in %s after scan.", dir)
		return
	}
	n, err := ts.lyricProcessor.ProcessAll(ts.ctx, sources)
	if err != nil {
		ts.logger.Printf("WARN: Scan of %s interrupted: %v", dir, err)
		return
	}
	ts.logger.Printf("Scan of %s finished. %d of %d lyric sources processed.", dir, n, len(sources))
}

// waitForFilesStability 检查目录中的歌词文件是否稳定
func (ts *TaskScheduler) waitForFilesStability(dir string) bool {
	ts.logger.Printf("  -> Waiting for files in %s to stabilize for %v...", dir, ts.cfg.StabilityQuietDuration)
	previousFileStates := make(map[string]fileInfo)
	fileQuietTimes := make(map[string]time.Time)
	startOverallWait := time.Now()
	for time.Since(startOverallWait) < ts.cfg.StabilityMaxWait {
		currentCheckTime := time.Now()
		currentFileStates, err := snapshot(dir)
		if err != nil {
			ts.logger.Printf("ERROR: Error reading directory %s for stability check: %v", dir, err)
			if !ts.sleep() {
				return false
			}
			continue
		}
		if len(currentFileStates) == 0 {
			ts.logger.Printf("  -> No lyric files found in %s that require stability check. Proceeding.", dir)
			return true
		}

		allQuiet := true
		for filePath, info := range currentFileStates {
			prevInfo, exists := previousFileStates[filePath]
			if !exists || prevInfo.Size != info.Size || !prevInfo.ModTime.Equal(info.ModTime) {
				fileQuietTimes[filePath] = currentCheckTime
				allQuiet = false
				continue
			}
			if currentCheckTime.Sub(fileQuietTimes[filePath]) < ts.cfg.StabilityQuietDuration {
				allQuiet = false
			}
		}
		previousFileStates = currentFileStates
		if allQuiet {
			ts.logger.Printf("  -> All lyric files in %s are stable for at least %v.", dir, ts.cfg.StabilityQuietDuration)
			return true
		}
		if !ts.sleep() {
			return false
		}
	}
	ts.logger.Printf("  -> Max wait time for stability exceeded for %s. Files still active within %v or new files appeared.", dir, ts.cfg.StabilityQuietDuration)
	return false
}

// sleep 等待一个检查间隔，调度器关闭时返回 false
func (ts *TaskScheduler) sleep() bool {
	select {
	case <-ts.ctx.Done():
		return false
	case <-time.After(ts.cfg.StabilityCheckInterval):
		return true
	}
}

// snapshot 记录目录中每个歌词文件的大小与修改时间
func snapshot(dir string) (map[string]fileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	states := make(map[string]fileInfo)
	for _, entry := range entries {
		if entry.IsDir() || !util.IsLyricFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		states[filepath.Join(dir, entry.Name())] = fileInfo{Size: info.Size(), ModTime: info.ModTime()}
	}
	return states, nil
}

// pendingScan 是一个目录的待定扫描
type pendingScan struct {
	timer *time.Timer
}

// fileInfo 用于存储文件的关键信息
type fileInfo struct {
	Size    int64
	ModTime time.Time
}
