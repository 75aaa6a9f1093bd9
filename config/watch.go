package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 监听配置文件变更，重新加载后回调。
// 监听所在目录而非文件本身，编辑器"写临时文件再 rename"的保存方式也能触发。
// debounce 窗口内的多次写入只触发一次重载，避免读到写了一半的文件。
type Watcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher

	onUpdate func(AppConfig)
	onError  func(error)

	mu         sync.Mutex
	lastReload time.Time
	stopChan   chan struct{}
	doneChan   chan struct{}
	stopOnce   sync.Once
}

// NewWatcher 创建配置监听器
func NewWatcher(path string, debounce time.Duration, onUpdate func(AppConfig), onError func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		watcher:  fw,
		onUpdate: onUpdate,
		onError:  onError,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}, nil
}

// Start 开始监听，非阻塞
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch config dir: %w", err)
	}
	go w.loop(ctx)
	return nil
}

// Stop 停止监听并释放 fsnotify 资源，可重复调用
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		select {
		case <-w.doneChan:
		case <-time.After(time.Second):
			// Start 未调用时 loop 不存在
		}
	})
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneChan)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.reportError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadWithEnvOverrides(w.path)
	if err != nil {
		w.reportError(fmt.Errorf("reload config: %w", err))
		return
	}
	w.mu.Lock()
	w.lastReload = time.Now()
	w.mu.Unlock()
	if w.onUpdate != nil {
		w.onUpdate(cfg)
	}
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

// LastReload 最后一次成功重载的时间
func (w *Watcher) LastReload() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastReload
}
