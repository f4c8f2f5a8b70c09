package main

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/cpurender"
)

// watch signals reload whenever script is written or replaced. The
// directory is watched rather than the file because editors often save
// by renaming a temporary file over the original.
func watch(script string, reload chan<- struct{}) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(script)); err != nil {
		_ = w.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != script {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case reload <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cpurender.Logger().Warn("cpuview: watcher", slog.Any("err", err))
			}
		}
	}()
	return w, nil
}
