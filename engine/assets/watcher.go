package assets

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/scene"
)

// Loader builds a mesh layer from a file on disk.
type Loader interface {
	Load(path, name string) (scene.MeshLayer, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path, name string) (scene.MeshLayer, error)

func (f LoaderFunc) Load(path, name string) (scene.MeshLayer, error) {
	return f(path, name)
}

/**
 * @brief Watches mesh files on disk. Whenever a watched file is written a
 * fresh layer is loaded and posted to the bus as
 * EVENT_CODE_MESH_FILE_RELOADED; it reaches the scene on the next
 * EventBus.Pump. Directories are watched rather than files so editors that
 * replace the file on save are still picked up.
 */
type Watcher struct {
	bus    *core.EventBus
	loader Loader

	mutex sync.RWMutex
	// absolute file path -> layer name
	files map[string]string
	// watched directory -> number of files in it
	dirs map[string]int

	fsnotify *fsnotify.Watcher
	isClosed bool
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewWatcher(bus *core.EventBus, loader Loader) (*Watcher, error) {
	if bus == nil || loader == nil {
		return nil, fmt.Errorf("%w: watcher needs a bus and a loader", core.ErrInvalidConfig)
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		bus:      bus,
		loader:   loader,
		files:    make(map[string]string),
		dirs:     make(map[string]int),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Open loads the file, publishes it as EVENT_CODE_MESH_FILE_OPENED and starts
// watching it.
func (w *Watcher) Open(path, name string) (scene.MeshLayer, error) {
	layer, err := w.loader.Load(path, name)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path, layer.Name()); err != nil {
		return nil, err
	}
	w.bus.Fire(core.EventContext{
		Type: core.EVENT_CODE_MESH_FILE_OPENED,
		Data: layer,
	})
	return layer, nil
}

// Watch starts watching path. Changes are reloaded under the given layer name.
func (w *Watcher) Watch(path, name string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return core.ErrWatcherClosed
	}
	if _, ok := w.files[abs]; ok {
		w.files[abs] = name
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsnotify.Add(dir); err != nil {
			return fmt.Errorf("watch '%s': %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = name
	core.LogDebug("watching '%s' as layer '%s'", abs, name)
	return nil
}

// Unwatch stops watching path. Unknown paths are ignored.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return core.ErrWatcherClosed
	}
	return w.forget(abs)
}

// forget must be called with the mutex held.
func (w *Watcher) forget(abs string) error {
	if _, ok := w.files[abs]; !ok {
		return nil
	}
	delete(w.files, abs)

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	return w.fsnotify.Remove(dir)
}

// Watched returns the layer name a path is watched under.
func (w *Watcher) Watched(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	name, ok := w.files[abs]
	return name, ok
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			w.handleFileEvent(e)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("file watcher: %s", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleFileEvent(e fsnotify.Event) {
	abs, err := filepath.Abs(e.Name)
	if err != nil {
		return
	}

	w.mutex.Lock()
	name, ok := w.files[abs]
	if !ok {
		w.mutex.Unlock()
		return
	}
	if e.Has(fsnotify.Remove) {
		if err := w.forget(abs); err != nil {
			core.LogWarn("failed to stop watching '%s': %s", abs, err)
		}
		w.mutex.Unlock()
		core.LogInfo("'%s' was removed, no longer watching it", abs)
		return
	}
	w.mutex.Unlock()

	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	w.reload(abs, name)
}

func (w *Watcher) reload(path, name string) {
	layer, err := w.loader.Load(path, name)
	if err != nil {
		core.LogError("failed to reload '%s': %s", path, err)
		return
	}
	core.LogInfo("reloading layer '%s' from '%s'", name, path)
	w.bus.Post(core.EventContext{
		Type: core.EVENT_CODE_MESH_FILE_RELOADED,
		Data: layer,
	})
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return core.ErrWatcherClosed
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.fsnotify.Close()
}
