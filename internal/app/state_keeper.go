package app

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/hummingbird/internal/constants"
	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/events"
	"github.com/cesargomez89/hummingbird/internal/library"
	"github.com/cesargomez89/hummingbird/internal/logger"
	"github.com/cesargomez89/hummingbird/internal/playback"
	"github.com/cesargomez89/hummingbird/internal/store"
)

// StateKeeper persists player settings as they change and restores them
// on startup, so the player comes back the way it was left. Writes are
// debounced because volume drags produce bursts of changes.
type StateKeeper struct {
	Settings *store.SettingsRepo
	Engine   *playback.Engine
	Index    *library.Index
	Bus      *events.Bus
	Logger   *logger.Logger

	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	subID    uuid.UUID
}

func NewStateKeeper(settings *store.SettingsRepo, engine *playback.Engine, index *library.Index, bus *events.Bus, log *logger.Logger) *StateKeeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &StateKeeper{
		Settings: settings,
		Engine:   engine,
		Index:    index,
		Bus:      bus,
		Logger:   log.WithComponent("state"),
		debounce: constants.StateSaveDebounce,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Restore applies the previously saved volume, shuffle, repeat and
// library view. Missing or unreadable settings keep their defaults.
func (k *StateKeeper) Restore() {
	if raw := k.get(store.SettingVolume); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			if err := k.Engine.SetVolume(v); err != nil {
				k.Logger.Warn("Failed to restore volume", "value", raw, "error", err)
			}
		}
	}
	if raw := k.get(store.SettingShuffle); raw != "" {
		if on, err := strconv.ParseBool(raw); err == nil {
			if err := k.Engine.SetShuffle(on); err != nil {
				k.Logger.Warn("Failed to restore shuffle", "value", raw, "error", err)
			}
		}
	}
	if raw := k.get(store.SettingRepeat); raw != "" {
		if err := k.Engine.SetRepeat(domain.RepeatMode(raw)); err != nil {
			k.Logger.Warn("Failed to restore repeat", "value", raw, "error", err)
		}
	}
	if raw := k.get(store.SettingLibraryView); raw != "" {
		if err := k.Index.SetView(domain.ViewMode(raw)); err != nil {
			k.Logger.Warn("Failed to restore library view", "value", raw, "error", err)
		}
	}
}

func (k *StateKeeper) get(key string) string {
	value, err := k.Settings.Get(key)
	if err != nil {
		k.Logger.Warn("Failed to read setting", "key", key, "error", err)
		return ""
	}
	return value
}

func (k *StateKeeper) Start() {
	id, ch := k.Bus.Subscribe(constants.EventBufferSize)
	k.subID = id
	k.wg.Add(1)
	go k.run(ch)
}

// Stop flushes any pending writes before returning.
func (k *StateKeeper) Stop() {
	k.cancel()
	k.Bus.Unsubscribe(k.subID)
	k.wg.Wait()
}

func (k *StateKeeper) run(ch <-chan events.Event) {
	defer k.wg.Done()

	pending := make(map[string]string)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-k.ctx.Done():
			drainSettings(ch, pending)
			k.flush(pending)
			return
		case ev, ok := <-ch:
			if !ok {
				k.flush(pending)
				return
			}
			key, value, ok := settingFor(ev)
			if !ok {
				continue
			}
			pending[key] = value
			if timer == nil {
				timer = time.NewTimer(k.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(k.debounce)
			}
		case <-fire:
			k.flush(pending)
			pending = make(map[string]string)
			timer = nil
			fire = nil
		}
	}
}

// drainSettings folds events still buffered at shutdown into pending,
// so the final flush does not miss them.
func drainSettings(ch <-chan events.Event, pending map[string]string) {
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if key, value, ok := settingFor(ev); ok {
				pending[key] = value
			}
		default:
			return
		}
	}
}

func (k *StateKeeper) flush(pending map[string]string) {
	for key, value := range pending {
		if err := k.Settings.Set(key, value); err != nil {
			k.Logger.Warn("Failed to persist setting", "key", key, "error", err)
		}
	}
}

func settingFor(ev events.Event) (key, value string, ok bool) {
	switch p := ev.Payload.(type) {
	case events.VolumeChange:
		return store.SettingVolume, strconv.FormatFloat(p.Volume, 'f', -1, 64), true
	case events.ShuffleChange:
		return store.SettingShuffle, strconv.FormatBool(p.Shuffle), true
	case events.RepeatChange:
		return store.SettingRepeat, string(p.Mode), true
	case events.LibraryChange:
		return store.SettingLibraryView, string(p.View), true
	}
	return "", "", false
}
