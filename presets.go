package layers

import (
	"errors"
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoPreset           = errors.New("preset not found")
	ErrPresetsUnavailable = errors.New("preset storage unavailable")
)

const (
	presetObject      = "presets"
	presetDefaultSlot = "default"
)

// presetStorage is the part of *gdata.Manager presets need.
type presetStorage interface {
	ObjectPropExists(object, property string) bool
	LoadObjectProp(object, property string) ([]byte, error)
	SaveObjectProp(object, property string, data []byte) error
}

// Presets saves and restores parameter values by slot name. Without storage
// every call fails with ErrPresetsUnavailable and the demo keeps running.
type Presets struct {
	storage presetStorage
}

func NewPresets(storage presetStorage) *Presets {
	return &Presets{storage: storage}
}

func (p *Presets) Available() bool {
	return p.storage != nil
}

func (p *Presets) Save(slot string, values ParamValues) error {
	if p.storage == nil {
		return ErrPresetsUnavailable
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal preset %q: %w", slot, err)
	}
	if err := p.storage.SaveObjectProp(presetObject, slot, data); err != nil {
		return fmt.Errorf("save preset %q: %w", slot, err)
	}
	return nil
}

// Load reads a slot on top of fallback, so keys missing from an older preset
// keep their current value.
func (p *Presets) Load(slot string, fallback ParamValues) (ParamValues, error) {
	if p.storage == nil {
		return fallback, ErrPresetsUnavailable
	}
	if !p.storage.ObjectPropExists(presetObject, slot) {
		return fallback, fmt.Errorf("%w: %q", ErrNoPreset, slot)
	}
	data, err := p.storage.LoadObjectProp(presetObject, slot)
	if err != nil {
		return fallback, fmt.Errorf("load preset %q: %w", slot, err)
	}
	values := fallback
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fallback, fmt.Errorf("parse preset %q: %w", slot, err)
	}
	return values, nil
}

// PresetsModule binds S and L to saving and loading Slot. An empty AppName
// leaves presets disabled.
type PresetsModule struct {
	AppName string
	Slot    string
}

func (mod PresetsModule) Install(app *App, cmd *Commands) {
	logger := app.Logger()
	presets := NewPresets(nil)
	if mod.AppName != "" {
		manager, err := gdata.Open(gdata.Config{AppName: mod.AppName})
		if err != nil {
			logger.Warnf("presets: %v; saving disabled", err)
		} else {
			presets = NewPresets(manager)
		}
	}
	cmd.AddResources(presets, &presetSlot{name: mod.slot()})

	app.UseSystem(
		System(presetInputSystem).
			InStage(Update),
	)
}

func (mod PresetsModule) slot() string {
	if mod.Slot == "" {
		return presetDefaultSlot
	}
	return mod.Slot
}

type presetSlot struct {
	name string
}

func presetInputSystem(cmd *Commands, input *Input, presets *Presets, slot *presetSlot, params *Parameters) {
	logger := cmd.Logger()
	switch {
	case input.JustPressed[KeyS]:
		if err := presets.Save(slot.name, params.Snapshot()); err != nil {
			logger.Warnf("presets: %v", err)
			return
		}
		logger.Infof("presets: saved %q", slot.name)
	case input.JustPressed[KeyL]:
		values, err := presets.Load(slot.name, params.Snapshot())
		if err != nil {
			logger.Warnf("presets: %v", err)
			return
		}
		params.Reset(values)
		logger.Infof("presets: loaded %q", slot.name)
	}
}
