package layers

import (
	"errors"
	"fmt"
)

var ErrUnknownParameter = errors.New("unknown parameter")

type ParamName string

const (
	ParamRotationSpeed  ParamName = "rotation_speed"
	ParamLayersDistance ParamName = "layers_distance"
	ParamColorsSpeed    ParamName = "colors_speed"
	ParamColor1         ParamName = "color1"
	ParamColor2         ParamName = "color2"
	ParamBloomStrength  ParamName = "bloom.strength"
	ParamBloomRadius    ParamName = "bloom.radius"
	ParamBloomThreshold ParamName = "bloom.threshold"
)

// RGB holds color channels in the 0..255 range used by the tweak panel.
type RGB [3]float32

// Normalized maps channels to the 0..1 range expected by shaders.
func (c RGB) Normalized() [3]float32 {
	return [3]float32{c[0] / 255, c[1] / 255, c[2] / 255}
}

// Range is the advisory UI range of a numeric control. It is never enforced.
type Range struct {
	Min, Max, Step float32
}

var ParameterRanges = map[ParamName]Range{
	ParamRotationSpeed:  {Min: -5, Max: 5, Step: 0.1},
	ParamLayersDistance: {Min: 0.5, Max: 1.5, Step: 0.01},
	ParamColorsSpeed:    {Min: -5, Max: 5, Step: 0.1},
	ParamColor1:         {Min: 0, Max: 255, Step: 1},
	ParamColor2:         {Min: 0, Max: 255, Step: 1},
	ParamBloomStrength:  {Min: 0, Max: 2, Step: 0.05},
	ParamBloomRadius:    {Min: 0, Max: 1, Step: 0.01},
	ParamBloomThreshold: {Min: 0, Max: 1, Step: 0.01},
}

type BloomParams struct {
	Strength  float32 `yaml:"strength"`
	Radius    float32 `yaml:"radius"`
	Threshold float32 `yaml:"threshold"`
}

// ParamValues is a plain copy of every tunable.
type ParamValues struct {
	RotationSpeed  float32     `yaml:"rotation_speed"`
	LayersDistance float32     `yaml:"layers_distance"`
	ColorsSpeed    float32     `yaml:"colors_speed"`
	Color1         RGB         `yaml:"color1"`
	Color2         RGB         `yaml:"color2"`
	Bloom          BloomParams `yaml:"bloom"`
}

// ChangeListener is called synchronously after every set.
type ChangeListener func(name ParamName, params *Parameters)

// Parameters is the live parameter store. Values written through a setter are
// visible to the next read; there is no batching.
type Parameters struct {
	values    ParamValues
	hasBloom  bool
	listeners []ChangeListener
}

func NewParameters(values ParamValues, hasBloom bool) *Parameters {
	return &Parameters{values: values, hasBloom: hasBloom}
}

// OnChange registers a listener for every subsequent set.
func (p *Parameters) OnChange(listener ChangeListener) {
	p.listeners = append(p.listeners, listener)
}

func (p *Parameters) notify(name ParamName) {
	for _, listener := range p.listeners {
		listener(name, p)
	}
}

func (p *Parameters) HasBloom() bool { return p.hasBloom }

func (p *Parameters) Snapshot() ParamValues { return p.values }

func (p *Parameters) RotationSpeed() float32  { return p.values.RotationSpeed }
func (p *Parameters) LayersDistance() float32 { return p.values.LayersDistance }
func (p *Parameters) ColorsSpeed() float32    { return p.values.ColorsSpeed }
func (p *Parameters) Color1() RGB             { return p.values.Color1 }
func (p *Parameters) Color2() RGB             { return p.values.Color2 }
func (p *Parameters) Bloom() BloomParams      { return p.values.Bloom }

func (p *Parameters) SetRotationSpeed(v float32) {
	p.values.RotationSpeed = v
	p.notify(ParamRotationSpeed)
}

func (p *Parameters) SetLayersDistance(v float32) {
	p.values.LayersDistance = v
	p.notify(ParamLayersDistance)
}

func (p *Parameters) SetColorsSpeed(v float32) {
	p.values.ColorsSpeed = v
	p.notify(ParamColorsSpeed)
}

func (p *Parameters) SetColor1(c RGB) {
	p.values.Color1 = c
	p.notify(ParamColor1)
}

func (p *Parameters) SetColor2(c RGB) {
	p.values.Color2 = c
	p.notify(ParamColor2)
}

func (p *Parameters) SetBloomStrength(v float32) {
	p.values.Bloom.Strength = v
	p.notify(ParamBloomStrength)
}

func (p *Parameters) SetBloomRadius(v float32) {
	p.values.Bloom.Radius = v
	p.notify(ParamBloomRadius)
}

func (p *Parameters) SetBloomThreshold(v float32) {
	p.values.Bloom.Threshold = v
	p.notify(ParamBloomThreshold)
}

// Reset replaces every value and notifies once per parameter.
func (p *Parameters) Reset(values ParamValues) {
	p.values = values
	for _, name := range p.Names() {
		p.notify(name)
	}
}

// Names lists the parameters this store exposes, in panel order.
func (p *Parameters) Names() []ParamName {
	names := []ParamName{ParamRotationSpeed, ParamLayersDistance, ParamColorsSpeed, ParamColor1, ParamColor2}
	if p.hasBloom {
		names = append(names, ParamBloomStrength, ParamBloomRadius, ParamBloomThreshold)
	}
	return names
}

// Scalar reads a numeric parameter by name.
func (p *Parameters) Scalar(name ParamName) (float32, error) {
	switch name {
	case ParamRotationSpeed:
		return p.values.RotationSpeed, nil
	case ParamLayersDistance:
		return p.values.LayersDistance, nil
	case ParamColorsSpeed:
		return p.values.ColorsSpeed, nil
	case ParamBloomStrength:
		return p.values.Bloom.Strength, nil
	case ParamBloomRadius:
		return p.values.Bloom.Radius, nil
	case ParamBloomThreshold:
		return p.values.Bloom.Threshold, nil
	}
	return 0, fmt.Errorf("scalar %q: %w", name, ErrUnknownParameter)
}

// SetScalar writes a numeric parameter by name.
func (p *Parameters) SetScalar(name ParamName, v float32) error {
	switch name {
	case ParamRotationSpeed:
		p.SetRotationSpeed(v)
	case ParamLayersDistance:
		p.SetLayersDistance(v)
	case ParamColorsSpeed:
		p.SetColorsSpeed(v)
	case ParamBloomStrength:
		p.SetBloomStrength(v)
	case ParamBloomRadius:
		p.SetBloomRadius(v)
	case ParamBloomThreshold:
		p.SetBloomThreshold(v)
	default:
		return fmt.Errorf("set scalar %q: %w", name, ErrUnknownParameter)
	}
	return nil
}

// Color reads a color parameter by name.
func (p *Parameters) Color(name ParamName) (RGB, error) {
	switch name {
	case ParamColor1:
		return p.values.Color1, nil
	case ParamColor2:
		return p.values.Color2, nil
	}
	return RGB{}, fmt.Errorf("color %q: %w", name, ErrUnknownParameter)
}

// SetColor writes a color parameter by name.
func (p *Parameters) SetColor(name ParamName, c RGB) error {
	switch name {
	case ParamColor1:
		p.SetColor1(c)
	case ParamColor2:
		p.SetColor2(c)
	default:
		return fmt.Errorf("set color %q: %w", name, ErrUnknownParameter)
	}
	return nil
}

func IsColorParam(name ParamName) bool {
	return name == ParamColor1 || name == ParamColor2
}

// ParametersModule installs the store seeded with Values.
type ParametersModule struct {
	Values   ParamValues
	HasBloom bool
}

func (mod ParametersModule) Install(app *App, cmd *Commands) {
	params := NewParameters(mod.Values, mod.HasBloom)
	logger := app.Logger()
	params.OnChange(func(name ParamName, p *Parameters) {
		if !logger.DebugEnabled() {
			return
		}
		if IsColorParam(name) {
			c, _ := p.Color(name)
			logger.Debugf("param %s = %v", name, c)
			return
		}
		v, _ := p.Scalar(name)
		logger.Debugf("param %s = %.3f", name, v)
	})
	cmd.AddResources(params)
}
