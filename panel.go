package layers

import (
	"fmt"
	"strings"
)

type panelFolder struct {
	title    string
	controls []ParamName
}

// TweakPanel is a keyboard driven control panel over the parameter store.
// Every edit goes through the store's setters, so change listeners fire
// exactly as they would for any other caller.
type TweakPanel struct {
	Visible bool

	params   *Parameters
	defaults ParamValues
	folders  []panelFolder
	order    []ParamName
	selected int
	channel  int
}

func NewTweakPanel(params *Parameters, defaults ParamValues) *TweakPanel {
	folders := []panelFolder{
		{title: "Colors", controls: []ParamName{ParamColor1, ParamColor2}},
	}
	if params.HasBloom() {
		folders = append(folders, panelFolder{
			title:    "Bloom effect",
			controls: []ParamName{ParamBloomStrength, ParamBloomRadius, ParamBloomThreshold},
		})
	}
	folders = append(folders, panelFolder{
		title:    "Misc",
		controls: []ParamName{ParamRotationSpeed, ParamLayersDistance, ParamColorsSpeed},
	})

	panel := &TweakPanel{
		Visible:  true,
		params:   params,
		defaults: defaults,
		folders:  folders,
	}
	for _, f := range folders {
		panel.order = append(panel.order, f.controls...)
	}
	return panel
}

func (p *TweakPanel) Selected() ParamName {
	return p.order[p.selected]
}

func (p *TweakPanel) Channel() int {
	return p.channel
}

// Next and Prev move the selection, wrapping around.
func (p *TweakPanel) Next() {
	p.selected = (p.selected + 1) % len(p.order)
}

func (p *TweakPanel) Prev() {
	p.selected = (p.selected - 1 + len(p.order)) % len(p.order)
}

// SelectChannel picks which RGB channel color adjustments apply to.
func (p *TweakPanel) SelectChannel(channel int) {
	if channel >= 0 && channel < 3 {
		p.channel = channel
	}
}

// Adjust moves the selected control by steps times its step size, clamped to
// the control's range the way a slider would be.
func (p *TweakPanel) Adjust(steps float32) error {
	name := p.Selected()
	r := ParameterRanges[name]
	delta := steps * r.Step

	if IsColorParam(name) {
		c, err := p.params.Color(name)
		if err != nil {
			return err
		}
		c[p.channel] = clampRange(c[p.channel]+delta, r)
		return p.params.SetColor(name, c)
	}

	v, err := p.params.Scalar(name)
	if err != nil {
		return err
	}
	return p.params.SetScalar(name, clampRange(v+delta, r))
}

// Reset restores the values the panel was created with.
func (p *TweakPanel) Reset() {
	p.params.Reset(p.defaults)
}

func clampRange(v float32, r Range) float32 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Lines renders the panel as text, one control per line.
func (p *TweakPanel) Lines() []string {
	if !p.Visible {
		return []string{"[H] show controls"}
	}

	var lines []string
	for _, f := range p.folders {
		lines = append(lines, f.title)
		for _, name := range f.controls {
			marker := "  "
			if name == p.Selected() {
				marker = "> "
			}
			lines = append(lines, marker+p.formatControl(name, name == p.Selected()))
		}
	}
	lines = append(lines, "", "up/down select  left/right adjust  1-3 channel  R reset  S/L save/load  H hide")
	return lines
}

func (p *TweakPanel) formatControl(name ParamName, selected bool) string {
	label := fmt.Sprintf("%-16s", name)
	if IsColorParam(name) {
		c, _ := p.params.Color(name)
		parts := make([]string, 3)
		for i, v := range c {
			if selected && i == p.channel {
				parts[i] = fmt.Sprintf("[%3.0f]", v)
			} else {
				parts[i] = fmt.Sprintf(" %3.0f ", v)
			}
		}
		return label + strings.Join(parts, "")
	}
	v, _ := p.params.Scalar(name)
	return label + fmt.Sprintf("%6.2f", v)
}

// HandleInput applies one frame of keyboard input to the panel.
func (p *TweakPanel) HandleInput(input *Input) error {
	if input.JustPressed[KeyH] {
		p.Visible = !p.Visible
	}
	if !p.Visible {
		return nil
	}

	switch {
	case input.JustPressed[KeyDown]:
		p.Next()
	case input.JustPressed[KeyUp]:
		p.Prev()
	}

	for i, key := range []int{Key1, Key2, Key3} {
		if input.JustPressed[key] {
			p.SelectChannel(i)
		}
	}

	if input.JustPressed[KeyR] {
		p.Reset()
	}

	var steps float32
	if input.JustPressed[KeyRight] {
		steps++
	}
	if input.JustPressed[KeyLeft] {
		steps--
	}
	if steps == 0 {
		return nil
	}
	if input.Pressed[KeyShift] {
		steps *= 10
	}
	return p.Adjust(steps)
}

// PanelText marks the text entity the panel draws into.
type PanelText struct{}

type PanelModule struct {
	Defaults ParamValues
}

func (mod PanelModule) Install(app *App, cmd *Commands) {
	params := MustResource[Parameters](app)
	panel := NewTweakPanel(params, mod.Defaults)
	cmd.AddResources(panel)

	cmd.AddEntity(
		TextComponent{
			Text:     strings.Join(panel.Lines(), "\n"),
			Position: [2]float32{12, 12},
			Scale:    1,
			Color:    [4]float32{1, 1, 1, 0.9},
		},
		PanelText{},
	)

	app.UseSystem(
		System(panelInputSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(panelTextSystem).
			InStage(Update),
	)
}

func panelInputSystem(cmd *Commands, input *Input, panel *TweakPanel) {
	if err := panel.HandleInput(input); err != nil {
		cmd.Logger().Warnf("panel: %v", err)
	}
}

func panelTextSystem(cmd *Commands, panel *TweakPanel) {
	text := strings.Join(panel.Lines(), "\n")
	MakeQuery2[TextComponent, PanelText](cmd).Map(func(_ EntityId, tc *TextComponent, _ *PanelText) bool {
		tc.Text = text
		return true
	})
}
