package main

import (
	"image/color"
	"log"
	"os"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/caveflyer/common"
)

type pauseUI struct {
	ui *ebitenui.UI
}

// newPauseUI builds the pause menu in the arena palette: a translucent
// cave-blue panel with Resume, Rematch, and Quit stacked under the title.
func newPauseUI(g *Game) *pauseUI {
	mb := colornames.Midnightblue
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: mb.R, G: mb.G, B: mb.B, A: 0xc0})
	btnIdle := imageui.NewNineSliceColor(colornames.Darkslategray)
	btnPressed := imageui.NewNineSliceColor(colornames.Darkolivegreen)

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	textColor := &widget.ButtonTextColor{Idle: colornames.Whitesmoke}

	centered := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})
	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnIdle, Pressed: btnPressed}),
			widget.ButtonOpts.Text(label, &face, textColor),
			widget.ButtonOpts.WidgetOpts(centered),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 24, Bottom: 24, Left: 48, Right: 48}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.BaseWidth/4, common.BaseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("caveflyer", &face, colornames.Whitesmoke),
		widget.TextOpts.WidgetOpts(centered),
	))
	panel.AddChild(button("Resume", func() {
		g.paused = false
	}))
	panel.AddChild(button("Rematch", func() {
		if err := g.startRound(); err != nil {
			log.Printf("rematch: %v", err)
			return
		}
		g.paused = false
	}))
	panel.AddChild(button("Quit", func() {
		os.Exit(0)
	}))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &pauseUI{ui: &ebitenui.UI{Container: root}}
}

func (p *pauseUI) Update() {
	if p != nil && p.ui != nil {
		p.ui.Update()
	}
}

func (p *pauseUI) Draw(screen *ebiten.Image) {
	if p != nil && p.ui != nil {
		p.ui.Draw(screen)
	}
}
