// Package window shows charts in a native fyne window.
package window

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"github.com/joacominatel/rentalviz/internal/render/chart"
	"go.uber.org/zap"
)

const (
	appID        = "io.github.joacominatel.rentalviz"
	windowTitle  = "Rental reports"
	windowWidth  = 1100
	windowHeight = 700
)

// Window shows every chart as a tab in one native window. Fyne allows a
// single event loop per process, so all charts share that window.
type Window struct {
	logger *zap.Logger
}

// New creates a window viewer.
func New(logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Window{logger: logger}
}

// Display opens the window and blocks until it is closed or ctx is done.
func (w *Window) Display(ctx context.Context, charts []*chart.Chart) error {
	if len(charts) == 0 {
		return nil
	}

	a := app.NewWithID(appID)
	win := a.NewWindow(windowTitle)

	tabs := container.NewAppTabs()
	for _, c := range charts {
		img := canvas.NewImageFromFile(c.Path)
		img.FillMode = canvas.ImageFillContain
		tabs.Append(container.NewTabItem(c.Title, img))
		w.logger.Debug("chart tab added", zap.String("report", c.Report), zap.String("path", c.Path))
	}
	tabs.SetTabLocation(container.TabLocationTop)

	win.SetContent(tabs)
	win.Resize(fyne.NewSize(windowWidth, windowHeight))
	win.CenterOnScreen()

	stop := context.AfterFunc(ctx, func() {
		fyne.Do(a.Quit)
	})
	defer stop()

	win.ShowAndRun()
	return ctx.Err()
}
