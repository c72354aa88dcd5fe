package ui

import (
	"context"
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Subscriber streams frames from a mirror until ctx ends.
type Subscriber func(ctx context.Context, fn func(image.Image)) error

// NewViewerContent shows frames from subscribe in a read-only view.
func NewViewerContent(ctx context.Context, subscribe Subscriber, logger *slog.Logger) fyne.CanvasObject {
	view := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	view.FillMode = canvas.ImageFillContain
	statusBar := widget.NewLabel("Connecting...")

	go func() {
		err := subscribe(ctx, func(img image.Image) {
			fyne.Do(func() {
				view.Image = img
				view.Refresh()
				statusBar.SetText("Live")
			})
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("viewer disconnected", "err", err)
			fyne.Do(func() { statusBar.SetText("Disconnected: " + err.Error()) })
		}
	}()

	return container.NewBorder(nil, statusBar, nil, nil, view)
}

// RunViewer opens a read-only window following a mirror and blocks until
// it is closed.
func RunViewer(title string, subscribe Subscriber, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	myApp := app.NewWithID(appID + ".viewer")
	myWindow := myApp.NewWindow(title)
	myWindow.Resize(fyne.NewSize(560, 360))
	myWindow.SetContent(NewViewerContent(ctx, subscribe, logger))
	myWindow.ShowAndRun()
}
