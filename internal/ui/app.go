package ui

import (
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"SignaturePad/internal/board"
	"SignaturePad/internal/speech"
)

const appID = "io.signaturepad"

type Options struct {
	SaveDir       string
	Recognizer    speech.Recognizer
	SpeechOptions speech.Options
	SpeechTimeout time.Duration
	// ShareLink is shown in the status bar when the mirror is running.
	ShareLink string
	Logger    *slog.Logger
}

// NewPadContent assembles toolbar, pad and status bar for win.
func NewPadContent(b *board.Board, win fyne.Window, opts Options) fyne.CanvasObject {
	statusBar := widget.NewLabel("Ready")
	if opts.ShareLink != "" {
		statusBar.SetText("Viewers can open " + opts.ShareLink)
	}
	status := func(text string) {
		fyne.Do(func() { statusBar.SetText(text) })
	}

	pad := NewPadWidget(b)
	toolbar := NewToolbar(b, win, opts, status)
	return container.NewBorder(toolbar.Object(), statusBar, nil, nil, pad)
}

// RunApp opens the pad window and blocks until it is closed.
func RunApp(b *board.Board, opts Options) {
	myApp := app.NewWithID(appID)
	myWindow := myApp.NewWindow("Signature Pad")
	myWindow.Resize(fyne.NewSize(900, 480))

	myWindow.SetContent(NewPadContent(b, myWindow, opts))
	myWindow.ShowAndRun()
}
