package board

import (
	"context"

	"SignaturePad/internal/speech"
)

// Dictate recognizes one utterance in the background and annotates the
// board with the transcript. Failures are logged and leave the board
// untouched. The returned channel yields the outcome once.
func (b *Board) Dictate(ctx context.Context, rec speech.Recognizer, opts speech.Options) <-chan error {
	done := make(chan error, 1)
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		res, err := rec.Recognize(ctx, opts)
		if err != nil {
			b.log.Error("speech recognition error", "err", err)
			done <- err
			return
		}
		b.log.Info("recognized text", "transcript", res.Transcript)
		done <- b.Annotate(res.Transcript)
	}()
	return done
}
