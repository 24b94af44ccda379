// Package editor holds the state of one template editing session.
//
// A [Session] is the single source of truth for the style, schedule, element
// overrides and visible elements of the active template. Components do not
// share globals: they subscribe to topics and read snapshots.
//
//	sess, err := editor.New(ctx, reg, "studio", editor.WithStore(store))
//	unsubscribe := sess.Subscribe(editor.StyleUpdated, func(e editor.Event) {
//	    redraw(e.State)
//	})
//	sess.ApplyStyle(style.Style{AccentColor: "#00C2A8"})
//
// Listeners run synchronously, in registration order, on the goroutine that
// made the change, after the session lock is released.
//
// # Uploads
//
// [Session.UploadLogo] and [Session.UploadBackground] are optimistic: the
// style points at a preview://<uuid> URL while the upload runs, is swapped to
// the stored URL on success and rolled back on failure. Uploads are not
// cancelled by later edits, so a slow response may overwrite a newer image.
//
// # Measurement
//
// [Session.Attach] connects a [measure.Observer] to the live preview. Item
// count and visibility changes invalidate the observation; every new reading
// is published on [MetricsUpdated].
package editor
