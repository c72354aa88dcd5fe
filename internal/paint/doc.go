// Package paint is the raster surface the pad draws on.
//
// A Surface owns an RGBA pixel buffer and a gg drawing context bound to it.
// Strokes are drawn as independent round-capped segments, so a polyline
// built from successive segments has round joins as well.
package paint
