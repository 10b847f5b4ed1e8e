// Package viz turns compressed density fields into pictures.
//
//   - [Raster]: one pixel per cell, origin at the lower left, through a colormap
//   - [Scale]: resize to the output size
//   - [Overlay]: title and a rounded parameter box drawn on a frame
//   - [HalfBlocks], [Braille]: terminal previews
//   - [Progress]: Bubble Tea model that follows a running sweep
package viz
