// Package aseprite implements a decoder for Aseprite sprite files (.ase,
// .aseprite).
//
// Decoding produces a Document: canvas size and colour mode, frames with
// their cels, layers, animation tags and slices. Cel pixels are converted
// to premultiplied RGBA on the way in; linked cels share the pixel buffer of
// the cel they point at. The package registers itself with the image package
// so image.Decode returns the composited first frame.
//
// The file layout is documented at
// https://github.com/aseprite/aseprite/blob/main/docs/ase-file-specs.md.
// Tilemaps, tilesets, masks, paths, colour profiles and the old palette
// chunks are skipped.
package aseprite
