// Package csvio connects delimited text to header-tagged streams.
//
// NewReader decodes an io.Reader into a tabstream.Stream whose first
// element is the header line; the reader reports the source line of every
// record, so Pad can name the offending line of a row that is too long.
// Write encodes a stream back into delimited text. SelectFrom is the
// end-to-end entry point: it opens an object from storage, decodes and pads
// it, and yields the selected columns, releasing the object on every exit
// path.
package csvio
