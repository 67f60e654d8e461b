// Package pipeline runs directory mode: discover every .tga/.dds file under
// the input root, mirror each into the output root as a .png through the
// single-file converter, and report totals.
//
// Files are processed sequentially in sorted order. A failing file is logged
// and counted; it never stops the run.
package pipeline
