// Package text measures text content for layout.
//
// The pipeline mirrors the usual split between heavyweight and lightweight
// resources:
//
//   - FontSource: a parsed font file, shared across the application
//   - FontSet: named sources, with the Go Regular font as the fallback
//   - Shaper: HarfBuzz shaping via go-text/typesetting, with a word cache
//   - Block: the per-node content buffer holding shaped words
//
// A Pipeline turns a string and a Style into a Block plus a MeasureInfo
// carrying the min-content and max-content sizes:
//
//	p := text.NewPipeline(text.NewFontSet(), 1024)
//	var block text.Block
//	info, err := p.CreateMeasure("Hello, moon", text.Style{Size: 16}, 2, &block)
//	size, err := block.ComputeSize(info, 120)
//
// All lengths produced by the pipeline are in the scaled (physical) pixel
// space requested by the caller.
package text
