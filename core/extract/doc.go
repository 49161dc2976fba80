// Package extract turns project snapshots into entity.EntitySet values and
// back.
//
// Three snapshot sources are supported:
//
//   - a directory of per-artifact text files following the export naming
//     convention ({name}.prg.st, {name}.fb.st, {name}.fun.st, {name}.gvl.st,
//     {Owner}_{Method}.meth.st, {name}.aoi.sc, {name}.udt.sc)
//   - a single PLCopen-style XML export, walked for POU, method and GVL
//     nodes
//   - an object storage prefix ("s3://bucket/prefix") holding the same
//     per-artifact files
//
// Resolve picks the source form from a reference string so every command
// accepts any of the three interchangeably.
//
// WriteDir is the inverse of directory extraction: it materializes an
// EntitySet as a file tree with metadata header comments. Extraction strips
// those headers back into CodeUnit.Metadata, so a write/extract round trip
// yields byte-identical bodies.
//
// Extraction is a pure function of its input: it never mutates the source
// and two extractions of the same snapshot produce identical sets.
package extract
