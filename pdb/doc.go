/*
Package pdb provides minimal support for reading and rewriting files in the
legacy PDB text format. Two views of a file are offered.

A Record is the file as an ordered list of fixed-width lines. It is never
modified in place: residue extraction reads from it, and applying point
mutations produces a new Record whose lines correspond one-for-one with the
original. Mutations only rewrite the residue name columns of ATOM records;
coordinates are left alone, so a mutated Record is a relabeled structure, not
a remodeled one.

An Entry is a parsed view of the chains, SEQRES sequences and ATOM
coordinates in a file, which is enough to summarize chains, export sequences
and compute alpha-carbon RMSD.

Anything in a PDB file that isn't protein related is ignored.
*/
package pdb
