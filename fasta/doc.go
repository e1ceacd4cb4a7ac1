/*
Package fasta provides routines for writing sequences in FASTA format.

The format used is the one described by NCBI:
http://blast.ncbi.nlm.nih.gov/blastcgihelp.shtml

Each entry is a single header line starting with '>' followed by the
sequence, wrapped at a fixed number of columns.
*/
package fasta
